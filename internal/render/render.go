// Package render turns the styled HTML report into a paginated PDF.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"factflow/internal/util"
)

type Renderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// Verify parses doc and returns its page count. A document that does not
// parse or has no pages fails with util.ErrInvalidPDF.
func Verify(doc []byte) (pages int, err error) {
	defer func() {
		// The pdf reader panics on some truncated inputs.
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("%w: %v", util.ErrInvalidPDF, r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", util.ErrInvalidPDF, err)
	}
	n := r.NumPage()
	if n < 1 {
		return 0, fmt.Errorf("%w: no pages", util.ErrInvalidPDF)
	}
	return n, nil
}
