// Package rendertest provides an in-process renderer for tests that need a
// real, parseable PDF without a browser.
package rendertest

import (
	"bytes"
	"context"
	"fmt"
	"sync"
)

// MinimalPDF builds a valid PDF with the given number of blank pages.
func MinimalPDF(pages int) []byte {
	if pages < 0 {
		pages = 0
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
	}
	kids := new(bytes.Buffer)
	for i := 0; i < pages; i++ {
		fmt.Fprintf(kids, "%d 0 R ", i+3)
	}
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids.String(), pages))
	for i := 0; i < pages; i++ {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>")
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

// Renderer records the HTML it receives and answers with a one page PDF, or
// with Err when set.
type Renderer struct {
	Err error

	mu    sync.Mutex
	calls [][]byte
}

func (r *Renderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]byte(nil), html...))
	r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return MinimalPDF(1), nil
}

func (r *Renderer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *Renderer) LastHTML() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}
