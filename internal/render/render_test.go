package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"factflow/internal/render/rendertest"
	"factflow/internal/util"
)

func TestVerifyCountsPages(t *testing.T) {
	n, err := Verify(rendertest.MinimalPDF(2))
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	for _, doc := range [][]byte{nil, []byte("<html>not a pdf</html>"), rendertest.MinimalPDF(0)} {
		_, err := Verify(doc)
		require.ErrorIs(t, err, util.ErrInvalidPDF)
	}
}
