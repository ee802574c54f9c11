package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements locsearch.Converter at compile time.
var _ locsearch.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts paragraphs and headings", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h1>France</h1><p>Paris is the capital of France.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# France")
		assert.Contains(t, md, "Paris is the capital of France.")
	})

	t.Run("keeps tables as markdown tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>City</th><th>Population</th></tr></thead>
<tbody><tr><td>Paris</td><td>2102650</td></tr></tbody>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "| City")
		assert.Contains(t, md, "| Paris")
		assert.Contains(t, md, "2102650")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<ul><li>Lyon</li><li>Marseille</li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- Lyon")
		assert.Contains(t, md, "- Marseille")
	})

	t.Run("rejects blank input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("  ")

		require.Error(t, err)
		assert.Equal(t, locsearch.EINVALID, locsearch.ErrorCode(err))
	})
}
