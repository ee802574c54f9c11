package goquery_test

import (
	"testing"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/goquery"
	"github.com/stretchr/testify/assert"
)

// Ensure Extractor implements locsearch.Extractor at compile time.
var _ locsearch.Extractor = (*goquery.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns paragraph text one block per line", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1>France</h1>
<p>Paris is the   capital
of France.</p>
<ul><li>Lyon</li><li><p>Marseille</p></li></ul>
</body></html>`

		text := goquery.NewExtractor().Extract(html, "")

		assert.Equal(t, "France\nParis is the capital of France.\nLyon\nMarseille", text)
	})

	t.Run("prefers main element over body", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="promo"><p>Subscribe now</p></div>
<main><p>Main content here.</p></main>
</body></html>`

		text := goquery.NewExtractor().Extract(html, "")

		assert.Equal(t, "Main content here.", text)
	})

	t.Run("removes boilerplate and scripts", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><style>p{}</style></head><body>
<nav><p>Home</p></nav>
<p>Body text.</p>
<script>var x = "tracking";</script>
<footer><p>Copyright</p></footer>
</body></html>`

		text := goquery.NewExtractor().Extract(html, "")

		assert.Equal(t, "Body text.", text)
	})

	t.Run("excludes comment sections", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<article><p>Article body.</p></article>
<div id="comments"><p>First!</p></div>
<ol class="comment-list"><li>Nice post</li></ol>
</body></html>`

		text := goquery.NewExtractor().Extract(html, "")

		assert.Equal(t, "Article body.", text)
	})

	t.Run("keeps page when body class mentions comments", func(t *testing.T) {
		t.Parallel()

		html := `<html><body class="single post comments-open"><p>Paris is the capital of France.</p></body></html>`

		text := goquery.NewExtractor().Extract(html, "")

		assert.Equal(t, "Paris is the capital of France.", text)
	})

	t.Run("keeps containers whose class only contains the word comments", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<main class="has-comments"><div class="post-comments-count"><p>Main text.</p></div></main>
</body></html>`

		text := goquery.NewExtractor().Extract(html, "")

		assert.Equal(t, "Main text.", text)
	})

	t.Run("never removes the content root", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article class="comment"><p>Root text.</p></article></body></html>`

		text := goquery.NewExtractor().Extract(html, "")

		assert.Equal(t, "Root text.", text)
	})

	t.Run("renders tables as tab separated rows", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><main>
<p>Largest cities:</p>
<table>
<tr><th>City</th><th>Population</th></tr>
<tr><td>Paris</td><td>2 102 650</td></tr>
<tr><td>Marseille &amp; region</td><td>873 076</td></tr>
</table>
</main></body></html>`

		text := goquery.NewExtractor().Extract(html, "")

		assert.Equal(t, "Largest cities:\nCity\tPopulation\nParis\t2 102 650\nMarseille & region\t873 076", text)
	})

	t.Run("falls back to raw text without block elements", func(t *testing.T) {
		t.Parallel()

		text := goquery.NewExtractor().Extract("<html><body><div>Just   a div</div></body></html>", "")

		assert.Equal(t, "Just a div", text)
	})

	t.Run("returns empty for empty input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, goquery.NewExtractor().Extract("", ""))
		assert.Empty(t, goquery.NewExtractor().Extract("<html><body></body></html>", ""))
	})
}
