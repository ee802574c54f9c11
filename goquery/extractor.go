// Package goquery provides a DOM-walking text extractor used as the last
// resort when the content-scoring extractors return nothing.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/locsearch"
)

// Ensure Extractor implements locsearch.Extractor at compile time.
var _ locsearch.Extractor = (*Extractor)(nil)

// boilerplateSelector matches elements that never carry main content.
const boilerplateSelector = "script, style, noscript, template, iframe, svg, form, nav, header, footer, aside"

// commentSelector matches common comment-section containers.
// Class names are matched as whole tokens.
const commentSelector = "#comments, #respond, #disqus_thread, .comments, .comment, .comment-list, .commentlist, " +
	".comments-area, .comment-section, [id^='comment-']"

// rootSelector matches content roots that are never removed as comments.
const rootSelector = "html, body, main, article, [role='main']"

// blockSelector matches elements whose text becomes one output line.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, dt, dd, figcaption"

// Extractor returns the visible text of a page with boilerplate and comment
// sections removed. Tables are rendered as tab-separated rows.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text content of rawHTML.
func (e *Extractor) Extract(rawHTML, _ string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	doc.Find(boilerplateSelector).Remove()
	doc.Find(commentSelector).Not(rootSelector).Remove()
	flattenTables(doc.Selection)

	root := doc.Find("main, article, [role='main']").First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var lines []string
	root.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		// Nested blocks are emitted with their outermost ancestor.
		if sel.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		var text string
		if goquery.NodeName(sel) == "pre" {
			text = strings.TrimSpace(sel.Text())
		} else {
			text = collapseSpace(sel.Text())
		}
		if text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		return collapseSpace(root.Text())
	}
	return strings.Join(lines, "\n")
}

// flattenTables replaces every table with a <pre> of tab-separated rows.
func flattenTables(s *goquery.Selection) {
	s.Find("table").Each(func(_ int, table *goquery.Selection) {
		// Nested tables end up in their enclosing cell's text.
		if table.ParentsFiltered("table").Length() > 0 {
			return
		}

		var rows []string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, collapseSpace(cell.Text()))
			})
			if row := strings.Join(cells, "\t"); strings.TrimSpace(row) != "" {
				rows = append(rows, row)
			}
		})

		pre := "<pre>" + escapeText(strings.Join(rows, "\n")) + "</pre>"
		table.ReplaceWithHtml(pre)
	})
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
