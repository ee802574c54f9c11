package http

import (
	"bytes"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/locsearch"
	"golang.org/x/net/html"
)

// ParseFeed extracts search results from an RSS or Atom document.
// Results are returned in document order; entries without a link are
// skipped. Parsing is permissive: a malformed or truncated document yields
// every entry read before the damage together with a non-nil error.
func ParseFeed(data []byte) ([]locsearch.SearchResult, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true

	// The partially built tree is kept on error.
	_, readErr := doc.ReadFrom(bytes.NewReader(data))

	results := []locsearch.SearchResult{}
	for _, entry := range feedEntries(&doc.Element) {
		res := parseEntry(entry)
		if res.URL == "" {
			continue
		}
		results = append(results, res)
	}

	if readErr != nil {
		return results, locsearch.Errorf(locsearch.EBACKEND, "malformed feed: %v", readErr)
	}
	return results, nil
}

// feedEntries returns RSS <item> and Atom <entry> elements in document order.
func feedEntries(root *etree.Element) []*etree.Element {
	var entries []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			switch child.Tag {
			case "item", "entry":
				entries = append(entries, child)
			default:
				walk(child)
			}
		}
	}
	walk(root)
	return entries
}

func parseEntry(entry *etree.Element) locsearch.SearchResult {
	var res locsearch.SearchResult
	var summary, content string

	for _, child := range entry.ChildElements() {
		switch child.Tag {
		case "title":
			if res.Title == "" {
				res.Title = plainText(child.Text())
			}
		case "link":
			if res.URL == "" {
				res.URL = entryLink(child)
			}
		case "description", "summary":
			if summary == "" {
				summary = plainText(child.Text())
			}
		case "content":
			if content == "" {
				content = plainText(child.Text())
			}
		}
	}

	res.Snippet = summary
	if res.Snippet == "" {
		res.Snippet = content
	}
	return res
}

// entryLink reads an RSS <link>text</link> or an Atom <link href=""/>.
// Atom links with a rel other than "alternate" are ignored.
func entryLink(e *etree.Element) string {
	if text := strings.TrimSpace(e.Text()); text != "" && e.Space == "" {
		return text
	}
	href := strings.TrimSpace(e.SelectAttrValue("href", ""))
	switch e.SelectAttrValue("rel", "alternate") {
	case "alternate", "":
		return href
	}
	return ""
}

// plainText strips markup from feed text and collapses whitespace.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			sb.Write(z.Text())
			sb.WriteByte(' ')
		}
	}
}
