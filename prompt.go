package locsearch

import (
	"fmt"
	"strings"
)

// DefaultMaxContentChars bounds the content of each source in a prompt.
const DefaultMaxContentChars = 2000

// SourceDelimiter separates source blocks in a prompt.
const SourceDelimiter = "\n\n---\n\n"

const promptHeader = `Based on the following web search results, please answer the question.
Provide a concise answer (2-4 sentences) and cite the facts using the provided URLs.
If the information is not present in the results, state that you could not find a relevant answer.

Web Results:
`

// Truncate cuts s to at most n characters. The cut is not sentence-aware.
// A non-positive n returns s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// FormatSource renders a single source block.
func FormatSource(src *Source) string {
	return fmt.Sprintf("Title: %s\nURL: %s\nContent: %s", src.Title, src.URL, src.Content)
}

// BuildPrompt assembles the generation prompt from the sources, in order,
// followed by the question. The output depends only on its inputs.
func BuildPrompt(sources []*Source, query string) string {
	blocks := make([]string, 0, len(sources))
	for _, src := range sources {
		blocks = append(blocks, FormatSource(src))
	}

	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString(strings.Join(blocks, SourceDelimiter))
	sb.WriteString("\n\n---\n")
	fmt.Fprintf(&sb, "Question: %s\n\nAnswer:", query)
	return sb.String()
}
