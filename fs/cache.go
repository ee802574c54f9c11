// Package fs provides a file-based page cache for locsearch.
package fs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/locsearch"
)

// Ensure Cache implements locsearch.Cache at compile time.
var _ locsearch.Cache = (*Cache)(nil)

// Cache implements locsearch.Cache with one file per URL.
// Files are written to a temporary name and renamed into place, so readers
// never observe a partial entry and the last writer wins.
type Cache struct {
	dir string
}

// NewCache creates a Cache rooted at dir. The directory is created on first write.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// EntryPath returns the file that holds the entry for url.
// The name is derived from the exact URL string.
func (c *Cache) EntryPath(url string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x.md", xxhash.Sum64String(url)))
}

// Get reads the entry for url.
func (c *Cache) Get(ctx context.Context, url string) (*locsearch.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "cache read: %v", err)
	}

	f, err := os.Open(c.EntryPath(url))
	if errors.Is(err, os.ErrNotExist) {
		return nil, locsearch.Errorf(locsearch.ENOTFOUND, "no cache entry for %q", url)
	}
	if err != nil {
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "cache read: %v", err)
	}
	defer f.Close()

	entry, err := ParseEntry(f)
	if err != nil {
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "cache read: %v", err)
	}
	// Distinct URLs that share a hash are treated as a miss.
	if entry.URL != url {
		return nil, locsearch.Errorf(locsearch.ENOTFOUND, "no cache entry for %q", url)
	}
	return entry, nil
}

// Put writes the entry for url, replacing any existing one.
func (c *Cache) Put(ctx context.Context, url, content string) error {
	if err := ctx.Err(); err != nil {
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "cache write: %v", err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "cache write: %v", err)
	}

	tmp, err := os.CreateTemp(c.dir, "entry-*.tmp")
	if err != nil {
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "cache write: %v", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	entry := &locsearch.CacheEntry{URL: url, Content: content, FetchedAt: time.Now().UTC()}
	if _, err := io.WriteString(tmp, FormatEntry(entry)); err != nil {
		tmp.Close()
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "cache write: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "cache write: %v", err)
	}

	if err := os.Rename(tmp.Name(), c.EntryPath(url)); err != nil {
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "cache write: %v", err)
	}
	return nil
}

// FormatEntry formats an entry with YAML-style frontmatter.
func FormatEntry(entry *locsearch.CacheEntry) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("url: ")
	b.WriteString(entry.URL)
	b.WriteString("\nfetched_at: ")
	b.WriteString(entry.FetchedAt.UTC().Format(time.RFC3339Nano))
	b.WriteString("\n---\n\n")
	b.WriteString(entry.Content)
	return b.String()
}

// ParseEntry reads an entry written by FormatEntry.
func ParseEntry(r io.Reader) (*locsearch.CacheEntry, error) {
	br := bufio.NewReader(r)

	readLine := func() (string, error) {
		line, err := br.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("truncated frontmatter: %w", err)
		}
		return strings.TrimSuffix(line, "\n"), nil
	}

	var entry locsearch.CacheEntry
	if line, err := readLine(); err != nil {
		return nil, err
	} else if line != "---" {
		return nil, errors.New("missing frontmatter")
	}

	for {
		line, err := readLine()
		if err != nil {
			return nil, err
		}
		if line == "---" {
			break
		}
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("malformed frontmatter line %q", line)
		}
		switch key {
		case "url":
			entry.URL = value
		case "fetched_at":
			entry.FetchedAt, err = time.Parse(time.RFC3339Nano, value)
			if err != nil {
				return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
			}
		}
	}

	// Blank line between frontmatter and body.
	if _, err := readLine(); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	entry.Content = string(body)
	return &entry, nil
}
