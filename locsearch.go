// Package locsearch provides search-augmented question answering on top of
// a local metasearch service and a local language model. It queries the
// search backend, fetches and cleans the linked pages, caches the extracted
// text, and asks the model for a short cited answer.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, trafilatura/, ollama/).
package locsearch
