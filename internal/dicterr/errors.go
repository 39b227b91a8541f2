// Package dicterr defines the typed failure taxonomy raised by the
// dictionary assembly core. Every error carries the name of the source
// component that raised it so host tooling can report useful diagnostics.
package dicterr

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that don't need per-instance context.
var (
	ErrEmptyKey  = errors.New("merge key is empty")
	ErrNoEntries = errors.New("no entries produced")
)

// DownloadError is raised by the Fetcher (and by sources that resolve a
// remote artifact) when a network or I/O failure prevents an artifact from
// being obtained.
type DownloadError struct {
	Source string
	URL    string
	Cause  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("%s: download %s: %v", e.Source, e.URL, e.Cause)
}

func (e *DownloadError) Unwrap() error { return e.Cause }

// ParseError is raised when a Kaikki-style JSONL dump contains malformed
// JSON. Excerpt holds up to three truncated lines surrounding the failure,
// with HTML markup stripped first if the body looked like an HTML page.
type ParseError struct {
	Source  string
	Path    string
	Pos     int
	Excerpt string
	Cause   error
}

func (e *ParseError) Error() string {
	path := e.Path
	if path == "" {
		path = "<unknown>"
	}
	if e.Excerpt != "" {
		return fmt.Sprintf("%s: parse %s at %d: %v\n%s", e.Source, path, e.Pos, e.Cause, e.Excerpt)
	}
	return fmt.Sprintf("%s: parse %s at %d: %v", e.Source, path, e.Pos, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ChainError is raised when pivot chaining fails to produce a usable
// bilingual map for a StarDict pair. It is recoverable: the Assembler
// demotes it to a warning and proceeds without the affected source.
type ChainError struct {
	Source string
	Cause  error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("%s: chain: %v", e.Source, e.Cause)
}

func (e *ChainError) Unwrap() error { return e.Cause }

// PackagingError is raised by downstream packaging adapters. The core never
// raises it itself; it exists here so adapters share one taxonomy.
type PackagingError struct {
	Source string
	Cause  error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("%s: package: %v", e.Source, e.Cause)
}

func (e *PackagingError) Unwrap() error { return e.Cause }
