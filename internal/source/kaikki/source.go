// Package kaikki implements the Kaikki (Wiktextract) source: ensuring the
// raw monolithic dump and per-language dumps are cached locally, filtering
// the raw dump into idempotent per-language subsets, building translation
// maps from a bilingual pivot corpus, and retargeting English glosses to
// another language via that map.
package kaikki

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/dictforge/internal/cache"
	"github.com/heartmarshall/dictforge/internal/corpus"
	"github.com/heartmarshall/dictforge/internal/dicterr"
	"github.com/heartmarshall/dictforge/internal/fetch"
)

const (
	rawDumpURL         = "https://kaikki.org/dictionary/raw-wiktextract-data.jsonl.gz"
	perLanguageURLTmpl = "https://kaikki.org/dictionary/%s/kaikki.org-dictionary-%s.jsonl"
	sourceName         = "kaikki"

	// maxLineSize enlarges the scanner buffer beyond the 64 KiB default;
	// Kaikki lines routinely exceed it.
	maxLineSize = 16 * 1024 * 1024
)

// languageFallbacks canonicalizes a handful of language names to the
// Kaikki dump's actual label before any slugging or filtering happens.
var languageFallbacks = map[string]string{
	"Croatian": "Serbo-Croatian",
	"Serbian":  "Serbo-Croatian",
}

// CanonicalLanguage applies the Croatian/Serbian→Serbo-Croatian fallback.
func CanonicalLanguage(language string) string {
	if fb, ok := languageFallbacks[language]; ok {
		return fb
	}
	return language
}

// Source ensures and filters Kaikki dumps.
type Source struct {
	layout  cache.Layout
	fetcher *fetch.Fetcher
	log     *slog.Logger
}

// New creates a Kaikki Source rooted at the given cache layout.
func New(layout cache.Layout, fetcher *fetch.Fetcher, logger *slog.Logger) *Source {
	return &Source{layout: layout, fetcher: fetcher, log: logger}
}

// EnsureRawDump idempotently downloads the monolithic gzip dump.
func (s *Source) EnsureRawDump(ctx context.Context) (string, error) {
	dest := s.layout.RawDump("raw-wiktextract-data.jsonl.gz")
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	if err := s.fetcher.Fetch(ctx, rawDumpURL, dest, nil); err != nil {
		return "", err
	}
	return dest, nil
}

// EnsureLanguageDataset idempotently downloads the per-language Kaikki
// dump for language.
func (s *Source) EnsureLanguageDataset(ctx context.Context, language string) (string, error) {
	canon := CanonicalLanguage(language)
	slug := cache.KaikkiSlug(canon)
	dest := s.layout.LanguageDataset(canon)

	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	url := fmt.Sprintf(perLanguageURLTmpl, slug, slug)
	if err := s.fetcher.Fetch(ctx, url, dest, nil); err != nil {
		return "", err
	}
	return dest, nil
}

type sidecarMeta struct {
	Language    string `json:"language"`
	Count       int    `json:"count"`
	SourceMtime int64  `json:"source_mtime"`
}

// EnsureFilteredLanguage returns the idempotently-cached filtered subset
// for language, streaming the raw dump line-by-line on a cache miss and
// keeping the lines labelled with language as given. If zero lines match,
// it falls back to an unfiltered copy of EnsureLanguageDataset (which
// applies CanonicalLanguage); if that is also empty, it fails with
// *dicterr.DownloadError.
func (s *Source) EnsureFilteredLanguage(ctx context.Context, language string) (string, int, error) {
	canon := CanonicalLanguage(language)
	filteredPath, metaPath := s.layout.FilteredLanguage(language)

	rawPath, err := s.EnsureRawDump(ctx)
	if err != nil {
		return "", 0, err
	}

	rawInfo, err := os.Stat(rawPath)
	if err != nil {
		return "", 0, &dicterr.DownloadError{Source: sourceName, URL: rawDumpURL, Cause: err}
	}
	rawMtime := rawInfo.ModTime().Unix()

	if meta, ok := readSidecar(metaPath); ok && meta.SourceMtime == rawMtime && meta.Count > 0 {
		return filteredPath, meta.Count, nil
	}

	count, err := s.filterRawDump(rawPath, filteredPath, language)
	if err != nil {
		return "", 0, err
	}

	if count == 0 {
		// Fall back to an unfiltered copy of the per-language dump.
		langPath, err := s.EnsureLanguageDataset(ctx, canon)
		if err != nil {
			return "", 0, err
		}
		n, err := copyLines(langPath, filteredPath)
		if err != nil {
			return "", 0, err
		}
		if n == 0 {
			return "", 0, &dicterr.DownloadError{Source: sourceName, URL: perLanguageURL(canon), Cause: fmt.Errorf("no entries for language %q", canon)}
		}
		count = n
	}

	if err := writeSidecar(metaPath, sidecarMeta{Language: language, Count: count, SourceMtime: rawMtime}); err != nil {
		return "", 0, err
	}

	return filteredPath, count, nil
}

func perLanguageURL(canon string) string {
	slug := cache.KaikkiSlug(canon)
	return fmt.Sprintf(perLanguageURLTmpl, slug, slug)
}

// filterRawDump streams rawPath (gzip JSONL) line-by-line, retaining only
// lines whose entry.language (falling back to entry.lang) equals
// language, and writes them to destPath via temp-file-then-rename.
func (s *Source) filterRawDump(rawPath, destPath, language string) (int, error) {
	f, err := os.Open(rawPath)
	if err != nil {
		return 0, &dicterr.DownloadError{Source: sourceName, URL: rawDumpURL, Cause: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return 0, &dicterr.DownloadError{Source: sourceName, URL: rawDumpURL, Cause: err}
	}
	defer gz.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, err
	}

	tmp := destPath + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	writer := bufio.NewWriter(out)
	count := 0
	pos := 0

	for scanner.Scan() {
		line := scanner.Bytes()
		pos += len(line) + 1
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var entry wireEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			out.Close()
			os.Remove(tmp)
			excerpt := dicterr.BuildExcerpt(string(line), 0)
			return 0, &dicterr.ParseError{Source: sourceName, Path: rawPath, Pos: pos, Excerpt: excerpt, Cause: err}
		}

		if entry.languageOf() != language {
			continue
		}

		writer.Write(line)
		writer.WriteByte('\n')
		count++
	}

	if err := scanner.Err(); err != nil {
		out.Close()
		os.Remove(tmp)
		return 0, &dicterr.ParseError{Source: sourceName, Path: rawPath, Pos: pos, Cause: err}
	}

	if err := writer.Flush(); err != nil {
		out.Close()
		os.Remove(tmp)
		return 0, err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, destPath); err != nil {
		os.Remove(tmp)
		return 0, err
	}

	return count, nil
}

// copyLines copies srcPath to destPath line-by-line (via temp-then-rename),
// returning the number of non-blank lines copied.
func copyLines(srcPath, destPath string) (int, error) {
	in, err := os.Open(srcPath)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return 0, err
	}
	tmp := destPath + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	writer := bufio.NewWriter(out)
	count := 0

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		writer.Write(line)
		writer.WriteByte('\n')
		count++
	}
	if err := scanner.Err(); err != nil {
		out.Close()
		os.Remove(tmp)
		return 0, err
	}
	if err := writer.Flush(); err != nil {
		out.Close()
		os.Remove(tmp)
		return 0, err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, destPath); err != nil {
		os.Remove(tmp)
		return 0, err
	}
	return count, nil
}

func readSidecar(path string) (sidecarMeta, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sidecarMeta{}, false
	}
	var meta sidecarMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return sidecarMeta{}, false
	}
	return meta, true
}

func writeSidecar(path string, meta sidecarMeta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ParseEntries reads a filtered/per-language JSONL file and converts each
// line into a corpus.Entry. Malformed lines are skipped silently, matching
// the asymmetry the spec calls out between the initial filter pass (fatal)
// and later reads of possibly-localized files (lenient).
func ParseEntries(path string, serbianMode bool) ([]corpus.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []corpus.Entry
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var w wireEntry
		if err := json.Unmarshal(line, &w); err != nil {
			continue
		}
		if w.Word == "" {
			continue
		}
		entries = append(entries, toEntry(w))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func toEntry(w wireEntry) corpus.Entry {
	e := corpus.Entry{
		Word:     w.Word,
		Language: w.languageOf(),
		Origin:   []string{sourceName},
	}
	for _, ws := range w.Senses {
		sense := corpus.Sense{
			Glosses:    append([]string(nil), ws.Glosses...),
			RawGlosses: append([]string(nil), ws.RawGlosses...),
		}
		if len(sense.RawGlosses) == 0 {
			sense.RawGlosses = sense.Glosses
		}
		for _, ex := range ws.Examples {
			if ex.Text == "" {
				continue
			}
			sense.Examples = append(sense.Examples, corpus.ExamplePair{Text: ex.Text})
		}
		for _, link := range ws.Links {
			if len(link) > 0 {
				sense.Links = append(sense.Links, link[0])
			}
		}
		e.Senses = append(e.Senses, sense)
	}
	for _, wf := range w.Forms {
		e.Forms = append(e.Forms, corpus.Form{Form: wf.Form})
	}
	return e
}
