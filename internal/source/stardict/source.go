package stardict

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/heartmarshall/dictforge/internal/cache"
	"github.com/heartmarshall/dictforge/internal/corpus"
	"github.com/heartmarshall/dictforge/internal/dicterr"
	"github.com/heartmarshall/dictforge/internal/fetch"
	"github.com/heartmarshall/dictforge/internal/pivot"
)

const pivotLanguage = "English"

// Source resolves, downloads, and parses StarDict/FreeDict bilingual
// dictionaries, chaining through English when no direct pair is published.
type Source struct {
	layout  cache.Layout
	fetcher *fetch.Fetcher
	client  *http.Client
	log     *slog.Logger
}

// New constructs a Source. client is used for directory-listing requests;
// a nil client defaults to http.DefaultClient.
func New(layout cache.Layout, fetcher *fetch.Fetcher, client *http.Client, logger *slog.Logger) *Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &Source{layout: layout, fetcher: fetcher, client: client, log: logger}
}

// GetEntries resolves and downloads the sourceLang-targetLang StarDict
// pair, falling back to chaining sourceLang-English and English-targetLang
// through the pivot package if no direct pair can be resolved. Direct-pair
// entries come back in index order; chained entries are sorted by
// headword.
func (s *Source) GetEntries(ctx context.Context, sourceLang, targetLang string) ([]corpus.Entry, error) {
	if strings.EqualFold(sourceLang, targetLang) {
		return nil, &dicterr.ChainError{Source: "stardict", Cause: os.ErrInvalid}
	}

	bundle, _, err := s.fetchBundle(ctx, sourceLang, targetLang)
	if err == nil {
		return s.entriesFromBundle(bundle, sourceLang), nil
	}

	if s.log != nil {
		s.log.Warn("stardict: no direct pair, chaining through pivot",
			slog.String("source", sourceLang), slog.String("target", targetLang), slog.Any("err", err))
	}

	return s.chainedEntries(ctx, sourceLang, targetLang)
}

// fetchBundle resolves, downloads, extracts, and parses the StarDict
// archive for one direct language pair.
func (s *Source) fetchBundle(ctx context.Context, sourceLang, targetLang string) (Bundle, string, error) {
	pair, err := PairCode(sourceLang, targetLang)
	if err != nil {
		return Bundle{}, "", err
	}

	version, err := DiscoverLatestVersion(ctx, s.client, pair)
	if err != nil {
		return Bundle{}, "", &dicterr.DownloadError{Source: "stardict", URL: pair, Cause: err}
	}

	filename, err := ResolveArchiveFilename(ctx, s.client, pair, version)
	if err != nil {
		return Bundle{}, "", err
	}

	archivePath := s.layout.StarDictDownload(pair, version)
	url := stardictRoot + "/" + pair + "/" + version + "/" + filename

	if _, statErr := os.Stat(archivePath); statErr != nil {
		if err := s.fetcher.Fetch(ctx, url, archivePath, nil); err != nil {
			return Bundle{}, "", err
		}
	}

	treeDir := s.layout.StarDictTree(pair, version)
	if _, statErr := os.Stat(treeDir); statErr != nil {
		if err := os.MkdirAll(treeDir, 0o755); err != nil {
			return Bundle{}, "", &dicterr.DownloadError{Source: "stardict", URL: url, Cause: err}
		}
		if err := ExtractTarXz(archivePath, treeDir); err != nil {
			return Bundle{}, "", &dicterr.DownloadError{Source: "stardict", URL: url, Cause: err}
		}
	}

	_, ifoPath, idxPath, dictPath, err := FindStarDictDir(treeDir)
	if err != nil {
		return Bundle{}, "", &dicterr.DownloadError{Source: "stardict", URL: url, Cause: err}
	}

	meta, err := ParseIfo(ifoPath)
	if err != nil {
		return Bundle{}, "", &dicterr.DownloadError{Source: "stardict", URL: ifoPath, Cause: err}
	}
	idx, err := ParseIndex(idxPath)
	if err != nil {
		return Bundle{}, "", &dicterr.DownloadError{Source: "stardict", URL: idxPath, Cause: err}
	}
	blob, err := ReadDictBlob(dictPath)
	if err != nil {
		return Bundle{}, "", &dicterr.DownloadError{Source: "stardict", URL: dictPath, Cause: err}
	}

	return Bundle{Metadata: meta, Index: idx, Blob: blob}, pair, nil
}

// entriesFromBundle builds one corpus.Entry per index record, in index
// order, dropping entries whose glosses are empty after extraction.
func (s *Source) entriesFromBundle(b Bundle, language string) []corpus.Entry {
	entries := make([]corpus.Entry, 0, len(b.Index))
	for _, idx := range b.Index {
		glosses := ExtractGlosses(b.Definition(idx))
		if len(glosses) == 0 {
			continue
		}
		entries = append(entries, corpus.Entry{
			Word:     idx.Word,
			Language: language,
			Senses: []corpus.Sense{{
				Glosses:    glosses,
				RawGlosses: glosses,
			}},
			Origin: []string{"stardict"},
		})
	}
	return entries
}

// chainedEntries builds a sourceLang→English map and an English→targetLang
// map from their respective direct bundles, composes them with
// pivot.Chain, and emits one corpus.Entry per chained headword.
func (s *Source) chainedEntries(ctx context.Context, sourceLang, targetLang string) ([]corpus.Entry, error) {
	srcToPivot, err := s.glossMap(ctx, sourceLang, pivotLanguage)
	if err != nil {
		return nil, &dicterr.ChainError{Source: "stardict", Cause: err}
	}
	pivotToTgt, err := s.glossMap(ctx, pivotLanguage, targetLang)
	if err != nil {
		return nil, &dicterr.ChainError{Source: "stardict", Cause: err}
	}

	chained := pivot.Chain(srcToPivot, pivotToTgt)
	if len(chained) == 0 {
		return nil, &dicterr.ChainError{Source: "stardict", Cause: dicterr.ErrNoEntries}
	}

	words := make([]string, 0, len(chained))
	for w := range chained {
		words = append(words, w)
	}
	sort.Strings(words)

	entries := make([]corpus.Entry, 0, len(words))
	for _, w := range words {
		entries = append(entries, corpus.Entry{
			Word:     w,
			Language: sourceLang,
			Senses: []corpus.Sense{{
				Glosses:    chained[w],
				RawGlosses: chained[w],
			}},
			Origin: []string{"stardict"},
		})
	}
	return entries, nil
}

// glossMap fetches a direct bundle for (fromLang, toLang) and flattens it
// into a lowercased-headword -> glosses map suitable for pivot.Chain.
func (s *Source) glossMap(ctx context.Context, fromLang, toLang string) (map[string][]string, error) {
	bundle, _, err := s.fetchBundle(ctx, fromLang, toLang)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(bundle.Index))
	for _, idx := range bundle.Index {
		glosses := ExtractGlosses(bundle.Definition(idx))
		if len(glosses) == 0 {
			continue
		}
		key := strings.ToLower(idx.Word)
		out[key] = append(out[key], glosses...)
	}
	return out, nil
}
