// Package assemble orchestrates one full dictionary assembly run: language
// expansion, per-source ingestion, Kaikki gloss retargeting, streaming
// merge, Tatoeba-style enrichment, capping, and persistence to a single
// canonical JSONL corpus.
package assemble

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/dictforge/internal/cache"
	"github.com/heartmarshall/dictforge/internal/config"
	"github.com/heartmarshall/dictforge/internal/corpus"
	"github.com/heartmarshall/dictforge/internal/dicterr"
	"github.com/heartmarshall/dictforge/internal/normalize"
	"github.com/heartmarshall/dictforge/internal/provider"
)

// Stats summarizes one assembly run.
type Stats struct {
	KaikkiTotal         int `json:"kaikki_total"`
	KaikkiUnique        int `json:"kaikki_unique"`
	TatoebaTotal        int `json:"tatoeba_total"`
	TatoebaUnique       int `json:"tatoeba_unique"`
	Overlap             int `json:"overlap"`
	EnrichedFromTatoeba int `json:"enriched_from_tatoeba"`
	FinalHeadwordCount  int `json:"final_headword_count"`
}

// DictionaryIngestor obtains entries for one expanded language, tagging
// each with its origin. Both the Kaikki and StarDict sources are adapted
// to this shape by ingestor.go.
type DictionaryIngestor interface {
	Origin() string
	Ingest(ctx context.Context, language, outLang string, serbianMode bool) ([]corpus.Entry, error)
}

// serboCroatianCluster is the table the spec's Open Question asks to be
// made table-driven if a second cluster is ever added.
var serboCroatianCluster = map[string][]string{
	"sr": {"Serbian", "Croatian"},
	"hr": {"Serbian", "Croatian"},
}

// Assembler runs the full assembly pipeline described in SPEC_FULL.md §4.9.
type Assembler struct {
	cfg       *config.Config
	layout    cache.Layout
	ingestors []DictionaryIngestor
	examples  provider.ExampleProvider
	log       *slog.Logger
}

// New constructs an Assembler. ingestors run in the given order for every
// expanded language; examples may be nil to skip the enrichment pass.
func New(cfg *config.Config, layout cache.Layout, ingestors []DictionaryIngestor, examples provider.ExampleProvider, logger *slog.Logger) *Assembler {
	return &Assembler{cfg: cfg, layout: layout, ingestors: ingestors, examples: examples, log: logger}
}

// Run executes the eight-step assembly pipeline and returns the path of
// the persisted corpus alongside its statistics.
func (a *Assembler) Run(ctx context.Context) (string, Stats, error) {
	expanded, serbianMode := expandLanguages(a.cfg.InLang)
	a.logf("language expansion", slog.Any("languages", expanded), slog.Bool("serbian_mode", serbianMode))

	index, order, kaikkiTotal, err := a.ingest(ctx, expanded, serbianMode)
	if err != nil {
		return "", Stats{}, err
	}
	kaikkiUnique := len(index)
	a.logf("ingestion complete", slog.Int("total", kaikkiTotal), slog.Int("unique", kaikkiUnique))

	stats := Stats{KaikkiTotal: kaikkiTotal, KaikkiUnique: kaikkiUnique}

	if a.examples != nil {
		start := time.Now()
		enriched, overlap, tatoebaTotal, tatoebaUnique := a.enrich(index, &order, serbianMode)
		stats.EnrichedFromTatoeba = enriched
		stats.Overlap = overlap
		stats.TatoebaTotal = tatoebaTotal
		stats.TatoebaUnique = tatoebaUnique
		a.logf("enrichment complete", slog.Int("enriched", enriched), slog.Duration("duration", time.Since(start)))
	}

	entries := make([]corpus.Entry, 0, len(order))
	for _, key := range order {
		entries = append(entries, *index[key])
	}

	if a.cfg.MaxEntries > 0 && len(entries) > a.cfg.MaxEntries {
		entries = entries[:a.cfg.MaxEntries]
	}

	path := a.layout.Combined(expanded, a.cfg.OutLang)
	written, err := persist(path, entries)
	if err != nil {
		return "", Stats{}, err
	}
	stats.FinalHeadwordCount = written
	a.logf("persist complete", slog.String("path", path), slog.Int("entries", written))

	return path, stats, nil
}

// ingest runs every (language, ingestor) pair concurrently, bounded by an
// errgroup, then folds the results into the merge index in deterministic
// expanded-language/ingestor order regardless of completion order. A
// *dicterr.ChainError from an ingestor is logged as a warning and that
// pair contributes no entries; any other error aborts the run.
func (a *Assembler) ingest(ctx context.Context, languages []string, serbianMode bool) (map[string]*corpus.Entry, []string, int, error) {
	type task struct {
		language string
		ingestor DictionaryIngestor
	}

	var tasks []task
	for _, lang := range languages {
		for _, ing := range a.ingestors {
			tasks = append(tasks, task{language: lang, ingestor: ing})
		}
	}

	results := make([][]corpus.Entry, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			entries, err := t.ingestor.Ingest(gctx, t.language, a.cfg.OutLang, serbianMode)
			if err != nil {
				var chainErr *dicterr.ChainError
				if errors.As(err, &chainErr) {
					if a.log != nil {
						a.log.Warn("source unavailable, continuing without it",
							slog.String("source", t.ingestor.Origin()), slog.String("language", t.language), slog.Any("err", err))
					}
					return nil
				}
				return fmt.Errorf("ingest %s/%s: %w", t.ingestor.Origin(), t.language, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, 0, err
	}

	index := make(map[string]*corpus.Entry)
	var order []string
	total := 0

	for _, entries := range results {
		for _, e := range entries {
			total++
			mergeEntry(index, &order, e, serbianMode)
		}
	}
	return index, order, total, nil
}

// mergeEntry applies the streaming-merge rules of step 4: normalize
// display/key, reject empty keys, rewrite forms in Serbian mode, and
// merge into an existing entry or append a new one.
func mergeEntry(index map[string]*corpus.Entry, order *[]string, e corpus.Entry, serbianMode bool) {
	if strings.TrimSpace(e.Word) == "" {
		return
	}

	display := normalize.Display(e.Word, serbianMode)
	key := normalize.Key(e.Word, serbianMode)
	if key == "" {
		return
	}
	e.Word = display
	e.Key = key

	if serbianMode {
		for i := range e.Forms {
			e.Forms[i].Form = normalize.Display(e.Forms[i].Form, serbianMode)
		}
	}

	if existing, ok := index[key]; ok {
		corpus.Merge(existing, &e)
		return
	}

	cp := e
	index[key] = &cp
	*order = append(*order, key)
}

// expandLanguages applies step 1 of the assembly pipeline: the
// Serbo-Croatian cluster expands to the sorted union of the input
// language and "Serbian"/"Croatian"; anything else is a singleton.
func expandLanguages(inLang string) ([]string, bool) {
	code := strings.ToLower(strings.TrimSpace(inLang))
	cluster, ok := serboCroatianCluster[code]
	if !ok && !isSerboCroatianName(inLang) {
		return []string{inLang}, false
	}
	if !ok {
		cluster = []string{"Serbian", "Croatian"}
	}

	set := map[string]bool{inLang: true}
	for _, lang := range cluster {
		set[lang] = true
	}
	out := make([]string, 0, len(set))
	for lang := range set {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out, true
}

func isSerboCroatianName(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "serbian", "croatian", "serbo-croatian":
		return true
	default:
		return false
	}
}

// persist writes entries to path as JSONL (temp-file-then-rename), one
// entry per line, UTF-8, no BOM, no HTML-escaping of punctuation. Entries
// with no content-bearing sense and no origin tag are dropped rather than
// emitted; it returns the number of entries actually written.
func persist(path string, entries []corpus.Entry) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	written := 0
	for _, e := range entries {
		if !e.HasContent() && len(e.Origin) == 0 {
			continue
		}
		if err := enc.Encode(e); err != nil {
			f.Close()
			os.Remove(tmp)
			return 0, err
		}
		written++
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, err
	}
	return written, nil
}

func (a *Assembler) logf(msg string, args ...any) {
	if a.log != nil {
		a.log.Info(msg, args...)
	}
}
