package provider

import (
	"archive/tar"
	"bufio"
	"compress/bzip2"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/heartmarshall/dictforge/internal/corpus"
	"github.com/heartmarshall/dictforge/internal/dicterr"
	"github.com/heartmarshall/dictforge/internal/fetch"
	"github.com/heartmarshall/dictforge/internal/normalize"
)

const (
	maxWords    = 3
	sentenceMin = 3
	linkMin     = 2
)

// exportRoot and linksRoot are the Tatoeba dataset roots. Tests override
// them to point at an httptest server.
var (
	exportRoot = "https://downloads.tatoeba.org/exports/per_language"
	linksRoot  = "https://downloads.tatoeba.org/exports"
)

// sentenceCandidates and linkCandidates are probed, in order, for a given
// language/pair before giving up on that language.
var sentenceCandidates = []string{
	"sentences.tar.bz2", "sentences.csv.bz2", "sentences.tsv.bz2",
	"sentences.csv", "sentences.tsv",
}

var linkCandidates = []string{
	"links.tar.bz2", "links.csv.bz2", "links.tsv.bz2", "links.csv", "links.tsv",
}

// cachedPairs is the on-disk shape of the per-dataset pairs cache.
type cachedPairs struct {
	Pairs map[string][]corpus.ExamplePair `json:"pairs"`
}

// TatoebaProvider is an ExampleProvider backed by Tatoeba's exported
// per-language sentence and link datasets, chained into (source, target)
// sentence pairs for every source headword that has a cross-linked
// translation into one of the target languages.
type TatoebaProvider struct {
	sourceLangs []string
	targetLangs []string

	downloadDir string
	pairsCache  string

	fetcher *fetch.Fetcher
	log     *slog.Logger

	pairs map[string][]corpus.ExamplePair
}

// NewTatoebaProvider constructs a provider for sourceLang -> targetLang,
// expanding the Serbo-Croatian cluster the same way the rest of the
// pipeline does. cacheDir is the root under which "tatoeba/<dataset>" is
// created.
func NewTatoebaProvider(sourceLang, targetLang, cacheDir string, client *http.Client, logger *slog.Logger) *TatoebaProvider {
	srcCodes := expandLanguage(sourceLang)
	tgtCodes := expandLanguage(targetLang)

	datasetKey := strings.Join(srcCodes, "-") + "__" + strings.Join(tgtCodes, "-")
	root := filepath.Join(cacheDir, "tatoeba", datasetKey)

	return &TatoebaProvider{
		sourceLangs: srcCodes,
		targetLangs: tgtCodes,
		downloadDir: filepath.Join(cacheDir, "tatoeba", "downloads"),
		pairsCache:  filepath.Join(root, "pairs.json"),
		fetcher:     fetch.New("tatoeba", client, logger),
		log:         logger,
	}
}

// Load populates the provider's in-memory pairs map, from cache if
// present, otherwise by downloading and chaining the Tatoeba datasets.
func (p *TatoebaProvider) Load(ctx context.Context) error {
	if p.pairs != nil {
		return nil
	}

	if data, err := os.ReadFile(p.pairsCache); err == nil {
		var cached cachedPairs
		if err := json.Unmarshal(data, &cached); err == nil {
			p.pairs = cached.Pairs
			return nil
		}
	}

	pairs, err := p.buildPairs(ctx)
	if err != nil {
		return err
	}
	p.pairs = pairs

	if err := os.MkdirAll(filepath.Dir(p.pairsCache), 0o755); err == nil {
		data, err := json.Marshal(cachedPairs{Pairs: pairs})
		if err == nil {
			_ = writeAtomic(p.pairsCache, data)
		}
	}
	return nil
}

func (p *TatoebaProvider) Vocabulary() map[string]bool {
	out := make(map[string]bool, len(p.pairs))
	for k := range p.pairs {
		out[k] = true
	}
	return out
}

func (p *TatoebaProvider) ExamplesFor(key string) []corpus.ExamplePair {
	if key == "" {
		return nil
	}
	return p.pairs[key]
}

func (p *TatoebaProvider) GlossFor(key string) (string, bool) {
	examples := p.ExamplesFor(key)
	if len(examples) == 0 {
		return "", false
	}
	return examples[0].Translation, true
}

// buildPairs downloads sentence and link datasets for every source and
// target language, then chains them into normalized-key -> example pairs.
func (p *TatoebaProvider) buildPairs(ctx context.Context) (map[string][]corpus.ExamplePair, error) {
	sourceSentences, sentenceLang := p.collectSentences(ctx, p.sourceLangs)
	if len(sourceSentences) == 0 {
		return map[string][]corpus.ExamplePair{}, nil
	}

	targetSentences, _ := p.collectSentences(ctx, p.targetLangs)
	if len(targetSentences) == 0 {
		return map[string][]corpus.ExamplePair{}, nil
	}

	links := p.collectLinks(ctx, sentenceLang)
	if len(links) == 0 {
		return map[string][]corpus.ExamplePair{}, nil
	}

	type seenKey struct{ source, target string }
	seen := make(map[string]map[seenKey]bool)

	for _, lang := range p.sourceLangs {
		for sourceID, targetIDs := range links[lang] {
			sourceText, ok := sourceSentences[sourceID]
			if !ok {
				continue
			}
			key := normalize.Key(sourceText, true)
			if key == "" {
				continue
			}
			for targetID := range targetIDs {
				targetText, ok := targetSentences[targetID]
				if !ok {
					continue
				}
				if seen[key] == nil {
					seen[key] = make(map[seenKey]bool)
				}
				seen[key][seenKey{sourceText, targetText}] = true
			}
		}
	}

	pairs := make(map[string][]corpus.ExamplePair, len(seen))
	for key, set := range seen {
		ordered := make([]corpus.ExamplePair, 0, len(set))
		for sk := range set {
			ordered = append(ordered, corpus.ExamplePair{Text: sk.source, Translation: sk.target})
		}
		// Lexicographic by (text, translation); GlossFor relies on this
		// order picking the same pair deterministically.
		sort.Slice(ordered, func(i, j int) bool {
			li, lj := strings.ToLower(ordered[i].Text), strings.ToLower(ordered[j].Text)
			if li != lj {
				return li < lj
			}
			return strings.ToLower(ordered[i].Translation) < strings.ToLower(ordered[j].Translation)
		})
		pairs[key] = ordered
	}
	return pairs, nil
}

// collectSentences downloads and parses the sentence datasets for each
// language code, returning id -> cleaned text and id -> language code.
func (p *TatoebaProvider) collectSentences(ctx context.Context, langs []string) (map[string]string, map[string]string) {
	sentences := make(map[string]string)
	sentenceLang := make(map[string]string)

	for _, lang := range langs {
		candidates := append([]string{
			lang + "_sentences.tsv.bz2", lang + "_sentences.csv.bz2",
			lang + "_sentences.tsv", lang + "_sentences.csv",
		}, sentenceCandidates...)

		path, err := p.downloadFirstAvailable(ctx, exportRoot+"/"+lang, lang, candidates)
		if err != nil {
			if p.log != nil {
				p.log.Warn("tatoeba: no sentence dataset", slog.String("lang", lang), slog.Any("err", err))
			}
			continue
		}

		rows, err := readArchiveRows(path, "sentences")
		if err != nil {
			continue
		}
		for _, row := range rows {
			if len(row) < sentenceMin {
				continue
			}
			id, rowLang, text := row[0], row[1], row[2]
			if !strings.EqualFold(rowLang, lang) {
				continue
			}
			cleaned := cleanText(text)
			if cleaned == "" || wordCount(cleaned) > maxWords {
				continue
			}
			sentences[id] = cleaned
			sentenceLang[id] = lang
		}
	}
	return sentences, sentenceLang
}

// collectLinks downloads and parses the link datasets for each source
// language, falling back to the global links dataset filtered by
// sentenceLang when a per-language file isn't published.
func (p *TatoebaProvider) collectLinks(ctx context.Context, sentenceLang map[string]string) map[string]map[string]map[string]bool {
	links := make(map[string]map[string]map[string]bool)
	var missing []string

	for _, lang := range p.sourceLangs {
		var candidates []string
		for _, tgt := range p.targetLangs {
			pair := lang + "-" + tgt
			candidates = append(candidates,
				pair+"_links.tsv.bz2", pair+"_links.csv.bz2", pair+"_links.tsv", pair+"_links.csv")
		}
		candidates = append(candidates, lang+"_links.tsv.bz2", lang+"_links.csv.bz2", lang+"_links.tsv", lang+"_links.csv")
		candidates = append(candidates, linkCandidates...)

		path, err := p.downloadFirstAvailable(ctx, exportRoot+"/"+lang, lang, candidates)
		if err != nil {
			missing = append(missing, lang)
			continue
		}

		rows, err := readArchiveRows(path, "links")
		if err != nil {
			missing = append(missing, lang)
			continue
		}
		links[lang] = linkRowsToMap(rows)
	}

	if len(missing) > 0 {
		globalPath, err := p.ensureGlobalLinks(ctx)
		if err == nil {
			rows, err := readArchiveRows(globalPath, "links")
			if err == nil {
				globalLinks := linkRowsToMap(rows)
				for _, lang := range missing {
					subset := make(map[string]map[string]bool)
					for src, targets := range globalLinks {
						if sentenceLang[src] != lang {
							continue
						}
						subset[src] = targets
					}
					links[lang] = subset
				}
			}
		}
	}
	return links
}

func linkRowsToMap(rows [][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, row := range rows {
		if len(row) < linkMin {
			continue
		}
		src, tgt := row[0], row[1]
		if out[src] == nil {
			out[src] = make(map[string]bool)
		}
		out[src][tgt] = true
	}
	return out
}

func (p *TatoebaProvider) ensureGlobalLinks(ctx context.Context) (string, error) {
	dir := filepath.Join(p.downloadDir, "global")
	for _, filename := range []string{"links.csv.bz2", "links.csv", "links.tar.bz2"} {
		dest := filepath.Join(dir, filename)
		if _, err := os.Stat(dest); err == nil {
			return dest, nil
		}
		url := linksRoot + "/" + filename
		if err := p.fetcher.Fetch(ctx, url, dest, nil); err == nil {
			return dest, nil
		}
	}
	return "", &dicterr.DownloadError{Source: "tatoeba", URL: linksRoot, Cause: fmt.Errorf("no global links dataset available")}
}

// downloadFirstAvailable tries each candidate filename under urlBase in
// order, returning the first that downloads successfully.
func (p *TatoebaProvider) downloadFirstAvailable(ctx context.Context, urlBase, lang string, candidates []string) (string, error) {
	for _, name := range candidates {
		localName := name
		if !strings.HasPrefix(localName, lang+"_") {
			localName = lang + "_" + localName
		}
		dest := filepath.Join(p.downloadDir, localName)
		if _, err := os.Stat(dest); err == nil {
			return dest, nil
		}
		url := urlBase + "/" + name
		if err := p.fetcher.Fetch(ctx, url, dest, nil); err == nil {
			return dest, nil
		}
	}
	return "", &dicterr.DownloadError{Source: "tatoeba", URL: urlBase, Cause: fmt.Errorf("no candidate file available for %s", lang)}
}

// readArchiveRows opens a downloaded dataset file (tar.bz2, bare .bz2, or
// plain text) and returns its tab/comma-split rows. memberHint selects the
// tar member to read when the archive contains more than one file.
func readArchiveRows(path, memberHint string) ([][]string, error) {
	var r io.Reader

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(path, ".tar.bz2"):
		tr := tar.NewReader(bzip2.NewReader(f))
		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				return nil, fmt.Errorf("no %s member found in %s", memberHint, path)
			}
			if err != nil {
				return nil, err
			}
			name := strings.ToLower(filepath.Base(hdr.Name))
			if strings.HasPrefix(name, memberHint) && (strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")) {
				r = tr
				break
			}
		}
	case strings.HasSuffix(path, ".bz2"):
		r = bzip2.NewReader(f)
	default:
		r = f
	}

	return parseRows(r)
}

func parseRows(r io.Reader) ([][]string, error) {
	var rows [][]string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, "\t") {
			rows = append(rows, strings.Split(line, "\t"))
		} else {
			rows = append(rows, strings.Split(line, ","))
		}
	}
	return rows, scanner.Err()
}

func cleanText(s string) string {
	return strings.Trim(normalize.Display(s, false), "'\"“”‘’()[]{}«»")
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// expandLanguage maps the Serbo-Croatian pair of codes onto a shared
// {srp, hrv} set, matching the cluster the rest of the pipeline treats as
// one language; any other code expands to itself, lowercased.
func expandLanguage(code string) []string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	switch normalized {
	case "srp", "hrv", "sr", "hr":
		return []string{"hrv", "srp"}
	default:
		return []string{normalized}
	}
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
