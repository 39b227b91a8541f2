// Package cache computes deterministic on-disk paths for every artifact the
// dictionary assembly core reads or writes: raw dumps, per-language subsets,
// translation maps, StarDict archives, and the final merged corpus.
package cache

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var slugInvalid = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Slug replaces any run of characters outside [A-Za-z0-9] with "_". If the
// result is empty, it returns "language".
func Slug(s string) string {
	out := slugInvalid.ReplaceAllString(s, "_")
	out = strings.Trim(out, "_")
	if out == "" {
		return "language"
	}
	return out
}

// KaikkiSlug strips spaces, hyphens, and apostrophes from a language name
// without lowercasing it, matching the naming scheme of Kaikki's
// per-language dump URLs.
func KaikkiSlug(language string) string {
	r := strings.NewReplacer(" ", "", "-", "", "'", "")
	return r.Replace(language)
}

// Layout resolves every cache subtree under a single root directory.
type Layout struct {
	Root string
}

// New returns a Layout rooted at root.
func New(root string) Layout {
	return Layout{Root: root}
}

// RawDump is the path of the monolithic gzip JSONL dump.
func (l Layout) RawDump(basename string) string {
	return filepath.Join(l.Root, "raw", basename)
}

// FilteredLanguage returns the filtered JSONL path and its sidecar metadata
// path for a language.
func (l Layout) FilteredLanguage(language string) (path, meta string) {
	slug := Slug(language)
	path = filepath.Join(l.Root, "filtered", slug+".jsonl")
	meta = filepath.Join(l.Root, "filtered", slug+".meta.json")
	return path, meta
}

// LanguageDataset is the path of the per-language Kaikki dump.
func (l Layout) LanguageDataset(language string) string {
	return filepath.Join(l.Root, "languages", KaikkiSlug(language)+".jsonl")
}

// TranslatedGlosses is the path of a gloss-retargeted sibling of a Kaikki
// per-language dump.
func (l Layout) TranslatedGlosses(basePath, targetLang string) string {
	ext := filepath.Ext(basePath)
	stem := strings.TrimSuffix(basePath, ext)
	return stem + "__to_" + Slug(targetLang) + ext
}

// TranslationMap is the path of a cached src→tgt translation map.
func (l Layout) TranslationMap(srcLang, tgtLang string) string {
	return filepath.Join(l.Root, "translations", Slug(srcLang)+"_to_"+Slug(tgtLang)+".json")
}

// StarDictDownload is the path of a downloaded StarDict archive.
func (l Layout) StarDictDownload(pair, version string) string {
	return filepath.Join(l.Root, "stardict", "downloads", pair+"-"+version+".tar.xz")
}

// StarDictTree is the extraction directory for a StarDict archive.
func (l Layout) StarDictTree(pair, version string) string {
	return filepath.Join(l.Root, "stardict", pair, version)
}

// Combined is the path of the final merged corpus for a source-language set
// and a target language.
func (l Layout) Combined(srcLangs []string, tgtLang string) string {
	slugs := make([]string, len(srcLangs))
	copy(slugs, srcLangs)
	for i, s := range slugs {
		slugs[i] = Slug(s)
	}
	sort.Strings(slugs)
	return filepath.Join(l.Root, "combined", strings.Join(slugs, "_")+"__to__"+Slug(tgtLang)+".jsonl")
}
