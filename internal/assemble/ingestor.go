package assemble

import (
	"context"
	"strings"

	"github.com/heartmarshall/dictforge/internal/corpus"
	"github.com/heartmarshall/dictforge/internal/source/kaikki"
	"github.com/heartmarshall/dictforge/internal/source/stardict"
)

// KaikkiIngestor adapts a kaikki.Source to the DictionaryIngestor shape,
// folding in step 3's gloss retargeting when the target language isn't
// English.
type KaikkiIngestor struct {
	Source *kaikki.Source
}

func (i KaikkiIngestor) Origin() string { return "kaikki" }

func (i KaikkiIngestor) Ingest(ctx context.Context, language, outLang string, serbianMode bool) ([]corpus.Entry, error) {
	path, _, err := i.Source.EnsureFilteredLanguage(ctx, language)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(outLang, "English") {
		path, err = i.Source.EnsureTranslatedGlosses(ctx, path, "English", outLang)
		if err != nil {
			return nil, err
		}
	}

	return kaikki.ParseEntries(path, serbianMode)
}

// StarDictIngestor adapts a stardict.Source to the DictionaryIngestor
// shape; chained pivot translation (when no direct pair exists) is
// handled inside Source.GetEntries itself.
type StarDictIngestor struct {
	Source *stardict.Source
}

func (i StarDictIngestor) Origin() string { return "stardict" }

func (i StarDictIngestor) Ingest(ctx context.Context, language, outLang string, _ bool) ([]corpus.Entry, error) {
	return i.Source.GetEntries(ctx, language, outLang)
}
