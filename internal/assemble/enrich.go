package assemble

import (
	"github.com/heartmarshall/dictforge/internal/corpus"
	"github.com/heartmarshall/dictforge/internal/normalize"
)

// enrich runs step 5: it adopts example-provider glosses/examples onto
// existing entries and synthesizes new entries for provider vocabulary
// the merge pass never saw. It returns (enrichedCount, overlap,
// tatoebaTotal, tatoebaUnique).
func (a *Assembler) enrich(index map[string]*corpus.Entry, order *[]string, serbianMode bool) (int, int, int, int) {
	vocab := a.examples.Vocabulary()
	tatoebaUnique := len(vocab)
	tatoebaTotal := 0
	overlap := 0
	enriched := 0

	for key, entry := range index {
		examples := a.examples.ExamplesFor(key)
		gloss, hasGloss := a.examples.GlossFor(key)
		if len(examples) == 0 && !hasGloss {
			continue
		}
		overlap++
		tatoebaTotal += len(examples)

		if applyEnrichment(entry, examples, gloss, hasGloss) {
			enriched++
		}
	}

	for key := range vocab {
		if _, ok := index[key]; ok {
			continue
		}
		examples := a.examples.ExamplesFor(key)
		gloss, hasGloss := a.examples.GlossFor(key)
		tatoebaTotal += len(examples)

		entry := synthesizeEntry(key, examples, gloss, hasGloss, serbianMode)
		index[key] = entry
		*order = append(*order, key)
	}

	for _, key := range *order {
		entry := index[key]
		entry.Senses = corpus.DedupSenses(entry.Senses)
	}

	return enriched, overlap, tatoebaTotal, tatoebaUnique
}

// applyEnrichment adopts gloss onto sense 0 (only if it has none yet) and
// appends deduped new examples. It reports whether anything changed.
func applyEnrichment(entry *corpus.Entry, examples []corpus.ExamplePair, gloss string, hasGloss bool) bool {
	changed := false

	if len(entry.Senses) == 0 {
		entry.Senses = append(entry.Senses, corpus.Sense{})
	}
	sense := &entry.Senses[0]

	if hasGloss && len(sense.Glosses) == 0 {
		sense.Glosses = []string{gloss}
		sense.RawGlosses = []string{gloss}
		changed = true
	}

	if len(examples) > 0 {
		before := len(sense.Examples)
		sense.Examples = corpus.AppendExamples(sense.Examples, examples)
		if len(sense.Examples) != before {
			changed = true
		}
	}

	if changed {
		entry.AddOrigin("tatoeba")
	}
	return changed
}

// synthesizeEntry builds a brand-new entry for a provider-only headword:
// display word from the first example's source side, falling back to the
// key itself.
func synthesizeEntry(key string, examples []corpus.ExamplePair, gloss string, hasGloss bool, serbianMode bool) *corpus.Entry {
	word := key
	if len(examples) > 0 {
		word = examples[0].Text
	}

	sense := corpus.Sense{Examples: append([]corpus.ExamplePair(nil), examples...)}
	if hasGloss {
		sense.Glosses = []string{gloss}
		sense.RawGlosses = []string{gloss}
	}

	return &corpus.Entry{
		Word:   normalize.Display(word, serbianMode),
		Key:    key,
		Senses: []corpus.Sense{sense},
		Origin: []string{"tatoeba"},
	}
}
