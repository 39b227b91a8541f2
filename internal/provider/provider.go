// Package provider defines the capability boundary the assembler's
// enrichment pass uses to pull in bilingual example sentences for
// headwords already present in the merged corpus, plus a Tatoeba-backed
// implementation of it.
package provider

import "github.com/heartmarshall/dictforge/internal/corpus"

// ExampleProvider supplies example sentence pairs and fallback glosses for
// headwords, keyed by the same normalized merge key the corpus uses.
type ExampleProvider interface {
	// Vocabulary returns the set of normalized keys this provider has
	// examples for.
	Vocabulary() map[string]bool

	// ExamplesFor returns the example pairs known for a normalized key, in
	// the provider's preferred order (TatoebaProvider: case-insensitive
	// lexicographic by source text, then translation).
	// Returns nil if the key is unknown.
	ExamplesFor(key string) []corpus.ExamplePair

	// GlossFor returns the translation of the first example pair for key,
	// usable as a fallback gloss when a headword otherwise has none.
	GlossFor(key string) (string, bool)
}
