package corpus

// Merge combines src into dst in place for two Entries sharing a merge key.
// For each list-typed field (Senses, Forms): if both sides are non-empty,
// src's items are appended to dst's; if dst is empty, it adopts src's list
// wholesale. Origin tags are unioned.
func Merge(dst, src *Entry) {
	if len(dst.Senses) == 0 {
		dst.Senses = src.Senses
	} else if len(src.Senses) > 0 {
		dst.Senses = append(dst.Senses, src.Senses...)
	}

	if len(dst.Forms) == 0 {
		dst.Forms = src.Forms
	} else if len(src.Forms) > 0 {
		dst.Forms = append(dst.Forms, src.Forms...)
	}

	for _, tag := range src.Origin {
		dst.AddOrigin(tag)
	}
}

// DedupExamples removes duplicate (text, translation) pairs from examples,
// keeping first-seen order.
func DedupExamples(examples []ExamplePair) []ExamplePair {
	if len(examples) == 0 {
		return examples
	}
	seen := make(map[ExamplePair]bool, len(examples))
	out := make([]ExamplePair, 0, len(examples))
	for _, ex := range examples {
		if seen[ex] {
			continue
		}
		seen[ex] = true
		out = append(out, ex)
	}
	return out
}

// AppendExamples appends src examples onto dst, skipping any pair already
// present in dst (by exact (text, translation) equality).
func AppendExamples(dst []ExamplePair, src []ExamplePair) []ExamplePair {
	seen := make(map[ExamplePair]bool, len(dst))
	for _, ex := range dst {
		seen[ex] = true
	}
	for _, ex := range src {
		if seen[ex] {
			continue
		}
		seen[ex] = true
		dst = append(dst, ex)
	}
	return dst
}

// senseKey groups senses for the enrichment-pass dedup described in the
// assembler's merge step; it is not used by the bare additive Merge above.
type senseKey struct {
	definition string
	pos        string
}

// DedupSenses merges senses sharing an identical first gloss, concatenating
// their examples (deduped) and unioning their remaining glosses. Used only
// by the enrichment pass, matching the spec's note that the bare merge
// stays additive and dedup is applied separately.
func DedupSenses(senses []Sense) []Sense {
	if len(senses) == 0 {
		return senses
	}

	order := make([]senseKey, 0, len(senses))
	grouped := make(map[senseKey]*Sense, len(senses))

	for _, s := range senses {
		def := ""
		if len(s.Glosses) > 0 {
			def = s.Glosses[0]
		} else if len(s.RawGlosses) > 0 {
			def = s.RawGlosses[0]
		}
		key := senseKey{definition: def}

		if existing, ok := grouped[key]; ok {
			existing.Glosses = appendUnique(existing.Glosses, s.Glosses...)
			existing.RawGlosses = appendUnique(existing.RawGlosses, s.RawGlosses...)
			existing.Examples = AppendExamples(existing.Examples, s.Examples)
			existing.Links = appendUnique(existing.Links, s.Links...)
			continue
		}

		cp := s
		grouped[key] = &cp
		order = append(order, key)
	}

	out := make([]Sense, 0, len(order))
	for _, k := range order {
		out = append(out, *grouped[k])
	}
	return out
}

func appendUnique(dst []string, src ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		dst = append(dst, s)
	}
	return dst
}
