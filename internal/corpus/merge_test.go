package corpus

import "testing"

func TestMergeAdditive(t *testing.T) {
	dst := &Entry{Word: "kuća", Senses: []Sense{{Glosses: []string{"house"}}}, Origin: []string{"kaikki"}}
	src := &Entry{Word: "кућа", Senses: []Sense{{Glosses: []string{"home"}}}, Origin: []string{"stardict"}}

	Merge(dst, src)

	if len(dst.Senses) != 2 {
		t.Fatalf("expected 2 senses, got %d", len(dst.Senses))
	}
	if len(dst.Origin) != 2 {
		t.Fatalf("expected 2 origins, got %v", dst.Origin)
	}
}

func TestMergeAdoptsEmptyDst(t *testing.T) {
	dst := &Entry{Word: "kuća"}
	src := &Entry{Word: "кућа", Senses: []Sense{{Glosses: []string{"home"}}}}

	Merge(dst, src)

	if len(dst.Senses) != 1 {
		t.Fatalf("expected adopted senses, got %d", len(dst.Senses))
	}
}

func TestDedupExamples(t *testing.T) {
	in := []ExamplePair{
		{Text: "a", Translation: "b"},
		{Text: "a", Translation: "b"},
		{Text: "c", Translation: "d"},
	}
	out := DedupExamples(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 unique examples, got %d", len(out))
	}
}

func TestAppendExamplesSkipsDuplicates(t *testing.T) {
	dst := []ExamplePair{{Text: "a", Translation: "b"}}
	src := []ExamplePair{{Text: "a", Translation: "b"}, {Text: "c", Translation: "d"}}

	out := AppendExamples(dst, src)
	if len(out) != 2 {
		t.Fatalf("expected 2 examples after append, got %d", len(out))
	}
}

func TestEntryHasContent(t *testing.T) {
	empty := &Entry{Word: "x", Senses: []Sense{{}}}
	if empty.HasContent() {
		t.Error("expected no content")
	}

	withGloss := &Entry{Word: "x", Senses: []Sense{{Glosses: []string{"y"}}}}
	if !withGloss.HasContent() {
		t.Error("expected content")
	}
}
