package pivot

import (
	"reflect"
	"testing"
)

func TestChain(t *testing.T) {
	srcToEn := map[string][]string{
		"кућа": {"house"},
	}
	enToRu := map[string][]string{
		"house": {"дом"},
	}

	got := Chain(srcToEn, enToRu)
	want := map[string][]string{"кућа": {"дом"}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chain = %v, want %v", got, want)
	}
}

func TestChainDropsEmptyUnions(t *testing.T) {
	srcToEn := map[string][]string{"x": {"unknown"}}
	enToRu := map[string][]string{"house": {"дом"}}

	got := Chain(srcToEn, enToRu)
	if len(got) != 0 {
		t.Errorf("expected empty chain result, got %v", got)
	}
}

func TestChainLowercasesPivotLookup(t *testing.T) {
	srcToEn := map[string][]string{
		"кућа": {"House"},
	}
	enToRu := map[string][]string{
		"house": {"дом"},
	}

	got := Chain(srcToEn, enToRu)
	want := map[string][]string{"кућа": {"дом"}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chain = %v, want %v", got, want)
	}
}

func TestChainDedupsAndSorts(t *testing.T) {
	srcToEn := map[string][]string{"x": {"a", "b"}}
	enToRu := map[string][]string{
		"a": {"z", "m"},
		"b": {"m", "a"},
	}

	got := Chain(srcToEn, enToRu)
	want := []string{"a", "m", "z"}
	if !reflect.DeepEqual(got["x"], want) {
		t.Errorf("Chain[x] = %v, want %v", got["x"], want)
	}
}
