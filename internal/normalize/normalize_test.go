package normalize

import "testing"

func TestDisplay(t *testing.T) {
	if got := Display("  kuća   lepa  ", false); got != "kuća lepa" {
		t.Errorf("Display = %q", got)
	}
	if got := Display("кућа", true); got != "kuća" {
		t.Errorf("Display serbianMode = %q", got)
	}
}

func TestKey(t *testing.T) {
	cases := []struct {
		word        string
		serbianMode bool
		want        string
	}{
		{"House!", false, "house"},
		{"кућа", true, "kuća"},
		{"Šuma-planina", false, "šuma-planina"},
		{"   ", false, ""},
		{"Hello, World?", false, "hello world"},
	}
	for _, c := range cases {
		if got := Key(c.word, c.serbianMode); got != c.want {
			t.Errorf("Key(%q, %v) = %q, want %q", c.word, c.serbianMode, got, c.want)
		}
	}
}

func TestKeyNonEmptyInvariant(t *testing.T) {
	words := []string{"house", "кућа", "Šuma", "don't"}
	for _, w := range words {
		if Key(w, true) == "" {
			t.Errorf("Key(%q) unexpectedly empty", w)
		}
	}
}
