package kindle

import "testing"

func TestLangCodeDirect(t *testing.T) {
	got, err := LangCode("hr", "")
	if err != nil || got != "hr" {
		t.Fatalf("LangCode(hr) = %q, %v", got, err)
	}
}

func TestLangCodeSerbianFallsBackToCroatian(t *testing.T) {
	got, err := LangCode("sr", "")
	if err != nil || got != "hr" {
		t.Fatalf("LangCode(sr) = %q, %v", got, err)
	}
}

func TestLangCodeEnglishDefaultsToUS(t *testing.T) {
	got, err := LangCode("en", "")
	if err != nil || got != "en-us" {
		t.Fatalf("LangCode(en) = %q, %v", got, err)
	}
}

func TestLangCodeEmptyDefaultsToUS(t *testing.T) {
	got, err := LangCode("", "")
	if err != nil || got != "en-us" {
		t.Fatalf("LangCode(\"\") = %q, %v", got, err)
	}
}

func TestLangCodeOverrideValid(t *testing.T) {
	got, err := LangCode("sr", "sr-latn")
	if err != nil || got != "sr-latn" {
		t.Fatalf("LangCode override = %q, %v", got, err)
	}
}

func TestLangCodeOverrideInvalid(t *testing.T) {
	_, err := LangCode("sr", "xx-invalid")
	if err == nil {
		t.Fatal("expected error for invalid override")
	}
}
