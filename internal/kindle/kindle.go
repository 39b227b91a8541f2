// Package kindle resolves ISO-ish language codes to the closed set of
// BCP-47-ish locale codes accepted by Kindle packaging tooling.
package kindle

import (
	"fmt"
	"strings"
)

// SupportedLocales is the closed set of Kindle-accepted locale codes.
var SupportedLocales = buildSupportedLocales()

// overrides maps a normalized code to the locale Kindle actually expects
// when the bare code isn't directly supported or is ambiguous.
var overrides = map[string]string{
	"sr": "hr",
	"en": "en-us",
}

// LangCodeError is raised when an explicit override is not a supported
// Kindle locale.
type LangCodeError struct {
	Override string
}

func (e *LangCodeError) Error() string {
	return fmt.Sprintf("kindle language override %q is not supported by Kindle", e.Override)
}

// LangCode resolves code to a Kindle-supported locale. If override is
// non-empty, it is validated against SupportedLocales and returned
// lowercased, or a *LangCodeError otherwise. If code is empty, "en-us" is
// returned. Otherwise code is lowercased, the overrides table is applied
// (e.g. "sr"→"hr", "en"→"en-us"), and the result is returned if it is
// supported; if it is not, "en-us" is returned as the final fallback.
func LangCode(code string, override string) (string, error) {
	if override != "" {
		norm := strings.ToLower(override)
		if _, ok := SupportedLocales[norm]; ok {
			return norm, nil
		}
		return "", &LangCodeError{Override: override}
	}

	if code == "" {
		return "en-us", nil
	}

	norm := strings.ToLower(code)
	if mapped, ok := overrides[norm]; ok {
		norm = mapped
	}
	if _, ok := SupportedLocales[norm]; ok {
		return norm, nil
	}
	return "en-us", nil
}

func buildSupportedLocales() map[string]struct{} {
	codes := []string{
		"af", "sq", "ar", "ar-dz", "ar-bh", "ar-eg", "ar-iq", "ar-jo", "ar-kw",
		"ar-lb", "ar-ly", "ar-ma", "ar-om", "ar-qa", "ar-sa", "ar-sy", "ar-tn",
		"ar-ae", "ar-ye", "hy", "az", "eu", "be", "bn", "bg", "ca",
		"zh", "zh-hk", "zh-cn", "zh-sg", "zh-tw",
		"hr", "cs", "da", "nl", "nl-be",
		"en", "en-au", "en-bz", "en-ca", "en-ie", "en-jm", "en-nz", "en-ph",
		"en-za", "en-tt", "en-gb", "en-us", "en-zw",
		"et", "fo", "fa", "fi", "fr", "fr-be", "fr-ca", "fr-lu", "fr-mc", "fr-ch",
		"ka", "de", "de-at", "de-li", "de-lu", "de-ch",
		"el", "gu", "he", "hi", "hu", "is", "id", "it", "it-ch",
		"ja", "kn", "kk", "x-kok", "ko", "lv", "lt", "mk", "ms", "ms-bn",
		"ml", "mt", "mr", "ne", "no", "no-bok", "no-nyn", "or",
		"pl", "pt", "pt-br", "pa", "rm", "ro", "ro-mo", "ru", "ru-mo",
		"sz", "sa", "sr-latn", "sk", "sl", "sb",
		"es", "es-ar", "es-bo", "es-cl", "es-co", "es-cr", "es-do", "es-ec",
		"es-sv", "es-gt", "es-hn", "es-mx", "es-ni", "es-pa", "es-py", "es-pe",
		"es-pr", "es-uy", "es-ve",
		"sx", "sw", "sv", "sv-fi", "ta", "tt", "te", "th", "ts", "tn",
		"tr", "uk", "ur", "uz", "vi", "xh", "zu",
	}
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m
}
