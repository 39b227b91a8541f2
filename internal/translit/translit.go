// Package translit converts Serbian Cyrillic text to its Gaj Latin
// equivalent using a fixed, deterministic codepoint table.
package translit

// cyrillicToLatin maps every Cyrillic letter used in Serbian (full upper
// and lower ranges) to its Gaj Latin equivalent, including the digraphs
// Љ/љ→Lj/lj, Њ/њ→Nj/nj, Џ/џ→Dž/dž. Codepoints absent from this table pass
// through unchanged.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'ђ': "đ", 'е': "e",
	'ж': "ž", 'з': "z", 'и': "i", 'ј': "j", 'к': "k", 'л': "l", 'љ': "lj",
	'м': "m", 'н': "n", 'њ': "nj", 'о': "o", 'п': "p", 'р': "r", 'с': "s",
	'т': "t", 'ћ': "ć", 'у': "u", 'ф': "f", 'х': "h", 'ц': "c", 'ч': "č",
	'џ': "dž", 'ш': "š",

	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Ђ': "Đ", 'Е': "E",
	'Ж': "Ž", 'З': "Z", 'И': "I", 'Ј': "J", 'К': "K", 'Л': "L", 'Љ': "Lj",
	'М': "M", 'Н': "N", 'Њ': "Nj", 'О': "O", 'П': "P", 'Р': "R", 'С': "S",
	'Т': "T", 'Ћ': "Ć", 'У': "U", 'Ф': "F", 'Х': "H", 'Ц': "C", 'Ч': "Č",
	'Џ': "Dž", 'Ш': "Š",
}

// ToLatin transliterates Serbian Cyrillic characters in s to Gaj Latin.
// Characters not present in the table, including ordinary Latin text, are
// copied unchanged.
func ToLatin(s string) string {
	var b []byte
	for _, r := range s {
		if lat, ok := cyrillicToLatin[r]; ok {
			b = append(b, lat...)
			continue
		}
		b = append(b, string(r)...)
	}
	return string(b)
}
