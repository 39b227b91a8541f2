package translit

import "testing"

func TestToLatin(t *testing.T) {
	cases := []struct{ in, want string }{
		{"кућа", "kuća"},
		{"Љубав", "Ljubav"},
		{"њива", "njiva"},
		{"џак", "džak"},
		{"hello", "hello"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ToLatin(c.in); got != c.want {
			t.Errorf("ToLatin(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
