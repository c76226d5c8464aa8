package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple two words", "Dragon Model", "dragon-model"},
		{"with year", "Texture Pack 2026", "texture-pack-2026"},
		{"underscores", "low_poly_tree", "low-poly-tree"},
		{"inner dots", "model.v2.final", "model-v2-final"},
		{"tabs and newlines", "a\tb\nc", "a-b-c"},
		{"punctuation", "Hello, World! How's it going?", "hello-world-hows-it-going"},
		{"ampersand and at sign", "Rock & Roll @ the Arena", "rock-roll-the-arena"},
		{"slashes", "front/back", "frontback"},
		{"existing hyphens", "sci-fi -- crate", "sci-fi-crate"},
		{"leading and trailing separators", "  _hello_  ", "hello"},
		{"non-ascii only", "архив", ""},
		{"mixed non-ascii", "café menu", "caf-menu"},
		{"empty", "", ""},
		{"only symbols", "!@#$%", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	for _, in := range []string{"Dragon Model", "low_poly tree.v2", "Rock & Roll"} {
		once := Generate(in)
		if twice := Generate(once); twice != once {
			t.Errorf("Generate not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"dragon-model", 7, "dragon"},
		{"dragon-model", 6, "dragon"},
		{strings.Repeat("a", 150), 100, strings.Repeat("a", 100)},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
