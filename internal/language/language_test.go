package language_test

import (
	"testing"

	"sublens/internal/language"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en-US", "en"},
		{"fr-FR", "fr"},
		{"fra", "fr"},
		{"fre", "fr"},
		{"deu", "de"},
		{"ger", "de"},
		{"zho", "zh"},
		{"chi", "zh"},
		{"pt-BR", "pt"},
		{" ja ", "ja"},
		{"", ""},
		{"not-a-language-at-all", ""},
	}
	for _, tt := range tests {
		if got := language.Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"fr", "French"},
		{"fre", "French"},
		{"en-US", "English"},
		{"ja", "Japanese"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		if got := language.DisplayName(tt.input); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	if !language.Match("fr-FR", "fre") {
		t.Error("expected fr-FR to match fre")
	}
	if language.Match("fr", "es") {
		t.Error("expected fr not to match es")
	}
	if language.Match("", "") {
		t.Error("expected empty codes never to match")
	}
}

func TestNormalizeList(t *testing.T) {
	got := language.NormalizeList([]string{"en-US", "eng", "fr", "bogus!", "FR"})
	want := []string{"en", "fr"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NormalizeList = %v, want %v", got, want)
		}
	}
}
