package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Legacy ISO 639-2/B codes some subtitle pipelines still emit. The x/text
// parser only knows the terminology (T) variants.
var bibliographic = map[string]string{
	"fre": "fr",
	"ger": "de",
	"dut": "nl",
	"chi": "zh",
	"cze": "cs",
	"gre": "el",
	"ice": "is",
	"rum": "ro",
	"slo": "sk",
	"per": "fa",
	"may": "ms",
	"mac": "mk",
	"alb": "sq",
	"arm": "hy",
	"geo": "ka",
	"wel": "cy",
	"baq": "eu",
	"bur": "my",
	"tib": "bo",
}

var namer = display.English.Tags()

// Normalize folds any recognized language identifier to its lowercase base
// code: "fr-FR", "fra", "fre", and "FR" all become "fr". Unrecognized input
// yields the empty string.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if mapped, ok := bibliographic[code]; ok {
		return mapped
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// DisplayName returns the English name of a language identifier, "Unknown"
// for empty input, and the uppercased input when nothing matches.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	normalized := Normalize(trimmed)
	if normalized == "" {
		return strings.ToUpper(trimmed)
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	if name := namer.Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(trimmed)
}

// Match reports whether two identifiers denote the same base language.
// Unrecognized identifiers never match anything.
func Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return na != "" && na == nb
}

// NormalizeList folds a track list to deduplicated base codes, preserving
// first-seen order and dropping unrecognized entries.
func NormalizeList(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		normalized := Normalize(code)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
