package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ParsedCue is a raw cue from one VTT track, before merge policy applies.
type ParsedCue struct {
	Start float64
	End   float64
	Text  string
}

var (
	markupTagRe = regexp.MustCompile(`<[^>]*>`)
	metadataRe  = regexp.MustCompile(`^(Kind|Language|NOTE|STYLE|REGION)\b`)
)

// ParseVTT parses WebVTT content into cues. The payload is rejected wholesale
// unless it begins with the WEBVTT header (case-insensitive). Individual
// malformed blocks are dropped silently.
func ParseVTT(content string) ([]ParsedCue, error) {
	content = strings.TrimPrefix(content, "\uFEFF")
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "WEBVTT") {
		return nil, fmt.Errorf("missing WEBVTT header")
	}

	lines := strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n")
	var cues []ParsedCue
	var current *ParsedCue
	var textLines []string

	flush := func() {
		if current == nil {
			return
		}
		text := NormalizeText(strings.Join(textLines, " "))
		if text != "" && validTiming(current.Start, current.End) {
			current.Text = text
			cues = append(cues, *current)
		}
		current = nil
		textLines = nil
	}

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if i == 0 {
			// WEBVTT header, possibly with trailing metadata.
			continue
		}
		if line == "" {
			flush()
			continue
		}
		if metadataRe.MatchString(line) && current == nil {
			continue
		}
		if strings.Contains(line, "-->") {
			flush()
			parts := strings.SplitN(line, "-->", 2)
			start, errS := ParseTimestamp(parts[0])
			endText := strings.TrimSpace(parts[1])
			// Drop positioning settings after the end timestamp.
			if fields := strings.Fields(endText); len(fields) > 0 {
				endText = fields[0]
			}
			end, errE := ParseTimestamp(endText)
			if errS != nil || errE != nil {
				continue
			}
			current = &ParsedCue{Start: start, End: end}
			continue
		}
		if current == nil {
			// Cue identifier line; the next timing line starts the block.
			continue
		}
		textLines = append(textLines, line)
	}
	flush()

	return cues, nil
}

// ParseTimestamp converts a VTT timestamp into seconds. Supported shapes are
// HH:MM:SS.mmm, MM:SS.mmm, and bare seconds, with either comma or period as
// the fractional separator.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.Replace(value, ",", ".", 1)

	parts := strings.Split(value, ":")
	var multipliers []float64
	switch len(parts) {
	case 1:
		multipliers = []float64{1}
	case 2:
		multipliers = []float64{60, 1}
	case 3:
		multipliers = []float64{3600, 60, 1}
	default:
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	var seconds float64
	for i, part := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		seconds += n * multipliers[i]
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return seconds, nil
}

// NormalizeText strips markup and line-break tags and collapses whitespace.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "<br>", " ")
	text = strings.ReplaceAll(text, "<br/>", " ")
	text = markupTagRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

func validTiming(start, end float64) bool {
	if math.IsNaN(start) || math.IsNaN(end) {
		return false
	}
	return start < end
}
