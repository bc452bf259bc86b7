package subtitle

// MinPairOverlap is the temporal overlap (seconds) a target cue must share
// with an original cue to count as its pair in native target mode.
const MinPairOverlap = 0.1

// MergeDual merges original cues with machine-translated target cues into
// dual records at parse time (API translation mode): exact timing match
// first, then best overlap. Originals without any target match carry the
// pending placeholder until the translation fill queue replaces it.
func MergeDual(videoID string, original, target []ParsedCue, placeholder string) []Cue {
	cues := make([]Cue, 0, len(original))
	for _, orig := range original {
		cue := Cue{
			VideoID:    videoID,
			Type:       CueDual,
			Start:      orig.Start,
			End:        orig.End,
			Original:   orig.Text,
			Translated: placeholder,
		}
		if match, ok := bestMatch(cue, target); ok {
			cue.Translated = match.Text
		}
		cues = append(cues, cue)
	}
	return cues
}

// SplitNative converts both tracks into separate original/target records
// (native target mode); pairing happens at render time.
func SplitNative(videoID string, original, target []ParsedCue) []Cue {
	cues := make([]Cue, 0, len(original)+len(target))
	for _, c := range original {
		cues = append(cues, Cue{
			VideoID:      videoID,
			Type:         CueOriginal,
			Start:        c.Start,
			End:          c.End,
			Original:     c.Text,
			NativeTarget: true,
		})
	}
	for _, c := range target {
		cues = append(cues, Cue{
			VideoID:      videoID,
			Type:         CueTarget,
			Start:        c.Start,
			End:          c.End,
			Translated:   c.Text,
			NativeTarget: true,
		})
	}
	return cues
}

// bestMatch finds the parsed cue pairing with ref: exact timing wins, else
// the largest overlap above zero.
func bestMatch(ref Cue, candidates []ParsedCue) (ParsedCue, bool) {
	var best ParsedCue
	bestOverlap := 0.0
	found := false
	for _, cand := range candidates {
		c := Cue{Start: cand.Start, End: cand.End}
		if sameTiming(ref, c) {
			return cand, true
		}
		if ov := overlap(ref, c); ov > bestOverlap {
			best, bestOverlap, found = cand, ov, true
		}
	}
	return best, found
}

// PairTarget picks the target record pairing with an active original record:
// exact timing first, then maximum overlap above MinPairOverlap.
func PairTarget(original Cue, targets []Cue) (Cue, bool) {
	var best Cue
	bestOverlap := 0.0
	found := false
	for _, t := range targets {
		if t.Type != CueTarget {
			continue
		}
		if sameTiming(original, t) {
			return t, true
		}
		if ov := overlap(original, t); ov > MinPairOverlap && ov > bestOverlap {
			best, bestOverlap, found = t, ov, true
		}
	}
	return best, found
}
