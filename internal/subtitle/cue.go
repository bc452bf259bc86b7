package subtitle

// CueType tags how a cue record participates in display resolution.
type CueType string

const (
	// CueOriginal is a source-language record in native target mode.
	CueOriginal CueType = "original"
	// CueTarget is a platform-provided target-language record in native
	// target mode.
	CueTarget CueType = "target"
	// CueDual carries both languages in one record.
	CueDual CueType = "dual"
)

// Cue is one timed subtitle record. Start and End are seconds; Start < End
// always holds for cues that survived parsing.
type Cue struct {
	VideoID      string
	Type         CueType
	Start        float64
	End          float64
	Original     string
	Translated   string
	NativeTarget bool
}

// ActiveAt reports whether the cue covers the instant t. Both interval ends
// are inclusive.
func (c Cue) ActiveAt(t float64) bool {
	return t >= c.Start && t <= c.End
}

// overlap returns the length of the temporal intersection of two cues.
func overlap(a, b Cue) float64 {
	start := a.Start
	if b.Start > start {
		start = b.Start
	}
	end := a.End
	if b.End < end {
		end = b.End
	}
	if end <= start {
		return 0
	}
	return end - start
}

// sameTiming reports an exact timing match within a millisecond tolerance.
func sameTiming(a, b Cue) bool {
	const eps = 0.001
	return abs(a.Start-b.Start) < eps && abs(a.End-b.End) < eps
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
