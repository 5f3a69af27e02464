package domain

// Voice is the speech rate and pitch multiplier for one utterance.
type Voice struct {
	Rate  float64
	Pitch float64
}

// VoiceFor maps a plan tone onto speech settings. Tones without a fixed
// voice fall back to the personality.
func VoiceFor(tone, personality string) Voice {
	switch tone {
	case ToneStrict:
		return Voice{Rate: 1.2, Pitch: 0.8}
	case ToneGentle:
		return Voice{Rate: 0.9, Pitch: 1.1}
	}
	switch personality {
	case "drill_sergeant":
		return Voice{Rate: 1.15, Pitch: 0.85}
	case "calm_coach":
		return Voice{Rate: 0.85, Pitch: 1.0}
	case "hype_mode":
		return Voice{Rate: 1.2, Pitch: 1.2}
	case "roast_mode":
		return Voice{Rate: 1.05, Pitch: 0.95}
	}
	return Voice{Rate: 1.0, Pitch: 1.0}
}
