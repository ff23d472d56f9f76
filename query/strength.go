package query

// Strength is a coarse label for a cosine similarity score, meant for
// presentation rather than ranking.
type Strength string

const (
	// StrengthStrong marks a very strong semantic match.
	StrengthStrong Strength = "strong"

	// StrengthGood marks a good, relevant match.
	StrengthGood Strength = "good"

	// StrengthWeak marks a weak but related match.
	StrengthWeak Strength = "weak"

	// StrengthIrrelevant marks a score too low to be meaningful.
	StrengthIrrelevant Strength = "irrelevant"
)

// Band thresholds for normalized-embedding cosine scores.
const (
	strongThreshold = 0.45
	goodThreshold   = 0.30
	weakThreshold   = 0.20
)

// MatchStrength classifies a cosine similarity score into a band.
func MatchStrength(score float32) Strength {
	switch {
	case score >= strongThreshold:
		return StrengthStrong
	case score >= goodThreshold:
		return StrengthGood
	case score >= weakThreshold:
		return StrengthWeak
	default:
		return StrengthIrrelevant
	}
}
