package fatigue

import "github.com/louisbranch/diamond/internal/baseball/card"

// Mode selects which innings count toward fatigue.
type Mode int

const (
	// Projected counts the current inning even before it is recorded. Used
	// for pre-pitch display and for the pitch itself.
	Projected Mode = iota
	// Recorded counts only innings already in the record. Used when gating
	// decisions such as substitutions.
	Recorded
)

// Threshold is the inning count above which control degrades.
func Threshold(pitcher card.PlayerCard, rec Record) int {
	return (pitcher.IP + rec.FatigueModifier) - rec.RunsAllowed/3
}

// InningCount returns the innings that count toward fatigue under mode.
func InningCount(rec Record, inning int, mode Mode) int {
	count := len(rec.InningsPitched)
	if mode == Projected && !rec.PitchedIn(inning) {
		count++
	}
	return count
}

// Penalty is how far the pitcher is past their threshold, never negative.
func Penalty(pitcher card.PlayerCard, rec Record, inning int, mode Mode) int {
	over := InningCount(rec, inning, mode) - Threshold(pitcher, rec)
	if over < 0 {
		return 0
	}
	return over
}

// EffectiveControl is the pitcher's control after fatigue. Display, pitch
// resolution and substitution checks all go through here.
func EffectiveControl(pitcher card.PlayerCard, rec Record, inning int, mode Mode) int {
	return pitcher.ControlRating() - Penalty(pitcher, rec, inning, mode)
}

// IsTired reports whether the pitcher has any fatigue penalty under mode.
func IsTired(pitcher card.PlayerCard, rec Record, inning int, mode Mode) bool {
	return Penalty(pitcher, rec, inning, mode) > 0
}
