// Package check resolves contested rolls: an attacking rating plus
// situational adjustments against a defending rating plus a die.
package check

import "github.com/louisbranch/diamond/internal/core/dice"

// MeetsDifficulty returns true if total >= difficulty.
// Ties go to the attacker.
func MeetsDifficulty(total, difficulty int) bool {
	return total >= difficulty
}

// Margin calculates the margin of success or failure.
// Positive values indicate success, negative indicate failure.
func Margin(total, difficulty int) int {
	return total - difficulty
}

// Adjustment is one labelled situational modifier.
type Adjustment struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Request describes a contest before the die is rolled.
type Request struct {
	Speed              int
	Adjustments        []Adjustment
	Defense            int
	DefenseAdjustments []Adjustment
}

// Result reports everything needed to render or replay a contest.
type Result struct {
	Roll               int          `json:"roll"`
	Speed              int          `json:"speed"`
	AdjustedSpeed      int          `json:"adjusted_speed"`
	Adjustments        []Adjustment `json:"adjustments,omitempty"`
	Defense            int          `json:"defense"`
	DefenseTotal       int          `json:"defense_total"`
	DefenseAdjustments []Adjustment `json:"defense_adjustments,omitempty"`
	Margin             int          `json:"margin"`
	Safe               bool         `json:"safe"`
}

// Contest rolls a d20 for the defense and resolves the request.
func Contest(request Request, roller dice.Roller) Result {
	return Resolve(request, roller.Roll(dice.D20))
}

// Resolve resolves the request against an already rolled die.
func Resolve(request Request, roll int) Result {
	adjusted := request.Speed + Sum(request.Adjustments)
	defenseTotal := request.Defense + Sum(request.DefenseAdjustments) + roll
	return Result{
		Roll:               roll,
		Speed:              request.Speed,
		AdjustedSpeed:      adjusted,
		Adjustments:        cloneAdjustments(request.Adjustments),
		Defense:            request.Defense,
		DefenseTotal:       defenseTotal,
		DefenseAdjustments: cloneAdjustments(request.DefenseAdjustments),
		Margin:             Margin(adjusted, defenseTotal),
		Safe:               MeetsDifficulty(adjusted, defenseTotal),
	}
}

// Sum totals adjustment values.
func Sum(adjustments []Adjustment) int {
	total := 0
	for _, adj := range adjustments {
		total += adj.Value
	}
	return total
}

func cloneAdjustments(in []Adjustment) []Adjustment {
	if len(in) == 0 {
		return nil
	}
	out := make([]Adjustment, len(in))
	copy(out, in)
	return out
}
