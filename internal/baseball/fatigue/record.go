// Package fatigue tracks pitcher workload and derives effective control.
//
// Records are values: every mutation returns an updated copy so a resolution
// in progress never aliases the state it started from.
package fatigue

import "sort"

// Record is one pitcher's cumulative workload within a game.
type Record struct {
	RunsAllowed     int         `json:"runs_allowed"`
	InningsPitched  []int       `json:"innings_pitched"`
	FatigueModifier int         `json:"fatigue_modifier"`
	BattersFaced    int         `json:"batters_faced"`
	OutsRecorded    int         `json:"outs_recorded"`
	BattersByInning map[int]int `json:"batters_by_inning,omitempty"`
}

// Carried returns the starting record for a pitcher who begins a game already
// worn down by ip innings of carry-over workload.
func Carried(ip int) Record {
	modifier := -ip
	if modifier > 0 {
		modifier = 0
	}
	return Record{InningsPitched: []int{}, FatigueModifier: modifier}
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := r
	if r.InningsPitched != nil {
		out.InningsPitched = append(make([]int, 0, len(r.InningsPitched)), r.InningsPitched...)
	}
	if r.BattersByInning != nil {
		out.BattersByInning = make(map[int]int, len(r.BattersByInning))
		for k, v := range r.BattersByInning {
			out.BattersByInning[k] = v
		}
	}
	return out
}

// HasPitched reports whether any inning has been recorded.
func (r Record) HasPitched() bool {
	return len(r.InningsPitched) > 0
}

// PitchedIn reports whether inning is recorded.
func (r Record) PitchedIn(inning int) bool {
	i := sort.SearchInts(r.InningsPitched, inning)
	return i < len(r.InningsPitched) && r.InningsPitched[i] == inning
}

// WithInning records inning. Recording the same inning twice is a no-op.
func (r Record) WithInning(inning int) Record {
	if r.PitchedIn(inning) {
		return r.Clone()
	}
	out := r.Clone()
	out.InningsPitched = append(out.InningsPitched, inning)
	sort.Ints(out.InningsPitched)
	return out
}

// WithoutInning removes inning from the record.
func (r Record) WithoutInning(inning int) Record {
	out := r.Clone()
	kept := out.InningsPitched[:0]
	for _, in := range out.InningsPitched {
		if in != inning {
			kept = append(kept, in)
		}
	}
	out.InningsPitched = kept
	delete(out.BattersByInning, inning)
	return out
}

// WithBatter counts one batter faced in inning.
func (r Record) WithBatter(inning int) Record {
	out := r.Clone()
	out.BattersFaced++
	if out.BattersByInning == nil {
		out.BattersByInning = map[int]int{}
	}
	out.BattersByInning[inning]++
	return out
}

// BattersIn returns how many batters were faced in inning.
func (r Record) BattersIn(inning int) int {
	return r.BattersByInning[inning]
}

// WithRun charges one run.
func (r Record) WithRun() Record {
	out := r.Clone()
	out.RunsAllowed++
	return out
}

// WithOuts credits n outs.
func (r Record) WithOuts(n int) Record {
	out := r.Clone()
	out.OutsRecorded += n
	return out
}
