// Package engine resolves plate appearances and base-running decisions.
//
// Every entry point is a pure function of its request: it clones the supplied
// State, applies one transition and returns the new State with the events it
// produced. Nothing survives between calls, and all randomness comes from the
// request's dice.Roller.
package engine

import (
	"fmt"

	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/baseball/fatigue"
)

// Side identifies a team.
type Side string

const (
	SideAway Side = "away"
	SideHome Side = "home"
)

// Base is a base number. Home is the fourth base a runner reaches.
type Base int

const (
	First  Base = 1
	Second Base = 2
	Third  Base = 3
	Home   Base = 4
)

// Runner is a player on base. The pitcher of record is fixed when the runner
// reaches and is charged if the runner later scores.
type Runner struct {
	CardID            int    `json:"card_id"`
	Name              string `json:"name"`
	Speed             int    `json:"speed"`
	PitcherOfRecordID int    `json:"pitcher_of_record_id"`
}

// NewRunner builds the token for a batter reaching against pitcherID.
func NewRunner(batter card.PlayerCard, pitcherID int) Runner {
	return Runner{
		CardID:            batter.ID,
		Name:              batter.Name,
		Speed:             card.EffectiveSpeed(batter),
		PitcherOfRecordID: pitcherID,
	}
}

// Bases holds at most one runner per base.
type Bases struct {
	First  *Runner `json:"first"`
	Second *Runner `json:"second"`
	Third  *Runner `json:"third"`
}

// At returns the runner on b, or nil.
func (b Bases) At(base Base) *Runner {
	switch base {
	case First:
		return b.First
	case Second:
		return b.Second
	case Third:
		return b.Third
	default:
		return nil
	}
}

func (b *Bases) set(base Base, r *Runner) {
	switch base {
	case First:
		b.First = r
	case Second:
		b.Second = r
	case Third:
		b.Third = r
	}
}

// Loaded reports whether every base is occupied.
func (b Bases) Loaded() bool {
	return b.First != nil && b.Second != nil && b.Third != nil
}

// Empty reports whether no base is occupied.
func (b Bases) Empty() bool {
	return b.First == nil && b.Second == nil && b.Third == nil
}

// Count returns the number of runners on base.
func (b Bases) Count() int {
	n := 0
	for _, r := range []*Runner{b.First, b.Second, b.Third} {
		if r != nil {
			n++
		}
	}
	return n
}

func (b Bases) clone() Bases {
	return Bases{
		First:  cloneRunner(b.First),
		Second: cloneRunner(b.Second),
		Third:  cloneRunner(b.Third),
	}
}

func cloneRunner(r *Runner) *Runner {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

// DefensiveAction is what the fielding side chose for the at-bat.
type DefensiveAction string

const (
	ActionPitch           DefensiveAction = "pitch"
	ActionIntentionalWalk DefensiveAction = "intentional_walk"
)

// OffensiveAction is what the batting side chose for the at-bat.
type OffensiveAction string

const (
	ActionSwing OffensiveAction = "swing"
	ActionBunt  OffensiveAction = "bunt"
)

// Advantage names whose chart the swing is read from.
type Advantage string

const (
	AdvantagePitcher Advantage = "pitcher"
	AdvantageBatter  Advantage = "batter"
)

// PitchResult records the pitch roll.
type PitchResult struct {
	Roll             int       `json:"roll"`
	EffectiveControl int       `json:"effective_control"`
	FatiguePenalty   int       `json:"fatigue_penalty"`
	Total            int       `json:"total"`
	OnBase           int       `json:"on_base"`
	Advantage        Advantage `json:"advantage"`
}

// SwingResult records the swing roll and the play code it produced.
type SwingResult struct {
	Roll    int           `json:"roll"`
	Outcome card.PlayCode `json:"outcome"`
}

// AtBat is the plate appearance in progress or the one just resolved.
type AtBat struct {
	Batter          Runner          `json:"batter"`
	PitcherID       int             `json:"pitcher_id"`
	PitcherName     string          `json:"pitcher_name"`
	DefensiveAction DefensiveAction `json:"defensive_action,omitempty"`
	OffensiveAction OffensiveAction `json:"offensive_action,omitempty"`
	Pitch           *PitchResult    `json:"pitch,omitempty"`
	Swing           *SwingResult    `json:"swing,omitempty"`
	Outcome         card.PlayCode   `json:"outcome,omitempty"`
	BasesBefore     Bases           `json:"bases_before"`
	OutsBefore      int             `json:"outs_before"`
	HomeScoreBefore int             `json:"home_score_before"`
	AwayScoreBefore int             `json:"away_score_before"`
}

// InProgress reports whether one side has acted and the outcome is pending.
func (a AtBat) InProgress() bool {
	return a.Outcome == "" && (a.DefensiveAction != "" || a.OffensiveAction != "")
}

func (a AtBat) clone() AtBat {
	out := a
	out.BasesBefore = a.BasesBefore.clone()
	if a.Pitch != nil {
		pitch := *a.Pitch
		out.Pitch = &pitch
	}
	if a.Swing != nil {
		swing := *a.Swing
		out.Swing = &swing
	}
	return out
}

// State is one persisted turn of a game.
type State struct {
	Inning         int                    `json:"inning"`
	TopHalf        bool                   `json:"top_half"`
	Outs           int                    `json:"outs"`
	HomeScore      int                    `json:"home_score"`
	AwayScore      int                    `json:"away_score"`
	Bases          Bases                  `json:"bases"`
	PitcherStats   map[int]fatigue.Record `json:"pitcher_stats"`
	AtBat          AtBat                  `json:"at_bat"`
	InfieldIn      bool                   `json:"infield_in"`
	Pending        *PendingPlay           `json:"pending,omitempty"`
	HalfInningOver bool                   `json:"half_inning_over"`
	GameOver       bool                   `json:"game_over"`
	Winner         Side                   `json:"winner,omitempty"`
	GameInSeries   int                    `json:"game_in_series"`
}

// NewGame returns the state before the first pitch.
func NewGame() State {
	return State{
		Inning:       1,
		TopHalf:      true,
		PitcherStats: map[int]fatigue.Record{},
		GameInSeries: 1,
	}
}

// NewSeriesGame returns the opening state for game number gameInSeries,
// seeding reliever fatigue from the finals of the preceding games.
func NewSeriesGame(gameInSeries int, pitchers []card.PlayerCard, history fatigue.SeriesHistory) State {
	s := NewGame()
	if gameInSeries < 1 {
		gameInSeries = 1
	}
	s.GameInSeries = gameInSeries
	if gameInSeries >= 2 {
		for id, rec := range fatigue.SeriesModifiers(pitchers, history) {
			s.PitcherStats[id] = rec
		}
	}
	return s
}

// BattingSide returns the side at bat.
func (s State) BattingSide() Side {
	if s.TopHalf {
		return SideAway
	}
	return SideHome
}

// Clone returns a deep copy that shares nothing with s.
func (s State) Clone() State {
	out := s
	out.Bases = s.Bases.clone()
	out.AtBat = s.AtBat.clone()
	out.PitcherStats = make(map[int]fatigue.Record, len(s.PitcherStats))
	for id, rec := range s.PitcherStats {
		out.PitcherStats[id] = rec.Clone()
	}
	if s.Pending != nil {
		pending := s.Pending.clone()
		out.Pending = &pending
	}
	return out
}

// Validate checks the structural invariants of a state.
func (s State) Validate() error {
	if s.Inning < 1 {
		return fmt.Errorf("inning %d must be >= 1", s.Inning)
	}
	if s.Outs < 0 || s.Outs > 3 {
		return fmt.Errorf("outs %d must be within 0-3", s.Outs)
	}
	if s.HomeScore < 0 || s.AwayScore < 0 {
		return fmt.Errorf("scores must be non-negative")
	}
	seen := map[int]Base{}
	for _, base := range []Base{First, Second, Third} {
		r := s.Bases.At(base)
		if r == nil || r.CardID <= 0 {
			continue
		}
		if prev, ok := seen[r.CardID]; ok {
			return fmt.Errorf("runner %d is on both %d and %d", r.CardID, prev, base)
		}
		seen[r.CardID] = base
	}
	for id, rec := range s.PitcherStats {
		if rec.FatigueModifier > 0 {
			return fmt.Errorf("pitcher %d has positive fatigue modifier", id)
		}
	}
	if s.GameOver && s.Winner == "" {
		return fmt.Errorf("finished game has no winner")
	}
	return nil
}
