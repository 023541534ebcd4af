package engine

import (
	"fmt"

	"github.com/louisbranch/diamond/internal/core/check"
	"github.com/louisbranch/diamond/internal/core/dice"
)

// Defense holds the fielding side's aggregated ratings.
type Defense struct {
	Infield    int `json:"infield"`
	Outfield   int `json:"outfield"`
	CatcherArm int `json:"catcher_arm"`
}

// Result is the outcome of one engine call.
type Result struct {
	State    State
	Events   []string
	Warnings []string
	Contests []check.Result
	Terminal bool
}

// play is the mutable builder scoped to a single resolution call. It owns a
// private clone of the input state and is discarded when the call returns.
type play struct {
	s         State
	pitcherID int
	roller    dice.Roller
	narrator  narrator
	events    []string
	warnings  []string
	contests  []check.Result
}

func newPlay(s State, pitcherID int, roller dice.Roller) *play {
	return &play{
		s:         s.Clone(),
		pitcherID: pitcherID,
		roller:    roller,
		narrator:  newNarrator(),
	}
}

func (p *play) say(key string, args ...any) {
	p.events = append(p.events, p.narrator.line(key, args...))
}

func (p *play) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *play) contest(request check.Request) check.Result {
	result := check.Contest(request, p.roller)
	p.contests = append(p.contests, result)
	return result
}

// score credits a run to the batting side, charges the runner's pitcher of
// record and narrates it with key (default "plays.scores"). A walk-off ends
// the game the moment the run crosses.
func (p *play) score(r *Runner, key string, args ...any) {
	if p.s.TopHalf {
		p.s.AwayScore++
	} else {
		p.s.HomeScore++
	}

	chargedID := r.PitcherOfRecordID
	if chargedID == 0 {
		chargedID = p.pitcherID
		p.warn("run by %s (card %d) has no pitcher of record; charged to pitcher %d", r.Name, r.CardID, chargedID)
	}
	if chargedID != 0 {
		p.s.PitcherStats[chargedID] = p.s.PitcherStats[chargedID].WithRun()
	}

	if key == "" {
		p.say("plays.scores", r.Name)
	} else {
		p.say(key, append([]any{r.Name}, args...)...)
	}

	if !p.s.GameOver && IsWalkoff(p.s) {
		p.s.GameOver = true
		p.s.Winner = SideHome
		p.say("plays.walkoff")
	}
}

// out records one out and credits it to the pitcher on the mound.
func (p *play) out() {
	if p.s.Outs >= 3 {
		return
	}
	p.s.Outs++
	if p.pitcherID != 0 {
		p.s.PitcherStats[p.pitcherID] = p.s.PitcherStats[p.pitcherID].WithOuts(1)
	}
}

// inningOpen reports whether the half-inning can still change bases.
func (p *play) inningOpen() bool {
	return p.s.Outs < 3 && !p.s.GameOver
}

// take removes the runner from base and returns it.
func (p *play) take(base Base) *Runner {
	r := p.s.Bases.At(base)
	p.s.Bases.set(base, nil)
	return r
}

// place puts r on base; reaching home scores.
func (p *play) place(r *Runner, base Base, key string, args ...any) {
	if base == Home {
		p.score(r, key, args...)
		return
	}
	p.s.Bases.set(base, r)
}

// forceAdvance moves the batter to first and pushes forced runners ahead.
func (p *play) forceAdvance(batter *Runner) {
	b := &p.s.Bases
	if b.First != nil {
		if b.Second != nil {
			if b.Third != nil {
				p.score(b.Third, "")
			}
			b.Third = b.Second
		}
		b.Second = b.First
	}
	b.First = batter
}

// finish runs the end-of-play checks and builds the result.
func (p *play) finish() Result {
	if !p.s.GameOver && p.s.Outs >= 3 {
		if gameEndsAtThreeOuts(p.s) {
			p.s.GameOver = true
			p.s.Winner = leader(p.s)
			p.say("plays.final", p.s.AwayScore, p.s.HomeScore)
		} else {
			p.s.HalfInningOver = true
		}
	}
	return Result{
		State:    p.s,
		Events:   p.events,
		Warnings: p.warnings,
		Contests: p.contests,
		Terminal: p.s.GameOver,
	}
}
