package engine

import (
	"github.com/louisbranch/diamond/internal/core/check"
	"github.com/louisbranch/diamond/internal/core/dice"
)

// InfieldInRequest is the offense's choice after a ground ball into a
// drawn-in infield.
type InfieldInRequest struct {
	State   State
	Send    bool
	Defense Defense
	Roller  dice.Roller
}

// ResolveInfieldIn sends the runner on third home against the infield or
// holds them while the batter is thrown out.
func ResolveInfieldIn(req InfieldInRequest) (Result, error) {
	pending, err := requirePending(req.State, PendingInfieldIn)
	if err != nil {
		return Result{}, err
	}
	choice := pending.InfieldIn
	batter := choice.Batter

	p := newPlay(req.State, req.State.AtBat.PitcherID, req.Roller)
	p.s.Pending = nil

	if !req.Send {
		p.say("plays.infield_in_hold", batter.Name)
		p.out()
		if p.inningOpen() && p.s.Bases.First != nil && p.s.Bases.Second == nil {
			p.s.Bases.Second = p.take(First)
		}
		return p.finish(), nil
	}

	runner := p.take(Third)
	if runner == nil {
		return Result{}, illegal("runner %s is no longer on third", choice.RunnerOnThird.Name)
	}
	result := p.contest(check.Request{Speed: runner.Speed, Defense: req.Defense.Infield})
	if result.Safe {
		p.score(runner, "plays.infield_in_send_safe")
	} else {
		p.say("plays.infield_in_send_out", runner.Name)
		p.retire(runner)
	}
	if p.s.Bases.First != nil {
		p.s.Bases.Second = p.take(First)
	}
	p.s.Bases.First = &batter
	return p.finish(), nil
}
