package engine

import (
	"slices"

	"github.com/louisbranch/diamond/internal/core/check"
	"github.com/louisbranch/diamond/internal/core/dice"
)

// StealRequest starts a steal, or queues a follow-up steal while a single
// steal waits for the defense.
type StealRequest struct {
	State State
	// Send lists the bases the runners are stealing from.
	Send    []Base
	Defense Defense
	Roller  dice.Roller
}

// StealThrowRequest is the defense's response to a pending steal. ThrowTo is
// ignored when acknowledging a single steal.
type StealThrowRequest struct {
	State   State
	ThrowTo Base
	Defense Defense
	Roller  dice.Roller
}

// AttemptSteal starts a steal. A single runner is rolled against the
// catcher at once; several runners wait for the defense to pick a base.
func AttemptSteal(req StealRequest) (Result, error) {
	if err := requireValid(req.State); err != nil {
		return Result{}, err
	}
	if pending := req.State.Pending; pending != nil && pending.Kind == PendingSteal {
		return queueSteal(req, pending.Steal)
	}
	if err := requirePlayable(req.State); err != nil {
		return Result{}, err
	}
	if req.State.AtBat.InProgress() {
		return Result{}, illegal("steals must start before the pitch")
	}
	decisions, err := stealDecisions(req.State.Bases, req.Send)
	if err != nil {
		return Result{}, err
	}

	p := newPlay(req.State, req.State.AtBat.PitcherID, req.Roller)
	if len(decisions) == 1 {
		p.steal(decisions[0], req.Defense)
		return p.finish(), nil
	}
	p.s.Pending = &PendingPlay{Kind: PendingSteal, Steal: &StealPlay{Decisions: decisions}}
	return p.finish(), nil
}

func queueSteal(req StealRequest, pending *StealPlay) (Result, error) {
	switch {
	case pending.Result == nil:
		return Result{}, illegal("double steal is waiting for the throw")
	case !pending.Result.Safe:
		return Result{}, illegal("caught stealing must be acknowledged first")
	case len(pending.QueuedDecisions) > 0:
		return Result{}, illegal("a steal is already queued")
	}
	decisions, err := stealDecisions(req.State.Bases, req.Send)
	if err != nil {
		return Result{}, err
	}
	if len(decisions) != 1 {
		return Result{}, invalidDecision("only one runner may be queued behind a steal")
	}
	p := newPlay(req.State, req.State.AtBat.PitcherID, req.Roller)
	p.s.Pending.Steal.QueuedDecisions = decisions
	return p.finish(), nil
}

// ResolveSteal acknowledges a single steal, running any queued follow-up, or
// contests the base the defense throws to on a double steal.
func ResolveSteal(req StealThrowRequest) (Result, error) {
	pending, err := requirePending(req.State, PendingSteal)
	if err != nil {
		return Result{}, err
	}
	steal := pending.Steal
	p := newPlay(req.State, req.State.AtBat.PitcherID, req.Roller)
	p.s.Pending = nil

	if steal.Result != nil {
		if steal.Result.Safe && len(steal.QueuedDecisions) > 0 {
			queued := steal.QueuedDecisions[0]
			if r := p.s.Bases.At(queued.From); r == nil || r.CardID != queued.Runner.CardID {
				return Result{}, illegal("queued runner %s is no longer on base %d", queued.Runner.Name, queued.From)
			}
			p.steal(queued, req.Defense)
		}
		return p.finish(), nil
	}

	if !slices.ContainsFunc(steal.Decisions, func(d RunnerDecision) bool { return d.To == req.ThrowTo }) {
		return Result{}, invalidDecision("no runner is stealing base %d", req.ThrowTo)
	}
	ordered := slices.Clone(steal.Decisions)
	slices.SortFunc(ordered, func(a, b RunnerDecision) int { return int(b.From) - int(a.From) })
	for _, d := range ordered {
		if !p.inningOpen() {
			break
		}
		r := p.take(d.From)
		if r == nil {
			continue
		}
		if d.To != req.ThrowTo {
			p.s.Bases.set(d.To, r)
			p.say("plays.advances_to", r.Name, p.narrator.base(d.To))
			continue
		}
		result := p.contest(stealRequest(r, d.To, req.Defense))
		p.resolveThrowAt(r, d.To, result)
	}
	return p.finish(), nil
}

// steal rolls a single steal and leaves it pending until the defense
// acknowledges it. A caught runner who ends the half-inning needs no
// acknowledgement.
func (p *play) steal(d RunnerDecision, def Defense) {
	r := p.take(d.From)
	result := p.contest(stealRequest(r, d.To, def))
	if result.Safe {
		p.s.Bases.set(d.To, r)
		p.say("plays.steal_safe", r.Name, p.narrator.base(d.To))
	} else {
		p.say("plays.steal_caught", r.Name, p.narrator.base(d.To))
		p.retire(r)
	}
	if !p.inningOpen() {
		return
	}
	p.s.Pending = &PendingPlay{
		Kind:  PendingSteal,
		Steal: &StealPlay{Decisions: []RunnerDecision{d}, Result: &result},
	}
}

func stealRequest(r *Runner, to Base, def Defense) check.Request {
	request := check.Request{Speed: r.Speed, Defense: def.CatcherArm}
	if to == Third {
		request.DefenseAdjustments = []check.Adjustment{{Label: "stealing third", Value: 5}}
	}
	return request
}

// stealDecisions validates the stealing runners, lead runner first.
func stealDecisions(bases Bases, send []Base) ([]RunnerDecision, error) {
	if len(send) == 0 {
		return nil, invalidDecision("no runners sent")
	}
	seen := map[Base]bool{}
	for _, base := range send {
		if seen[base] {
			return nil, invalidDecision("base %d sent twice", base)
		}
		seen[base] = true
	}
	decisions := make([]RunnerDecision, 0, len(send))
	for _, base := range []Base{Third, Second, First} {
		if !seen[base] {
			continue
		}
		r := bases.At(base)
		if r == nil {
			return nil, invalidDecision("no runner on base %d", base)
		}
		if base == Third {
			return nil, invalidDecision("stealing home is not allowed")
		}
		to := base + 1
		if bases.At(to) != nil && !seen[to] {
			return nil, invalidDecision("base %d is occupied", to)
		}
		decisions = append(decisions, RunnerDecision{Runner: *r, From: base, At: base, To: to})
	}
	for base := range seen {
		if base < First || base > Third {
			return nil, invalidDecision("base %d cannot steal", base)
		}
	}
	return decisions, nil
}
