package engine

import (
	"slices"

	"github.com/louisbranch/diamond/internal/core/check"
	"github.com/louisbranch/diamond/internal/core/dice"
)

// DecisionRequest is the offense's answer to an Advance or TagUp play.
type DecisionRequest struct {
	State State
	// Send lists the bases whose runners try for the next base. Bases are
	// where the runners stand now, after any optimistic advancement.
	Send    []Base
	Defense Defense
	Roller  dice.Roller
}

// ThrowRequest is the defense's choice of base when several runners were
// sent at once.
type ThrowRequest struct {
	State   State
	ThrowTo Base
	Defense Defense
	Roller  dice.Roller
}

// SubmitRunnerDecisions resolves the offense's send/hold choices. Holding
// everyone settles the play, a single runner is contested at once, and two
// or more runners wait for ResolveThrow.
func SubmitRunnerDecisions(req DecisionRequest) (Result, error) {
	pending, err := requireRunnerPlay(req.State)
	if err != nil {
		return Result{}, err
	}
	decisions, sent := runnerPlay(pending)
	if len(sent) > 0 {
		return Result{}, illegal("runners already sent; waiting for the throw")
	}
	if err := validateSend(req.State.Bases, decisions, req.Send); err != nil {
		return Result{}, err
	}

	p := newPlay(req.State, req.State.AtBat.PitcherID, req.Roller)
	switch len(req.Send) {
	case 0:
		p.sendRunners(pending.Kind, decisions, nil, 0, req.Defense)
	case 1:
		d, _ := decisionAt(decisions, req.Send[0])
		p.sendRunners(pending.Kind, decisions, req.Send, d.To, req.Defense)
	default:
		stored := slices.Clone(req.Send)
		slices.Sort(stored)
		switch pending.Kind {
		case PendingAdvance:
			p.s.Pending.Advance.Sent = stored
		case PendingTagUp:
			p.s.Pending.TagUp.Sent = stored
		}
		return p.finish(), nil
	}
	p.settleRunnerPlay(pending)
	return p.finish(), nil
}

// ResolveThrow contests the runner heading to req.ThrowTo; every other sent
// runner takes their base without a throw.
func ResolveThrow(req ThrowRequest) (Result, error) {
	pending, err := requireRunnerPlay(req.State)
	if err != nil {
		return Result{}, err
	}
	decisions, sent := runnerPlay(pending)
	if len(sent) == 0 {
		return Result{}, illegal("no runners are waiting for a throw")
	}
	target := false
	for _, base := range sent {
		if d, ok := decisionAt(decisions, base); ok && d.To == req.ThrowTo {
			target = true
		}
	}
	if !target {
		return Result{}, invalidDecision("no sent runner is heading to base %d", req.ThrowTo)
	}

	p := newPlay(req.State, req.State.AtBat.PitcherID, req.Roller)
	p.sendRunners(pending.Kind, decisions, sent, req.ThrowTo, req.Defense)
	p.settleRunnerPlay(pending)
	return p.finish(), nil
}

func requireRunnerPlay(s State) (*PendingPlay, error) {
	if err := requireValid(s); err != nil {
		return nil, err
	}
	if s.Pending == nil {
		return nil, illegal("no pending play to resolve")
	}
	switch s.Pending.Kind {
	case PendingAdvance, PendingTagUp:
		return s.Pending, nil
	}
	return nil, illegal("pending play is %s, not a runner decision", s.Pending.Kind)
}

func runnerPlay(pending *PendingPlay) ([]RunnerDecision, []Base) {
	switch pending.Kind {
	case PendingAdvance:
		return pending.Advance.Decisions, pending.Advance.Sent
	case PendingTagUp:
		return pending.TagUp.Decisions, pending.TagUp.Sent
	}
	return nil, nil
}

func decisionAt(decisions []RunnerDecision, at Base) (RunnerDecision, bool) {
	for _, d := range decisions {
		if d.At == at {
			return d, true
		}
	}
	return RunnerDecision{}, false
}

// validateSend checks that every sent base holds a runner with a decision
// and that no sent runner would run into a runner who is staying put.
func validateSend(bases Bases, decisions []RunnerDecision, send []Base) error {
	seen := map[Base]bool{}
	for _, base := range send {
		if seen[base] {
			return invalidDecision("base %d sent twice", base)
		}
		seen[base] = true
		d, ok := decisionAt(decisions, base)
		if !ok {
			return invalidDecision("no runner decision at base %d", base)
		}
		if r := bases.At(base); r == nil || r.CardID != d.Runner.CardID {
			return invalidDecision("runner %s is no longer on base %d", d.Runner.Name, base)
		}
	}
	for _, base := range send {
		d, _ := decisionAt(decisions, base)
		if d.To != Home && bases.At(d.To) != nil && !seen[d.To] {
			return invalidDecision("base %d is occupied by a runner who is holding", d.To)
		}
	}
	return nil
}

// sendRunners resolves decisions lead runner first. Runners on bases not in
// sent hold. The runner heading to throwTo is contested and the rest advance
// freely. Nothing moves once the half-inning or the game ends.
func (p *play) sendRunners(kind PendingKind, decisions []RunnerDecision, sent []Base, throwTo Base, def Defense) {
	ordered := slices.Clone(decisions)
	slices.SortFunc(ordered, func(a, b RunnerDecision) int { return int(b.At) - int(a.At) })
	for _, d := range ordered {
		if !p.inningOpen() {
			return
		}
		if !slices.Contains(sent, d.At) {
			p.say("plays.holds_at", d.Runner.Name, p.narrator.base(d.At))
			continue
		}
		r := p.take(d.At)
		if d.To != throwTo {
			if d.To == Home {
				p.score(r, "plays.runner_scores")
			} else {
				p.s.Bases.set(d.To, r)
				p.say("plays.advances_to", r.Name, p.narrator.base(d.To))
			}
			continue
		}
		result := p.contest(check.Request{
			Speed:       r.Speed,
			Adjustments: runnerAdjustments(kind, d.To, p.s.Outs),
			Defense:     def.Outfield,
		})
		p.resolveThrowAt(r, d.To, result)
	}
}

// resolveThrowAt applies a contested throw to base.
func (p *play) resolveThrowAt(r *Runner, base Base, result check.Result) {
	switch {
	case !result.Safe:
		p.say("plays.thrown_out", r.Name, p.narrator.base(base))
		p.retire(r)
	case base == Home:
		p.score(r, "plays.safe_home")
	default:
		p.s.Bases.set(base, r)
		p.say("plays.safe_at", r.Name, p.narrator.base(base))
	}
}

func runnerAdjustments(kind PendingKind, to Base, outs int) []check.Adjustment {
	var adjustments []check.Adjustment
	if to == Home {
		adjustments = append(adjustments, check.Adjustment{Label: "going home", Value: 5})
	}
	switch kind {
	case PendingAdvance:
		if outs == 2 {
			adjustments = append(adjustments, check.Adjustment{Label: "two outs", Value: 5})
		}
	case PendingTagUp:
		if to == Second {
			adjustments = append(adjustments, check.Adjustment{Label: "tagging to second", Value: -5})
		}
	}
	return adjustments
}

// retire records an out on a runner and credits it to the runner's pitcher
// of record.
func (p *play) retire(r *Runner) {
	if p.s.Outs >= 3 {
		return
	}
	p.s.Outs++
	id := r.PitcherOfRecordID
	if id == 0 {
		id = p.pitcherID
	}
	if id != 0 {
		p.s.PitcherStats[id] = p.s.PitcherStats[id].WithOuts(1)
	}
}

// settleRunnerPlay clears the pending play and gives a 1B+ batter second
// base when it is open.
func (p *play) settleRunnerPlay(pending *PendingPlay) {
	p.s.Pending = nil
	if pending.Kind == PendingAdvance && pending.Advance.BatterExtraBase {
		p.batterTakesSecond()
	}
}
