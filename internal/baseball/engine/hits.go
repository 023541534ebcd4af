package engine

import "github.com/louisbranch/diamond/internal/baseball/card"

type verdict int

const (
	verdictManual verdict = iota
	verdictAdvance
	verdictHold
)

// autoAdvanceLine is the adjusted speed a runner needs to take a base
// without a throw.
func autoAdvanceLine(def Defense) int {
	return def.Outfield + 20
}

// singleVerdict classifies a runner trying for an extra base on a single.
func singleVerdict(d RunnerDecision, outs int, def Defense) verdict {
	speed := d.Runner.Speed
	if outs == 2 {
		speed += 5
	}
	switch {
	case speed >= autoAdvanceLine(def):
		return verdictAdvance
	case d.Runner.Speed == 10 && d.To == Third:
		return verdictHold
	}
	return verdictManual
}

func (p *play) single(batter *Runner, code card.PlayCode, def Defense) {
	var scorers []string
	if r := p.take(Third); r != nil {
		scorers = append(scorers, r.Name)
		p.score(r, "")
	}
	fromSecond := p.take(Second)
	fromFirst := p.take(First)

	var decisions []RunnerDecision
	if fromSecond != nil {
		decisions = append(decisions, RunnerDecision{Runner: *fromSecond, From: Second, At: Third, To: Home})
	}
	if fromFirst != nil {
		decisions = append(decisions, RunnerDecision{Runner: *fromFirst, From: First, At: Second, To: Third})
	}

	verdicts := make([]verdict, len(decisions))
	automatic := true
	for i, d := range decisions {
		verdicts[i] = singleVerdict(d, p.s.Outs, def)
		if verdicts[i] == verdictManual {
			automatic = false
		}
	}

	if automatic || p.s.GameOver {
		for i, d := range decisions {
			r := d.Runner
			switch {
			case verdicts[i] == verdictAdvance && p.s.Bases.At(d.To) == nil:
				if d.To == Home {
					p.score(&r, "plays.scores_without_throw", p.narrator.base(d.From))
				} else {
					p.s.Bases.set(d.To, &r)
					p.say("plays.takes_without_throw", r.Name, p.narrator.base(d.To))
				}
			default:
				p.s.Bases.set(d.At, &r)
				if verdicts[i] != verdictManual {
					p.say("plays.holds_at", r.Name, p.narrator.base(d.At))
				}
			}
		}
		p.s.Bases.First = batter
		if code == card.PlaySinglePlus {
			p.batterTakesSecond()
		}
		return
	}

	for _, d := range decisions {
		r := d.Runner
		p.s.Bases.set(d.At, &r)
	}
	p.s.Bases.First = batter
	p.s.Pending = &PendingPlay{
		Kind: PendingAdvance,
		Advance: &AdvancePlay{
			Decisions:       decisions,
			HitType:         code,
			ScorersSoFar:    scorers,
			BatterExtraBase: code == card.PlaySinglePlus,
		},
	}
}

// batterTakesSecond moves the batter from first to an open second base.
func (p *play) batterTakesSecond() {
	if !p.inningOpen() || p.s.Bases.Second != nil || p.s.Bases.First == nil {
		return
	}
	if p.s.Bases.First.CardID != p.s.AtBat.Batter.CardID {
		return
	}
	r := p.take(First)
	p.s.Bases.Second = r
	p.say("plays.takes_second_on_throw", r.Name)
}

func (p *play) double(batter *Runner, def Defense) {
	p.say("plays.double", batter.Name)
	var scorers []string
	for _, base := range []Base{Third, Second} {
		if r := p.take(base); r != nil {
			scorers = append(scorers, r.Name)
			p.score(r, "")
		}
	}

	if r := p.take(First); r != nil {
		speed := r.Speed + 5
		if p.s.Outs == 2 {
			speed += 5
		}
		switch {
		case p.s.GameOver:
			p.s.Bases.Third = r
		case speed >= autoAdvanceLine(def):
			p.score(r, "plays.scores_without_throw", p.narrator.base(First))
		default:
			p.s.Bases.Third = r
			p.s.Pending = &PendingPlay{
				Kind: PendingAdvance,
				Advance: &AdvancePlay{
					Decisions:    []RunnerDecision{{Runner: *r, From: First, At: Third, To: Home}},
					HitType:      card.PlayDouble,
					ScorersSoFar: scorers,
				},
			}
		}
	}
	p.s.Bases.Second = batter
}
