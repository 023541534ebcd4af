package engine

import (
	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/core/check"
)

func (p *play) groundBall(batter *Runner, req OutcomeRequest) {
	name := batter.Name
	if p.foundHole(req) {
		p.s.AtBat.Outcome = card.PlaySingle
		if p.s.AtBat.Swing != nil {
			p.s.AtBat.Swing.Outcome = card.PlaySingle
		}
		p.say("plays.found_hole", name)
		p.single(batter, card.PlaySingle, req.Defense)
		return
	}

	b := p.s.Bases
	if p.s.InfieldIn && p.s.Outs < 2 && b.Third != nil {
		if b.Loaded() {
			p.say("plays.infield_in_loaded", name)
			p.take(Third)
			p.out()
			if p.inningOpen() {
				p.s.Bases.Third = p.take(Second)
				p.s.Bases.Second = p.take(First)
				p.s.Bases.First = batter
			}
			return
		}
		p.say("plays.infield_in_grounder", name)
		p.s.Pending = &PendingPlay{
			Kind: PendingInfieldIn,
			InfieldIn: &InfieldInPlay{
				Batter:         *batter,
				RunnerOnThird:  *b.Third,
				RunnerOnSecond: cloneRunner(b.Second),
				RunnerOnFirst:  cloneRunner(b.First),
			},
		}
		return
	}

	if p.s.Outs <= 1 && b.First != nil {
		p.doublePlay(batter, req.Defense)
		return
	}

	p.say("plays.groundout", name)
	p.out()
	p.advanceLeadRunners()
}

// foundHole reports whether a ground ball into a drawn-in infield landed on
// the chart's highest ground-ball value. Bunts carry no chart and never
// qualify.
func (p *play) foundHole(req OutcomeRequest) bool {
	if !p.s.InfieldIn || req.Chart == nil || req.SwingRoll <= 0 {
		return false
	}
	highest, ok := req.Chart.HighestGroundBall()
	return ok && req.SwingRoll == highest
}

// doublePlay turns two unless the batter beats the relay. The runner from
// first is retired either way.
func (p *play) doublePlay(batter *Runner, def Defense) {
	result := p.contest(check.Request{Speed: batter.Speed, Defense: def.Infield})
	p.take(First)
	if result.Safe {
		p.say("plays.fielders_choice", batter.Name)
		p.out()
	} else {
		p.say("plays.double_play", batter.Name)
		p.out()
		p.out()
	}
	p.advanceLeadRunners()
	if result.Safe && p.inningOpen() {
		p.s.Bases.First = batter
	}
}

// advanceLeadRunners moves the runners on second and third up one base after
// a ground out, unless the infield is in.
func (p *play) advanceLeadRunners() {
	if !p.inningOpen() || p.s.InfieldIn {
		return
	}
	if r := p.take(Third); r != nil {
		p.score(r, "")
	}
	if r := p.take(Second); r != nil {
		p.s.Bases.Third = r
	}
}
