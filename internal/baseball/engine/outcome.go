package engine

import (
	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/core/dice"
)

// OutcomeRequest applies an already determined play code.
type OutcomeRequest struct {
	State   State
	Code    card.PlayCode
	Batter  card.PlayerCard
	Pitcher card.PlayerCard
	Defense Defense
	// SwingRoll and Chart are the roll that produced Code and the chart it
	// was read from. Both are zero for bunts and intentional walks.
	SwingRoll int
	Chart     *card.Chart
	Roller    dice.Roller
}

// ApplyOutcome resolves one plate appearance ending in req.Code.
func ApplyOutcome(req OutcomeRequest) (Result, error) {
	if err := req.Code.Validate(); err != nil {
		return Result{}, err
	}
	if err := requirePlayable(req.State); err != nil {
		return Result{}, err
	}
	p := newPlay(req.State, req.Pitcher.ID, req.Roller)
	p.beginAtBat(req.Batter, req.Pitcher)
	p.applyOutcome(req)
	return p.finish(), nil
}

// beginAtBat snapshots the pre-play situation, unless an at-bat for this
// batter is already underway.
func (p *play) beginAtBat(batter, pitcher card.PlayerCard) {
	if p.s.AtBat.InProgress() && p.s.AtBat.Batter.CardID == batter.ID {
		return
	}
	p.s.AtBat = AtBat{
		Batter:      NewRunner(batter, pitcher.ID),
		PitcherID:   pitcher.ID,
		PitcherName: pitcher.Name,
	}
}

var outMessages = map[card.PlayCode]string{
	card.PlayStrikeout: "plays.strikeout",
	card.PlayPopUp:     "plays.popout",
	card.PlayOut:       "plays.out",
}

func (p *play) applyOutcome(req OutcomeRequest) {
	ab := &p.s.AtBat
	ab.BasesBefore = p.s.Bases.clone()
	ab.OutsBefore = p.s.Outs
	ab.HomeScoreBefore = p.s.HomeScore
	ab.AwayScoreBefore = p.s.AwayScore
	ab.Outcome = req.Code
	if req.Code != card.PlayBunt && req.Code != card.PlayIntentionalWalk {
		ab.Swing = &SwingResult{Roll: req.SwingRoll, Outcome: req.Code}
	}

	inning := p.s.Inning
	p.s.PitcherStats[req.Pitcher.ID] = p.s.PitcherStats[req.Pitcher.ID].WithInning(inning).WithBatter(inning)

	batter := NewRunner(req.Batter, req.Pitcher.ID)
	name := batter.Name

	if req.Code.IsOut() {
		p.say(outMessages[req.Code], name)
		p.out()
		return
	}

	switch req.Code {
	case card.PlayBunt:
		p.bunt(&batter)
	case card.PlayGroundBall:
		p.groundBall(&batter, req)
	case card.PlayFlyBall:
		p.flyBall(name, req.Defense)
	case card.PlaySingle, card.PlaySinglePlus:
		p.say("plays.single", name)
		p.single(&batter, req.Code, req.Defense)
	case card.PlayDouble:
		p.double(&batter, req.Defense)
	case card.PlayTriple:
		p.say("plays.triple", name)
		p.clearBases()
		p.s.Bases.Third = &batter
	case card.PlayHomeRun:
		p.say("plays.home_run", name)
		p.clearBases()
		p.score(&batter, "")
	case card.PlayWalk:
		p.say("plays.walk", name)
		p.forceAdvance(&batter)
	case card.PlayIntentionalWalk:
		p.say("plays.intentional_walk", name)
		p.forceAdvance(&batter)
	}
}

// clearBases scores every runner, lead runner first.
func (p *play) clearBases() {
	for _, base := range []Base{Third, Second, First} {
		if r := p.take(base); r != nil {
			p.score(r, "")
		}
	}
}

func (p *play) bunt(batter *Runner) {
	b := p.s.Bases
	name := batter.Name
	switch {
	case b.Loaded():
		p.say("plays.bunt_out_at_home", name)
		p.take(Third)
		p.out()
		if p.inningOpen() {
			p.s.Bases.Third = p.take(Second)
			p.s.Bases.Second = p.take(First)
			p.s.Bases.First = batter
		}
	case b.Third != nil && b.Second != nil:
		p.say("plays.bunt_runners_hold", name)
		p.out()
	case b.Third != nil && b.First != nil:
		p.say("plays.bunt_runner_from_first", name)
		p.out()
		if p.inningOpen() {
			p.s.Bases.Second = p.take(First)
		}
	case b.Third != nil:
		p.say("plays.bunt_third_holds", name)
		p.out()
	default:
		p.say("plays.bunt_sacrifice", name)
		p.out()
		if p.inningOpen() {
			if r := p.take(Second); r != nil {
				p.s.Bases.Third = r
			}
			if r := p.take(First); r != nil {
				p.s.Bases.Second = r
			}
		}
	}
}
