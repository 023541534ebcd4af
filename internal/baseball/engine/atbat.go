package engine

import (
	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/baseball/fatigue"
	"github.com/louisbranch/diamond/internal/core/dice"
)

// ActionRequest carries one or both sides' choices for the current at-bat.
// The at-bat resolves once a pitch and an offensive action are both present,
// or immediately on an intentional walk.
type ActionRequest struct {
	State     State
	Defensive DefensiveAction
	// InfieldIn draws the infield in for this at-bat; read with a pitch.
	InfieldIn bool
	Offensive OffensiveAction
	Batter    card.PlayerCard
	Pitcher   card.PlayerCard
	Defense   Defense
	Roller    dice.Roller
}

// SubmitAction records an at-bat action and resolves the plate appearance
// when both sides have acted.
func SubmitAction(req ActionRequest) (Result, error) {
	if err := requirePlayable(req.State); err != nil {
		return Result{}, err
	}
	if err := validateAction(req); err != nil {
		return Result{}, err
	}

	p := newPlay(req.State, req.Pitcher.ID, req.Roller)
	p.beginAtBat(req.Batter, req.Pitcher)
	ab := &p.s.AtBat
	if req.Offensive != "" {
		ab.OffensiveAction = req.Offensive
	}

	switch req.Defensive {
	case ActionIntentionalWalk:
		ab.DefensiveAction = ActionIntentionalWalk
		p.applyOutcome(OutcomeRequest{
			Code:    card.PlayIntentionalWalk,
			Batter:  req.Batter,
			Pitcher: req.Pitcher,
			Defense: req.Defense,
		})
		return p.finish(), nil
	case ActionPitch:
		ab.DefensiveAction = ActionPitch
		p.s.InfieldIn = req.InfieldIn
		p.pitch(req.Batter, req.Pitcher)
	}

	if ab.DefensiveAction != ActionPitch || ab.OffensiveAction == "" {
		return p.finish(), nil
	}

	outcome := OutcomeRequest{
		Code:    card.PlayBunt,
		Batter:  req.Batter,
		Pitcher: req.Pitcher,
		Defense: req.Defense,
	}
	if ab.OffensiveAction == ActionSwing {
		holder := req.Batter
		if ab.Pitch.Advantage == AdvantagePitcher {
			holder = req.Pitcher
		}
		chart := holder.Chart
		roll := p.roller.Roll(dice.D20)
		code, err := chart.Lookup(roll)
		if err != nil {
			return Result{}, err
		}
		outcome.Code = code
		outcome.SwingRoll = roll
		outcome.Chart = &chart
	}
	p.applyOutcome(outcome)
	return p.finish(), nil
}

func validateAction(req ActionRequest) error {
	switch req.Defensive {
	case "", ActionPitch, ActionIntentionalWalk:
	default:
		return invalidAction("unknown defensive action %q", req.Defensive)
	}
	switch req.Offensive {
	case "", ActionSwing, ActionBunt:
	default:
		return invalidAction("unknown offensive action %q", req.Offensive)
	}
	if req.Defensive == "" && req.Offensive == "" {
		return invalidAction("no action submitted")
	}
	if !req.Pitcher.IsPitcher() {
		return invalidAction("card %d is not a pitcher", req.Pitcher.ID)
	}

	ab := req.State.AtBat
	if !ab.InProgress() {
		return nil
	}
	if ab.Batter.CardID != req.Batter.ID || ab.PitcherID != req.Pitcher.ID {
		return invalidAction("at-bat in progress is %s against %s", ab.Batter.Name, ab.PitcherName)
	}
	if req.Defensive != "" && ab.DefensiveAction != "" {
		return illegal("defense already chose %s", ab.DefensiveAction)
	}
	if req.Offensive != "" && ab.OffensiveAction != "" {
		return illegal("offense already chose %s", ab.OffensiveAction)
	}
	return nil
}

// pitch records the inning for the pitcher and rolls for the advantage. A
// batting pitcher always cedes the advantage.
func (p *play) pitch(batter, pitcher card.PlayerCard) {
	inning := p.s.Inning
	rec := p.s.PitcherStats[pitcher.ID]
	control := fatigue.EffectiveControl(pitcher, rec, inning, fatigue.Projected)
	penalty := fatigue.Penalty(pitcher, rec, inning, fatigue.Projected)
	p.s.PitcherStats[pitcher.ID] = rec.WithInning(inning)

	roll := p.roller.Roll(dice.D20)
	result := PitchResult{
		Roll:             roll,
		EffectiveControl: control,
		FatiguePenalty:   penalty,
		Total:            roll + control,
		OnBase:           batter.OnBase,
		Advantage:        AdvantageBatter,
	}
	if batter.IsPitcher() || result.Total > batter.OnBase {
		result.Advantage = AdvantagePitcher
	}
	p.s.AtBat.Pitch = &result
}

// PitchingChangeRequest replaces the pitcher on the mound.
type PitchingChangeRequest struct {
	State    State
	Outgoing card.PlayerCard
	Incoming card.PlayerCard
}

// ChangePitcher swaps pitchers. An outgoing pitcher who faced no batter this
// inning has the inning removed from their record. An at-bat in progress
// keeps the offense's choice and waits for the new pitcher.
func ChangePitcher(req PitchingChangeRequest) (Result, error) {
	if err := requireValid(req.State); err != nil {
		return Result{}, err
	}
	switch {
	case req.State.GameOver:
		return Result{}, illegal("game is over")
	case req.State.Pending != nil:
		return Result{}, illegal("pending %s play must be resolved first", req.State.Pending.Kind)
	case !req.Incoming.IsPitcher():
		return Result{}, invalidAction("card %d is not a pitcher", req.Incoming.ID)
	case req.Incoming.ID == req.Outgoing.ID:
		return Result{}, invalidAction("pitcher %s is already on the mound", req.Incoming.Name)
	}

	p := newPlay(req.State, req.Incoming.ID, nil)
	inning := p.s.Inning
	if rec, ok := p.s.PitcherStats[req.Outgoing.ID]; ok && rec.PitchedIn(inning) && rec.BattersIn(inning) == 0 {
		p.s.PitcherStats[req.Outgoing.ID] = rec.WithoutInning(inning)
	}

	if ab := &p.s.AtBat; ab.InProgress() {
		ab.PitcherID = req.Incoming.ID
		ab.PitcherName = req.Incoming.Name
		ab.Batter.PitcherOfRecordID = req.Incoming.ID
		ab.DefensiveAction = ""
		ab.Pitch = nil
	}
	p.say("plays.pitching_change", req.Incoming.Name, req.Outgoing.Name)
	return p.finish(), nil
}
