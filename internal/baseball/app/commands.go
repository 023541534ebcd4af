package app

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/baseball/engine"
	"github.com/louisbranch/diamond/internal/core/dice"
	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
)

// Operation names, stored with every turn and used as event kinds.
const (
	OpStartGame         = "start_game"
	OpSubmitAction      = "submit_action"
	OpRunnerDecisions   = "runner_decisions"
	OpResolveThrow      = "resolve_throw"
	OpResolveInfieldIn  = "resolve_infield_in"
	OpAttemptSteal      = "attempt_steal"
	OpResolveSteal      = "resolve_steal"
	OpChangePitcher     = "change_pitcher"
	OpAdvanceHalfInning = "advance_half_inning"
)

// command is one persisted request that moves a game forward.
type command interface {
	operation() string
	resolve(cards cardSource, s engine.State, roller dice.Roller) (engine.Result, error)
}

type cardSource interface {
	lookup(id int) (card.PlayerCard, error)
}

// ActionCommand submits one side's at-bat action. Either side may act first.
type ActionCommand struct {
	Defensive engine.DefensiveAction `json:"defensive,omitempty"`
	InfieldIn bool                   `json:"infield_in,omitempty"`
	Offensive engine.OffensiveAction `json:"offensive,omitempty"`
	BatterID  int                    `json:"batter_id"`
	PitcherID int                    `json:"pitcher_id"`
	Defense   engine.Defense         `json:"defense"`
}

func (ActionCommand) operation() string { return OpSubmitAction }

func (c ActionCommand) resolve(cards cardSource, s engine.State, roller dice.Roller) (engine.Result, error) {
	batter, err := cards.lookup(c.BatterID)
	if err != nil {
		return engine.Result{}, err
	}
	pitcher, err := cards.lookup(c.PitcherID)
	if err != nil {
		return engine.Result{}, err
	}
	return engine.SubmitAction(engine.ActionRequest{
		State:     s,
		Defensive: c.Defensive,
		InfieldIn: c.InfieldIn,
		Offensive: c.Offensive,
		Batter:    batter,
		Pitcher:   pitcher,
		Defense:   c.Defense,
		Roller:    roller,
	})
}

// DecisionCommand sends runners on a pending advance or tag-up play.
type DecisionCommand struct {
	Send    []engine.Base  `json:"send"`
	Defense engine.Defense `json:"defense"`
}

func (DecisionCommand) operation() string { return OpRunnerDecisions }

func (c DecisionCommand) resolve(_ cardSource, s engine.State, roller dice.Roller) (engine.Result, error) {
	return engine.SubmitRunnerDecisions(engine.DecisionRequest{
		State:   s,
		Send:    c.Send,
		Defense: c.Defense,
		Roller:  roller,
	})
}

// ThrowCommand picks the base the defense throws to after several runners
// were sent.
type ThrowCommand struct {
	ThrowTo engine.Base    `json:"throw_to"`
	Defense engine.Defense `json:"defense"`
}

func (ThrowCommand) operation() string { return OpResolveThrow }

func (c ThrowCommand) resolve(_ cardSource, s engine.State, roller dice.Roller) (engine.Result, error) {
	return engine.ResolveThrow(engine.ThrowRequest{
		State:   s,
		ThrowTo: c.ThrowTo,
		Defense: c.Defense,
		Roller:  roller,
	})
}

// InfieldInCommand sends or holds the runner on third after a grounder into
// a drawn-in infield.
type InfieldInCommand struct {
	Send    bool           `json:"send"`
	Defense engine.Defense `json:"defense"`
}

func (InfieldInCommand) operation() string { return OpResolveInfieldIn }

func (c InfieldInCommand) resolve(_ cardSource, s engine.State, roller dice.Roller) (engine.Result, error) {
	return engine.ResolveInfieldIn(engine.InfieldInRequest{
		State:   s,
		Send:    c.Send,
		Defense: c.Defense,
		Roller:  roller,
	})
}

// StealCommand starts a steal from the listed bases.
type StealCommand struct {
	Send    []engine.Base  `json:"send"`
	Defense engine.Defense `json:"defense"`
}

func (StealCommand) operation() string { return OpAttemptSteal }

func (c StealCommand) resolve(_ cardSource, s engine.State, roller dice.Roller) (engine.Result, error) {
	return engine.AttemptSteal(engine.StealRequest{
		State:   s,
		Send:    c.Send,
		Defense: c.Defense,
		Roller:  roller,
	})
}

// StealThrowCommand acknowledges a single steal or picks the base for a
// double steal.
type StealThrowCommand struct {
	ThrowTo engine.Base    `json:"throw_to,omitempty"`
	Defense engine.Defense `json:"defense"`
}

func (StealThrowCommand) operation() string { return OpResolveSteal }

func (c StealThrowCommand) resolve(_ cardSource, s engine.State, roller dice.Roller) (engine.Result, error) {
	return engine.ResolveSteal(engine.StealThrowRequest{
		State:   s,
		ThrowTo: c.ThrowTo,
		Defense: c.Defense,
		Roller:  roller,
	})
}

// PitchingChangeCommand replaces the pitcher on the mound.
type PitchingChangeCommand struct {
	OutgoingID int `json:"outgoing_id"`
	IncomingID int `json:"incoming_id"`
}

func (PitchingChangeCommand) operation() string { return OpChangePitcher }

func (c PitchingChangeCommand) resolve(cards cardSource, s engine.State, _ dice.Roller) (engine.Result, error) {
	outgoing, err := cards.lookup(c.OutgoingID)
	if err != nil {
		return engine.Result{}, err
	}
	incoming, err := cards.lookup(c.IncomingID)
	if err != nil {
		return engine.Result{}, err
	}
	return engine.ChangePitcher(engine.PitchingChangeRequest{
		State:    s,
		Outgoing: outgoing,
		Incoming: incoming,
	})
}

type advanceCommand struct{}

func (advanceCommand) operation() string { return OpAdvanceHalfInning }

func (advanceCommand) resolve(_ cardSource, s engine.State, _ dice.Roller) (engine.Result, error) {
	return engine.AdvanceHalfInning(s)
}

// decodeCommand rebuilds a stored command for replay.
func decodeCommand(operation string, payload json.RawMessage) (command, error) {
	var (
		cmd command
		err error
	)
	switch operation {
	case OpSubmitAction:
		var c ActionCommand
		err = json.Unmarshal(payload, &c)
		cmd = c
	case OpRunnerDecisions:
		var c DecisionCommand
		err = json.Unmarshal(payload, &c)
		cmd = c
	case OpResolveThrow:
		var c ThrowCommand
		err = json.Unmarshal(payload, &c)
		cmd = c
	case OpResolveInfieldIn:
		var c InfieldInCommand
		err = json.Unmarshal(payload, &c)
		cmd = c
	case OpAttemptSteal:
		var c StealCommand
		err = json.Unmarshal(payload, &c)
		cmd = c
	case OpResolveSteal:
		var c StealThrowCommand
		err = json.Unmarshal(payload, &c)
		cmd = c
	case OpChangePitcher:
		var c PitchingChangeCommand
		err = json.Unmarshal(payload, &c)
		cmd = c
	case OpAdvanceHalfInning:
		cmd = advanceCommand{}
	default:
		return nil, apperrors.New(apperrors.CodeSnapshotCorrupt, fmt.Sprintf("unknown stored operation %q", operation))
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSnapshotCorrupt, "decode stored "+operation, err)
	}
	return cmd, nil
}
