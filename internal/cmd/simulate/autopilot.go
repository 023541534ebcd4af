package simulate

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"

	"github.com/louisbranch/diamond/internal/baseball/app"
	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/baseball/engine"
	"github.com/louisbranch/diamond/internal/baseball/fatigue"
)

// maxStepsPerInning bounds the commands issued per inning before the
// simulation is treated as stalled.
const maxStepsPerInning = 400

// PlayRequest describes one simulated game.
type PlayRequest struct {
	Start      app.StartRequest
	// MaxInnings aborts extra-inning games that run past it.
	MaxInnings int
}

// Summary is the final line of a simulated game.
type Summary struct {
	GameID    string
	Turns     int64
	Innings   int
	AwayScore int
	HomeScore int
	Winner    engine.Side
}

// club tracks a side's batting order and mound during play.
type club struct {
	Team
	next     int
	mound    int
	stoleFor int
}

func (c *club) batter() card.PlayerCard { return c.Lineup[c.next%len(c.Lineup)] }

func (c *club) pitcher() card.PlayerCard { return c.Pitchers[c.mound] }

// autopilot plays both sides with fixed tactics.
type autopilot struct {
	svc    *app.Service
	gameID string
	out    io.Writer
	clubs  map[engine.Side]*club

	state engine.State
	turn  int64
}

// Play starts a game and drives it to the final out, writing every event to
// out.
func Play(ctx context.Context, svc *app.Service, league League, req PlayRequest, out io.Writer) (Summary, error) {
	if svc == nil {
		return Summary{}, fmt.Errorf("service is required")
	}
	if out == nil {
		out = io.Discard
	}
	started, err := svc.StartGame(ctx, req.Start)
	if err != nil {
		return Summary{}, err
	}
	a := &autopilot{
		svc:    svc,
		gameID: started.GameID,
		out:    out,
		clubs: map[engine.Side]*club{
			engine.SideAway: {Team: league.Away, stoleFor: -1},
			engine.SideHome: {Team: league.Home, stoleFor: -1},
		},
	}
	a.apply(started)

	steps := 0
	for !a.state.GameOver {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		if req.MaxInnings > 0 && a.state.Inning > req.MaxInnings {
			return Summary{}, fmt.Errorf("game %s passed %d innings", a.gameID, req.MaxInnings)
		}
		steps++
		if steps > maxStepsPerInning*max(a.state.Inning, 9) {
			return Summary{}, fmt.Errorf("game %s stalled after %d commands", a.gameID, steps)
		}
		if err := a.step(ctx); err != nil {
			return Summary{}, fmt.Errorf("game %s turn %d: %w", a.gameID, a.turn+1, err)
		}
	}

	s := a.state
	fmt.Fprintf(out, "Final: %s %d, %s %d\n", league.Away.Name, s.AwayScore, league.Home.Name, s.HomeScore)
	return Summary{
		GameID:    a.gameID,
		Turns:     a.turn,
		Innings:   s.Inning,
		AwayScore: s.AwayScore,
		HomeScore: s.HomeScore,
		Winner:    s.Winner,
	}, nil
}

func (a *autopilot) apply(out app.Outcome) {
	a.state = out.State
	a.turn = out.Turn
	for _, line := range out.Events {
		fmt.Fprintln(a.out, line)
	}
	for _, w := range out.Warnings {
		log.Printf("game %s: %s", a.gameID, w)
	}
}

// step issues the single command the current state calls for.
func (a *autopilot) step(ctx context.Context) error {
	s := a.state
	batting := a.clubs[s.BattingSide()]
	fielding := a.clubs[opponent(s.BattingSide())]
	def := fielding.Defense

	var (
		out app.Outcome
		err error
	)
	switch {
	case s.Pending != nil:
		out, err = a.resolvePending(ctx, s, def)
	case s.HalfInningOver:
		out, err = a.svc.AdvanceHalfInning(ctx, a.gameID)
	case !s.AtBat.InProgress() && tired(fielding, s):
		outgoing := fielding.pitcher()
		fielding.mound++
		out, err = a.svc.ChangePitcher(ctx, a.gameID, app.PitchingChangeCommand{
			OutgoingID: outgoing.ID,
			IncomingID: fielding.pitcher().ID,
		})
	case !s.AtBat.InProgress() && shouldSteal(s, batting):
		batting.stoleFor = batting.next
		out, err = a.svc.AttemptSteal(ctx, a.gameID, app.StealCommand{Send: []engine.Base{engine.First}, Defense: def})
	default:
		out, err = a.atBat(ctx, s, batting, fielding)
	}
	if err != nil {
		return err
	}
	a.apply(out)
	return nil
}

// atBat submits the defense's action, then the offense's once the pitch is
// in. An intentional walk settles the at-bat on its own.
func (a *autopilot) atBat(ctx context.Context, s engine.State, batting, fielding *club) (app.Outcome, error) {
	batter := batting.batter()
	cmd := app.ActionCommand{
		BatterID:  batter.ID,
		PitcherID: fielding.pitcher().ID,
		Defense:   fielding.Defense,
	}
	if !s.AtBat.InProgress() || s.AtBat.DefensiveAction == "" {
		if walkBatter(s, batter) {
			cmd.Defensive = engine.ActionIntentionalWalk
		} else {
			cmd.Defensive = engine.ActionPitch
			cmd.InfieldIn = drawInfieldIn(s)
		}
	} else {
		cmd.Offensive = engine.ActionSwing
		if buntFor(s, batter) {
			cmd.Offensive = engine.ActionBunt
		}
	}
	out, err := a.svc.SubmitAction(ctx, a.gameID, cmd)
	if err != nil {
		return app.Outcome{}, err
	}
	if out.State.AtBat.Outcome != "" {
		batting.next++
	}
	return out, nil
}

func (a *autopilot) resolvePending(ctx context.Context, s engine.State, def engine.Defense) (app.Outcome, error) {
	pending := s.Pending
	switch pending.Kind {
	case engine.PendingAdvance, engine.PendingTagUp:
		decisions, sent := runnerChoices(pending)
		if len(sent) > 0 {
			return a.svc.ResolveThrow(ctx, a.gameID, app.ThrowCommand{ThrowTo: leadTarget(decisions, sent), Defense: def})
		}
		return a.svc.SubmitRunnerDecisions(ctx, a.gameID, app.DecisionCommand{Send: sendLead(s.Bases, decisions), Defense: def})
	case engine.PendingInfieldIn:
		send := pending.InfieldIn.RunnerOnThird.Speed >= 15
		return a.svc.ResolveInfieldIn(ctx, a.gameID, app.InfieldInCommand{Send: send, Defense: def})
	case engine.PendingSteal:
		cmd := app.StealThrowCommand{Defense: def}
		if pending.Steal.Result == nil {
			cmd.ThrowTo = leadTarget(pending.Steal.Decisions, nil)
		}
		return a.svc.ResolveSteal(ctx, a.gameID, cmd)
	}
	return app.Outcome{}, fmt.Errorf("unhandled pending play %q", pending.Kind)
}

// tired reports whether the fielding side should go to its bullpen.
func tired(fielding *club, s engine.State) bool {
	if fielding.mound+1 >= len(fielding.Pitchers) {
		return false
	}
	p := fielding.pitcher()
	return fatigue.IsTired(p, s.PitcherStats[p.ID], s.Inning, fatigue.Recorded)
}

// shouldSteal sends a fast runner from first once per batter.
func shouldSteal(s engine.State, batting *club) bool {
	r := s.Bases.First
	if r == nil || s.Bases.Second != nil || s.Outs >= 2 {
		return false
	}
	return r.Speed >= 20 && batting.stoleFor != batting.next
}

func walkBatter(s engine.State, batter card.PlayerCard) bool {
	return s.Bases.First == nil && s.Bases.Third != nil && s.Outs == 2 && batter.OnBase >= 12
}

func drawInfieldIn(s engine.State) bool {
	return s.Bases.Third != nil && s.Outs < 2 && s.Inning >= 7
}

func buntFor(s engine.State, batter card.PlayerCard) bool {
	return s.Bases.First != nil && s.Bases.Second == nil && s.Outs == 0 && batter.OnBase <= 9
}

func runnerChoices(p *engine.PendingPlay) ([]engine.RunnerDecision, []engine.Base) {
	if p.Kind == engine.PendingAdvance {
		return p.Advance.Decisions, p.Advance.Sent
	}
	return p.TagUp.Decisions, p.TagUp.Sent
}

// sendLead sends the lead runner when they are fast and their target is
// open, and holds everyone else.
func sendLead(bases engine.Bases, decisions []engine.RunnerDecision) []engine.Base {
	var lead *engine.RunnerDecision
	for i := range decisions {
		if lead == nil || decisions[i].At > lead.At {
			lead = &decisions[i]
		}
	}
	if lead == nil || lead.AutoHold || lead.Runner.Speed < 15 {
		return nil
	}
	if lead.To != engine.Home && bases.At(lead.To) != nil {
		return nil
	}
	return []engine.Base{lead.At}
}

// leadTarget is the furthest base a listed runner is heading to. With sent
// set, only those runners count.
func leadTarget(decisions []engine.RunnerDecision, sent []engine.Base) engine.Base {
	var target engine.Base
	for _, d := range decisions {
		if sent != nil && !slices.Contains(sent, d.At) {
			continue
		}
		target = max(target, d.To)
	}
	return target
}

func opponent(side engine.Side) engine.Side {
	if side == engine.SideHome {
		return engine.SideAway
	}
	return engine.SideHome
}
