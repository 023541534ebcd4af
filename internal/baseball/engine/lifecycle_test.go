package engine

import (
	"testing"

	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/baseball/fatigue"
)

func TestThreeOutsEndGameOrHalfInning(t *testing.T) {
	tests := []struct {
		name       string
		inning     int
		top        bool
		home, away int
		wantOver   bool
		wantWinner Side
	}{
		{name: "early inning", inning: 3, top: true, home: 2, away: 0},
		{name: "top of ninth home leads", inning: 9, top: true, home: 2, away: 1, wantOver: true, wantWinner: SideHome},
		{name: "top of ninth away leads", inning: 9, top: true, home: 1, away: 2},
		{name: "bottom of ninth tied", inning: 9, home: 1, away: 1},
		{name: "bottom of tenth away leads", inning: 10, home: 1, away: 3, wantOver: true, wantWinner: SideAway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGame()
			s.Inning, s.TopHalf = tt.inning, tt.top
			s.HomeScore, s.AwayScore = tt.home, tt.away
			s.Outs = 2

			res := mustApply(t, s, card.PlayStrikeout, hitterCard(10, "Batter", "B"), Defense{})
			got := res.State
			if got.GameOver != tt.wantOver || got.Winner != tt.wantWinner {
				t.Fatalf("over %v winner %q, want %v %q", got.GameOver, got.Winner, tt.wantOver, tt.wantWinner)
			}
			if got.HalfInningOver == tt.wantOver {
				t.Fatalf("half-inning over = %v with game over = %v", got.HalfInningOver, got.GameOver)
			}
			if tt.wantOver && countEvents(res.Events, "Final Score") != 1 {
				t.Fatalf("events = %v", res.Events)
			}
			if IsHalfInningOver(got) != !tt.wantOver || IsGameOver(got) != tt.wantOver {
				t.Fatalf("IsHalfInningOver = %v, IsGameOver = %v", IsHalfInningOver(got), IsGameOver(got))
			}
		})
	}
}

func TestIsWalkoff(t *testing.T) {
	s := bottomOfNinth()
	s.HomeScore = 1
	if !IsWalkoff(s) {
		t.Fatal("expected walk-off in the bottom of the ninth")
	}
	s.TopHalf = true
	if IsWalkoff(s) {
		t.Fatal("top half cannot walk off")
	}
	s.TopHalf, s.Inning = false, 8
	if IsWalkoff(s) {
		t.Fatal("eighth inning cannot walk off")
	}
}

func TestAdvanceHalfInning(t *testing.T) {
	s := NewGame()
	s.Outs = 2
	s.InfieldIn = true
	s.Bases.Second = runner(2, "Deuce", 15)
	ended := mustApply(t, s, card.PlayStrikeout, hitterCard(10, "Batter", "B"), Defense{}).State

	_, err := AdvanceHalfInning(s)
	requireCode(t, err, ErrIllegalStateTransition)

	bottom, err := AdvanceHalfInning(ended)
	if err != nil {
		t.Fatalf("AdvanceHalfInning: %v", err)
	}
	got := bottom.State
	if got.TopHalf || got.Inning != 1 || got.Outs != 0 || !got.Bases.Empty() || got.InfieldIn || got.HalfInningOver {
		t.Fatalf("state = %+v", got)
	}
	if got.PitcherStats[pitcherID].OutsRecorded != 1 {
		t.Fatalf("pitcher record reset: %+v", got.PitcherStats[pitcherID])
	}
	if countEvents(bottom.Events, "Bottom of inning 1") != 1 {
		t.Fatalf("events = %v", bottom.Events)
	}

	got.Outs, got.HalfInningOver = 3, true
	next, err := AdvanceHalfInning(got)
	if err != nil {
		t.Fatalf("AdvanceHalfInning: %v", err)
	}
	if !next.State.TopHalf || next.State.Inning != 2 {
		t.Fatalf("inning = %d top = %v", next.State.Inning, next.State.TopHalf)
	}
}

func TestValidateRejectsBrokenState(t *testing.T) {
	dup := NewGame()
	dup.Bases.First = runner(1, "Ace", 15)
	dup.Bases.Second = runner(1, "Ace", 15)

	over := NewGame()
	over.GameOver = true

	tests := []struct {
		name  string
		state State
	}{
		{name: "duplicate runner", state: dup},
		{name: "too many outs", state: State{Inning: 1, Outs: 4}},
		{name: "inning zero", state: State{}},
		{name: "finished without winner", state: over},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.state.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
			_, err := ApplyOutcome(OutcomeRequest{
				State:   tt.state,
				Code:    card.PlayOut,
				Batter:  hitterCard(10, "Batter", "B"),
				Pitcher: pitcherCard(pitcherID, "Otis Vane", 4, 7),
				Roller:  seq(),
			})
			requireCode(t, err, ErrIllegalStateTransition)
		})
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	s := NewGame()
	s.Bases.First = runner(1, "Ace", 15)
	s.PitcherStats[pitcherID] = s.PitcherStats[pitcherID].WithInning(1)

	c := s.Clone()
	c.Bases.First.Name = "Changed"
	c.PitcherStats[pitcherID] = c.PitcherStats[pitcherID].WithRun()

	if s.Bases.First.Name != "Ace" {
		t.Fatal("clone shares runners")
	}
	if s.PitcherStats[pitcherID].RunsAllowed != 0 {
		t.Fatal("clone shares pitcher stats")
	}
}

func TestSeriesGameCarriesFatigue(t *testing.T) {
	reliever := pitcherCard(relieverID, "Rico Bell", 3, 2)
	starter := pitcherCard(pitcherID, "Otis Vane", 4, 7)
	s := NewSeriesGame(3, []card.PlayerCard{starter, reliever}, seriesHistory(relieverID))
	if s.GameInSeries != 3 {
		t.Fatalf("game in series = %d", s.GameInSeries)
	}
	if got := s.PitcherStats[relieverID].FatigueModifier; got != -2 {
		t.Fatalf("reliever modifier = %d, want -2", got)
	}
	if _, ok := s.PitcherStats[pitcherID]; ok {
		t.Fatal("starter should carry no modifier")
	}

	first := NewSeriesGame(1, []card.PlayerCard{starter, reliever}, seriesHistory(relieverID))
	if len(first.PitcherStats) != 0 {
		t.Fatalf("first game stats = %+v", first.PitcherStats)
	}
}

func seriesHistory(id int) fatigue.SeriesHistory {
	pitched := fatigue.Record{}.WithInning(8)
	return fatigue.SeriesHistory{
		Previous:       map[int]fatigue.Record{id: pitched},
		BeforePrevious: map[int]fatigue.Record{id: pitched},
	}
}
