package engine

import (
	"slices"
	"testing"

	"github.com/louisbranch/diamond/internal/baseball/card"
)

func TestPitchThenSwing(t *testing.T) {
	batter := hitterCard(10, "Batter", "B")
	pitcher := pitcherCard(pitcherID, "Otis Vane", 4, 7)

	pitched, err := SubmitAction(ActionRequest{
		State:     NewGame(),
		Defensive: ActionPitch,
		Batter:    batter,
		Pitcher:   pitcher,
		Roller:    seq(10),
	})
	if err != nil {
		t.Fatalf("pitch: %v", err)
	}
	ab := pitched.State.AtBat
	if !ab.InProgress() || ab.Pitch == nil || ab.Pitch.Total != 14 || ab.Pitch.Advantage != AdvantagePitcher {
		t.Fatalf("at-bat = %+v", ab)
	}
	if !slices.Equal(pitched.State.PitcherStats[pitcherID].InningsPitched, []int{1}) {
		t.Fatalf("innings = %v", pitched.State.PitcherStats[pitcherID].InningsPitched)
	}

	_, err = SubmitAction(ActionRequest{State: pitched.State, Defensive: ActionPitch, Batter: batter, Pitcher: pitcher, Roller: seq(1)})
	requireCode(t, err, ErrIllegalStateTransition)

	swung, err := SubmitAction(ActionRequest{
		State:     pitched.State,
		Offensive: ActionSwing,
		Batter:    batter,
		Pitcher:   pitcher,
		Roller:    seq(5),
	})
	if err != nil {
		t.Fatalf("swing: %v", err)
	}
	got := swung.State
	if got.AtBat.Outcome != card.PlayStrikeout || got.Outs != 1 {
		t.Fatalf("outcome %s outs %d", got.AtBat.Outcome, got.Outs)
	}
	if got.AtBat.Swing == nil || got.AtBat.Swing.Roll != 5 {
		t.Fatalf("swing = %+v", got.AtBat.Swing)
	}
	rec := got.PitcherStats[pitcherID]
	if rec.BattersFaced != 1 || rec.OutsRecorded != 1 {
		t.Fatalf("record = %+v", rec)
	}
}

func TestSubmitAction(t *testing.T) {
	tests := []struct {
		name      string
		batter    card.PlayerCard
		defensive DefensiveAction
		offensive OffensiveAction
		rolls     []int
		want      card.PlayCode
		advantage Advantage
	}{
		{
			name:      "batter advantage home run",
			batter:    hitterCard(10, "Batter", "B"),
			defensive: ActionPitch,
			offensive: ActionSwing,
			rolls:     []int{1, 20},
			want:      card.PlayHomeRun,
			advantage: AdvantageBatter,
		},
		{
			name:      "pitcher batting cedes advantage",
			batter:    pitcherCard(95, "Weak Bat", 3, 6),
			defensive: ActionPitch,
			offensive: ActionSwing,
			rolls:     []int{1, 2},
			want:      card.PlayPopUp,
			advantage: AdvantagePitcher,
		},
		{
			name:      "bunt skips the swing roll",
			batter:    hitterCard(10, "Batter", "B"),
			defensive: ActionPitch,
			offensive: ActionBunt,
			rolls:     []int{10},
			want:      card.PlayBunt,
			advantage: AdvantagePitcher,
		},
		{
			name:      "intentional walk resolves at once",
			batter:    hitterCard(10, "Batter", "B"),
			defensive: ActionIntentionalWalk,
			want:      card.PlayIntentionalWalk,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := SubmitAction(ActionRequest{
				State:     NewGame(),
				Defensive: tt.defensive,
				Offensive: tt.offensive,
				Batter:    tt.batter,
				Pitcher:   pitcherCard(pitcherID, "Otis Vane", 4, 7),
				Roller:    seq(tt.rolls...),
			})
			if err != nil {
				t.Fatalf("SubmitAction: %v", err)
			}
			ab := res.State.AtBat
			if ab.Outcome != tt.want {
				t.Fatalf("outcome = %s, want %s", ab.Outcome, tt.want)
			}
			if tt.advantage != "" && ab.Pitch.Advantage != tt.advantage {
				t.Fatalf("advantage = %s, want %s", ab.Pitch.Advantage, tt.advantage)
			}
		})
	}
}

func TestSwingOutsideChartFails(t *testing.T) {
	pitcher := pitcherCard(pitcherID, "Otis Vane", 4, 7)
	pitcher.Chart = card.MustParseChart(map[string]string{"1-10": "SO"})

	_, err := SubmitAction(ActionRequest{
		State:     NewGame(),
		Defensive: ActionPitch,
		Offensive: ActionSwing,
		Batter:    hitterCard(10, "Batter", "B"),
		Pitcher:   pitcher,
		Roller:    seq(20, 15),
	})
	requireCode(t, err, card.ErrInvalidChartRange)
}

func TestSubmitActionValidation(t *testing.T) {
	batter := hitterCard(10, "Batter", "B")
	pitcher := pitcherCard(pitcherID, "Otis Vane", 4, 7)
	tests := []struct {
		name string
		req  ActionRequest
	}{
		{name: "unknown defensive", req: ActionRequest{Defensive: "balk", Batter: batter, Pitcher: pitcher}},
		{name: "unknown offensive", req: ActionRequest{Offensive: "slap", Batter: batter, Pitcher: pitcher}},
		{name: "nothing submitted", req: ActionRequest{Batter: batter, Pitcher: pitcher}},
		{name: "hitter on the mound", req: ActionRequest{Defensive: ActionPitch, Batter: batter, Pitcher: batter}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.State = NewGame()
			tt.req.Roller = seq()
			_, err := SubmitAction(tt.req)
			requireCode(t, err, ErrInvalidAction)
		})
	}
}

func TestChangePitcherRollsBackEmptyInning(t *testing.T) {
	batter := hitterCard(10, "Batter", "B")
	starter := pitcherCard(pitcherID, "Otis Vane", 4, 7)
	reliever := pitcherCard(relieverID, "Rico Bell", 3, 2)

	pitched, err := SubmitAction(ActionRequest{State: NewGame(), Defensive: ActionPitch, Batter: batter, Pitcher: starter, Roller: seq(10)})
	if err != nil {
		t.Fatalf("pitch: %v", err)
	}

	res, err := ChangePitcher(PitchingChangeRequest{State: pitched.State, Outgoing: starter, Incoming: reliever})
	if err != nil {
		t.Fatalf("ChangePitcher: %v", err)
	}
	got := res.State
	if got.PitcherStats[pitcherID].PitchedIn(1) {
		t.Fatalf("starter still charged with inning 1: %+v", got.PitcherStats[pitcherID])
	}
	if got.AtBat.PitcherID != relieverID || got.AtBat.Pitch != nil || got.AtBat.DefensiveAction != "" {
		t.Fatalf("at-bat = %+v", got.AtBat)
	}
	if countEvents(res.Events, "Rico Bell replaces Otis Vane") != 1 {
		t.Fatalf("events = %v", res.Events)
	}

	after, err := SubmitAction(ActionRequest{State: got, Defensive: ActionPitch, Offensive: ActionSwing, Batter: batter, Pitcher: reliever, Roller: seq(20, 5)})
	if err != nil {
		t.Fatalf("reliever pitch: %v", err)
	}
	if after.State.AtBat.Outcome != card.PlayStrikeout {
		t.Fatalf("outcome = %s", after.State.AtBat.Outcome)
	}
}

func TestChangePitcherKeepsWorkedInning(t *testing.T) {
	starter := pitcherCard(pitcherID, "Otis Vane", 4, 7)
	s := NewGame()
	s.Outs = 1
	s.PitcherStats[pitcherID] = s.PitcherStats[pitcherID].WithInning(1).WithBatter(1)

	res, err := ChangePitcher(PitchingChangeRequest{State: s, Outgoing: starter, Incoming: pitcherCard(relieverID, "Rico Bell", 3, 2)})
	if err != nil {
		t.Fatalf("ChangePitcher: %v", err)
	}
	if !res.State.PitcherStats[pitcherID].PitchedIn(1) {
		t.Fatal("worked inning was rolled back")
	}

	_, err = ChangePitcher(PitchingChangeRequest{State: s, Outgoing: starter, Incoming: starter})
	requireCode(t, err, ErrInvalidAction)
}
