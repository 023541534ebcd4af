package fatigue

import (
	"reflect"
	"testing"

	"github.com/louisbranch/diamond/internal/baseball/card"
)

func pitcher(id, control, ip int) card.PlayerCard {
	return card.PlayerCard{ID: id, Name: "P", Control: &control, IP: ip}
}

func TestWithInningIsIdempotent(t *testing.T) {
	rec := Record{}.WithInning(3).WithInning(1).WithInning(3)
	if !reflect.DeepEqual(rec.InningsPitched, []int{1, 3}) {
		t.Fatalf("innings = %v, want [1 3]", rec.InningsPitched)
	}
}

func TestRecordMutationsDoNotAlias(t *testing.T) {
	base := Record{}.WithInning(1).WithBatter(1)
	next := base.WithInning(2).WithBatter(2).WithRun()
	if len(base.InningsPitched) != 1 || base.BattersFaced != 1 || base.RunsAllowed != 0 {
		t.Fatalf("base mutated: %+v", base)
	}
	if base.BattersIn(2) != 0 {
		t.Fatalf("base batters in 2 = %d, want 0", base.BattersIn(2))
	}
	if len(next.InningsPitched) != 2 || next.BattersFaced != 2 || next.RunsAllowed != 1 {
		t.Fatalf("next = %+v", next)
	}
}

func TestWithoutInning(t *testing.T) {
	rec := Record{}.WithInning(4).WithInning(5).WithBatter(4)
	rolled := rec.WithoutInning(5)
	if !reflect.DeepEqual(rolled.InningsPitched, []int{4}) {
		t.Fatalf("innings = %v, want [4]", rolled.InningsPitched)
	}
	if !reflect.DeepEqual(rec.InningsPitched, []int{4, 5}) {
		t.Fatalf("original innings = %v, want [4 5]", rec.InningsPitched)
	}
	if rolled.BattersIn(4) != 1 {
		t.Fatalf("batters in 4 = %d, want 1", rolled.BattersIn(4))
	}
}

func TestThreshold(t *testing.T) {
	p := pitcher(1, 5, 6)
	tests := []struct {
		name string
		rec  Record
		want int
	}{
		{"fresh", Record{}, 6},
		{"two runs", Record{RunsAllowed: 2}, 6},
		{"three runs", Record{RunsAllowed: 3}, 5},
		{"seven runs", Record{RunsAllowed: 7}, 4},
		{"carry over", Record{FatigueModifier: -2}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Threshold(p, tt.rec); got != tt.want {
				t.Fatalf("Threshold = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEffectiveControl(t *testing.T) {
	p := pitcher(1, 5, 2)
	tests := []struct {
		name   string
		rec    Record
		inning int
		mode   Mode
		want   int
	}{
		{"fresh projected", Record{}, 1, Projected, 5},
		{"at threshold", Record{InningsPitched: []int{1}}, 2, Projected, 5},
		{"one past projected", Record{InningsPitched: []int{1, 2}}, 3, Projected, 4},
		{"one past recorded is fine", Record{InningsPitched: []int{1, 2}}, 3, Recorded, 5},
		{"current inning already recorded", Record{InningsPitched: []int{1, 2, 3}}, 3, Projected, 4},
		{"runs shrink threshold", Record{InningsPitched: []int{1, 2}, RunsAllowed: 3}, 2, Projected, 4},
		{"carry over", Record{FatigueModifier: -2}, 1, Projected, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveControl(p, tt.rec, tt.inning, tt.mode)
			if got != tt.want {
				t.Fatalf("EffectiveControl = %d, want %d", got, tt.want)
			}
			if again := EffectiveControl(p, tt.rec, tt.inning, tt.mode); again != got {
				t.Fatalf("EffectiveControl not stable: %d then %d", got, again)
			}
		})
	}
}

func TestPenaltyNeverNegative(t *testing.T) {
	p := pitcher(1, 3, 9)
	for runs := 0; runs < 30; runs++ {
		for innings := 0; innings < 12; innings++ {
			rec := Record{RunsAllowed: runs}
			for i := 1; i <= innings; i++ {
				rec = rec.WithInning(i)
			}
			if got := Penalty(p, rec, innings+1, Projected); got < 0 {
				t.Fatalf("penalty(%d runs, %d innings) = %d", runs, innings, got)
			}
		}
	}
}

func TestIsTired(t *testing.T) {
	p := pitcher(1, 3, 1)
	rec := Record{}.WithInning(1)
	if IsTired(p, rec, 1, Recorded) {
		t.Fatal("expected fresh after one inning")
	}
	if !IsTired(p, rec, 2, Projected) {
		t.Fatal("expected tired when projecting a second inning")
	}
}

func TestCarried(t *testing.T) {
	rec := Carried(3)
	if rec.FatigueModifier != -3 {
		t.Fatalf("modifier = %d, want -3", rec.FatigueModifier)
	}
	if rec.HasPitched() {
		t.Fatal("carried record should have no innings")
	}
}

func TestSeriesModifiers(t *testing.T) {
	starter := pitcher(1, 5, 7)
	backToBack := pitcher(2, 3, 2)
	overworked := pitcher(3, 3, 2)
	rested := pitcher(4, 3, 2)
	shortOuting := pitcher(5, 3, 1)

	history := SeriesHistory{
		Previous: map[int]Record{
			1: {InningsPitched: []int{1, 2, 3, 4, 5, 6, 7, 8}},
			2: {InningsPitched: []int{8}},
			3: {InningsPitched: []int{6, 7}, RunsAllowed: 3},
			5: {InningsPitched: []int{9}, RunsAllowed: 4},
		},
		BeforePrevious: map[int]Record{
			1: {InningsPitched: []int{1}},
			2: {InningsPitched: []int{9}},
			4: {InningsPitched: []int{7}},
		},
	}

	got := SeriesModifiers([]card.PlayerCard{starter, backToBack, overworked, rested, shortOuting}, history)
	if _, ok := got[1]; ok {
		t.Fatal("starters are never carried over")
	}
	if got[2].FatigueModifier != -2 {
		t.Fatalf("back-to-back modifier = %d, want -2", got[2].FatigueModifier)
	}
	if got[3].FatigueModifier != -2 {
		t.Fatalf("overworked modifier = %d, want -2", got[3].FatigueModifier)
	}
	if _, ok := got[4]; ok {
		t.Fatal("rested reliever should have no record")
	}
	if _, ok := got[5]; ok {
		t.Fatal("a single inning never counts as overworked")
	}
}

func TestSeriesModifiersFirstGame(t *testing.T) {
	got := SeriesModifiers([]card.PlayerCard{pitcher(2, 3, 2)}, SeriesHistory{})
	if len(got) != 0 {
		t.Fatalf("modifiers = %v, want none", got)
	}
}
