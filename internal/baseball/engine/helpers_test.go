package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/core/dice"
)

const (
	pitcherID  = 90
	relieverID = 91
)

func hitterCard(id int, name, speed string) card.PlayerCard {
	s, err := card.ParseSpeed(speed)
	if err != nil {
		panic(err)
	}
	return card.PlayerCard{
		ID:     id,
		Name:   name,
		OnBase: 12,
		Speed:  s,
		Chart: card.MustParseChart(map[string]string{
			"1-3":   "SO",
			"4-9":   "GB",
			"10-11": "FB",
			"12":    "GB",
			"13-17": "1B",
			"18":    "2B",
			"19":    "3B",
			"20":    "HR",
		}),
	}
}

func pitcherCard(id int, name string, control, ip int) card.PlayerCard {
	return card.PlayerCard{
		ID:      id,
		Name:    name,
		Control: &control,
		IP:      ip,
		Chart: card.MustParseChart(map[string]string{
			"1-3":   "PU",
			"4-8":   "SO",
			"9-12":  "GB",
			"13-16": "FB",
			"17":    "BB",
			"18-19": "1B",
			"20":    "2B",
		}),
	}
}

func runner(id int, name string, speed int) *Runner {
	return &Runner{CardID: id, Name: name, Speed: speed, PitcherOfRecordID: pitcherID}
}

func bottomOfNinth() State {
	s := NewGame()
	s.Inning = 9
	s.TopHalf = false
	return s
}

func seq(values ...int) *dice.Sequence {
	return dice.NewSequence(values...)
}

func mustApply(t *testing.T, s State, code card.PlayCode, batter card.PlayerCard, def Defense, rolls ...int) Result {
	t.Helper()
	res, err := ApplyOutcome(OutcomeRequest{
		State:   s,
		Code:    code,
		Batter:  batter,
		Pitcher: pitcherCard(pitcherID, "Otis Vane", 4, 7),
		Defense: def,
		Roller:  seq(rolls...),
	})
	if err != nil {
		t.Fatalf("ApplyOutcome(%s): %v", code, err)
	}
	return res
}

func requireCode(t *testing.T, err error, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error matching %v", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

func countEvents(events []string, substr string) int {
	n := 0
	for _, e := range events {
		if strings.Contains(e, substr) {
			n++
		}
	}
	return n
}

func runnerID(r *Runner) int {
	if r == nil {
		return 0
	}
	return r.CardID
}
