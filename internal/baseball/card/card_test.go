package card

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
)

func TestEffectiveSpeed(t *testing.T) {
	control := 3
	tests := []struct {
		name string
		card PlayerCard
		want int
	}{
		{"tier A", PlayerCard{Speed: Speed{Tier: TierA}}, 20},
		{"tier B", PlayerCard{Speed: Speed{Tier: TierB}}, 15},
		{"tier C", PlayerCard{Speed: Speed{Tier: TierC}}, 10},
		{"numeric", PlayerCard{Speed: Speed{Value: 17}}, 17},
		{"pitcher ignores printed speed", PlayerCard{Control: &control, Speed: Speed{Tier: TierA}}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveSpeed(tt.card); got != tt.want {
				t.Fatalf("EffectiveSpeed = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseSpeed(t *testing.T) {
	if s, err := ParseSpeed("b"); err != nil || s.Rating() != 15 {
		t.Fatalf("ParseSpeed(b) = %+v, %v", s, err)
	}
	if s, err := ParseSpeed(" 13 "); err != nil || s.Rating() != 13 {
		t.Fatalf("ParseSpeed(13) = %+v, %v", s, err)
	}
	if _, err := ParseSpeed("fast"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParsePlayCode(t *testing.T) {
	tests := []struct {
		raw     string
		want    PlayCode
		wantErr bool
	}{
		{"GB", PlayGroundBall, false},
		{"gb?", PlayGroundBall, false},
		{"SINGLE", PlaySingle, false},
		{"1B+", PlaySinglePlus, false},
		{"IBB", PlayIntentionalWalk, false},
		{"XX", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePlayCode(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParsePlayCode(%q) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownPlayCode) {
				t.Fatalf("ParsePlayCode(%q) err = %v, want unknown play code", tt.raw, err)
			}
			continue
		}
		if got != tt.want {
			t.Fatalf("ParsePlayCode(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestPlayCodeIsOut(t *testing.T) {
	outs := map[PlayCode]bool{PlayStrikeout: true, PlayPopUp: true, PlayOut: true}
	for _, code := range []PlayCode{
		PlayBunt, PlayGroundBall, PlayFlyBall, PlaySingle, PlaySinglePlus, PlayDouble,
		PlayTriple, PlayHomeRun, PlayWalk, PlayIntentionalWalk, PlayStrikeout, PlayPopUp, PlayOut,
	} {
		if got := code.IsOut(); got != outs[code] {
			t.Fatalf("%s.IsOut() = %v, want %v", code, got, outs[code])
		}
	}
}

func TestChartLookup(t *testing.T) {
	chart := MustParseChart(map[string]string{
		"1-3":   "PU",
		"4-8":   "SO",
		"9-12":  "GB",
		"13-16": "FB",
		"17":    "BB",
		"18-19": "1B",
		"20":    "2B",
	})
	tests := []struct {
		roll int
		want PlayCode
	}{
		{1, PlayPopUp},
		{3, PlayPopUp},
		{4, PlayStrikeout},
		{12, PlayGroundBall},
		{17, PlayWalk},
		{19, PlaySingle},
		{20, PlayDouble},
	}
	for _, tt := range tests {
		got, err := chart.Lookup(tt.roll)
		if err != nil {
			t.Fatalf("Lookup(%d): %v", tt.roll, err)
		}
		if got != tt.want {
			t.Fatalf("Lookup(%d) = %s, want %s", tt.roll, got, tt.want)
		}
	}
}

func TestChartLookupGapFailsLoudly(t *testing.T) {
	chart := MustParseChart(map[string]string{"1-5": "SO", "10-20": "GB"})
	_, err := chart.Lookup(7)
	if !errors.Is(err, ErrInvalidChartRange) {
		t.Fatalf("err = %v, want invalid chart range", err)
	}
	if apperrors.CodeOf(err) != apperrors.CodeInvalidChartRange {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
	if _, err := chart.Lookup(21); !errors.Is(err, ErrInvalidChartRange) {
		t.Fatalf("err = %v, want invalid chart range", err)
	}
}

func TestParseChartRejectsBadData(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
	}{
		{"overlap", map[string]string{"1-5": "SO", "5-20": "GB"}},
		{"out of bounds", map[string]string{"0-20": "SO"}},
		{"inverted", map[string]string{"10-2": "SO"}},
		{"bad key", map[string]string{"a-b": "SO"}},
		{"unknown code", map[string]string{"1-20": "ZZ"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseChart(tt.entries); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHighestGroundBall(t *testing.T) {
	chart := MustParseChart(map[string]string{
		"1-4":   "SO",
		"5-9":   "GB",
		"10-12": "GB?",
		"13-20": "FB",
	})
	got, ok := chart.HighestGroundBall()
	if !ok || got != 12 {
		t.Fatalf("HighestGroundBall = %d, %v, want 12, true", got, ok)
	}
	if _, ok := MustParseChart(map[string]string{"1-20": "SO"}).HighestGroundBall(); ok {
		t.Fatal("expected no ground-ball range")
	}
}

func TestChartEntriesRoundTrip(t *testing.T) {
	entries := map[string]string{"1-2": "SO", "3-19": "GB", "20": "HR"}
	chart := MustParseChart(entries)
	again := MustParseChart(chart.Entries())
	if len(again.Ranges()) != 3 {
		t.Fatalf("ranges = %d, want 3", len(again.Ranges()))
	}
	for i, r := range chart.Ranges() {
		if again.Ranges()[i] != r {
			t.Fatalf("range %d = %+v, want %+v", i, again.Ranges()[i], r)
		}
	}
}

func TestReplacementCards(t *testing.T) {
	hitter := ReplacementHitter()
	if hitter.IsPitcher() || EffectiveSpeed(hitter) != 15 || hitter.OnBase != -10 {
		t.Fatalf("replacement hitter = %+v", hitter)
	}
	if code, _ := hitter.Chart.Lookup(2); code != PlayStrikeout {
		t.Fatalf("hitter roll 2 = %s, want SO", code)
	}
	if code, _ := hitter.Chart.Lookup(3); code != PlayGroundBall {
		t.Fatalf("hitter roll 3 = %s, want GB", code)
	}

	pitcher := ReplacementPitcher()
	if !pitcher.IsPitcher() || pitcher.ControlRating() != -1 || pitcher.IP != 1 {
		t.Fatalf("replacement pitcher = %+v", pitcher)
	}
	if !pitcher.IsReliever() {
		t.Fatal("expected replacement pitcher to be a reliever")
	}
	for roll := 1; roll <= 20; roll++ {
		if _, err := pitcher.Chart.Lookup(roll); err != nil {
			t.Fatalf("pitcher roll %d: %v", roll, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	cards, err := LoadFile(filepath.Join("testdata", "cards.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(cards))
	}
	index := Index(cards)
	if got := EffectiveSpeed(index[1]); got != 20 {
		t.Fatalf("speed = %d, want 20", got)
	}
	if got := EffectiveSpeed(index[2]); got != 12 {
		t.Fatalf("speed = %d, want 12", got)
	}
	if !index[3].IsPitcher() || index[3].ControlRating() != 4 || index[3].IP != 7 {
		t.Fatalf("pitcher = %+v", index[3])
	}
	if code, _ := index[2].Chart.Lookup(6); code != PlayGroundBall {
		t.Fatalf("lookup = %s, want GB", code)
	}
	if index[2].FieldingAt("ss") != 4 {
		t.Fatalf("fielding = %d, want 4", index[2].FieldingAt("ss"))
	}
}

func TestParseAggregatesValidationErrors(t *testing.T) {
	_, err := Parse([]byte(`cards:
  - id: 0
    name: ""
    speed: A
    chart:
      "1-20": SO
  - id: 5
    name: "Arm Only"
    control: 2
    chart:
      "1-20": GB
`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code != apperrors.CodeInvalidCard {
		t.Fatalf("err = %v, want invalid card", err)
	}
	for _, want := range []string{"id must be >= 1", "name is required", "pitchers need ip >= 1"} {
		if !strings.Contains(domainErr.Message, want) {
			t.Fatalf("message %q missing %q", domainErr.Message, want)
		}
	}
}

func TestParseRejectsBadChart(t *testing.T) {
	_, err := Parse([]byte(`cards:
  - id: 1
    name: "Gap"
    speed: C
    chart:
      "1-5": SO
      "4-20": GB
`))
	if err == nil {
		t.Fatal("expected chart error")
	}
}
