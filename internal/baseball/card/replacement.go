package card

// Replacement card IDs. Negative IDs never collide with real cards.
const (
	ReplacementHitterID  = -1
	ReplacementPitcherID = -2
)

// ReplacementHitter fills an empty lineup slot.
func ReplacementHitter() PlayerCard {
	return PlayerCard{
		ID:     ReplacementHitterID,
		Name:   "Replacement Hitter",
		OnBase: -10,
		Speed:  Speed{Tier: TierB},
		Chart: MustParseChart(map[string]string{
			"1-2":  "SO",
			"3-20": "GB",
		}),
		Fielding: map[string]int{},
	}
}

// ReplacementPitcher fills an empty mound when no eligible pitcher remains.
func ReplacementPitcher() PlayerCard {
	control := -1
	return PlayerCard{
		ID:      ReplacementPitcherID,
		Name:    "Replacement Pitcher",
		Control: &control,
		IP:      1,
		Chart: MustParseChart(map[string]string{
			"1-3":   "PU",
			"4-8":   "SO",
			"9-12":  "GB",
			"13-16": "FB",
			"17":    "BB",
			"18-19": "1B",
			"20":    "2B",
		}),
		Fielding: map[string]int{},
	}
}
