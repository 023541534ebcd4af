package fatigue

import "github.com/louisbranch/diamond/internal/baseball/card"

// SeriesHistory holds the final pitcher records of the games preceding the
// one about to start. Missing games are nil maps.
type SeriesHistory struct {
	Previous       map[int]Record
	BeforePrevious map[int]Record
}

// SeriesModifiers derives the opening records for relievers at the start of
// a series game. A reliever starts worn down (modifier -ip) when they pitched
// in both preceding games, or when in the previous game they exceeded their
// own threshold after pitching more than one inning. Rested relievers get no
// record; it is created lazily on first appearance.
func SeriesModifiers(pitchers []card.PlayerCard, history SeriesHistory) map[int]Record {
	out := map[int]Record{}
	for _, p := range pitchers {
		if !p.IsReliever() {
			continue
		}
		prev, pitchedPrev := history.Previous[p.ID]
		pitchedPrev = pitchedPrev && prev.HasPitched()
		before, pitchedBefore := history.BeforePrevious[p.ID]
		pitchedBefore = pitchedBefore && before.HasPitched()

		backToBack := pitchedPrev && pitchedBefore
		overworked := false
		if pitchedPrev {
			innings := len(prev.InningsPitched)
			overworked = innings > 1 && innings > p.IP-prev.RunsAllowed/3
		}
		if backToBack || overworked {
			out[p.ID] = Carried(p.IP)
		}
	}
	return out
}
