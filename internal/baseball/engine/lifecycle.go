package engine

// IsWalkoff reports whether the home team has taken the lead in the bottom
// of the ninth or later.
func IsWalkoff(s State) bool {
	return !s.TopHalf && s.Inning >= 9 && s.HomeScore > s.AwayScore
}

// IsGameOver reports whether the state ends the game.
func IsGameOver(s State) bool {
	return s.GameOver || IsWalkoff(s) || gameEndsAtThreeOuts(s)
}

// IsHalfInningOver reports whether three outs close a half-inning without
// ending the game.
func IsHalfInningOver(s State) bool {
	return s.Outs >= 3 && !IsGameOver(s)
}

// gameEndsAtThreeOuts: the bottom of the ninth or later ends with a winner,
// and the top of the ninth or later ends the game if the home side leads.
func gameEndsAtThreeOuts(s State) bool {
	if s.Outs < 3 || s.Inning < 9 {
		return false
	}
	if s.TopHalf {
		return s.HomeScore > s.AwayScore
	}
	return s.HomeScore != s.AwayScore
}

func leader(s State) Side {
	if s.HomeScore > s.AwayScore {
		return SideHome
	}
	return SideAway
}

// AdvanceHalfInning flips to the next half-inning once the current one is
// flagged over. Outs, bases, the infield setting and the at-bat reset;
// pitcher records carry over.
func AdvanceHalfInning(s State) (Result, error) {
	if err := requireValid(s); err != nil {
		return Result{}, err
	}
	switch {
	case s.GameOver:
		return Result{}, illegal("game is over")
	case s.Pending != nil:
		return Result{}, illegal("pending %s play must be resolved first", s.Pending.Kind)
	case !s.HalfInningOver:
		return Result{}, illegal("half-inning is still in progress")
	}

	p := newPlay(s, 0, nil)
	if p.s.TopHalf {
		p.s.TopHalf = false
	} else {
		p.s.TopHalf = true
		p.s.Inning++
	}
	p.s.Outs = 0
	p.s.Bases = Bases{}
	p.s.InfieldIn = false
	p.s.HalfInningOver = false
	p.s.AtBat = AtBat{}

	if p.s.TopHalf {
		p.say("plays.half_inning_top", p.s.Inning)
	} else {
		p.say("plays.half_inning_bottom", p.s.Inning)
	}
	return p.finish(), nil
}
