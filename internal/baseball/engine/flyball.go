package engine

// tagUpVerdict classifies a runner tagging up on a fly out.
func tagUpVerdict(d RunnerDecision, def Defense) verdict {
	speed := d.Runner.Speed + tagUpAdjustment(d.To)
	switch {
	case speed >= autoAdvanceLine(def):
		return verdictAdvance
	case d.Runner.Speed == 10 && (d.To == Second || d.To == Third):
		return verdictHold
	case d.Runner.Speed == 15 && d.To == Second:
		return verdictHold
	}
	return verdictManual
}

func tagUpAdjustment(to Base) int {
	switch to {
	case Home:
		return 5
	case Second:
		return -5
	}
	return 0
}

func (p *play) flyBall(name string, def Defense) {
	p.say("plays.flyout", name)
	p.out()
	if !p.inningOpen() || p.s.Bases.Empty() {
		return
	}

	var decisions []RunnerDecision
	for _, base := range []Base{Third, Second, First} {
		if r := p.s.Bases.At(base); r != nil {
			decisions = append(decisions, RunnerDecision{Runner: *r, From: base, At: base, To: base + 1})
		}
	}
	verdicts := make([]verdict, len(decisions))
	automatic := true
	for i, d := range decisions {
		verdicts[i] = tagUpVerdict(d, def)
		if verdicts[i] == verdictManual {
			automatic = false
		}
	}

	var manual, autoHolds []RunnerDecision
	for i, d := range decisions {
		if verdicts[i] == verdictAdvance && p.tagAdvance(d) {
			continue
		}
		if automatic {
			p.say("plays.holds", d.Runner.Name)
			continue
		}
		if verdicts[i] == verdictHold {
			d.AutoHold = true
			autoHolds = append(autoHolds, d)
		}
		manual = append(manual, d)
	}
	if automatic || len(manual) == 0 || p.s.GameOver {
		return
	}
	p.s.Pending = &PendingPlay{
		Kind: PendingTagUp,
		TagUp: &TagUpPlay{
			Decisions:         manual,
			AutoHoldDecisions: autoHolds,
		},
	}
}

// tagAdvance moves a runner up without a throw when the base ahead is free.
func (p *play) tagAdvance(d RunnerDecision) bool {
	if d.To != Home && p.s.Bases.At(d.To) != nil {
		return false
	}
	r := p.take(d.From)
	if d.To == Home {
		p.score(r, "plays.tag_scores")
		return true
	}
	p.s.Bases.set(d.To, r)
	p.say("plays.tag_advances", r.Name)
	return true
}
