package engine

import (
	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/core/check"
)

// PendingKind tags the variant held by a PendingPlay.
type PendingKind string

const (
	PendingAdvance   PendingKind = "advance"
	PendingTagUp     PendingKind = "tag_up"
	PendingInfieldIn PendingKind = "infield_in"
	PendingSteal     PendingKind = "steal"
)

// RunnerDecision is one runner who may try for an extra base. From is where
// the runner stood before the play, At is where the play left them, and To is
// the base they may try for.
type RunnerDecision struct {
	Runner   Runner `json:"runner"`
	From     Base   `json:"from"`
	At       Base   `json:"at"`
	To       Base   `json:"to"`
	AutoHold bool   `json:"auto_hold,omitempty"`
}

// AdvancePlay waits for the offense to send or hold runners after a hit.
type AdvancePlay struct {
	Decisions       []RunnerDecision `json:"decisions"`
	HitType         card.PlayCode    `json:"hit_type"`
	ScorersSoFar    []string         `json:"scorers_so_far,omitempty"`
	BatterExtraBase bool             `json:"batter_extra_base,omitempty"`
	Sent            []Base           `json:"sent,omitempty"`
}

// TagUpPlay waits for the offense to send or hold runners after a fly out.
type TagUpPlay struct {
	Decisions         []RunnerDecision `json:"decisions"`
	AutoHoldDecisions []RunnerDecision `json:"auto_hold_decisions,omitempty"`
	Sent              []Base           `json:"sent,omitempty"`
}

// InfieldInPlay waits for the offense to send or hold the runner on third
// after a ground ball into a drawn-in infield. Bases and outs are left
// untouched until the offense decides.
type InfieldInPlay struct {
	Batter         Runner  `json:"batter"`
	RunnerOnThird  Runner  `json:"runner_on_third"`
	RunnerOnSecond *Runner `json:"runner_on_second,omitempty"`
	RunnerOnFirst  *Runner `json:"runner_on_first,omitempty"`
}

// StealPlay is a steal attempt. A single steal is rolled immediately and
// waits for the defense to acknowledge Result; a double steal waits for the
// defense to choose where to throw.
type StealPlay struct {
	Decisions       []RunnerDecision `json:"decisions"`
	QueuedDecisions []RunnerDecision `json:"queued_decisions,omitempty"`
	Result          *check.Result    `json:"result,omitempty"`
}

// PendingPlay is a play waiting for a further decision. Exactly one variant
// pointer matching Kind is set.
type PendingPlay struct {
	Kind      PendingKind    `json:"kind"`
	Advance   *AdvancePlay   `json:"advance,omitempty"`
	TagUp     *TagUpPlay     `json:"tag_up,omitempty"`
	InfieldIn *InfieldInPlay `json:"infield_in,omitempty"`
	Steal     *StealPlay     `json:"steal,omitempty"`
}

func (p PendingPlay) clone() PendingPlay {
	out := PendingPlay{Kind: p.Kind}
	if p.Advance != nil {
		adv := *p.Advance
		adv.Decisions = cloneDecisions(p.Advance.Decisions)
		adv.ScorersSoFar = cloneSlice(p.Advance.ScorersSoFar)
		adv.Sent = cloneSlice(p.Advance.Sent)
		out.Advance = &adv
	}
	if p.TagUp != nil {
		tag := *p.TagUp
		tag.Decisions = cloneDecisions(p.TagUp.Decisions)
		tag.AutoHoldDecisions = cloneDecisions(p.TagUp.AutoHoldDecisions)
		tag.Sent = cloneSlice(p.TagUp.Sent)
		out.TagUp = &tag
	}
	if p.InfieldIn != nil {
		in := *p.InfieldIn
		in.RunnerOnSecond = cloneRunner(p.InfieldIn.RunnerOnSecond)
		in.RunnerOnFirst = cloneRunner(p.InfieldIn.RunnerOnFirst)
		out.InfieldIn = &in
	}
	if p.Steal != nil {
		steal := *p.Steal
		steal.Decisions = cloneDecisions(p.Steal.Decisions)
		steal.QueuedDecisions = cloneDecisions(p.Steal.QueuedDecisions)
		if p.Steal.Result != nil {
			result := *p.Steal.Result
			result.Adjustments = cloneSlice(p.Steal.Result.Adjustments)
			result.DefenseAdjustments = cloneSlice(p.Steal.Result.DefenseAdjustments)
			steal.Result = &result
		}
		out.Steal = &steal
	}
	return out
}

func cloneDecisions(in []RunnerDecision) []RunnerDecision {
	return cloneSlice(in)
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
