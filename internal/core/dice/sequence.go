package dice

import "fmt"

// Sequence replays a fixed list of results. It panics when exhausted or when a
// stored value does not fit the requested die, since both mean the replay no
// longer matches the resolution that produced it.
type Sequence struct {
	values []int
	next   int
}

// NewSequence creates a roller that returns values in order.
func NewSequence(values ...int) *Sequence {
	copied := make([]int, len(values))
	copy(copied, values)
	return &Sequence{values: copied}
}

// Roll returns the next stored value.
func (s *Sequence) Roll(sides int) int {
	if s.next >= len(s.values) {
		panic(fmt.Sprintf("dice: sequence exhausted after %d rolls", len(s.values)))
	}
	value := s.values[s.next]
	if value < 1 || value > sides {
		panic(fmt.Sprintf("dice: stored roll %d does not fit d%d", value, sides))
	}
	s.next++
	return value
}

// Remaining reports how many stored values have not been consumed.
func (s *Sequence) Remaining() int {
	return len(s.values) - s.next
}

// Roll is one recorded die result.
type Roll struct {
	Sides int `json:"sides"`
	Value int `json:"value"`
}

// Recorder wraps a Roller and keeps every result it hands out.
type Recorder struct {
	roller Roller
	rolls  []Roll
}

// NewRecorder wraps roller.
func NewRecorder(roller Roller) *Recorder {
	return &Recorder{roller: roller}
}

// Roll delegates to the wrapped roller and records the result.
func (r *Recorder) Roll(sides int) int {
	value := r.roller.Roll(sides)
	r.rolls = append(r.rolls, Roll{Sides: sides, Value: value})
	return value
}

// Rolls returns a copy of the recorded results in order.
func (r *Recorder) Rolls() []Roll {
	out := make([]Roll, len(r.rolls))
	copy(out, r.rolls)
	return out
}

// Values returns the recorded values in order, suitable for NewSequence.
func Values(rolls []Roll) []int {
	out := make([]int, len(rolls))
	for i, roll := range rolls {
		out[i] = roll.Value
	}
	return out
}
