// Package card holds player card reference data: ratings, speed, outcome
// charts and the replacement cards used when a lineup slot is empty.
package card

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pitcher speed is fixed regardless of what the card prints.
const pitcherSpeed = 10

// Speed tiers printed on hitter cards.
const (
	TierA = "A"
	TierB = "B"
	TierC = "C"
)

var tierSpeeds = map[string]int{
	TierA: 20,
	TierB: 15,
	TierC: 10,
}

// Speed is either a tier letter or a numeric rating.
type Speed struct {
	Tier  string `json:"tier,omitempty"`
	Value int    `json:"value,omitempty"`
}

// ParseSpeed parses "A", "B", "C" or a number.
func ParseSpeed(raw string) (Speed, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := tierSpeeds[value]; ok {
		return Speed{Tier: value}, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return Speed{}, fmt.Errorf("speed %q must be a tier (A, B, C) or a number", raw)
	}
	return Speed{Value: n}, nil
}

// Rating resolves the speed to a number.
func (s Speed) Rating() int {
	if v, ok := tierSpeeds[s.Tier]; ok {
		return v
	}
	return s.Value
}

// UnmarshalYAML accepts both `speed: B` and `speed: 17`.
func (s *Speed) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: speed must be a scalar", value.Line)
	}
	parsed, err := ParseSpeed(value.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PlayerCard is immutable reference data for one player.
type PlayerCard struct {
	ID       int            `yaml:"id"`
	Name     string         `yaml:"name"`
	OnBase   int            `yaml:"on_base"`
	Control  *int           `yaml:"control,omitempty"`
	Speed    Speed          `yaml:"speed"`
	Chart    Chart          `yaml:"chart"`
	Fielding map[string]int `yaml:"fielding,omitempty"`
	IP       int            `yaml:"ip,omitempty"`
}

// IsPitcher reports whether the card carries a control rating.
func (c PlayerCard) IsPitcher() bool {
	return c.Control != nil
}

// ControlRating returns the printed control, or zero for hitters.
func (c PlayerCard) ControlRating() int {
	if c.Control == nil {
		return 0
	}
	return *c.Control
}

// IsReliever reports whether a pitcher's innings capacity marks them as a
// reliever rather than a starter.
func (c PlayerCard) IsReliever() bool {
	return c.IsPitcher() && c.IP <= 3
}

// EffectiveSpeed is the speed used by every base-running contest.
func EffectiveSpeed(c PlayerCard) int {
	if c.IsPitcher() {
		return pitcherSpeed
	}
	return c.Speed.Rating()
}

// FieldingAt returns the rating at position, or zero when the card has none.
func (c PlayerCard) FieldingAt(position string) int {
	return c.Fielding[strings.ToUpper(position)]
}
