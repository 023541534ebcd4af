package card

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/diamond/internal/core/dice"
	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidChartRange matches any roll that falls outside every chart range.
var ErrInvalidChartRange = apperrors.New(apperrors.CodeInvalidChartRange, "roll outside chart")

// Range is one inclusive band of a chart.
type Range struct {
	Min  int      `json:"min"`
	Max  int      `json:"max"`
	Code PlayCode `json:"code"`
}

// Chart is an ordered, non-overlapping list of d20 ranges.
type Chart struct {
	ranges []Range
}

// NewChart sorts and validates ranges.
func NewChart(ranges []Range) (Chart, error) {
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	for i, r := range sorted {
		if r.Min < 1 || r.Max > dice.D20 || r.Min > r.Max {
			return Chart{}, fmt.Errorf("chart range %d-%d must lie within 1-%d", r.Min, r.Max, dice.D20)
		}
		if err := r.Code.Validate(); err != nil {
			return Chart{}, err
		}
		if i > 0 && r.Min <= sorted[i-1].Max {
			return Chart{}, fmt.Errorf("chart range %d-%d overlaps %d-%d", r.Min, r.Max, sorted[i-1].Min, sorted[i-1].Max)
		}
	}
	return Chart{ranges: sorted}, nil
}

// ParseChart parses card data entries such as "1-3": "PU" or "17": "BB".
func ParseChart(entries map[string]string) (Chart, error) {
	ranges := make([]Range, 0, len(entries))
	for key, value := range entries {
		lo, hi, err := parseBounds(key)
		if err != nil {
			return Chart{}, err
		}
		code, err := ParsePlayCode(value)
		if err != nil {
			return Chart{}, err
		}
		ranges = append(ranges, Range{Min: lo, Max: hi, Code: code})
	}
	return NewChart(ranges)
}

// MustParseChart is ParseChart for static data; it panics on error.
func MustParseChart(entries map[string]string) Chart {
	chart, err := ParseChart(entries)
	if err != nil {
		panic(err)
	}
	return chart
}

func parseBounds(key string) (int, int, error) {
	lowRaw, highRaw, found := strings.Cut(strings.TrimSpace(key), "-")
	low, err := strconv.Atoi(strings.TrimSpace(lowRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("chart range %q: %w", key, err)
	}
	if !found {
		return low, low, nil
	}
	high, err := strconv.Atoi(strings.TrimSpace(highRaw))
	if err != nil {
		return 0, 0, fmt.Errorf("chart range %q: %w", key, err)
	}
	return low, high, nil
}

// Lookup returns the play code for roll. A roll outside every range is an
// error; charts never default.
func (c Chart) Lookup(roll int) (PlayCode, error) {
	i := sort.Search(len(c.ranges), func(i int) bool { return c.ranges[i].Max >= roll })
	if i < len(c.ranges) && c.ranges[i].Min <= roll {
		return c.ranges[i].Code, nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeInvalidChartRange,
		fmt.Sprintf("roll %d outside chart", roll),
		map[string]string{"roll": strconv.Itoa(roll)})
}

// Ranges returns a copy of the sorted ranges.
func (c Chart) Ranges() []Range {
	out := make([]Range, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// IsZero reports whether the chart has no ranges.
func (c Chart) IsZero() bool {
	return len(c.ranges) == 0
}

// HighestGroundBall returns the largest upper bound among ground-ball ranges.
func (c Chart) HighestGroundBall() (int, bool) {
	highest, found := 0, false
	for _, r := range c.ranges {
		if r.Code == PlayGroundBall && r.Max > highest {
			highest, found = r.Max, true
		}
	}
	return highest, found
}

// Entries renders the chart back into card data form.
func (c Chart) Entries() map[string]string {
	out := make(map[string]string, len(c.ranges))
	for _, r := range c.ranges {
		key := strconv.Itoa(r.Min)
		if r.Max != r.Min {
			key += "-" + strconv.Itoa(r.Max)
		}
		out[key] = string(r.Code)
	}
	return out
}

// UnmarshalYAML decodes a chart from a mapping of ranges to codes.
func (c *Chart) UnmarshalYAML(value *yaml.Node) error {
	var entries map[string]string
	if err := value.Decode(&entries); err != nil {
		return err
	}
	parsed, err := ParseChart(entries)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the chart as card data entries.
func (c Chart) MarshalYAML() (any, error) {
	return c.Entries(), nil
}
