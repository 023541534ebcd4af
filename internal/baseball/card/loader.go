package card

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
	"gopkg.in/yaml.v3"
)

// File is the on-disk card set format.
type File struct {
	Cards []PlayerCard `yaml:"cards"`
}

// LoadFile reads and validates a card set.
func LoadFile(path string) ([]PlayerCard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cards %s: %w", path, err)
	}
	cards, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("cards %s: %w", path, err)
	}
	return cards, nil
}

// Parse decodes and validates a card set.
func Parse(data []byte) ([]PlayerCard, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidCard, "decode card set", err)
	}
	if err := Validate(file.Cards); err != nil {
		return nil, err
	}
	return file.Cards, nil
}

// Validate checks semantic constraints and reports every problem at once.
func Validate(cards []PlayerCard) error {
	var errs []string
	seen := make(map[int]bool, len(cards))

	for i, c := range cards {
		label := fmt.Sprintf("cards[%d]", i)
		if c.Name != "" {
			label = fmt.Sprintf("cards[%d] (%s)", i, c.Name)
		}
		if c.ID <= 0 {
			errs = append(errs, label+": id must be >= 1")
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate id %d", label, c.ID))
		}
		seen[c.ID] = true
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, label+": name is required")
		}
		if c.Chart.IsZero() {
			errs = append(errs, label+": chart is required")
		}
		if c.IsPitcher() {
			if c.IP <= 0 {
				errs = append(errs, label+": pitchers need ip >= 1")
			}
		} else if c.Speed.Rating() <= 0 {
			errs = append(errs, label+": hitters need a speed")
		}
	}

	if len(errs) > 0 {
		return apperrors.WithMetadata(apperrors.CodeInvalidCard,
			"invalid card set: "+strings.Join(errs, "; "),
			map[string]string{"reason": strings.Join(errs, "; ")})
	}
	return nil
}

// Index maps card IDs to cards.
func Index(cards []PlayerCard) map[int]PlayerCard {
	out := make(map[int]PlayerCard, len(cards))
	for _, c := range cards {
		out[c.ID] = c
	}
	return out
}
