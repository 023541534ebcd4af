package simulate

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/baseball/engine"
	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
	"gopkg.in/yaml.v3"
)

//go:embed league.yaml
var sampleLeague []byte

var (
	infieldPositions  = []string{"1B", "2B", "3B", "SS"}
	outfieldPositions = []string{"LF", "CF", "RF"}
)

// TeamFile is one club as written in a league file.
type TeamFile struct {
	Name     string `yaml:"name"`
	Lineup   []int  `yaml:"lineup"`
	Pitchers []int  `yaml:"pitchers"`
}

// LeagueFile is a card set plus the two clubs that play.
type LeagueFile struct {
	Cards []card.PlayerCard `yaml:"cards"`
	Teams struct {
		Away TeamFile `yaml:"away"`
		Home TeamFile `yaml:"home"`
	} `yaml:"teams"`
}

// Team is a resolved club.
type Team struct {
	Name     string
	Lineup   []card.PlayerCard
	Pitchers []card.PlayerCard
	Defense  engine.Defense
}

// League is the validated input to a simulation.
type League struct {
	Cards []card.PlayerCard
	Away  Team
	Home  Team
}

// Team returns the club for side.
func (l League) Team(side engine.Side) Team {
	if side == engine.SideHome {
		return l.Home
	}
	return l.Away
}

// LoadLeague reads a league file, or the bundled sample when path is empty.
func LoadLeague(path string) (League, error) {
	if path == "" {
		return ParseLeague(sampleLeague)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return League{}, fmt.Errorf("read league %s: %w", path, err)
	}
	league, err := ParseLeague(data)
	if err != nil {
		return League{}, fmt.Errorf("league %s: %w", path, err)
	}
	return league, nil
}

// ParseLeague decodes a league file and resolves both clubs.
func ParseLeague(data []byte) (League, error) {
	var file LeagueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return League{}, apperrors.Wrap(apperrors.CodeInvalidCard, "decode league", err)
	}
	if err := card.Validate(file.Cards); err != nil {
		return League{}, err
	}
	index := card.Index(file.Cards)
	away, err := resolveTeam("away", file.Teams.Away, index)
	if err != nil {
		return League{}, err
	}
	home, err := resolveTeam("home", file.Teams.Home, index)
	if err != nil {
		return League{}, err
	}
	return League{Cards: file.Cards, Away: away, Home: home}, nil
}

func resolveTeam(side string, file TeamFile, index map[int]card.PlayerCard) (Team, error) {
	invalid := func(format string, args ...any) error {
		return apperrors.WithMetadata(apperrors.CodeInvalidCard,
			fmt.Sprintf("team %s: ", side)+fmt.Sprintf(format, args...),
			map[string]string{"team": side})
	}
	if len(file.Lineup) == 0 {
		return Team{}, invalid("lineup is empty")
	}
	if len(file.Pitchers) == 0 {
		return Team{}, invalid("no pitchers")
	}
	team := Team{Name: file.Name}
	if team.Name == "" {
		team.Name = side
	}
	for _, id := range file.Lineup {
		c, ok := index[id]
		if !ok {
			return Team{}, invalid("lineup card %d not found", id)
		}
		if c.IsPitcher() {
			return Team{}, invalid("lineup card %d is a pitcher", id)
		}
		team.Lineup = append(team.Lineup, c)
	}
	for _, id := range file.Pitchers {
		c, ok := index[id]
		if !ok {
			return Team{}, invalid("pitcher card %d not found", id)
		}
		if !c.IsPitcher() {
			return Team{}, invalid("card %d is not a pitcher", id)
		}
		team.Pitchers = append(team.Pitchers, c)
	}
	team.Defense = defenseOf(team.Lineup)
	return team, nil
}

// defenseOf sums the best fielding rating at each position across the
// lineup.
func defenseOf(lineup []card.PlayerCard) engine.Defense {
	best := func(position string) int {
		top := 0
		for _, c := range lineup {
			top = max(top, c.FieldingAt(position))
		}
		return top
	}
	var def engine.Defense
	for _, pos := range infieldPositions {
		def.Infield += best(pos)
	}
	for _, pos := range outfieldPositions {
		def.Outfield += best(pos)
	}
	def.CatcherArm = best("C")
	return def
}
