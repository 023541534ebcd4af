// Package simulate parses simulate command flags and plays a seeded game
// between two clubs, persisting every turn.
package simulate

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/louisbranch/diamond/internal/baseball/app"
	"github.com/louisbranch/diamond/internal/baseball/storage/sqlite"
	"github.com/louisbranch/diamond/internal/core/dice"
	"github.com/louisbranch/diamond/internal/core/random"
	entrypoint "github.com/louisbranch/diamond/internal/platform/cmd"
	"github.com/louisbranch/diamond/internal/platform/id"
)

// Config holds simulate command configuration.
type Config struct {
	DBPath       string `env:"DIAMOND_DB_PATH" envDefault:"diamond.db"`
	CardsPath    string `env:"DIAMOND_CARDS_PATH"`
	Seed         int64  `env:"DIAMOND_SEED"`
	GameID       string `env:"DIAMOND_GAME_ID"`
	SeriesID     string `env:"DIAMOND_SERIES_ID"`
	GameInSeries int    `env:"DIAMOND_GAME_IN_SERIES" envDefault:"1"`
	MaxInnings   int    `env:"DIAMOND_MAX_INNINGS" envDefault:"30"`
	Locale       string `env:"DIAMOND_LOCALE" envDefault:"en-US"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.CardsPath, "cards", cfg.CardsPath, "League YAML file (defaults to the bundled sample)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Dice seed (0 picks a random seed)")
	fs.StringVar(&cfg.GameID, "game", cfg.GameID, "Game ID (generated when empty)")
	fs.StringVar(&cfg.SeriesID, "series", cfg.SeriesID, "Series ID for fatigue carry-over")
	fs.IntVar(&cfg.GameInSeries, "game-in-series", cfg.GameInSeries, "1-based game number within the series")
	fs.IntVar(&cfg.MaxInnings, "max-innings", cfg.MaxInnings, "Abort games that run past this inning")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale for error messages")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.GameInSeries < 1 {
		return Config{}, fmt.Errorf("game-in-series must be >= 1")
	}
	return cfg, nil
}

// Run plays one game and writes its narration to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSimulate, func(ctx context.Context) error {
		summary, err := run(ctx, cfg, out)
		if err != nil {
			return err
		}
		log.Printf("game %s finished after %d turns: %s wins %d-%d",
			summary.GameID, summary.Turns, summary.Winner, max(summary.AwayScore, summary.HomeScore), min(summary.AwayScore, summary.HomeScore))
		return nil
	})
}

func run(ctx context.Context, cfg Config, out io.Writer) (Summary, error) {
	league, err := LoadLeague(cfg.CardsPath)
	if err != nil {
		return Summary{}, err
	}
	seed, err := random.SeedOrNew(cfg.Seed)
	if err != nil {
		return Summary{}, err
	}
	gameID := cfg.GameID
	if gameID == "" {
		if gameID, err = id.WithPrefix("game"); err != nil {
			return Summary{}, err
		}
	}

	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	svc, err := app.New(app.Config{
		Store:  store,
		Cards:  league.Cards,
		Roller: dice.NewSeeded(seed),
	})
	if err != nil {
		return Summary{}, err
	}
	log.Printf("simulating game %s with seed %d", gameID, seed)
	return Play(ctx, svc, league, PlayRequest{
		Start: app.StartRequest{
			GameID:       gameID,
			SeriesID:     cfg.SeriesID,
			GameInSeries: cfg.GameInSeries,
		},
		MaxInnings: cfg.MaxInnings,
	}, out)
}
