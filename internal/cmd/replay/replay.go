// Package replay parses replay command flags, re-resolves a stored game from
// its recorded rolls and prints its narration.
package replay

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/louisbranch/diamond/internal/baseball/app"
	"github.com/louisbranch/diamond/internal/baseball/storage/sqlite"
	"github.com/louisbranch/diamond/internal/cmd/simulate"
	"github.com/louisbranch/diamond/internal/core/dice"
	entrypoint "github.com/louisbranch/diamond/internal/platform/cmd"
)

// Config holds replay command configuration.
type Config struct {
	DBPath    string `env:"DIAMOND_DB_PATH" envDefault:"diamond.db"`
	CardsPath string `env:"DIAMOND_CARDS_PATH"`
	GameID    string `env:"DIAMOND_GAME_ID"`
	Filter    string `env:"DIAMOND_EVENT_FILTER"`
	PageSize  int    `env:"DIAMOND_PAGE_SIZE" envDefault:"100"`
	Locale    string `env:"DIAMOND_LOCALE" envDefault:"en-US"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.CardsPath, "cards", cfg.CardsPath, "League YAML file the game was played with")
	fs.StringVar(&cfg.GameID, "game", cfg.GameID, "Game ID to replay")
	fs.StringVar(&cfg.Filter, "filter", cfg.Filter, `Event filter, e.g. inning >= 7 AND half = "bottom"`)
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Events fetched per page")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale for error messages")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.GameID == "" {
		return Config{}, errors.New("game id is required")
	}
	return cfg, nil
}

// Run verifies the stored game and prints the matching events.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceReplay, func(ctx context.Context) error {
		return run(ctx, cfg, out)
	})
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	league, err := simulate.LoadLeague(cfg.CardsPath)
	if err != nil {
		return err
	}
	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	// Replay draws from the stored rolls; the live roller stays empty.
	svc, err := app.New(app.Config{Store: store, Cards: league.Cards, Roller: dice.NewSequence()})
	if err != nil {
		return err
	}
	report, err := svc.Replay(ctx, cfg.GameID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "game %s: %d turns verified, final %d-%d (away-home)\n",
		report.GameID, report.Turns, report.Final.AwayScore, report.Final.HomeScore)

	token := ""
	for {
		page, err := svc.ListEvents(ctx, app.EventsRequest{
			GameID:    cfg.GameID,
			Filter:    cfg.Filter,
			PageSize:  cfg.PageSize,
			PageToken: token,
		})
		if err != nil {
			return err
		}
		for _, evt := range page.Events {
			fmt.Fprintf(out, "%3d %-6s %d  %s\n", evt.Turn, evt.Half, evt.Inning, evt.Message)
		}
		if page.NextPageToken == "" {
			return nil
		}
		token = page.NextPageToken
	}
}
