package replay

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/diamond/internal/baseball/app"
	"github.com/louisbranch/diamond/internal/baseball/storage/sqlite"
	"github.com/louisbranch/diamond/internal/cmd/simulate"
	"github.com/louisbranch/diamond/internal/core/dice"
	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
)

func TestParseConfigRequiresGame(t *testing.T) {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected missing game error")
	}
}

func TestParseConfigFlags(t *testing.T) {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-game", "g1", "-filter", "inning = 2", "-page-size", "5", "-locale", "pt-BR"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GameID != "g1" || cfg.Filter != "inning = 2" || cfg.PageSize != 5 || cfg.DBPath != "diamond.db" || cfg.Locale != "pt-BR" {
		t.Fatalf("config = %+v", cfg)
	}
}

func simulatedGame(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "replay.db")
	league, err := simulate.LoadLeague("")
	if err != nil {
		t.Fatalf("load league: %v", err)
	}
	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	svc, err := app.New(app.Config{Store: store, Cards: league.Cards, Roller: dice.NewSeeded(11)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := simulate.Play(ctx, svc, league, simulate.PlayRequest{
		Start:      app.StartRequest{GameID: "g1"},
		MaxInnings: 40,
	}, nil); err != nil {
		t.Fatalf("play: %v", err)
	}
	return dbPath
}

func TestRunVerifiesAndFiltersEvents(t *testing.T) {
	dbPath := simulatedGame(t)
	var out bytes.Buffer
	err := run(context.Background(), Config{DBPath: dbPath, GameID: "g1", Filter: `inning = 1 AND half = "top"`, PageSize: 3}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.Contains(lines[0], "turns verified") {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) < 2 {
		t.Fatalf("expected top of the first inning events, got:\n%s", out.String())
	}
	for _, line := range lines[1:] {
		if !strings.Contains(line, " top    1  ") {
			t.Fatalf("event outside the filter: %q", line)
		}
	}
}

func TestRunRejectsBadFilter(t *testing.T) {
	dbPath := simulatedGame(t)
	err := run(context.Background(), Config{DBPath: dbPath, GameID: "g1", Filter: "color = 3"}, &bytes.Buffer{})
	if got := apperrors.CodeOf(err); got != apperrors.CodeInvalidFilter {
		t.Fatalf("error code = %s, want %s (%v)", got, apperrors.CodeInvalidFilter, err)
	}
}

func TestRunUnknownGame(t *testing.T) {
	dbPath := simulatedGame(t)
	err := run(context.Background(), Config{DBPath: dbPath, GameID: "nope"}, &bytes.Buffer{})
	if got := apperrors.CodeOf(err); got != apperrors.CodeNotFound {
		t.Fatalf("error code = %s, want %s (%v)", got, apperrors.CodeNotFound, err)
	}
}
