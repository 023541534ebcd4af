// Package sqlite provides a SQLite-backed game turn store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/diamond/internal/baseball/fatigue"
	"github.com/louisbranch/diamond/internal/baseball/storage"
	"github.com/louisbranch/diamond/internal/baseball/storage/sqlite/migrations"
	"github.com/louisbranch/diamond/internal/core/dice"
	"github.com/louisbranch/diamond/internal/core/encoding"
	"github.com/louisbranch/diamond/internal/platform/pagination"
	"github.com/louisbranch/diamond/internal/platform/timeouts"
	sqlitemigrate "github.com/louisbranch/diamond/internal/platform/storage/sqlitemigrate"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var eventPageSize = pagination.PageSizeConfig{Default: 50, Max: 200}

// Store persists game turns in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite game store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		cleanPath, timeouts.Millis(timeouts.SQLiteBusy))
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutGame registers a game.
func (s *Store) PutGame(ctx context.Context, game storage.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	gameID := strings.TrimSpace(game.ID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	gameInSeries := game.GameInSeries
	if gameInSeries < 1 {
		gameInSeries = 1
	}
	createdAt := game.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO games (game_id, series_id, game_in_series, created_at) VALUES (?, ?, ?, ?)`,
		gameID,
		strings.TrimSpace(game.SeriesID),
		gameInSeries,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// GetGame returns a registered game.
func (s *Store) GetGame(ctx context.Context, gameID string) (storage.Game, error) {
	if err := ctx.Err(); err != nil {
		return storage.Game{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Game{}, fmt.Errorf("storage is not configured")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return storage.Game{}, fmt.Errorf("game id is required")
	}

	var (
		game      storage.Game
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_id, series_id, game_in_series, created_at FROM games WHERE game_id = ?`,
		gameID,
	).Scan(&game.ID, &game.SeriesID, &game.GameInSeries, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Game{}, storage.ErrNotFound
		}
		return storage.Game{}, fmt.Errorf("get game: %w", err)
	}
	game.CreatedAt = fromMillis(createdAt)
	return game, nil
}

// PutTurn stores a turn, its rolls and its events in one transaction. The
// state hash is computed here from the canonical bytes.
func (s *Store) PutTurn(ctx context.Context, turn storage.Turn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	gameID := strings.TrimSpace(turn.GameID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	if turn.Number < 1 {
		return fmt.Errorf("turn number must be positive")
	}
	if len(turn.State) == 0 {
		return fmt.Errorf("state is required")
	}
	canonical, err := encoding.CanonicalJSON(turn.State)
	if err != nil {
		return fmt.Errorf("canonicalize state: %w", err)
	}
	command := []byte(turn.Command)
	if len(command) == 0 {
		command = []byte("{}")
	}
	rolls := turn.Rolls
	if rolls == nil {
		rolls = []dice.Roll{}
	}
	rollsJSON, err := json.Marshal(rolls)
	if err != nil {
		return fmt.Errorf("marshal rolls: %w", err)
	}
	createdAt := turn.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin turn tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var latest int64
	if err := tx.QueryRowContext(
		ctx,
		`SELECT COALESCE(MAX(turn), 0) FROM turns WHERE game_id = ?`,
		gameID,
	).Scan(&latest); err != nil {
		return fmt.Errorf("read latest turn: %w", err)
	}
	if turn.Number <= latest {
		return storage.ErrAlreadyExists
	}
	if turn.Number != latest+1 {
		return fmt.Errorf("turn %d after %d: %w", turn.Number, latest, storage.ErrOutOfOrder)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO turns (
		   game_id,
		   turn,
		   operation,
		   command_json,
		   state_json,
		   state_hash,
		   rolls_json,
		   terminal,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gameID,
		turn.Number,
		strings.TrimSpace(turn.Operation),
		command,
		canonical,
		encoding.HashBytes(canonical),
		rollsJSON,
		boolToInt(turn.Terminal),
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("game %s: %w", gameID, storage.ErrNotFound)
		}
		return fmt.Errorf("insert turn: %w", err)
	}

	for i, evt := range turn.Events {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO events (
			   game_id,
			   turn,
			   event_index,
			   inning,
			   half,
			   kind,
			   message,
			   created_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			gameID,
			turn.Number,
			i,
			evt.Inning,
			string(evt.Half),
			evt.Kind,
			evt.Message,
			toMillis(createdAt),
		)
		if err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit turn: %w", err)
	}
	return nil
}

// LatestTurn returns the newest turn of a game.
func (s *Store) LatestTurn(ctx context.Context, gameID string) (storage.Turn, error) {
	if err := ctx.Err(); err != nil {
		return storage.Turn{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Turn{}, fmt.Errorf("storage is not configured")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return storage.Turn{}, fmt.Errorf("game id is required")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_id, turn, operation, command_json, state_json, state_hash, rolls_json, terminal, created_at
		 FROM turns WHERE game_id = ? ORDER BY turn DESC LIMIT 1`,
		gameID,
	)
	return s.loadTurn(ctx, row)
}

// GetTurn returns one turn of a game.
func (s *Store) GetTurn(ctx context.Context, gameID string, number int64) (storage.Turn, error) {
	if err := ctx.Err(); err != nil {
		return storage.Turn{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Turn{}, fmt.Errorf("storage is not configured")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return storage.Turn{}, fmt.Errorf("game id is required")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_id, turn, operation, command_json, state_json, state_hash, rolls_json, terminal, created_at
		 FROM turns WHERE game_id = ? AND turn = ?`,
		gameID,
		number,
	)
	return s.loadTurn(ctx, row)
}

// ListTurns returns every turn of a game in order, events included.
func (s *Store) ListTurns(ctx context.Context, gameID string) ([]storage.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT game_id, turn, operation, command_json, state_json, state_hash, rolls_json, terminal, created_at
		 FROM turns WHERE game_id = ? ORDER BY turn ASC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	turns := make([]storage.Turn, 0)
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	for i := range turns {
		events, err := s.turnEvents(ctx, turns[i].GameID, turns[i].Number)
		if err != nil {
			return nil, err
		}
		turns[i].Events = events
	}
	return turns, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) loadTurn(ctx context.Context, row rowScanner) (storage.Turn, error) {
	turn, err := scanTurn(row)
	if err != nil {
		return storage.Turn{}, err
	}
	events, err := s.turnEvents(ctx, turn.GameID, turn.Number)
	if err != nil {
		return storage.Turn{}, err
	}
	turn.Events = events
	return turn, nil
}

func scanTurn(row rowScanner) (storage.Turn, error) {
	var (
		turn      storage.Turn
		command   []byte
		state     []byte
		rollsJSON []byte
		terminal  int
		createdAt int64
	)
	if err := row.Scan(
		&turn.GameID,
		&turn.Number,
		&turn.Operation,
		&command,
		&state,
		&turn.StateHash,
		&rollsJSON,
		&terminal,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Turn{}, storage.ErrNotFound
		}
		return storage.Turn{}, fmt.Errorf("scan turn: %w", err)
	}
	if got := encoding.HashBytes(state); got != turn.StateHash {
		return storage.Turn{}, fmt.Errorf("game %s turn %d: %w", turn.GameID, turn.Number, storage.ErrCorrupt)
	}
	if err := json.Unmarshal(rollsJSON, &turn.Rolls); err != nil {
		return storage.Turn{}, fmt.Errorf("decode rolls: %w", err)
	}
	turn.Command = json.RawMessage(command)
	turn.State = json.RawMessage(state)
	turn.Terminal = terminal != 0
	turn.CreatedAt = fromMillis(createdAt)
	return turn, nil
}

func (s *Store) turnEvents(ctx context.Context, gameID string, number int64) ([]storage.Event, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, game_id, turn, event_index, inning, half, kind, message, created_at
		 FROM events WHERE game_id = ? AND turn = ? ORDER BY event_index ASC`,
		gameID,
		number,
	)
	if err != nil {
		return nil, fmt.Errorf("query turn events: %w", err)
	}
	defer rows.Close()

	events := make([]storage.Event, 0)
	for rows.Next() {
		evt, _, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn events: %w", err)
	}
	return events, nil
}

// ListEvents pages through a game's narration in the order it was written.
func (s *Store) ListEvents(ctx context.Context, req storage.ListEventsRequest) (storage.EventPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.EventPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EventPage{}, fmt.Errorf("storage is not configured")
	}
	gameID := strings.TrimSpace(req.GameID)
	if gameID == "" {
		return storage.EventPage{}, fmt.Errorf("game id is required")
	}
	pageSize := pagination.ClampPageSize(req.PageSize, eventPageSize)
	afterID, err := pagination.DecodeCursor(req.PageToken)
	if err != nil {
		return storage.EventPage{}, err
	}

	whereClause := "game_id = ? AND id > ?"
	params := []any{gameID, afterID}
	if req.FilterClause != "" {
		whereClause += " AND " + req.FilterClause
		params = append(params, req.FilterParams...)
	}
	params = append(params, pageSize+1)

	query := fmt.Sprintf(
		"SELECT id, game_id, turn, event_index, inning, half, kind, message, created_at FROM events WHERE %s ORDER BY id ASC LIMIT ?",
		whereClause,
	)
	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return storage.EventPage{}, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	page := storage.EventPage{Events: make([]storage.Event, 0, pageSize)}
	var lastID int64
	for rows.Next() {
		evt, id, err := scanEvent(rows)
		if err != nil {
			return storage.EventPage{}, err
		}
		if len(page.Events) == pageSize {
			page.NextPageToken = pagination.EncodeCursor(lastID)
			break
		}
		page.Events = append(page.Events, evt)
		lastID = id
	}
	if err := rows.Err(); err != nil {
		return storage.EventPage{}, fmt.Errorf("iterate events: %w", err)
	}
	return page, nil
}

func scanEvent(row rowScanner) (storage.Event, int64, error) {
	var (
		id        int64
		evt       storage.Event
		half      string
		createdAt int64
	)
	if err := row.Scan(
		&id,
		&evt.GameID,
		&evt.Turn,
		&evt.Index,
		&evt.Inning,
		&half,
		&evt.Kind,
		&evt.Message,
		&createdAt,
	); err != nil {
		return storage.Event{}, 0, fmt.Errorf("scan event: %w", err)
	}
	evt.Half = storage.Half(half)
	evt.CreatedAt = fromMillis(createdAt)
	return evt, id, nil
}

// PutSeriesGame records the finals of a finished series game.
func (s *Store) PutSeriesGame(ctx context.Context, game storage.SeriesGame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	seriesID := strings.TrimSpace(game.SeriesID)
	gameID := strings.TrimSpace(game.GameID)
	if seriesID == "" {
		return fmt.Errorf("series id is required")
	}
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	if game.GameInSeries < 1 {
		return fmt.Errorf("game in series must be positive")
	}
	stats := game.FinalStats
	if stats == nil {
		stats = map[int]fatigue.Record{}
	}
	statsJSON, err := encoding.CanonicalJSON(stats)
	if err != nil {
		return fmt.Errorf("marshal final stats: %w", err)
	}
	createdAt := game.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO series_games (
		   series_id,
		   game_in_series,
		   game_id,
		   final_stats_json,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?)`,
		seriesID,
		game.GameInSeries,
		gameID,
		statsJSON,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert series game: %w", err)
	}
	return nil
}

// ListSeriesGames returns the finished games of a series in order.
func (s *Store) ListSeriesGames(ctx context.Context, seriesID string) ([]storage.SeriesGame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	seriesID = strings.TrimSpace(seriesID)
	if seriesID == "" {
		return nil, fmt.Errorf("series id is required")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT series_id, game_in_series, game_id, final_stats_json, created_at
		 FROM series_games WHERE series_id = ? ORDER BY game_in_series ASC`,
		seriesID,
	)
	if err != nil {
		return nil, fmt.Errorf("query series games: %w", err)
	}
	defer rows.Close()

	games := make([]storage.SeriesGame, 0)
	for rows.Next() {
		var (
			game      storage.SeriesGame
			statsJSON []byte
			createdAt int64
		)
		if err := rows.Scan(&game.SeriesID, &game.GameInSeries, &game.GameID, &statsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan series game: %w", err)
		}
		if err := json.Unmarshal(statsJSON, &game.FinalStats); err != nil {
			return nil, fmt.Errorf("decode final stats: %w", err)
		}
		game.CreatedAt = fromMillis(createdAt)
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series games: %w", err)
	}
	return games, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}
