// Package storage defines persistence contracts for game turns, the event log
// and series history.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/louisbranch/diamond/internal/baseball/fatigue"
	"github.com/louisbranch/diamond/internal/core/dice"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a unique record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrCorrupt indicates a stored snapshot no longer matches its hash.
	ErrCorrupt = errors.New("stored snapshot does not match its hash")
	// ErrOutOfOrder indicates a turn number skips ahead of the latest turn.
	ErrOutOfOrder = errors.New("turn number is out of order")
)

// Half names the half of an inning an event belongs to.
type Half string

const (
	HalfTop    Half = "top"
	HalfBottom Half = "bottom"
)

// Turn is one persisted snapshot of a game together with the rolls and the
// narration that produced it. Turn numbers start at 1 and are contiguous per
// game.
type Turn struct {
	GameID    string
	Number    int64
	Operation string
	// Command is the request that produced the turn, kept for replay.
	Command json.RawMessage
	// State is the canonical JSON of the game state after the turn.
	State json.RawMessage
	// StateHash is the hex SHA-256 of State. It is computed on write.
	StateHash string
	Rolls     []dice.Roll
	Events    []Event
	Terminal  bool
	CreatedAt time.Time
}

// Event is one narration line of a turn.
type Event struct {
	GameID    string
	Turn      int64
	Index     int
	Inning    int
	Half      Half
	Kind      string
	Message   string
	CreatedAt time.Time
}

// ListEventsRequest pages through a game's event log in turn order.
type ListEventsRequest struct {
	GameID string
	// PageSize is the maximum number of events to return (default: 50, max: 200).
	PageSize int
	// PageToken is the opaque cursor returned by the previous page.
	PageToken string
	// FilterClause is an optional SQL WHERE clause fragment.
	FilterClause string
	// FilterParams are the positional parameters for the filter clause.
	FilterParams []any
}

// EventPage is one page of events.
type EventPage struct {
	Events        []Event
	NextPageToken string
}

// Game is the registration of one game.
type Game struct {
	ID           string
	SeriesID     string
	GameInSeries int
	CreatedAt    time.Time
}

// SeriesGame records the final pitcher workloads of a finished series game.
type SeriesGame struct {
	SeriesID     string
	GameInSeries int
	GameID       string
	FinalStats   map[int]fatigue.Record
	CreatedAt    time.Time
}

// GameStore registers games.
type GameStore interface {
	PutGame(ctx context.Context, game Game) error
	GetGame(ctx context.Context, gameID string) (Game, error)
}

// TurnStore persists game snapshots.
type TurnStore interface {
	// PutTurn stores the next turn of a game. Turn.Number must be exactly one
	// more than the latest stored turn.
	PutTurn(ctx context.Context, turn Turn) error
	// LatestTurn returns the most recent turn of a game.
	LatestTurn(ctx context.Context, gameID string) (Turn, error)
	// GetTurn returns a specific turn of a game.
	GetTurn(ctx context.Context, gameID string, number int64) (Turn, error)
	// ListTurns returns every turn of a game in order.
	ListTurns(ctx context.Context, gameID string) ([]Turn, error)
}

// EventStore reads the narration log.
type EventStore interface {
	ListEvents(ctx context.Context, req ListEventsRequest) (EventPage, error)
}

// SeriesStore persists finished games of a series.
type SeriesStore interface {
	PutSeriesGame(ctx context.Context, game SeriesGame) error
	ListSeriesGames(ctx context.Context, seriesID string) ([]SeriesGame, error)
}

// Store is the full persistence surface used by the game service.
type Store interface {
	GameStore
	TurnStore
	EventStore
	SeriesStore
	Close() error
}

// History builds the fatigue history for game number gameInSeries from the
// stored finals of the same series.
func History(games []SeriesGame, gameInSeries int) fatigue.SeriesHistory {
	var history fatigue.SeriesHistory
	for _, g := range games {
		switch g.GameInSeries {
		case gameInSeries - 1:
			history.Previous = g.FinalStats
		case gameInSeries - 2:
			history.BeforePrevious = g.FinalStats
		}
	}
	return history
}
