package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/diamond/internal/baseball/engine"
	"github.com/louisbranch/diamond/internal/baseball/storage"
	"github.com/louisbranch/diamond/internal/baseball/storage/filter"
	"github.com/louisbranch/diamond/internal/core/dice"
	"github.com/louisbranch/diamond/internal/core/encoding"
	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ReplayReport summarizes a replay.
type ReplayReport struct {
	GameID string
	Turns  int
	Final  engine.State
}

// Replay re-resolves every stored turn of a game from its predecessor, the
// stored command and the stored rolls. Each turn must reproduce the stored
// state hash and narration exactly.
func (s *Service) Replay(ctx context.Context, gameID string) (ReplayReport, error) {
	gameID = strings.TrimSpace(gameID)
	ctx, span := s.tracer.Start(ctx, "diamond.replay", trace.WithAttributes(
		attribute.String("game.id", gameID),
	))
	defer span.End()

	report, err := s.replay(ctx, gameID)
	if err != nil {
		recordError(span, err)
		return ReplayReport{}, err
	}
	span.SetAttributes(attribute.Int("game.turns", report.Turns))
	return report, nil
}

func (s *Service) replay(ctx context.Context, gameID string) (ReplayReport, error) {
	if gameID == "" {
		return ReplayReport{}, apperrors.New(apperrors.CodeInvalidAction, "game id is required")
	}
	turns, err := s.store.ListTurns(ctx, gameID)
	if err != nil {
		return ReplayReport{}, storeError(err, gameID)
	}
	if len(turns) == 0 {
		return ReplayReport{}, storeError(storage.ErrNotFound, gameID)
	}

	state, err := decodeState(turns[0])
	if err != nil {
		return ReplayReport{}, err
	}
	for _, turn := range turns[1:] {
		if err := ctx.Err(); err != nil {
			return ReplayReport{}, err
		}
		next, err := s.replayTurn(state, turn)
		if err != nil {
			return ReplayReport{}, err
		}
		state = next
	}
	log.Printf("game %s replayed %d turns", gameID, len(turns))
	return ReplayReport{GameID: gameID, Turns: len(turns), Final: state}, nil
}

func (s *Service) replayTurn(before engine.State, turn storage.Turn) (engine.State, error) {
	mismatch := func(format string, args ...any) error {
		return apperrors.WithMetadata(apperrors.CodeSnapshotCorrupt,
			fmt.Sprintf("game %s turn %d: ", turn.GameID, turn.Number)+fmt.Sprintf(format, args...),
			map[string]string{"game_id": turn.GameID, "turn": fmt.Sprint(turn.Number)})
	}

	cmd, err := decodeCommand(turn.Operation, turn.Command)
	if err != nil {
		return engine.State{}, err
	}
	roller := dice.NewSequence(dice.Values(turn.Rolls)...)
	res, err := resolveRecorded(cmd, s.cards, before, roller)
	if err != nil {
		return engine.State{}, mismatch("replay failed: %v", err)
	}
	if roller.Remaining() != 0 {
		return engine.State{}, mismatch("%d stored rolls were not used", roller.Remaining())
	}

	hash, err := encoding.ContentHash(res.State)
	if err != nil {
		return engine.State{}, fmt.Errorf("hash replayed state: %w", err)
	}
	if hash != turn.StateHash {
		return engine.State{}, mismatch("replayed state hash %s differs from stored %s", hash, turn.StateHash)
	}
	if len(res.Events) != len(turn.Events) {
		return engine.State{}, mismatch("replayed %d events, stored %d", len(res.Events), len(turn.Events))
	}
	for i, line := range res.Events {
		if turn.Events[i].Message != line {
			return engine.State{}, mismatch("event %d is %q, stored %q", i, line, turn.Events[i].Message)
		}
	}
	return res.State, nil
}

// resolveRecorded runs cmd against a stored roll sequence. A sequence that
// runs dry panics; that is reported as an error.
func resolveRecorded(cmd command, cards cardSource, state engine.State, roller *dice.Sequence) (res engine.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return cmd.resolve(cards, state, roller)
}

// EventsRequest pages through a game's narration.
type EventsRequest struct {
	GameID string
	// Filter is an AIP-160 expression over turn, inning, half, kind and message.
	Filter    string
	PageSize  int
	PageToken string
}

// ListEvents returns one page of a game's narration.
func (s *Service) ListEvents(ctx context.Context, req EventsRequest) (storage.EventPage, error) {
	gameID := strings.TrimSpace(req.GameID)
	ctx, span := s.tracer.Start(ctx, "diamond.list_events", trace.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.String("events.filter", req.Filter),
	))
	defer span.End()

	page, err := s.listEvents(ctx, gameID, req)
	if err != nil {
		recordError(span, err)
		return storage.EventPage{}, err
	}
	span.SetAttributes(attribute.Int("events.count", len(page.Events)))
	return page, nil
}

func (s *Service) listEvents(ctx context.Context, gameID string, req EventsRequest) (storage.EventPage, error) {
	if gameID == "" {
		return storage.EventPage{}, apperrors.New(apperrors.CodeInvalidAction, "game id is required")
	}
	cond, err := filter.ParseEventFilter(req.Filter)
	if err != nil {
		return storage.EventPage{}, apperrors.Wrap(apperrors.CodeInvalidFilter, "invalid event filter", err)
	}
	page, err := s.store.ListEvents(ctx, storage.ListEventsRequest{
		GameID:       gameID,
		PageSize:     req.PageSize,
		PageToken:    req.PageToken,
		FilterClause: cond.Clause,
		FilterParams: cond.Params,
	})
	if err != nil {
		return storage.EventPage{}, storeError(err, gameID)
	}
	return page, nil
}
