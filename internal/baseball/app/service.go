// Package app runs games against a turn store: it loads the latest snapshot,
// resolves one command with the engine and persists the result together with
// the rolls it consumed.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/diamond/internal/baseball/card"
	"github.com/louisbranch/diamond/internal/baseball/engine"
	"github.com/louisbranch/diamond/internal/baseball/storage"
	"github.com/louisbranch/diamond/internal/core/dice"
	"github.com/louisbranch/diamond/internal/core/encoding"
	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/louisbranch/diamond/internal/baseball/app"

// Config wires a Service.
type Config struct {
	Store storage.Store
	Cards []card.PlayerCard
	// Roller supplies dice for live play. It is only used under the
	// service's lock.
	Roller dice.Roller
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service resolves game commands and persists every turn.
type Service struct {
	store  storage.Store
	cards  cardIndex
	tracer trace.Tracer
	now    func() time.Time

	mu     sync.Mutex
	roller dice.Roller
}

// Outcome is the persisted result of one command.
type Outcome struct {
	GameID   string
	Turn     int64
	State    engine.State
	Events   []string
	Warnings []string
	Rolls    []dice.Roll
	Terminal bool
}

// StartRequest opens a new game.
type StartRequest struct {
	GameID       string
	SeriesID     string
	GameInSeries int
}

// New builds a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Roller == nil {
		return nil, fmt.Errorf("roller is required")
	}
	if err := card.Validate(cfg.Cards); err != nil {
		return nil, err
	}
	provider := cfg.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:  cfg.Store,
		cards:  newCardIndex(cfg.Cards),
		tracer: provider.Tracer(instrumentationName),
		now:    now,
		roller: cfg.Roller,
	}, nil
}

// StartGame registers a game and stores its opening state. Games after the
// first of a series start relievers with the fatigue carried from the
// previous finals.
func (s *Service) StartGame(ctx context.Context, req StartRequest) (Outcome, error) {
	gameID := strings.TrimSpace(req.GameID)
	ctx, span := s.tracer.Start(ctx, "diamond."+OpStartGame, trace.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.String("series.id", req.SeriesID),
		attribute.Int("series.game", req.GameInSeries),
	))
	defer span.End()

	out, err := s.startGame(ctx, gameID, req)
	if err != nil {
		recordError(span, err)
		return Outcome{}, err
	}
	return out, nil
}

func (s *Service) startGame(ctx context.Context, gameID string, req StartRequest) (Outcome, error) {
	if gameID == "" {
		return Outcome{}, apperrors.New(apperrors.CodeInvalidAction, "game id is required")
	}
	gameInSeries := req.GameInSeries
	if gameInSeries < 1 {
		gameInSeries = 1
	}
	seriesID := strings.TrimSpace(req.SeriesID)

	var history []storage.SeriesGame
	if seriesID != "" && gameInSeries > 1 {
		games, err := s.store.ListSeriesGames(ctx, seriesID)
		if err != nil {
			return Outcome{}, fmt.Errorf("list series games: %w", err)
		}
		history = games
	}
	state := engine.NewSeriesGame(gameInSeries, s.cards.pitchers(), storage.History(history, gameInSeries))

	err := s.store.PutGame(ctx, storage.Game{
		ID:           gameID,
		SeriesID:     seriesID,
		GameInSeries: gameInSeries,
		CreatedAt:    s.now(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return Outcome{}, apperrors.WithMetadata(apperrors.CodeTurnConflict,
				fmt.Sprintf("game %s already exists", gameID),
				map[string]string{"game_id": gameID})
		}
		return Outcome{}, fmt.Errorf("put game: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("marshal start request: %w", err)
	}
	out := Outcome{GameID: gameID, Turn: 1, State: state}
	if err := s.persist(ctx, gameID, OpStartGame, payload, state, out, nil); err != nil {
		return Outcome{}, err
	}
	log.Printf("game %s started (series %q game %d)", gameID, seriesID, gameInSeries)
	return out, nil
}

// SubmitAction records a pitch, intentional walk, swing or bunt.
func (s *Service) SubmitAction(ctx context.Context, gameID string, cmd ActionCommand) (Outcome, error) {
	return s.execute(ctx, gameID, cmd)
}

// SubmitRunnerDecisions sends runners on a pending advance or tag-up.
func (s *Service) SubmitRunnerDecisions(ctx context.Context, gameID string, cmd DecisionCommand) (Outcome, error) {
	return s.execute(ctx, gameID, cmd)
}

// ResolveThrow picks the contested runner after several were sent.
func (s *Service) ResolveThrow(ctx context.Context, gameID string, cmd ThrowCommand) (Outcome, error) {
	return s.execute(ctx, gameID, cmd)
}

// ResolveInfieldIn sends or holds the runner on third.
func (s *Service) ResolveInfieldIn(ctx context.Context, gameID string, cmd InfieldInCommand) (Outcome, error) {
	return s.execute(ctx, gameID, cmd)
}

// AttemptSteal starts a steal.
func (s *Service) AttemptSteal(ctx context.Context, gameID string, cmd StealCommand) (Outcome, error) {
	return s.execute(ctx, gameID, cmd)
}

// ResolveSteal answers a pending steal.
func (s *Service) ResolveSteal(ctx context.Context, gameID string, cmd StealThrowCommand) (Outcome, error) {
	return s.execute(ctx, gameID, cmd)
}

// ChangePitcher swaps the pitcher on the mound.
func (s *Service) ChangePitcher(ctx context.Context, gameID string, cmd PitchingChangeCommand) (Outcome, error) {
	return s.execute(ctx, gameID, cmd)
}

// AdvanceHalfInning moves a game whose half-inning is over to the next one.
func (s *Service) AdvanceHalfInning(ctx context.Context, gameID string) (Outcome, error) {
	return s.execute(ctx, gameID, advanceCommand{})
}

// State returns the latest state of a game and its turn number.
func (s *Service) State(ctx context.Context, gameID string) (engine.State, int64, error) {
	turn, err := s.latest(ctx, gameID)
	if err != nil {
		return engine.State{}, 0, err
	}
	state, err := decodeState(turn)
	if err != nil {
		return engine.State{}, 0, err
	}
	return state, turn.Number, nil
}

// Card returns a card from the service's set.
func (s *Service) Card(id int) (card.PlayerCard, error) {
	return s.cards.lookup(id)
}

func (s *Service) execute(ctx context.Context, gameID string, cmd command) (Outcome, error) {
	gameID = strings.TrimSpace(gameID)
	ctx, span := s.tracer.Start(ctx, "diamond."+cmd.operation(), trace.WithAttributes(
		attribute.String("game.id", gameID),
	))
	defer span.End()

	out, err := s.resolveAndPersist(ctx, span, gameID, cmd)
	if err != nil {
		recordError(span, err)
		return Outcome{}, err
	}
	span.SetAttributes(
		attribute.Int64("game.turn", out.Turn),
		attribute.Int("game.inning", out.State.Inning),
		attribute.Bool("game.top_half", out.State.TopHalf),
		attribute.Int("game.outs", out.State.Outs),
		attribute.Int("game.home_score", out.State.HomeScore),
		attribute.Int("game.away_score", out.State.AwayScore),
		attribute.Bool("game.terminal", out.Terminal),
	)
	return out, nil
}

func (s *Service) resolveAndPersist(ctx context.Context, span trace.Span, gameID string, cmd command) (Outcome, error) {
	latest, err := s.latest(ctx, gameID)
	if err != nil {
		return Outcome{}, err
	}
	before, err := decodeState(latest)
	if err != nil {
		return Outcome{}, err
	}

	res, rolls, err := s.resolve(cmd, before)
	if err != nil {
		return Outcome{}, err
	}

	for _, warning := range res.Warnings {
		log.Printf("game %s %s: %s", gameID, cmd.operation(), warning)
		span.AddEvent("engine.warning", trace.WithAttributes(attribute.String("message", warning)))
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return Outcome{}, fmt.Errorf("marshal %s: %w", cmd.operation(), err)
	}
	out := Outcome{
		GameID:   gameID,
		Turn:     latest.Number + 1,
		State:    res.State,
		Events:   res.Events,
		Warnings: res.Warnings,
		Rolls:    rolls,
		Terminal: res.Terminal,
	}
	if err := s.persist(ctx, gameID, cmd.operation(), payload, before, out, rolls); err != nil {
		return Outcome{}, err
	}
	if out.Terminal {
		if err := s.recordFinal(ctx, gameID, out.State); err != nil {
			return Outcome{}, err
		}
	}
	return out, nil
}

// resolve runs cmd against the live roller and reports the rolls it used.
func (s *Service) resolve(cmd command, state engine.State) (engine.Result, []dice.Roll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recorder := dice.NewRecorder(s.roller)
	res, err := cmd.resolve(s.cards, state, recorder)
	if err != nil {
		return engine.Result{}, nil, err
	}
	return res, recorder.Rolls(), nil
}

// persist writes the turn. Events are tagged with the inning and half the
// play started in.
func (s *Service) persist(ctx context.Context, gameID, operation string, payload []byte, before engine.State, out Outcome, rolls []dice.Roll) error {
	stateJSON, err := encoding.CanonicalJSON(out.State)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	half := storage.HalfBottom
	if before.TopHalf {
		half = storage.HalfTop
	}
	events := make([]storage.Event, 0, len(out.Events))
	for _, line := range out.Events {
		events = append(events, storage.Event{
			Inning:  before.Inning,
			Half:    half,
			Kind:    operation,
			Message: line,
		})
	}

	err = s.store.PutTurn(ctx, storage.Turn{
		GameID:    gameID,
		Number:    out.Turn,
		Operation: operation,
		Command:   payload,
		State:     stateJSON,
		Rolls:     rolls,
		Events:    events,
		Terminal:  out.Terminal,
		CreatedAt: s.now(),
	})
	if err != nil {
		return storeError(err, gameID)
	}
	return nil
}

// recordFinal stores the pitcher finals of a finished series game.
func (s *Service) recordFinal(ctx context.Context, gameID string, state engine.State) error {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return storeError(err, gameID)
	}
	if game.SeriesID == "" {
		return nil
	}
	err = s.store.PutSeriesGame(ctx, storage.SeriesGame{
		SeriesID:     game.SeriesID,
		GameInSeries: game.GameInSeries,
		GameID:       gameID,
		FinalStats:   state.PitcherStats,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return apperrors.WithMetadata(apperrors.CodeSeriesGameExists,
			fmt.Sprintf("series %s game %d already recorded", game.SeriesID, game.GameInSeries),
			map[string]string{"game_number": fmt.Sprint(game.GameInSeries)})
	}
	if err != nil {
		return fmt.Errorf("put series game: %w", err)
	}
	log.Printf("game %s final %d-%d recorded for series %s", gameID, state.AwayScore, state.HomeScore, game.SeriesID)
	return nil
}

func (s *Service) latest(ctx context.Context, gameID string) (storage.Turn, error) {
	if gameID == "" {
		return storage.Turn{}, apperrors.New(apperrors.CodeInvalidAction, "game id is required")
	}
	turn, err := s.store.LatestTurn(ctx, gameID)
	if err != nil {
		return storage.Turn{}, storeError(err, gameID)
	}
	return turn, nil
}

func decodeState(turn storage.Turn) (engine.State, error) {
	var state engine.State
	if err := json.Unmarshal(turn.State, &state); err != nil {
		return engine.State{}, apperrors.Wrap(apperrors.CodeSnapshotCorrupt,
			fmt.Sprintf("decode game %s turn %d", turn.GameID, turn.Number), err)
	}
	return state, nil
}

// storeError maps storage sentinels onto domain codes.
func storeError(err error, gameID string) error {
	meta := map[string]string{"game_id": gameID}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &apperrors.Error{Code: apperrors.CodeNotFound, Message: "game " + gameID + " not found", Cause: err, Metadata: meta}
	case errors.Is(err, storage.ErrCorrupt):
		return &apperrors.Error{Code: apperrors.CodeSnapshotCorrupt, Message: "game " + gameID + " snapshot is corrupt", Cause: err, Metadata: meta}
	case errors.Is(err, storage.ErrAlreadyExists), errors.Is(err, storage.ErrOutOfOrder):
		return &apperrors.Error{Code: apperrors.CodeTurnConflict, Message: "game " + gameID + " moved on concurrently", Cause: err, Metadata: meta}
	default:
		return err
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("error.code", string(apperrors.CodeOf(err))))
}

type cardIndex map[int]card.PlayerCard

func newCardIndex(cards []card.PlayerCard) cardIndex {
	index := cardIndex(card.Index(cards))
	hitter, pitcher := card.ReplacementHitter(), card.ReplacementPitcher()
	index[hitter.ID] = hitter
	index[pitcher.ID] = pitcher
	return index
}

func (c cardIndex) lookup(id int) (card.PlayerCard, error) {
	found, ok := c[id]
	if !ok {
		return card.PlayerCard{}, apperrors.WithMetadata(apperrors.CodeInvalidCard,
			fmt.Sprintf("card %d is not in the card set", id),
			map[string]string{"reason": fmt.Sprintf("unknown card %d", id)})
	}
	return found, nil
}

func (c cardIndex) pitchers() []card.PlayerCard {
	out := make([]card.PlayerCard, 0)
	for _, pc := range c {
		if pc.IsPitcher() && pc.ID > 0 {
			out = append(out, pc)
		}
	}
	return out
}
