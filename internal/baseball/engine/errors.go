package engine

import (
	"fmt"

	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
)

var (
	// ErrIllegalStateTransition matches calls the current state cannot accept.
	ErrIllegalStateTransition = apperrors.New(apperrors.CodeIllegalStateTransition, "illegal state transition")
	// ErrInvalidDecision matches decisions that do not fit the pending play.
	ErrInvalidDecision = apperrors.New(apperrors.CodeInvalidDecision, "invalid decision")
	// ErrInvalidAction matches malformed at-bat actions.
	ErrInvalidAction = apperrors.New(apperrors.CodeInvalidAction, "invalid action")
)

func illegal(format string, args ...any) error {
	return apperrors.New(apperrors.CodeIllegalStateTransition, fmt.Sprintf(format, args...))
}

func invalidDecision(format string, args ...any) error {
	return apperrors.New(apperrors.CodeInvalidDecision, fmt.Sprintf(format, args...))
}

func invalidAction(format string, args ...any) error {
	return apperrors.New(apperrors.CodeInvalidAction, fmt.Sprintf(format, args...))
}

// requireValid rejects states that break structural invariants.
func requireValid(s State) error {
	if err := s.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeIllegalStateTransition, "invalid state", err)
	}
	return nil
}

// requirePlayable rejects a new play unless the state is fully resolved and
// the half-inning is still open.
func requirePlayable(s State) error {
	if err := requireValid(s); err != nil {
		return err
	}
	switch {
	case s.GameOver:
		return illegal("game is over")
	case s.Pending != nil:
		return illegal("pending %s play must be resolved first", s.Pending.Kind)
	case s.Outs >= 3 || s.HalfInningOver:
		return illegal("half-inning is over")
	}
	return nil
}

// requirePending returns the pending play when it has the expected kind.
func requirePending(s State, kind PendingKind) (*PendingPlay, error) {
	if err := requireValid(s); err != nil {
		return nil, err
	}
	if s.Pending == nil {
		return nil, illegal("no pending play to resolve")
	}
	if s.Pending.Kind != kind {
		return nil, illegal("pending play is %s, not %s", s.Pending.Kind, kind)
	}
	return s.Pending, nil
}
