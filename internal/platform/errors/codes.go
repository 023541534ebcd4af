// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Card data errors
	CodeInvalidChartRange Code = "INVALID_CHART_RANGE"
	CodeUnknownPlayCode   Code = "UNKNOWN_PLAY_CODE"
	CodeInvalidCard       Code = "INVALID_CARD"

	// Engine errors
	CodeIllegalStateTransition Code = "ILLEGAL_STATE_TRANSITION"
	CodeInvalidDecision        Code = "INVALID_DECISION"
	CodeInvalidAction          Code = "INVALID_ACTION"

	// Storage errors
	CodeNotFound         Code = "NOT_FOUND"
	CodeSnapshotCorrupt  Code = "SNAPSHOT_CORRUPT"
	CodeTurnConflict     Code = "TURN_CONFLICT"
	CodeInvalidFilter    Code = "INVALID_FILTER"
	CodeSeriesGameExists Code = "SERIES_GAME_EXISTS"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - malformed input
	case CodeUnknownPlayCode,
		CodeInvalidCard,
		CodeInvalidDecision,
		CodeInvalidAction,
		CodeInvalidFilter:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeIllegalStateTransition:
		return codes.FailedPrecondition

	// DataLoss - stored reference data cannot be trusted
	case CodeInvalidChartRange,
		CodeSnapshotCorrupt:
		return codes.DataLoss

	case CodeNotFound:
		return codes.NotFound

	case CodeTurnConflict,
		CodeSeriesGameExists:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
