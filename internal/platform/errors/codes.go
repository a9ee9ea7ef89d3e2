// Package errors provides structured domain errors for the flow engine.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Variant registry errors
	CodeUnknownVariant   Code = "UNKNOWN_VARIANT"
	CodeDuplicateVariant Code = "DUPLICATE_VARIANT"

	// Flow errors
	CodeInvalidTransition     Code = "INVALID_TRANSITION"
	CodeInsufficientDeckCards Code = "INSUFFICIENT_DECK_CARDS"
	CodeMalformedAction       Code = "MALFORMED_ACTION"
	CodeNotYourTurn           Code = "NOT_YOUR_TURN"
	CodeInsufficientChips     Code = "INSUFFICIENT_CHIPS"
	CodeTablePaused           Code = "TABLE_PAUSED"

	// Contention errors
	CodeBusy         Code = "BUSY"
	CodeStaleVersion Code = "STALE_VERSION"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeMalformedAction,
		CodeUnknownVariant:
		return codes.InvalidArgument

	// FailedPrecondition - state disallows the operation
	case CodeInvalidTransition,
		CodeNotYourTurn,
		CodeInsufficientChips,
		CodeInsufficientDeckCards,
		CodeTablePaused:
		return codes.FailedPrecondition

	// AlreadyExists - duplicate registration
	case CodeDuplicateVariant:
		return codes.AlreadyExists

	// Aborted - contention, safe to retry
	case CodeBusy,
		CodeStaleVersion:
		return codes.Aborted

	// NotFound - missing records
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
