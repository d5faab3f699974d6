package services

import (
	"context"
	"errors"
)

// Error kinds returned by PointService. Match them with errors.Is; the
// wrapped message is meant for end users.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrPolicyViolation     = errors.New("point policy violation")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotFound            = errors.New("point balance not found")
	ErrStoreFailure        = errors.New("store failure")
	ErrLockTimeout         = errors.New("timed out waiting for user lock")
)

// reason is the metrics label for a failed operation.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrPolicyViolation):
		return "policy_violation"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "store_failure"
	}
}
