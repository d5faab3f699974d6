package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/point-ledger/internal/models"
)

// ErrNotFound is returned by point reads for a user without a stored balance.
var ErrNotFound = errors.New("record not found")

// Balances holds the current point per user. Implementations are safe for
// concurrent use but do not serialize read-modify-write sequences; callers
// that need that must lock per user.
type Balances interface {
	Get(ctx context.Context, userID int64) (models.UserPoint, error)
	Upsert(ctx context.Context, userID, point int64) (models.UserPoint, error)
}

// Histories is an append-only log. Append assigns a strictly increasing id
// shared across all users.
type Histories interface {
	Append(ctx context.Context, userID, amount int64, typ models.TransactionType, updateMillis int64) (models.PointHistory, error)
	ListByUser(ctx context.Context, userID int64) ([]models.PointHistory, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
