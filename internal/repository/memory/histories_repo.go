package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
	"github.com/baharkarakas/point-ledger/internal/repository"
)

var _ repository.Histories = (*HistoriesRepo)(nil)

type HistoriesRepo struct {
	mu       sync.RWMutex
	table    []models.PointHistory
	cursor   int64
	throttle time.Duration
}

func NewHistories(throttle time.Duration) *HistoriesRepo {
	return &HistoriesRepo{cursor: 1, throttle: throttle}
}

func (r *HistoriesRepo) Append(
	ctx context.Context,
	userID, amount int64,
	typ models.TransactionType,
	updateMillis int64,
) (models.PointHistory, error) {
	if !typ.Valid() {
		return models.PointHistory{}, fmt.Errorf("unknown transaction type %q", typ)
	}
	if err := sleepRandom(ctx, r.throttle); err != nil {
		return models.PointHistory{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	h := models.PointHistory{
		ID:           r.cursor,
		UserID:       userID,
		Amount:       amount,
		Type:         typ,
		UpdateMillis: updateMillis,
	}
	r.cursor++
	r.table = append(r.table, h)
	return h, nil
}

func (r *HistoriesRepo) ListByUser(_ context.Context, userID int64) ([]models.PointHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.PointHistory, 0)
	for _, h := range r.table {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}
