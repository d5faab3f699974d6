package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
	"github.com/baharkarakas/point-ledger/internal/repository"
)

var _ repository.Balances = (*BalancesRepo)(nil)

type BalancesRepo struct {
	mu       sync.RWMutex
	table    map[int64]models.UserPoint
	throttle time.Duration
}

func NewBalances(throttle time.Duration) *BalancesRepo {
	return &BalancesRepo{table: make(map[int64]models.UserPoint), throttle: throttle}
}

func (r *BalancesRepo) Get(ctx context.Context, userID int64) (models.UserPoint, error) {
	if err := sleepRandom(ctx, r.throttle); err != nil {
		return models.UserPoint{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.table[userID]
	if !ok {
		return models.UserPoint{}, repository.ErrNotFound
	}
	return b, nil
}

func (r *BalancesRepo) Upsert(ctx context.Context, userID, point int64) (models.UserPoint, error) {
	if err := sleepRandom(ctx, r.throttle); err != nil {
		return models.UserPoint{}, err
	}
	b := models.UserPoint{UserID: userID, Point: point, UpdateMillis: time.Now().UnixMilli()}

	r.mu.Lock()
	r.table[userID] = b
	r.mu.Unlock()
	return b, nil
}
