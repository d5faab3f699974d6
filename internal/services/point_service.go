package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/baharkarakas/point-ledger/internal/metrics"
	"github.com/baharkarakas/point-ledger/internal/models"
	repo "github.com/baharkarakas/point-ledger/internal/repository"
	"github.com/baharkarakas/point-ledger/internal/worker"
)

const (
	DefaultMaxChargePerOperation int64 = 2_000_000
	DefaultMaxPoint              int64 = 2_000_000
)

type PointOptions struct {
	MaxChargePerOperation int64
	MaxPoint              int64
	// ZeroOnMissing makes GetBalance return a zero balance for unknown users
	// instead of ErrNotFound.
	ZeroOnMissing bool
	// LockTimeout bounds the wait for a user's lock. Zero waits indefinitely.
	LockTimeout time.Duration
	Logger      *slog.Logger
}

// PointService owns charge and use. Mutations on one user are serialized by
// a per-user lock held across read, validate, balance write and history
// append. Mutations on different users never block each other.
type PointService struct {
	bal   repo.Balances
	hist  repo.Histories
	audit repo.AuditLogs
	wp    *worker.Pool
	locks *keyLocker
	opts  PointOptions
	log   *slog.Logger
	now   func() time.Time
}

// NewPointService wires the stores. audit and wp may be nil, in which case
// no audit records are written.
func NewPointService(b repo.Balances, h repo.Histories, a repo.AuditLogs, wp *worker.Pool, opts PointOptions) *PointService {
	if opts.MaxChargePerOperation <= 0 {
		opts.MaxChargePerOperation = DefaultMaxChargePerOperation
	}
	if opts.MaxPoint <= 0 {
		opts.MaxPoint = DefaultMaxPoint
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &PointService{
		bal:   b,
		hist:  h,
		audit: a,
		wp:    wp,
		locks: newKeyLocker(),
		opts:  opts,
		log:   log,
		now:   time.Now,
	}
}

// ----------------- Queries -----------------

// GetBalance does not take the user's lock and may observe either side of a
// concurrent mutation.
func (s *PointService) GetBalance(ctx context.Context, userID int64) (models.UserPoint, error) {
	b, err := s.bal.Get(ctx, userID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		if s.opts.ZeroOnMissing {
			return models.EmptyUserPoint(userID), nil
		}
		return models.UserPoint{}, fmt.Errorf("%w: no point balance for user %d", ErrNotFound, userID)
	case err != nil:
		return models.UserPoint{}, fmt.Errorf("%w: read balance: %w", ErrStoreFailure, err)
	}
	return b, nil
}

// GetHistory returns the user's entries in sequence order, or an empty slice.
func (s *PointService) GetHistory(ctx context.Context, userID int64) ([]models.PointHistory, error) {
	hs, err := s.hist.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list history: %w", ErrStoreFailure, err)
	}
	if hs == nil {
		hs = []models.PointHistory{}
	}
	return hs, nil
}

// ----------------- CHARGE -----------------

func (s *PointService) Charge(ctx context.Context, userID, amount int64) (models.UserPoint, error) {
	if amount <= 0 {
		return s.fail(models.TxnCharge, fmt.Errorf("%w: charge amount must be positive", ErrInvalidAmount))
	}
	if amount > s.opts.MaxChargePerOperation {
		return s.fail(models.TxnCharge, fmt.Errorf("%w: charge amount per operation must not exceed %s",
			ErrPolicyViolation, humanize.Comma(s.opts.MaxChargePerOperation)))
	}

	return s.mutate(ctx, userID, amount, models.TxnCharge, func(current int64) (int64, error) {
		next := current + amount
		if next > s.opts.MaxPoint {
			return 0, fmt.Errorf("%w: point balance must not exceed %s",
				ErrPolicyViolation, humanize.Comma(s.opts.MaxPoint))
		}
		return next, nil
	})
}

// ----------------- USE -----------------

func (s *PointService) Use(ctx context.Context, userID, amount int64) (models.UserPoint, error) {
	if amount <= 0 {
		return s.fail(models.TxnUse, fmt.Errorf("%w: use amount must be positive", ErrInvalidAmount))
	}

	return s.mutate(ctx, userID, amount, models.TxnUse, func(current int64) (int64, error) {
		if current < amount {
			return 0, fmt.Errorf("%w: have %s points, need %s",
				ErrInsufficientBalance, humanize.Comma(current), humanize.Comma(amount))
		}
		return current - amount, nil
	})
}

// ----------------- Helpers -----------------

// mutate runs read, apply, write and append while holding the user's lock.
// Audit records are queued after the lock is released.
func (s *PointService) mutate(
	ctx context.Context,
	userID, amount int64,
	typ models.TransactionType,
	apply func(current int64) (int64, error),
) (models.UserPoint, error) {
	unlock, err := s.locks.Lock(ctx, userID, s.opts.LockTimeout)
	if err != nil {
		if !errors.Is(err, ErrLockTimeout) {
			err = fmt.Errorf("acquire user lock: %w", err)
		}
		return s.fail(typ, err)
	}

	updated, gap, err := s.applyLocked(context.WithoutCancel(ctx), userID, amount, typ, apply)
	unlock()

	if gap {
		s.record(models.AuditActionHistoryGap, userID, typ, amount, updated.Point)
	}
	if err != nil {
		return s.fail(typ, err)
	}

	metrics.PointOpsTotal.WithLabelValues(string(typ)).Inc()
	s.log.Debug("point operation applied",
		"user_id", userID, "type", typ, "amount", amount, "point", updated.Point)
	s.record(models.AuditActionApplied, userID, typ, amount, updated.Point)
	return updated, nil
}

// applyLocked must only be called with the user's lock held. gap reports a
// committed balance write whose history append failed.
func (s *PointService) applyLocked(
	ctx context.Context,
	userID, amount int64,
	typ models.TransactionType,
	apply func(current int64) (int64, error),
) (updated models.UserPoint, gap bool, err error) {
	current, err := s.bal.Get(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		current = models.UserPoint{UserID: userID}
	} else if err != nil {
		return models.UserPoint{}, false, fmt.Errorf("%w: read balance: %w", ErrStoreFailure, err)
	}

	next, err := apply(current.Point)
	if err != nil {
		return models.UserPoint{}, false, err
	}

	updated, err = s.bal.Upsert(ctx, userID, next)
	if err != nil {
		return models.UserPoint{}, false, fmt.Errorf("%w: write balance: %w", ErrStoreFailure, err)
	}

	if _, err := s.hist.Append(ctx, userID, amount, typ, s.now().UnixMilli()); err != nil {
		metrics.HistoryGaps.Inc()
		s.log.Error("history append failed after balance write",
			"user_id", userID, "type", typ, "amount", amount, "point", updated.Point, "err", err)
		return updated, true, fmt.Errorf("%w: append history: %w", ErrStoreFailure, err)
	}
	return updated, false, nil
}

func (s *PointService) fail(typ models.TransactionType, err error) (models.UserPoint, error) {
	r := reason(err)
	metrics.PointOpsFailed.WithLabelValues(string(typ), r).Inc()
	if r == "store_failure" {
		s.log.Error("point operation failed", "type", typ, "err", err)
	} else {
		s.log.Debug("point operation rejected", "type", typ, "reason", r, "err", err)
	}
	return models.UserPoint{}, err
}

func (s *PointService) record(action string, userID int64, typ models.TransactionType, amount, point int64) {
	if s.audit == nil || s.wp == nil {
		return
	}
	entityID := strconv.FormatInt(userID, 10)
	l := models.AuditLog{
		EntityType: models.AuditEntityPoint,
		EntityID:   &entityID,
		Action:     action,
		Details: map[string]any{
			"type":   string(typ),
			"amount": amount,
			"point":  point,
		},
	}
	ok := s.wp.Submit(func() {
		if err := s.audit.Create(context.Background(), l); err != nil {
			s.log.Warn("audit log write failed", "action", action, "user_id", userID, "err", err)
		}
	})
	if !ok {
		s.log.Warn("audit log dropped, worker pool stopped", "action", action, "user_id", userID)
	}
}
