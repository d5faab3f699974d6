package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/baharkarakas/point-ledger/internal/models"
	repo "github.com/baharkarakas/point-ledger/internal/repository"
	"github.com/baharkarakas/point-ledger/internal/repository/memory"
	"github.com/baharkarakas/point-ledger/internal/worker"
)

type fixture struct {
	svc   *PointService
	repos memory.Repositories
	wp    *worker.Pool
}

func newFixture(t *testing.T, throttle time.Duration, opts PointOptions) fixture {
	t.Helper()
	repos := memory.NewRepositories(throttle)
	wp := worker.NewPool(2, 64)
	t.Cleanup(wp.Stop)
	return fixture{
		svc:   NewPointService(repos.Balances, repos.Histories, repos.AuditLogs, wp, opts),
		repos: repos,
		wp:    wp,
	}
}

func seed(t *testing.T, svc *PointService, userID, point int64) {
	t.Helper()
	_, err := svc.Charge(context.Background(), userID, point)
	require.NoError(t, err)
}

type failingHistories struct {
	repo.Histories
	err error
}

func (f failingHistories) Append(context.Context, int64, int64, models.TransactionType, int64) (models.PointHistory, error) {
	return models.PointHistory{}, f.err
}

type failingBalances struct {
	repo.Balances
	err error
}

func (f failingBalances) Upsert(context.Context, int64, int64) (models.UserPoint, error) {
	return models.UserPoint{}, f.err
}

func TestPointService_Charge(t *testing.T) {
	ctx := context.Background()

	t.Run("adds amount and records history", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})
		seed(t, f.svc, 1, 10_000)

		got, err := f.svc.Charge(ctx, 1, 5_000)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.UserID)
		assert.Equal(t, int64(15_000), got.Point)

		hs, err := f.svc.GetHistory(ctx, 1)
		require.NoError(t, err)
		require.Len(t, hs, 2)
		assert.Equal(t, models.TxnCharge, hs[1].Type)
		assert.Equal(t, int64(5_000), hs[1].Amount)
	})

	t.Run("first charge creates the balance", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})

		_, err := f.svc.GetBalance(ctx, 9)
		require.ErrorIs(t, err, ErrNotFound)

		got, err := f.svc.Charge(ctx, 9, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Point)
	})

	t.Run("rejects non-positive amounts before locking", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})

		for _, amount := range []int64{0, -1} {
			_, err := f.svc.Charge(ctx, 1, amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		}
		assert.Zero(t, f.svc.locks.size())
	})

	t.Run("rejects amount above the per-operation limit", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})

		_, err := f.svc.Charge(ctx, 1, 2_000_001)
		require.ErrorIs(t, err, ErrPolicyViolation)
		assert.Contains(t, err.Error(), "2,000,000")
		assert.Zero(t, f.svc.locks.size())
	})

	t.Run("rejects exceeding the balance ceiling", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})
		seed(t, f.svc, 1, 2_000_000)

		_, err := f.svc.Charge(ctx, 1, 10_000)
		require.ErrorIs(t, err, ErrPolicyViolation)

		b, err := f.svc.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2_000_000), b.Point)

		hs, err := f.svc.GetHistory(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, hs, 1)
	})

	t.Run("honors configured limits", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{MaxChargePerOperation: 100, MaxPoint: 150})

		_, err := f.svc.Charge(ctx, 1, 101)
		assert.ErrorIs(t, err, ErrPolicyViolation)

		seed(t, f.svc, 1, 100)
		_, err = f.svc.Charge(ctx, 1, 51)
		assert.ErrorIs(t, err, ErrPolicyViolation)

		got, err := f.svc.Charge(ctx, 1, 50)
		require.NoError(t, err)
		assert.Equal(t, int64(150), got.Point)
	})
}

func TestPointService_Use(t *testing.T) {
	ctx := context.Background()

	t.Run("subtracts amount and records history", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})
		seed(t, f.svc, 1, 10_000)

		got, err := f.svc.Use(ctx, 1, 3_000)
		require.NoError(t, err)
		assert.Equal(t, int64(7_000), got.Point)

		hs, err := f.svc.GetHistory(ctx, 1)
		require.NoError(t, err)
		require.Len(t, hs, 2)
		assert.Equal(t, models.TxnUse, hs[1].Type)
		assert.Equal(t, int64(3_000), hs[1].Amount)
	})

	t.Run("can spend the whole balance", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})
		seed(t, f.svc, 1, 500)

		got, err := f.svc.Use(ctx, 1, 500)
		require.NoError(t, err)
		assert.Zero(t, got.Point)
	})

	t.Run("rejects overspending", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})
		seed(t, f.svc, 1, 10_000)

		_, err := f.svc.Use(ctx, 1, 15_000)
		require.ErrorIs(t, err, ErrInsufficientBalance)

		b, err := f.svc.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(10_000), b.Point)
	})

	t.Run("unknown user has nothing to spend", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})

		_, err := f.svc.Use(ctx, 3, 1)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})

		_, err := f.svc.Use(ctx, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestPointService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("missing balance policy", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})
		_, err := f.svc.GetBalance(ctx, 5)
		assert.ErrorIs(t, err, ErrNotFound)

		z := newFixture(t, 0, PointOptions{ZeroOnMissing: true})
		b, err := z.svc.GetBalance(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), b.UserID)
		assert.Zero(t, b.Point)
	})

	t.Run("reads are stable without mutations", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})
		seed(t, f.svc, 1, 700)

		a, err := f.svc.GetBalance(ctx, 1)
		require.NoError(t, err)
		b, err := f.svc.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("history is per user and ordered", func(t *testing.T) {
		f := newFixture(t, 0, PointOptions{})

		hs, err := f.svc.GetHistory(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, hs)
		assert.Empty(t, hs)

		seed(t, f.svc, 1, 100)
		seed(t, f.svc, 2, 200)
		_, err = f.svc.Use(ctx, 1, 40)
		require.NoError(t, err)

		hs, err = f.svc.GetHistory(ctx, 1)
		require.NoError(t, err)
		require.Len(t, hs, 2)
		assert.Less(t, hs[0].ID, hs[1].ID)
		assert.Equal(t, models.TxnCharge, hs[0].Type)
		assert.Equal(t, models.TxnUse, hs[1].Type)
		for _, h := range hs {
			assert.Equal(t, int64(1), h.UserID)
		}
	})
}

func TestPointService_ConcurrentCharges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3*time.Millisecond, PointOptions{})
	seed(t, f.svc, 1, 10_000)

	const n = 10
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := f.svc.Charge(ctx, 1, 100_000)
			return err
		})
	}
	require.NoError(t, g.Wait())

	b, err := f.svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1_010_000), b.Point)

	hs, err := f.svc.GetHistory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, hs, n+1)
}

func TestPointService_ConcurrentUses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3*time.Millisecond, PointOptions{})
	seed(t, f.svc, 2, 1_000_000)

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := f.svc.Use(ctx, 2, 100_000)
			return err
		})
	}
	require.NoError(t, g.Wait())

	b, err := f.svc.GetBalance(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, b.Point)
}

func TestPointService_ConcurrentMixed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2*time.Millisecond, PointOptions{})
	seed(t, f.svc, 3, 100_000)

	const amount = 100_000
	results := make(chan models.TransactionType, 20)
	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			if _, err := f.svc.Charge(ctx, 3, amount); err != nil {
				return err
			}
			results <- models.TxnCharge
			return nil
		})
		g.Go(func() error {
			_, err := f.svc.Use(ctx, 3, amount)
			if errors.Is(err, ErrInsufficientBalance) {
				return nil
			}
			if err != nil {
				return err
			}
			results <- models.TxnUse
			return nil
		})
	}
	require.NoError(t, g.Wait())
	close(results)

	want := int64(100_000)
	applied := 1
	for typ := range results {
		applied++
		if typ == models.TxnCharge {
			want += amount
		} else {
			want -= amount
		}
	}

	b, err := f.svc.GetBalance(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, want, b.Point)

	hs, err := f.svc.GetHistory(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, hs, applied)
}

func TestPointService_DifferentUsersRunInParallel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0, PointOptions{LockTimeout: 50 * time.Millisecond})

	unlock, err := f.svc.locks.Lock(ctx, 1, 0)
	require.NoError(t, err)
	defer unlock()

	got, err := f.svc.Charge(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Point)

	_, err = f.svc.Charge(ctx, 1, 10)
	assert.ErrorIs(t, err, ErrLockTimeout)
	_, err = f.svc.GetBalance(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPointService_CanceledWhileWaiting(t *testing.T) {
	f := newFixture(t, 0, PointOptions{})

	unlock, err := f.svc.locks.Lock(context.Background(), 1, 0)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.svc.Charge(ctx, 1, 10)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPointService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")

	t.Run("history append failure leaves a recorded gap", func(t *testing.T) {
		repos := memory.NewRepositories(0)
		wp := worker.NewPool(1, 8)
		svc := NewPointService(repos.Balances, failingHistories{repos.Histories, boom}, repos.AuditLogs, wp, PointOptions{})

		_, err := svc.Charge(ctx, 1, 500)
		require.ErrorIs(t, err, ErrStoreFailure)
		assert.ErrorIs(t, err, boom)

		b, err := svc.GetBalance(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(500), b.Point)

		hs, err := svc.GetHistory(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, hs)

		wp.Stop()
		logs := repos.AuditLogs.List()
		require.Len(t, logs, 1)
		assert.Equal(t, models.AuditActionHistoryGap, logs[0].Action)
		require.NotNil(t, logs[0].EntityID)
		assert.Equal(t, "1", *logs[0].EntityID)
		assert.Equal(t, int64(500), logs[0].Details["point"])
	})

	t.Run("balance write failure appends nothing", func(t *testing.T) {
		repos := memory.NewRepositories(0)
		svc := NewPointService(failingBalances{repos.Balances, boom}, repos.Histories, nil, nil, PointOptions{})

		_, err := svc.Charge(ctx, 1, 500)
		require.ErrorIs(t, err, ErrStoreFailure)

		hs, err := svc.GetHistory(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, hs)
	})
}

func TestPointService_AuditsAppliedOperations(t *testing.T) {
	f := newFixture(t, 0, PointOptions{})
	seed(t, f.svc, 1, 300)
	_, err := f.svc.Use(context.Background(), 1, 100)
	require.NoError(t, err)

	f.wp.Stop()
	logs := f.repos.AuditLogs.List()
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, models.AuditActionApplied, l.Action)
		assert.Equal(t, models.AuditEntityPoint, l.EntityType)
		assert.NotEmpty(t, l.ID)
	}
}
