// Package memory keeps points, histories and audit logs in process memory.
// Every store can simulate storage latency with a random delay per call.
package memory

import (
	"context"
	"math/rand/v2"
	"time"

	repo "github.com/baharkarakas/point-ledger/internal/repository"
)

type Repositories struct {
	Balances  repo.Balances
	Histories repo.Histories
	AuditLogs *AuditLogsRepo
}

// NewRepositories builds the in-memory stores. A positive throttle makes each
// balance and history call sleep for a random duration in [0, throttle).
func NewRepositories(throttle time.Duration) Repositories {
	return Repositories{
		Balances:  NewBalances(throttle),
		Histories: NewHistories(throttle),
		AuditLogs: NewAuditLogs(),
	}
}

func sleepRandom(ctx context.Context, limit time.Duration) error {
	if limit <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(rand.N(limit))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
