package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/point-ledger/internal/models"
	"github.com/baharkarakas/point-ledger/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ repository.Histories = (*historiesRepo)(nil)

type historiesRepo struct{ pool *pgxpool.Pool }

func (r *historiesRepo) Append(
	ctx context.Context,
	userID, amount int64,
	typ models.TransactionType,
	updateMillis int64,
) (models.PointHistory, error) {
	h := models.PointHistory{UserID: userID, Amount: amount, Type: typ, UpdateMillis: updateMillis}
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO point_histories(user_id, amount, type, update_millis)
		 VALUES($1,$2,$3,$4)
		 RETURNING id`,
		userID, amount, string(typ), updateMillis,
	).Scan(&h.ID)
	if err != nil {
		return models.PointHistory{}, fmt.Errorf("insert point history: %w", err)
	}
	return h, nil
}

func (r *historiesRepo) ListByUser(ctx context.Context, userID int64) ([]models.PointHistory, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, user_id, amount, type, update_millis
		   FROM point_histories
		  WHERE user_id=$1
		  ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select point histories: %w", err)
	}
	defer rows.Close()

	out := make([]models.PointHistory, 0)
	for rows.Next() {
		var h models.PointHistory
		var typ string
		if err := rows.Scan(&h.ID, &h.UserID, &h.Amount, &typ, &h.UpdateMillis); err != nil {
			return nil, err
		}
		h.Type = models.TransactionType(typ)
		out = append(out, h)
	}
	return out, rows.Err()
}
