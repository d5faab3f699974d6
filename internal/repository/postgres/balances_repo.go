package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/baharkarakas/point-ledger/internal/models"
	"github.com/baharkarakas/point-ledger/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ repository.Balances = (*balancesRepo)(nil)

type balancesRepo struct{ pool *pgxpool.Pool }

func (r *balancesRepo) Get(ctx context.Context, userID int64) (models.UserPoint, error) {
	var b models.UserPoint
	err := r.pool.QueryRow(
		ctx,
		`SELECT user_id, point, update_millis
		   FROM user_points
		  WHERE user_id=$1`,
		userID,
	).Scan(&b.UserID, &b.Point, &b.UpdateMillis)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.UserPoint{}, repository.ErrNotFound
	}
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("select user point: %w", err)
	}
	return b, nil
}

func (r *balancesRepo) Upsert(ctx context.Context, userID, point int64) (models.UserPoint, error) {
	var b models.UserPoint
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO user_points(user_id, point, update_millis)
		 VALUES($1, $2, (extract(epoch from clock_timestamp()) * 1000)::bigint)
		 ON CONFLICT (user_id) DO UPDATE
		    SET point = EXCLUDED.point,
		        update_millis = EXCLUDED.update_millis
		 RETURNING user_id, point, update_millis`,
		userID, point,
	).Scan(&b.UserID, &b.Point, &b.UpdateMillis)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("upsert user point: %w", err)
	}
	return b, nil
}
