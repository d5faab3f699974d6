package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/point-ledger/internal/api/httpx"
	"github.com/baharkarakas/point-ledger/internal/api/validate"
	"github.com/baharkarakas/point-ledger/internal/models"
	"github.com/baharkarakas/point-ledger/internal/services"
)

//go:generate mockgen -destination ./mocks/point_mock.go . PointService
type PointService interface {
	GetBalance(ctx context.Context, userID int64) (models.UserPoint, error)
	GetHistory(ctx context.Context, userID int64) ([]models.PointHistory, error)
	Charge(ctx context.Context, userID, amount int64) (models.UserPoint, error)
	Use(ctx context.Context, userID, amount int64) (models.UserPoint, error)
}

var _ PointService = (*services.PointService)(nil)

// NewBalanceHandler serves GET /point/{id}.
func NewBalanceHandler(svc PointService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(w, r)
		if !ok {
			return
		}
		b, err := svc.GetBalance(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, b)
	})
}

// NewHistoriesHandler serves GET /point/{id}/histories.
func NewHistoriesHandler(svc PointService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(w, r)
		if !ok {
			return
		}
		hs, err := svc.GetHistory(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, hs)
	})
}

// NewChargeHandler serves PATCH /point/{id}/charge with a numeric body.
func NewChargeHandler(svc PointService) http.Handler {
	return newMutationHandler(svc.Charge)
}

// NewUseHandler serves PATCH /point/{id}/use with a numeric body.
func NewUseHandler(svc PointService) http.Handler {
	return newMutationHandler(svc.Use)
}

func newMutationHandler(op func(ctx context.Context, userID, amount int64) (models.UserPoint, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDParam(w, r)
		if !ok {
			return
		}
		defer func() { _ = r.Body.Close() }()

		amount, ef := validate.AmountBody("amount", r.Body)
		if ef != nil {
			slog.Warn("invalid amount body", "field", ef.Field, "msg", ef.Msg)
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidRequest,
				"request body must be a single integer amount", validate.Errs{*ef})
			return
		}

		b, err := op(r.Context(), userID, amount)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, b)
	})
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ef := validate.Int64("id", chi.URLParam(r, "id"))
	if ef != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidRequest,
			"user id must be an integer", validate.Errs{*ef})
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var code string
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		code = httpx.CodeInvalidAmount
	case errors.Is(err, services.ErrPolicyViolation):
		code = httpx.CodePolicyViolation
	case errors.Is(err, services.ErrInsufficientBalance):
		code = httpx.CodeInsufficientBalance
	case errors.Is(err, services.ErrNotFound):
		code = httpx.CodeNotFound
	default:
		slog.Error("point request failed",
			"method", r.Method, "path", r.URL.Path, "err", err)
		httpx.WriteInternal(w)
		return
	}
	httpx.WriteError(w, http.StatusBadRequest, code, err.Error(), nil)
}
