package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ntuananhdevs/banking-onl/internal/models"
	pkgerrors "github.com/ntuananhdevs/banking-onl/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var err error
	ctx, span, finish := instrument(ctx, "user-repository", "GetUserByID")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.Int64("user_id", id))

	query := `SELECT id, username, balance, created_at FROM users WHERE id = $1`
	var user models.User
	err = r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.Balance, &user.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		slog.Warn("user not found", "method", "GetByID", "user_id", id)
		err = pkgerrors.ErrUserNotFound
		return nil, err
	case err != nil:
		slog.Error("failed to get user by id", "method", "GetByID", "user_id", id, "error", err)
		err = fmt.Errorf("failed to get user by id: %w", err)
		return nil, err
	}

	return &user, nil
}

func (r *PostgresUserRepository) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var err error
	ctx, span, finish := instrument(ctx, "user-repository", "GetBalance")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.Int64("user_id", userID))

	var balance decimal.Decimal
	err = r.db.QueryRowContext(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = pkgerrors.ErrUserNotFound
		return decimal.Zero, err
	case err != nil:
		slog.Error("failed to get balance", "method", "GetBalance", "user_id", userID, "error", err)
		err = fmt.Errorf("failed to get balance: %w", err)
		return decimal.Zero, err
	}

	slog.Info("balance retrieved", "method", "GetBalance", "user_id", userID, "balance", balance.StringFixed(2))
	return balance, nil
}
