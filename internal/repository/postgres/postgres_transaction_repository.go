package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	pkgerrors "github.com/ntuananhdevs/banking-onl/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

const uniqueViolation = "23505"

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

func (r *PostgresTransactionRepository) Create(ctx context.Context, tx *models.DepositTransaction) error {
	var err error
	ctx, span, finish := instrument(ctx, "transaction-repository", "CreateTransaction")
	defer func() { finish(err) }()

	if err = validateTransaction(tx); err != nil {
		slog.Error("invalid transaction", "method", "Create", "error", err)
		return err
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	span.SetAttributes(
		attribute.String("transaction_id", tx.ID.String()),
		attribute.Int64("user_id", tx.UserID),
		attribute.String("amount", tx.Amount.String()),
		attribute.String("type", string(tx.Type)),
		attribute.String("status", string(tx.Status)),
	)

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "Create", "error", err)
		err = fmt.Errorf("failed to begin transaction: %w", err)
		return err
	}

	query := `INSERT INTO transactions (id, user_id, deposit_code, amount, type, status, transfer_content, external_reference, metadata) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at, updated_at`
	err = dbTx.QueryRowContext(ctx, query,
		tx.ID,
		tx.UserID,
		nullString(tx.DepositCode),
		tx.Amount,
		tx.Type,
		tx.Status,
		nullString(tx.TransferContent),
		nullString(tx.ExternalReference),
		tx.Metadata,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			slog.Warn("deposit code already pending", "method", "Create", "deposit_code", tx.DepositCode)
			err = rollback(dbTx, "Create", pkgerrors.ErrDepositCodeConflict)
			return err
		}
		slog.Error("failed to create transaction", "method", "Create", "user_id", tx.UserID, "type", tx.Type, "status", tx.Status, "error", err)
		err = rollback(dbTx, "Create", fmt.Errorf("failed to create transaction: %w", err))
		return err
	}

	if err = dbTx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "Create", "error", err)
		err = fmt.Errorf("failed to commit transaction: %w", err)
		return err
	}

	slog.Info("transaction created", "method", "Create", "id", tx.ID, "user_id", tx.UserID, "deposit_code", tx.DepositCode, "type", tx.Type, "status", tx.Status)
	return nil
}

func (r *PostgresTransactionRepository) GetByDepositCode(ctx context.Context, userID int64, code string) (*models.DepositTransaction, error) {
	var err error
	ctx, span, finish := instrument(ctx, "transaction-repository", "GetTransactionByDepositCode")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.String("deposit_code", code))

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND deposit_code = $2 ORDER BY created_at DESC LIMIT 1`
	tx, err := r.queryOne(ctx, query, userID, code)
	if err != nil {
		if !stderrors.Is(err, pkgerrors.ErrTransactionNotFound) {
			slog.Error("failed to get transaction by deposit code", "method", "GetByDepositCode", "user_id", userID, "deposit_code", code, "error", err)
			err = fmt.Errorf("failed to get transaction by deposit code: %w", err)
		}
		return nil, err
	}
	return tx, nil
}

func (r *PostgresTransactionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.DepositTransaction, error) {
	var err error
	ctx, span, finish := instrument(ctx, "transaction-repository", "ListTransactionsByUser")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Int("limit", limit))

	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		slog.Error("failed to list transactions", "method", "ListByUser", "user_id", userID, "error", err)
		err = fmt.Errorf("failed to list transactions: %w", err)
		return nil, err
	}
	defer rows.Close()

	transactions := make([]models.DepositTransaction, 0, limit)
	for rows.Next() {
		var tx *models.DepositTransaction
		tx, err = scanTransaction(rows)
		if err != nil {
			slog.Error("failed to scan transaction", "method", "ListByUser", "user_id", userID, "error", err)
			err = fmt.Errorf("failed to scan transaction: %w", err)
			return nil, err
		}
		transactions = append(transactions, *tx)
	}
	if err = rows.Err(); err != nil {
		slog.Error("failed to iterate transactions", "method", "ListByUser", "user_id", userID, "error", err)
		err = fmt.Errorf("failed to iterate transactions: %w", err)
		return nil, err
	}

	slog.Info("transactions listed", "method", "ListByUser", "user_id", userID, "count", len(transactions))
	return transactions, nil
}

func (r *PostgresTransactionRepository) FindPendingByDepositCode(ctx context.Context, code string, amount decimal.Decimal) (*models.DepositTransaction, error) {
	var err error
	ctx, span, finish := instrument(ctx, "transaction-repository", "FindPendingByDepositCode")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.String("deposit_code", code), attribute.String("amount", amount.String()))

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE deposit_code = $1 AND amount = $2 AND type = 'deposit' AND status = 'pending' ORDER BY created_at DESC LIMIT 1`
	tx, err := r.queryOne(ctx, query, code, amount)
	return r.found(tx, err, "FindPendingByDepositCode", &err)
}

func (r *PostgresTransactionRepository) FindCompletedByDepositCode(ctx context.Context, code string, amount decimal.Decimal) (*models.DepositTransaction, error) {
	var err error
	ctx, span, finish := instrument(ctx, "transaction-repository", "FindCompletedByDepositCode")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.String("deposit_code", code), attribute.String("amount", amount.String()))

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE deposit_code = $1 AND amount = $2 AND type = 'deposit' AND status = 'completed' ORDER BY created_at DESC LIMIT 1`
	tx, err := r.queryOne(ctx, query, code, amount)
	return r.found(tx, err, "FindCompletedByDepositCode", &err)
}

func (r *PostgresTransactionRepository) FindPendingByUser(ctx context.Context, userID int64, amount decimal.Decimal) (*models.DepositTransaction, error) {
	var err error
	ctx, span, finish := instrument(ctx, "transaction-repository", "FindPendingByUser")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.String("amount", amount.String()))

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND amount = $2 AND type = 'deposit' AND status = 'pending' ORDER BY created_at DESC LIMIT 1`
	tx, err := r.queryOne(ctx, query, userID, amount)
	return r.found(tx, err, "FindPendingByUser", &err)
}

func (r *PostgresTransactionRepository) FindCompletedByReference(ctx context.Context, userID int64, reference string) (*models.DepositTransaction, error) {
	var err error
	ctx, span, finish := instrument(ctx, "transaction-repository", "FindCompletedByReference")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.String("reference", reference))

	tx, err := r.queryOne(ctx, findCompletedByReferenceQuery, userID, reference)
	return r.found(tx, err, "FindCompletedByReference", &err)
}

func (r *PostgresTransactionRepository) FindRecentCompleted(ctx context.Context, userID int64, amount decimal.Decimal, since time.Time) (*models.DepositTransaction, error) {
	var err error
	ctx, span, finish := instrument(ctx, "transaction-repository", "FindRecentCompleted")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.String("amount", amount.String()))

	tx, err := r.queryOne(ctx, findRecentCompletedQuery, userID, amount, since)
	return r.found(tx, err, "FindRecentCompleted", &err)
}

func (r *PostgresTransactionRepository) PendingStats(ctx context.Context) (models.PendingStats, error) {
	var err error
	ctx, _, finish := instrument(ctx, "transaction-repository", "PendingStats")
	defer func() { finish(err) }()

	var stats models.PendingStats
	var oldest sql.NullTime
	query := `SELECT COUNT(*), MIN(created_at) FROM transactions WHERE type = 'deposit' AND status = 'pending'`
	err = r.db.QueryRowContext(ctx, query).Scan(&stats.Count, &oldest)
	if err != nil {
		slog.Error("failed to get pending stats", "method", "PendingStats", "error", err)
		err = fmt.Errorf("failed to get pending stats: %w", err)
		return models.PendingStats{}, err
	}
	if oldest.Valid {
		stats.OldestCreated = oldest.Time
	}
	return stats, nil
}

const (
	findCompletedByReferenceQuery = `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND status = 'completed' AND (external_reference = $2 OR metadata->>'externalReference' = $2) ORDER BY created_at DESC LIMIT 1`
	findRecentCompletedQuery      = `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND amount = $2 AND type = 'deposit' AND status = 'completed' AND created_at >= $3 ORDER BY created_at DESC LIMIT 1`
)

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryTransaction(ctx context.Context, q queryRower, query string, args ...any) (*models.DepositTransaction, error) {
	tx, err := scanTransaction(q.QueryRowContext(ctx, query, args...))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *PostgresTransactionRepository) queryOne(ctx context.Context, query string, args ...any) (*models.DepositTransaction, error) {
	return queryTransaction(ctx, r.db, query, args...)
}

// found logs and wraps lookup failures; a miss is passed through unwrapped.
func (r *PostgresTransactionRepository) found(tx *models.DepositTransaction, err error, method string, recorded *error) (*models.DepositTransaction, error) {
	if err == nil {
		slog.Debug("transaction found", "method", method, "transaction_id", tx.ID, "status", tx.Status)
		return tx, nil
	}
	if !stderrors.Is(err, pkgerrors.ErrTransactionNotFound) {
		slog.Error("transaction lookup failed", "method", method, "error", err)
		err = fmt.Errorf("failed to %s: %w", method, err)
	}
	*recorded = err
	return nil, err
}

func validateTransaction(tx *models.DepositTransaction) error {
	if tx == nil {
		return pkgerrors.ErrNilTransaction
	}
	if !tx.Type.Valid() {
		return pkgerrors.ErrInvalidTransactionType
	}
	if !tx.Status.Valid() {
		return pkgerrors.ErrInvalidTransactionStatus
	}
	if !tx.Amount.IsPositive() {
		return pkgerrors.ErrInvalidAmount
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
