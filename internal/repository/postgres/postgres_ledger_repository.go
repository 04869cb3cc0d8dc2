package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	pkgerrors "github.com/ntuananhdevs/banking-onl/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// PostgresLedgerRepository performs the money-moving writes. Every method
// holds row locks (SELECT ... FOR UPDATE) for the whole read-modify-write.
type PostgresLedgerRepository struct {
	db *sql.DB
}

func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

func (r *PostgresLedgerRepository) CompletePending(ctx context.Context, id uuid.UUID, c models.Completion) (out *models.DepositTransaction, credited bool, err error) {
	ctx, span, finish := instrument(ctx, "ledger-repository", "CompletePending")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.String("transaction_id", id.String()))

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "CompletePending", "error", err)
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx, err := queryTransaction(ctx, dbTx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if !stderrors.Is(err, pkgerrors.ErrTransactionNotFound) {
			slog.Error("failed to lock transaction", "method", "CompletePending", "transaction_id", id, "error", err)
			err = fmt.Errorf("failed to lock transaction: %w", err)
		}
		return nil, false, rollback(dbTx, "CompletePending", err)
	}

	switch tx.Status {
	case models.StatusCompleted:
		release(dbTx, "CompletePending")
		slog.Info("transaction already completed", "method", "CompletePending", "transaction_id", id)
		return tx, false, nil
	case models.StatusPending:
	default:
		release(dbTx, "CompletePending")
		slog.Warn("transaction is not pending", "method", "CompletePending", "transaction_id", id, "status", tx.Status)
		return nil, false, pkgerrors.ErrTransactionNotPending
	}

	tx.Metadata = tx.Metadata.Complete(c)
	query := `UPDATE transactions SET status = $2, external_reference = COALESCE($3, external_reference), metadata = $4, updated_at = NOW() WHERE id = $1`
	if _, err = dbTx.ExecContext(ctx, query, id, models.StatusCompleted, nullString(c.ExternalReference), tx.Metadata); err != nil {
		slog.Error("failed to complete transaction", "method", "CompletePending", "transaction_id", id, "error", err)
		return nil, false, rollback(dbTx, "CompletePending", fmt.Errorf("failed to complete transaction: %w", err))
	}

	credited, err = creditOnce(ctx, dbTx, tx.UserID, tx.Amount, tx.ID)
	if err != nil {
		return nil, false, rollback(dbTx, "CompletePending", err)
	}

	if err = dbTx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "CompletePending", "error", err)
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	tx.Status = models.StatusCompleted
	if c.ExternalReference != "" {
		tx.ExternalReference = c.ExternalReference
	}
	tx.Metadata.BalanceUpdated = true
	slog.Info("deposit completed", "method", "CompletePending", "transaction_id", id, "user_id", tx.UserID, "amount", tx.Amount.StringFixed(2), "credited", credited)
	return tx, credited, nil
}

func (r *PostgresLedgerRepository) CreateCompleted(ctx context.Context, tx *models.DepositTransaction, w models.DuplicateWindow) (out *models.DepositTransaction, created bool, err error) {
	ctx, span, finish := instrument(ctx, "ledger-repository", "CreateCompleted")
	defer func() { finish(err) }()

	if tx != nil {
		tx.Status = models.StatusCompleted
	}
	if err = validateTransaction(tx); err != nil {
		slog.Error("invalid transaction", "method", "CreateCompleted", "error", err)
		return nil, false, err
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	span.SetAttributes(
		attribute.String("transaction_id", tx.ID.String()),
		attribute.Int64("user_id", tx.UserID),
		attribute.String("amount", tx.Amount.String()),
	)

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "CreateCompleted", "error", err)
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var locked int64
	err = dbTx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, tx.UserID).Scan(&locked)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, rollback(dbTx, "CreateCompleted", pkgerrors.ErrUserNotFound)
	}
	if err != nil {
		slog.Error("failed to lock user", "method", "CreateCompleted", "user_id", tx.UserID, "error", err)
		return nil, false, rollback(dbTx, "CreateCompleted", fmt.Errorf("failed to lock user: %w", err))
	}

	if w.Reference != "" {
		dup, dupErr := queryTransaction(ctx, dbTx, findCompletedByReferenceQuery, tx.UserID, w.Reference)
		if dup != nil {
			release(dbTx, "CreateCompleted")
			slog.Info("duplicate deposit by reference", "method", "CreateCompleted", "user_id", tx.UserID, "existing_transaction_id", dup.ID)
			return dup, false, nil
		}
		if !stderrors.Is(dupErr, pkgerrors.ErrTransactionNotFound) {
			slog.Error("failed to check duplicate reference", "method", "CreateCompleted", "user_id", tx.UserID, "error", dupErr)
			return nil, false, rollback(dbTx, "CreateCompleted", fmt.Errorf("failed to check duplicate reference: %w", dupErr))
		}
	}

	dup, dupErr := queryTransaction(ctx, dbTx, findRecentCompletedQuery, tx.UserID, tx.Amount, w.Since)
	if dup != nil {
		release(dbTx, "CreateCompleted")
		slog.Info("duplicate deposit by amount", "method", "CreateCompleted", "user_id", tx.UserID, "existing_transaction_id", dup.ID)
		return dup, false, nil
	}
	if !stderrors.Is(dupErr, pkgerrors.ErrTransactionNotFound) {
		slog.Error("failed to check recent deposits", "method", "CreateCompleted", "user_id", tx.UserID, "error", dupErr)
		return nil, false, rollback(dbTx, "CreateCompleted", fmt.Errorf("failed to check recent deposits: %w", dupErr))
	}

	tx.Metadata.BalanceUpdated = true
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
		slog.Error("failed to insert completed deposit", "method", "CreateCompleted", "user_id", tx.UserID, "error", err)
		return nil, false, rollback(dbTx, "CreateCompleted", fmt.Errorf("failed to insert completed deposit: %w", err))
	}

	if _, err = addToBalance(ctx, dbTx, tx.UserID, tx.Amount); err != nil {
		return nil, false, rollback(dbTx, "CreateCompleted", err)
	}

	if err = dbTx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "CreateCompleted", "error", err)
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("completed deposit created", "method", "CreateCompleted", "transaction_id", tx.ID, "user_id", tx.UserID, "amount", tx.Amount.StringFixed(2))
	return tx, true, nil
}

func (r *PostgresLedgerRepository) CreditOnce(ctx context.Context, userID int64, amount decimal.Decimal, transactionID uuid.UUID) (credited bool, err error) {
	ctx, span, finish := instrument(ctx, "ledger-repository", "CreditOnce")
	defer func() { finish(err) }()
	span.SetAttributes(
		attribute.String("transaction_id", transactionID.String()),
		attribute.Int64("user_id", userID),
		attribute.String("amount", amount.String()),
	)

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "CreditOnce", "error", err)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	credited, err = creditOnce(ctx, dbTx, userID, amount, transactionID)
	if err != nil {
		return false, rollback(dbTx, "CreditOnce", err)
	}

	if err = dbTx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "CreditOnce", "error", err)
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return credited, nil
}

// creditOnce adds amount to the user's balance unless the transaction's
// balanceUpdated flag is already set, and sets the flag. It must run inside
// dbTx so the flag read and both writes commit together.
func creditOnce(ctx context.Context, dbTx *sql.Tx, userID int64, amount decimal.Decimal, transactionID uuid.UUID) (bool, error) {
	if !amount.IsPositive() {
		return false, pkgerrors.ErrInvalidAmount
	}

	var updated bool
	query := `SELECT COALESCE((metadata->>'balanceUpdated')::boolean, false) FROM transactions WHERE id = $1 FOR UPDATE`
	err := dbTx.QueryRowContext(ctx, query, transactionID).Scan(&updated)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, pkgerrors.ErrTransactionNotFound
	}
	if err != nil {
		slog.Error("failed to read balance flag", "method", "CreditOnce", "transaction_id", transactionID, "error", err)
		return false, fmt.Errorf("failed to read balance flag: %w", err)
	}
	if updated {
		slog.Info("balance already credited", "method", "CreditOnce", "transaction_id", transactionID, "user_id", userID)
		return false, nil
	}

	if _, err := addToBalance(ctx, dbTx, userID, amount); err != nil {
		return false, err
	}

	query = `UPDATE transactions SET metadata = jsonb_set(COALESCE(metadata, '{}'::jsonb), '{balanceUpdated}', 'true'::jsonb), updated_at = NOW() WHERE id = $1`
	if _, err := dbTx.ExecContext(ctx, query, transactionID); err != nil {
		slog.Error("failed to set balance flag", "method", "CreditOnce", "transaction_id", transactionID, "error", err)
		return false, fmt.Errorf("failed to set balance flag: %w", err)
	}
	return true, nil
}

func addToBalance(ctx context.Context, dbTx *sql.Tx, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := dbTx.QueryRowContext(ctx, `UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance`, amount, userID).Scan(&balance)
	if stderrors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, pkgerrors.ErrUserNotFound
	}
	if err != nil {
		slog.Error("failed to update balance", "method", "addToBalance", "user_id", userID, "error", err)
		return decimal.Zero, fmt.Errorf("failed to update balance: %w", err)
	}
	slog.Info("balance credited", "user_id", userID, "amount", amount.StringFixed(2), "balance", balance.StringFixed(2))
	return balance, nil
}

// release ends a transaction that wrote nothing.
func release(dbTx *sql.Tx, method string) {
	if err := dbTx.Rollback(); err != nil {
		slog.Error("rollback failed", "method", method, "error", err)
	}
}
