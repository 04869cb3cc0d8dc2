package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	"github.com/shopspring/decimal"
)

// LedgerRepository owns every write that moves money. Each method runs in a
// single database transaction and credits a deposit at most once.
type LedgerRepository interface {
	// CompletePending marks a pending deposit completed and credits it. A row
	// that is already completed is returned unchanged with credited=false.
	// A failed row yields pkgerrors.ErrTransactionNotPending.
	CompletePending(ctx context.Context, id uuid.UUID, c models.Completion) (tx *models.DepositTransaction, credited bool, err error)
	// CreateCompleted inserts an already-completed deposit and credits the user,
	// unless a duplicate inside w is found under the user lock, in which case
	// the duplicate is returned with created=false.
	CreateCompleted(ctx context.Context, tx *models.DepositTransaction, w models.DuplicateWindow) (out *models.DepositTransaction, created bool, err error)
	CreditOnce(ctx context.Context, userID int64, amount decimal.Decimal, transactionID uuid.UUID) (credited bool, err error)
}
