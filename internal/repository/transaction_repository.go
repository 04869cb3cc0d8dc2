package repository

import (
	"context"
	"time"

	"github.com/ntuananhdevs/banking-onl/internal/models"
	"github.com/shopspring/decimal"
)

// TransactionRepository reads and creates deposit transactions. Lookups that
// find nothing return pkgerrors.ErrTransactionNotFound.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.DepositTransaction) error
	GetByDepositCode(ctx context.Context, userID int64, code string) (*models.DepositTransaction, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.DepositTransaction, error)
	FindPendingByDepositCode(ctx context.Context, code string, amount decimal.Decimal) (*models.DepositTransaction, error)
	FindCompletedByDepositCode(ctx context.Context, code string, amount decimal.Decimal) (*models.DepositTransaction, error)
	FindPendingByUser(ctx context.Context, userID int64, amount decimal.Decimal) (*models.DepositTransaction, error)
	FindCompletedByReference(ctx context.Context, userID int64, reference string) (*models.DepositTransaction, error)
	FindRecentCompleted(ctx context.Context, userID int64, amount decimal.Decimal, since time.Time) (*models.DepositTransaction, error)
	PendingStats(ctx context.Context) (models.PendingStats, error)
}
