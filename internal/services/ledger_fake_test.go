package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	pkgerrors "github.com/ntuananhdevs/banking-onl/pkg/errors"
	"github.com/shopspring/decimal"
)

// memLedger is an in-memory stand-in for the three repositories. A single
// mutex plays the role of the row locks taken by the Postgres ledger.
type memLedger struct {
	mu      sync.Mutex
	users   map[int64]*models.User
	txs     []*models.DepositTransaction
	credits int
	err     error
}

func newMemLedger(users ...models.User) *memLedger {
	l := &memLedger{users: make(map[int64]*models.User)}
	for i := range users {
		u := users[i]
		l.users[u.ID] = &u
	}
	return l
}

func (l *memLedger) seed(tx models.DepositTransaction) *models.DepositTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	tx.Type = models.TypeDeposit
	l.txs = append(l.txs, &tx)
	out := tx
	return &out
}

func (l *memLedger) balance(userID int64) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.users[userID].Balance
}

func (l *memLedger) byID(id uuid.UUID) models.DepositTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, tx := range l.txs {
		if tx.ID == id {
			return *tx
		}
	}
	return models.DepositTransaction{}
}

func (l *memLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.txs)
}

func (l *memLedger) find(match func(tx *models.DepositTransaction) bool) (*models.DepositTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return l.findLocked(match)
}

func (l *memLedger) findLocked(match func(tx *models.DepositTransaction) bool) (*models.DepositTransaction, error) {
	for i := len(l.txs) - 1; i >= 0; i-- {
		if match(l.txs[i]) {
			out := *l.txs[i]
			return &out, nil
		}
	}
	return nil, pkgerrors.ErrTransactionNotFound
}

func (l *memLedger) GetByID(ctx context.Context, id int64) (*models.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	u, ok := l.users[id]
	if !ok {
		return nil, pkgerrors.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (l *memLedger) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	u, err := l.GetByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return u.Balance, nil
}

func (l *memLedger) Create(ctx context.Context, tx *models.DepositTransaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.txs {
		if existing.Status == models.StatusPending && existing.DepositCode != "" && existing.DepositCode == tx.DepositCode {
			return pkgerrors.ErrDepositCodeConflict
		}
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	stored := *tx
	l.txs = append(l.txs, &stored)
	return nil
}

func (l *memLedger) GetByDepositCode(ctx context.Context, userID int64, code string) (*models.DepositTransaction, error) {
	return l.find(func(tx *models.DepositTransaction) bool {
		return tx.UserID == userID && tx.DepositCode == code
	})
}

func (l *memLedger) ListByUser(ctx context.Context, userID int64, limit int) ([]models.DepositTransaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.DepositTransaction
	for i := len(l.txs) - 1; i >= 0 && len(out) < limit; i-- {
		if l.txs[i].UserID == userID {
			out = append(out, *l.txs[i])
		}
	}
	return out, nil
}

func (l *memLedger) FindPendingByDepositCode(ctx context.Context, code string, amount decimal.Decimal) (*models.DepositTransaction, error) {
	return l.find(func(tx *models.DepositTransaction) bool {
		return tx.DepositCode == code && tx.Amount.Equal(amount) && tx.Status == models.StatusPending
	})
}

func (l *memLedger) FindCompletedByDepositCode(ctx context.Context, code string, amount decimal.Decimal) (*models.DepositTransaction, error) {
	return l.find(func(tx *models.DepositTransaction) bool {
		return tx.DepositCode == code && tx.Amount.Equal(amount) && tx.Status == models.StatusCompleted
	})
}

func (l *memLedger) FindPendingByUser(ctx context.Context, userID int64, amount decimal.Decimal) (*models.DepositTransaction, error) {
	return l.find(func(tx *models.DepositTransaction) bool {
		return tx.UserID == userID && tx.Amount.Equal(amount) && tx.Status == models.StatusPending
	})
}

func (l *memLedger) FindCompletedByReference(ctx context.Context, userID int64, reference string) (*models.DepositTransaction, error) {
	return l.find(func(tx *models.DepositTransaction) bool {
		return tx.UserID == userID && tx.Status == models.StatusCompleted &&
			(tx.ExternalReference == reference || tx.Metadata.ExternalReference == reference)
	})
}

func (l *memLedger) FindRecentCompleted(ctx context.Context, userID int64, amount decimal.Decimal, since time.Time) (*models.DepositTransaction, error) {
	return l.find(func(tx *models.DepositTransaction) bool {
		return tx.UserID == userID && tx.Amount.Equal(amount) && tx.Status == models.StatusCompleted && !tx.CreatedAt.Before(since)
	})
}

func (l *memLedger) PendingStats(ctx context.Context) (models.PendingStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var stats models.PendingStats
	for _, tx := range l.txs {
		if tx.Status != models.StatusPending {
			continue
		}
		stats.Count++
		if stats.OldestCreated.IsZero() || tx.CreatedAt.Before(stats.OldestCreated) {
			stats.OldestCreated = tx.CreatedAt
		}
	}
	return stats, nil
}

func (l *memLedger) CompletePending(ctx context.Context, id uuid.UUID, c models.Completion) (*models.DepositTransaction, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, false, l.err
	}
	var tx *models.DepositTransaction
	for _, candidate := range l.txs {
		if candidate.ID == id {
			tx = candidate
		}
	}
	if tx == nil {
		return nil, false, pkgerrors.ErrTransactionNotFound
	}
	switch tx.Status {
	case models.StatusCompleted:
		out := *tx
		return &out, false, nil
	case models.StatusFailed:
		return nil, false, pkgerrors.ErrTransactionNotPending
	}

	tx.Status = models.StatusCompleted
	if c.ExternalReference != "" {
		tx.ExternalReference = c.ExternalReference
	}
	tx.Metadata = tx.Metadata.Complete(c)
	credited, err := l.creditLocked(tx.UserID, tx.Amount, tx.ID)
	if err != nil {
		return nil, false, err
	}
	out := *tx
	return &out, credited, nil
}

func (l *memLedger) CreateCompleted(ctx context.Context, tx *models.DepositTransaction, w models.DuplicateWindow) (*models.DepositTransaction, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, false, l.err
	}
	if _, ok := l.users[tx.UserID]; !ok {
		return nil, false, pkgerrors.ErrUserNotFound
	}
	if w.Reference != "" {
		if dup, err := l.findLocked(func(c *models.DepositTransaction) bool {
			return c.UserID == tx.UserID && c.Status == models.StatusCompleted && c.ExternalReference == w.Reference
		}); err == nil {
			return dup, false, nil
		}
	}
	if dup, err := l.findLocked(func(c *models.DepositTransaction) bool {
		return c.UserID == tx.UserID && c.Status == models.StatusCompleted && c.Amount.Equal(tx.Amount) && !c.CreatedAt.Before(w.Since)
	}); err == nil {
		return dup, false, nil
	}

	stored := *tx
	stored.ID = uuid.New()
	stored.Status = models.StatusCompleted
	stored.CreatedAt = time.Now()
	stored.Metadata.BalanceUpdated = true
	l.txs = append(l.txs, &stored)
	l.users[tx.UserID].Balance = l.users[tx.UserID].Balance.Add(tx.Amount)
	l.credits++
	out := stored
	return &out, true, nil
}

func (l *memLedger) CreditOnce(ctx context.Context, userID int64, amount decimal.Decimal, transactionID uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.creditLocked(userID, amount, transactionID)
}

func (l *memLedger) creditLocked(userID int64, amount decimal.Decimal, transactionID uuid.UUID) (bool, error) {
	if !amount.IsPositive() {
		return false, pkgerrors.ErrInvalidAmount
	}
	var tx *models.DepositTransaction
	for _, candidate := range l.txs {
		if candidate.ID == transactionID {
			tx = candidate
		}
	}
	if tx == nil {
		return false, pkgerrors.ErrTransactionNotFound
	}
	if tx.Metadata.BalanceUpdated {
		return false, nil
	}
	u, ok := l.users[userID]
	if !ok {
		return false, pkgerrors.ErrUserNotFound
	}
	u.Balance = u.Balance.Add(amount)
	tx.Metadata.BalanceUpdated = true
	l.credits++
	return true, nil
}
