package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepositTransaction struct {
	ID                uuid.UUID       `json:"id"`
	UserID            int64           `json:"user_id"`
	DepositCode       string          `json:"deposit_code,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Type              TransactionType `json:"type"`
	Status            StatusType      `json:"status"`
	TransferContent   string          `json:"transfer_content,omitempty"`
	ExternalReference string          `json:"external_reference,omitempty"`
	Metadata          Metadata        `json:"metadata"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeTransfer   TransactionType = "transfer"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer:
		return true
	}
	return false
}

type StatusType string

const (
	StatusPending   StatusType = "pending"
	StatusCompleted StatusType = "completed"
	StatusFailed    StatusType = "failed"
)

func (s StatusType) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s StatusType) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Completion carries what a matched notification writes onto a pending deposit.
type Completion struct {
	ExternalReference string
	RawNotification   []byte
	CompletedAt       time.Time
}

// DuplicateWindow is re-checked under the user lock before a fresh completed
// deposit is inserted.
type DuplicateWindow struct {
	Reference string
	Since     time.Time
}

type PendingStats struct {
	Count         int64
	OldestCreated time.Time
}
