package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata is the provenance envelope stored in transactions.metadata (JSONB).
// BalanceUpdated is the durable witness that the deposit amount was credited.
type Metadata struct {
	ExternalReference string          `json:"externalReference,omitempty"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
	BalanceUpdated    bool            `json:"balanceUpdated,omitempty"`
	RawNotification   json.RawMessage `json:"rawNotification,omitempty"`
	Extra             map[string]any  `json:"extra,omitempty"`
}

// Complete merges a notification into the envelope. BalanceUpdated is left
// untouched; only the ledger credit step sets it.
func (m Metadata) Complete(c Completion) Metadata {
	if c.ExternalReference != "" {
		m.ExternalReference = c.ExternalReference
	}
	if len(c.RawNotification) > 0 {
		m.RawNotification = json.RawMessage(c.RawNotification)
	}
	completedAt := c.CompletedAt.UTC()
	m.CompletedAt = &completedAt
	return m
}

func (m Metadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return b, nil
}

func (m *Metadata) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata type %T", src)
	}
	if len(raw) == 0 {
		*m = Metadata{}
		return nil
	}
	var out Metadata
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	*m = out
	return nil
}
