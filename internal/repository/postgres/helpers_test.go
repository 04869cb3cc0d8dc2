package repository_test

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ntuananhdevs/banking-onl/internal/models"
)

var transactionColumns = []string{"id", "user_id", "deposit_code", "amount", "type", "status", "transfer_content", "external_reference", "metadata", "created_at", "updated_at"}

type txRow struct {
	id        uuid.UUID
	userID    int64
	code      any
	amount    string
	status    models.StatusType
	content   any
	reference any
	metadata  string
	createdAt time.Time
}

func transactionRows(rows ...txRow) *sqlmock.Rows {
	out := sqlmock.NewRows(transactionColumns)
	for _, r := range rows {
		metadata := r.metadata
		if metadata == "" {
			metadata = `{}`
		}
		out.AddRow(r.id.String(), r.userID, r.code, r.amount, "deposit", string(r.status), r.content, r.reference, []byte(metadata), r.createdAt, r.createdAt)
	}
	return out
}

// metadataArg matches a models.Metadata query argument by decoding it.
type metadataArg struct {
	check func(models.Metadata) bool
}

func (m metadataArg) Match(v driver.Value) bool {
	raw, ok := v.([]byte)
	if !ok {
		return false
	}
	var md models.Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return false
	}
	return m.check(md)
}
