package repository

import (
	"database/sql"

	"github.com/ntuananhdevs/banking-onl/internal/models"
)

const transactionColumns = `id, user_id, deposit_code, amount, type, status, transfer_content, external_reference, metadata, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.DepositTransaction, error) {
	var tx models.DepositTransaction
	var code, content, ref sql.NullString
	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&code,
		&tx.Amount,
		&tx.Type,
		&tx.Status,
		&content,
		&ref,
		&tx.Metadata,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.DepositCode = code.String
	tx.TransferContent = content.String
	tx.ExternalReference = ref.String
	return &tx, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
