package errors

import (
	"errors"
)

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrNilTransaction           = errors.New("transaction is nil")
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrTransactionNotPending    = errors.New("transaction is not pending")
	ErrDepositCodeConflict      = errors.New("deposit code already in use")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrMalformedPayload         = errors.New("notification payload is not a JSON object")
	ErrUnauthenticated          = errors.New("user not authenticated")
)
