package repository

import (
	"context"

	"github.com/ntuananhdevs/banking-onl/internal/models"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}
