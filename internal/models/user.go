package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64
	Username  string
	Balance   decimal.Decimal
	CreatedAt time.Time
}
