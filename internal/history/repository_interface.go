package history

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Record(ctx context.Context, payments ...Payment) (int, error)
	TotalPaid(ctx context.Context, ownerID int64) (decimal.Decimal, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]Payment, error)
}
