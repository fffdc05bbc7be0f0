package subscription

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, sub *Subscription) (*Subscription, error)
	Get(ctx context.Context, id int64) (*Subscription, error)
	ListByOwnerAndStatus(ctx context.Context, ownerID int64, status Status) ([]*Subscription, error)
	Update(ctx context.Context, id int64, updates ...FieldUpdate) (*Subscription, error)
	Delete(ctx context.Context, id int64) error
	ListDueForNotificationAtTime(ctx context.Context, hhmm string) ([]*Subscription, error)
	SumActivePrice(ctx context.Context, ownerID int64, scope string) (decimal.Decimal, error)
	SumByPeriodGroupedForOwner(ctx context.Context, ownerID int64) ([]PeriodSum, error)
}
