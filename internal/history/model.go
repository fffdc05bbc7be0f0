package history

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one recorded charge of a subscription. Rows are never updated.
type Payment struct {
	ID             int64           `db:"id" json:"id"`
	SubscriptionID int64           `db:"subscription_id" json:"subscription_id"`
	OwnerID        int64           `db:"owner_id" json:"owner_id"`
	PaymentDate    time.Time       `db:"payment_date" json:"payment_date"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
