package history

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
)

const defaultListLimit = 50

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Record appends payments in one transaction and returns how many rows were new.
// A payment already stored for the same subscription and date is skipped.
func (r *PostgresRepository) Record(ctx context.Context, payments ...Payment) (int, error) {
	const op = "history.repository.Record"

	if len(payments) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, p := range payments {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO payment_history (subscription_id, owner_id, payment_date, amount)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (subscription_id, payment_date) DO NOTHING`,
			p.SubscriptionID, p.OwnerID, calendar.Date(p.PaymentDate), p.Amount,
		)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return inserted, nil
}

func (r *PostgresRepository) TotalPaid(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	const op = "history.repository.TotalPaid"

	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(amount), 0) FROM payment_history WHERE owner_id = $1`, ownerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]Payment, error) {
	const op = "history.repository.ListByOwner"

	if limit <= 0 {
		limit = defaultListLimit
	}

	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT id, subscription_id, owner_id, payment_date, amount, created_at
		FROM payment_history
		WHERE owner_id = $1
		ORDER BY payment_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}
