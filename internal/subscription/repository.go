package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
)

const columns = `id, owner_id, name, price, comment, start_date, period, status,
		notifications_enabled, notification_time, created_at, updated_at`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, sub *Subscription) (*Subscription, error) {
	const op = "subscription.repository.Create"

	notificationTime := sub.NotificationTime
	if notificationTime == "" {
		notificationTime = DefaultNotificationTime
	}

	created := &Subscription{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (owner_id, name, price, comment, start_date, period, status, notifications_enabled, notification_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+columns,
		sub.OwnerID, sub.Name, sub.Price, sub.Comment, calendar.Date(sub.StartDate),
		string(sub.Period), string(sub.Status), sub.NotificationsEnabled, notificationTime,
	).StructScan(created)
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	return created, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Subscription, error) {
	const op = "subscription.repository.Get"

	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `SELECT `+columns+` FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: op, Err: err}
	}

	return sub, nil
}

func (r *PostgresRepository) ListByOwnerAndStatus(ctx context.Context, ownerID int64, status Status) ([]*Subscription, error) {
	const op = "subscription.repository.ListByOwnerAndStatus"

	subs := []*Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+columns+`
		FROM subscriptions
		WHERE owner_id = $1 AND status = $2
		ORDER BY created_at DESC, id DESC
	`, ownerID, string(status))
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	return subs, nil
}

// Update applies all updates in one statement and returns the stored row.
func (r *PostgresRepository) Update(ctx context.Context, id int64, updates ...FieldUpdate) (*Subscription, error) {
	const op = "subscription.repository.Update"

	if len(updates) == 0 {
		return r.Get(ctx, id)
	}

	sets := make([]string, 0, len(updates)+1)
	args := make([]any, 0, len(updates)+1)
	for _, u := range updates {
		col, val, err := assignment(u)
		if err != nil {
			return nil, &ValidationError{Field: string(u.Field()), Msg: err.Error()}
		}
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE subscriptions SET %s WHERE id = $%d RETURNING `+columns,
		strings.Join(sets, ", "), len(args))

	sub := &Subscription{}
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(sub); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: op, Err: err}
	}

	return sub, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	const op = "subscription.repository.Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// ListDueForNotificationAtTime returns active subscriptions with notifications
// enabled whose notification time equals hhmm.
func (r *PostgresRepository) ListDueForNotificationAtTime(ctx context.Context, hhmm string) ([]*Subscription, error) {
	const op = "subscription.repository.ListDueForNotificationAtTime"

	subs := []*Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+columns+`
		FROM subscriptions
		WHERE status = 'active'
		  AND notifications_enabled = TRUE
		  AND notification_time = $1
		ORDER BY owner_id, id
	`, hhmm)
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	return subs, nil
}

// SumActivePrice sums prices of active subscriptions with the given period,
// or of all active subscriptions when scope is ScopeTotal.
func (r *PostgresRepository) SumActivePrice(ctx context.Context, ownerID int64, scope string) (decimal.Decimal, error) {
	const op = "subscription.repository.SumActivePrice"

	var (
		total decimal.Decimal
		err   error
	)
	if scope == ScopeTotal {
		err = r.db.GetContext(ctx, &total, `
			SELECT COALESCE(SUM(price), 0)
			FROM subscriptions
			WHERE owner_id = $1 AND status = 'active'
		`, ownerID)
	} else {
		err = r.db.GetContext(ctx, &total, `
			SELECT COALESCE(SUM(price), 0)
			FROM subscriptions
			WHERE owner_id = $1 AND status = 'active' AND period = $2
		`, ownerID, scope)
	}
	if err != nil {
		return decimal.Zero, &PersistenceError{Op: op, Err: err}
	}

	return total, nil
}

func (r *PostgresRepository) SumByPeriodGroupedForOwner(ctx context.Context, ownerID int64) ([]PeriodSum, error) {
	const op = "subscription.repository.SumByPeriodGroupedForOwner"

	sums := []PeriodSum{}
	err := r.db.SelectContext(ctx, &sums, `
		SELECT period, COALESCE(SUM(price), 0) AS total
		FROM subscriptions
		WHERE owner_id = $1 AND status = 'active'
		GROUP BY period
		ORDER BY period
	`, ownerID)
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	return sums, nil
}
