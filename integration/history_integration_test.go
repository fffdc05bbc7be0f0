package integration_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/history"
)

func TestHistoryRepository_Integration(t *testing.T) {
	database := setupTestDB(t)
	repo := history.NewRepository(database)
	ctx := context.Background()

	june := history.Payment{SubscriptionID: 1, OwnerID: ownerA, PaymentDate: date("2024-06-01"), Amount: decimal.NewFromInt(599)}
	july := history.Payment{SubscriptionID: 1, OwnerID: ownerA, PaymentDate: date("2024-07-01"), Amount: decimal.NewFromInt(599)}
	other := history.Payment{SubscriptionID: 2, OwnerID: ownerB, PaymentDate: date("2024-07-01"), Amount: decimal.NewFromInt(299)}

	n, err := repo.Record(ctx, june, july, other)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// A second scheduler pass on the same day records nothing new.
	n, err = repo.Record(ctx, july)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	total, err := repo.TotalPaid(ctx, ownerA)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1198)), total.String())

	none, err := repo.TotalPaid(ctx, 9999)
	require.NoError(t, err)
	assert.True(t, none.IsZero())

	payments, err := repo.ListByOwner(ctx, ownerA, 1, 0)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].PaymentDate.Equal(date("2024-07-01")))

	payments, err = repo.ListByOwner(ctx, ownerA, 10, 1)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].PaymentDate.Equal(date("2024-06-01")))
}
