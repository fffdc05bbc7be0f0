package subscription

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/calendar"
)

func TestCachedRepository_GetMiss(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	next := new(MockRepository)

	sub := &Subscription{ID: 5, OwnerID: 1, Name: "Netflix", Price: decimal.NewFromInt(599), Period: calendar.Monthly}
	next.On("Get", mock.Anything, int64(5)).Return(sub, nil)

	rmock.ExpectGet("subscription:5").RedisNil()
	rmock.Regexp().ExpectSet("subscription:5", `.*`, defaultCacheTTL).SetVal("OK")

	repo := NewCachedRepository(next, rdb)
	got, err := repo.Get(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, "Netflix", got.Name)
	assert.NoError(t, rmock.ExpectationsWereMet())
	next.AssertExpectations(t)
}

func TestCachedRepository_GetHit(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	next := new(MockRepository)

	data, err := json.Marshal(&Subscription{ID: 5, OwnerID: 1, Name: "Netflix", Price: decimal.RequireFromString("599.90")})
	require.NoError(t, err)
	rmock.ExpectGet("subscription:5").SetVal(string(data))

	repo := NewCachedRepository(next, rdb)
	got, err := repo.Get(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, "Netflix", got.Name)
	assert.Equal(t, "599.9", got.Price.String())
	next.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestCachedRepository_CacheErrorFallsThrough(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	next := new(MockRepository)

	next.On("ListByOwnerAndStatus", mock.Anything, int64(1), StatusActive).Return([]*Subscription{{ID: 1}}, nil)
	rmock.ExpectGet("owner_subscriptions:1:active").SetErr(assert.AnError)
	rmock.Regexp().ExpectSet("owner_subscriptions:1:active", `.*`, defaultCacheTTL).SetErr(assert.AnError)

	repo := NewCachedRepository(next, rdb)
	subs, err := repo.ListByOwnerAndStatus(context.Background(), 1, StatusActive)

	require.NoError(t, err)
	assert.Len(t, subs, 1)
	next.AssertExpectations(t)
}

func TestCachedRepository_UpdateInvalidates(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	next := new(MockRepository)

	updates := []FieldUpdate{SetStatus{Status: StatusPaused}}
	next.On("Update", mock.Anything, int64(5), updates).Return(&Subscription{ID: 5, OwnerID: 1, Status: StatusPaused}, nil)

	rmock.ExpectDel("subscription:5").SetVal(1)
	rmock.ExpectDel("owner_subscriptions:1:active", "owner_subscriptions:1:paused", "owner_subscriptions:1:cancelled").SetVal(2)

	repo := NewCachedRepository(next, rdb)
	sub, err := repo.Update(context.Background(), 5, updates...)

	require.NoError(t, err)
	assert.Equal(t, StatusPaused, sub.Status)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestCachedRepository_DeleteInvalidates(t *testing.T) {
	rdb, rmock := redismock.NewClientMock()
	next := new(MockRepository)

	next.On("Get", mock.Anything, int64(5)).Return(&Subscription{ID: 5, OwnerID: 1}, nil)
	next.On("Delete", mock.Anything, int64(5)).Return(nil)

	rmock.ExpectGet("subscription:5").RedisNil()
	rmock.Regexp().ExpectSet("subscription:5", `.*`, defaultCacheTTL).SetVal("OK")
	rmock.ExpectDel("subscription:5").SetVal(1)
	rmock.ExpectDel("owner_subscriptions:1:active", "owner_subscriptions:1:paused", "owner_subscriptions:1:cancelled").SetVal(1)

	repo := NewCachedRepository(next, rdb)
	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.NoError(t, rmock.ExpectationsWereMet())
	next.AssertExpectations(t)
}

func TestCachedRepository_PassThroughQueries(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	next := new(MockRepository)

	next.On("ListDueForNotificationAtTime", mock.Anything, "09:00").Return([]*Subscription{{ID: 1}}, nil)
	next.On("SumActivePrice", mock.Anything, int64(1), ScopeTotal).Return(decimal.NewFromInt(10), nil)

	repo := NewCachedRepository(next, rdb)

	due, err := repo.ListDueForNotificationAtTime(context.Background(), "09:00")
	require.NoError(t, err)
	assert.Len(t, due, 1)

	total, err := repo.SumActivePrice(context.Background(), 1, ScopeTotal)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(10)))
}
