package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_GetMissing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("session:42").RedisNil()

	_, err := NewRedisStore(db).Get(context.Background(), 42)

	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()

	stored := NewEdit(42, 7)
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	mock.ExpectGet("session:42").SetVal(string(data))

	s, err := NewRedisStore(db).Get(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, FlowEdit, s.Flow)
	assert.Equal(t, AwaitingFieldSelection, s.State)
	assert.Equal(t, int64(7), s.SubscriptionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("session:42").SetErr(errors.New("conn refused"))

	_, err := NewRedisStore(db).Get(context.Background(), 42)

	assert.ErrorContains(t, err, "conn refused")
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectSet("session:42", `.*`, sessionTTL).SetVal("OK")

	err := NewRedisStore(db).Save(context.Background(), NewIntake(42))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectDel("session:42").SetVal(1)

	assert.NoError(t, NewRedisStore(db).Delete(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
