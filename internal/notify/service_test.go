package notify

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/metrics"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, _ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func newTestService(rdb *redis.Client, sender Sender) *Service {
	s := New(rdb, sender)
	s.retryDelay = func(int) time.Duration { return 0 }
	return s
}

func jobJSON(t *testing.T, job Job) string {
	data, err := json.Marshal(job)
	require.NoError(t, err)
	return string(data)
}

func TestEnqueue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db, &fakeSender{})

	err := svc.Enqueue(context.Background(), 100, KindPaymentReminder, "hello")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetErr(assert.AnError)

	svc := newTestService(db, &fakeSender{})

	err := svc.Send(context.Background(), 100, "hello")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_Delivers(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sender := &fakeSender{}

	mock.ExpectBRPop(pollTimeout, queueKey).
		SetVal([]string{queueKey, jobJSON(t, Job{ID: "1", OwnerID: 100, Kind: KindDailySummary, Text: "summary"})})

	svc := newTestService(db, sender)
	svc.processNext(context.Background())

	assert.Equal(t, []string{"summary"}, sender.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_RequeuesOnTransientFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sender := &fakeSender{err: &DeliveryError{OwnerID: 100, Err: errors.New("timeout")}}

	mock.ExpectBRPop(pollTimeout, queueKey).
		SetVal([]string{queueKey, jobJSON(t, Job{ID: "1", OwnerID: 100, Kind: KindPaymentReminder, Text: "x"})})
	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db, sender)
	svc.processNext(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_GivesUpAfterMaxTries(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sender := &fakeSender{err: errors.New("timeout")}

	mock.ExpectBRPop(pollTimeout, queueKey).
		SetVal([]string{queueKey, jobJSON(t, Job{ID: "1", OwnerID: 100, Kind: KindPaymentReminder, Text: "x", Tries: maxTries - 1})})
	mock.Regexp().ExpectLPush(failedQueueKey, `.*`).SetVal(1)

	svc := newTestService(db, sender)
	svc.processNext(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_PermanentFailureNotRetried(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sender := &fakeSender{err: &DeliveryError{OwnerID: 100, Permanent: true, Err: errors.New("bot was blocked by the user")}}

	mock.ExpectBRPop(pollTimeout, queueKey).
		SetVal([]string{queueKey, jobJSON(t, Job{ID: "1", OwnerID: 100, Kind: KindPaymentDueToday, Text: "x"})})
	mock.Regexp().ExpectLPush(failedQueueKey, `.*`).SetVal(1)

	svc := newTestService(db, sender)
	svc.processNext(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNext_EmptyQueue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	sender := &fakeSender{}

	mock.ExpectBRPop(pollTimeout, queueKey).RedisNil()

	svc := newTestService(db, sender)
	svc.processNext(context.Background())

	assert.Empty(t, sender.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen(queueKey).SetVal(5)

	svc := newTestService(db, &fakeSender{})

	assert.Equal(t, int64(5), svc.QueueLength(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshGauge_Throttled(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen(queueKey).SetVal(7)
	mock.ExpectLLen(queueKey).SetVal(2)

	svc := newTestService(db, &fakeSender{})
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	svc.refreshGauge(context.Background(), now)
	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.NotificationQueueLength))

	svc.refreshGauge(context.Background(), now.Add(5*time.Second))
	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.NotificationQueueLength))

	svc.refreshGauge(context.Background(), now.Add(gaugeInterval))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.NotificationQueueLength))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStart_StopsOnCancel(t *testing.T) {
	db, _ := redismock.NewClientMock()
	svc := newTestService(db, &fakeSender{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		svc.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestBackoffDelay(t *testing.T) {
	assert.Equal(t, 2*time.Second, backoffDelay(1))
	assert.Equal(t, 4*time.Second, backoffDelay(2))
	assert.Equal(t, 8*time.Second, backoffDelay(3))
}
