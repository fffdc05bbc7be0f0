package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/develop-mdv/subscriptions-tg-bot/internal/logger"
	"github.com/develop-mdv/subscriptions-tg-bot/internal/metrics"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"

	maxTries    = 3
	pollTimeout = 2 * time.Second

	gaugeInterval = 15 * time.Second
)

type Job struct {
	ID      string    `json:"id"`
	OwnerID int64     `json:"owner_id"`
	Kind    Kind      `json:"kind"`
	Text    string    `json:"text"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues notifications in Redis and delivers them from a single worker.
type Service struct {
	redis      *redis.Client
	sender     Sender
	retryDelay func(tries int) time.Duration

	gaugeRefreshed time.Time
}

func New(client *redis.Client, sender Sender) *Service {
	return &Service{
		redis:      client,
		sender:     sender,
		retryDelay: backoffDelay,
	}
}

// backoffDelay is 2s, 4s, 8s... for the first, second, third failed attempt.
func backoffDelay(tries int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = time.Minute
	b.MaxElapsedTime = 0
	b.Reset()

	d := b.InitialInterval
	for i := 0; i < tries; i++ {
		d = b.NextBackOff()
	}
	return d
}

// Send queues a plain message. Delivery is best effort.
func (s *Service) Send(ctx context.Context, ownerID int64, text string) error {
	return s.Enqueue(ctx, ownerID, KindMessage, text)
}

func (s *Service) Enqueue(ctx context.Context, ownerID int64, kind Kind, text string) error {
	job := Job{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Kind:    kind,
		Text:    text,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue %s for %d: %v", kind, ownerID, err)
		metrics.RecordNotification(string(kind), "enqueue_failed")
		return err
	}

	metrics.RecordNotification(string(kind), "queued")
	logger.Debug("Notification queued", "kind", kind, "owner_id", ownerID, "job_id", job.ID)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.refreshGauge(ctx, time.Now())
			s.processNext(ctx)
		}
	}
}

// refreshGauge samples the queue length at most once per gaugeInterval.
func (s *Service) refreshGauge(ctx context.Context, now time.Time) {
	if now.Sub(s.gaugeRefreshed) < gaugeInterval {
		return
	}
	s.gaugeRefreshed = now
	s.QueueLength(ctx)
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, pollTimeout, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Warn("Notification queue poll failed", "error", err)
			sleep(ctx, pollTimeout)
		}
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	if err := s.sender.Send(ctx, job.OwnerID, job.Text); err != nil {
		s.handleFailure(ctx, job, err)
		return
	}

	metrics.RecordNotification(string(job.Kind), "sent")
	logger.Info("Notification sent", "kind", job.Kind, "owner_id", job.OwnerID, "attempt", job.Tries)
}

func (s *Service) handleFailure(ctx context.Context, job Job, err error) {
	logger.Warn("Failed to deliver notification", "kind", job.Kind, "owner_id", job.OwnerID, "attempt", job.Tries, "error", err)

	var derr *DeliveryError
	permanent := errors.As(err, &derr) && derr.Permanent

	if permanent || job.Tries >= maxTries {
		s.saveFailed(ctx, job, err)
		return
	}

	if !sleep(ctx, s.retryDelay(job.Tries)) {
		return
	}
	data, _ := json.Marshal(job)
	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to requeue notification %s: %v", job.ID, err)
		return
	}
	metrics.RecordNotification(string(job.Kind), "retried")
}

func (s *Service) saveFailed(ctx context.Context, job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if perr := s.redis.LPush(context.WithoutCancel(ctx), failedQueueKey, data).Err(); perr != nil {
		logger.Errorf("Failed to store failed notification %s: %v", job.ID, perr)
	}
	metrics.RecordNotification(string(job.Kind), "failed")
	logger.Error("Notification moved to failed queue", "job_id", job.ID, "owner_id", job.OwnerID)
}

// QueueLength reports pending jobs and refreshes the queue gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
