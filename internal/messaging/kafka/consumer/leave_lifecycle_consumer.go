package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-elms/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// LeaveEventHandler turns a lifecycle event into side effects. It must be
// safe to call twice with the same event.
type LeaveEventHandler interface {
	FromLeaveEvent(ctx context.Context, e events.LeaveEvent) (int, error)
}

const (
	defaultRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 30 * time.Second
)

// ConsumeLeaveLifecycle handles messages one at a time. Offsets are committed
// in order, so a message whose handler fails is retried with exponential
// backoff, starting at retryDelay, until it succeeds or ctx ends. Moving on
// would let the next commit skip past it.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader MessageReader,
	handler LeaveEventHandler,
	logger *zap.Logger,
	retryDelay time.Duration,
) {
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		if !handleWithRetry(ctx, msg, handler, log, retryDelay) {
			log.Info("leave lifecycle consumer stopped")
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
		}
	}
}

// handleWithRetry returns false only when ctx ended before msg was handled.
func handleWithRetry(ctx context.Context, msg kafkago.Message, handler LeaveEventHandler, log *zap.Logger, delay time.Duration) bool {
	for attempt := 1; ; attempt++ {
		if HandleLeaveMessage(ctx, msg, handler, log) {
			return true
		}
		log.Warn("retrying leave event",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// HandleLeaveMessage reports whether msg is done with and can be committed.
// Undecodable payloads are committed so they do not block the partition.
func HandleLeaveMessage(ctx context.Context, msg kafkago.Message, handler LeaveEventHandler, log *zap.Logger) bool {
	var event events.LeaveEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode leave event failed",
			zap.Int64("offset", msg.Offset),
			zap.Int("partition", msg.Partition),
			zap.Error(err),
		)
		return true
	}

	created, err := handler.FromLeaveEvent(ctx, event)
	if err != nil {
		log.Error("handle leave event failed",
			zap.String("event_id", event.EventID.String()),
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.RequestID.String()),
			zap.Error(err),
		)
		return false
	}

	log.Info("leave event handled",
		zap.String("event_id", event.EventID.String()),
		zap.String("event_type", event.EventType),
		zap.Int("notifications", created),
	)
	return true
}
