// Package jobs contains the storefront's background work: queued Telegram
// deliveries and the scheduled keep-alive.
package jobs

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/notification"
	"github.com/shashiranjanraj/storefront/pkg/queue"
)

// Sender delivers one Telegram message.
type Sender interface {
	Send(ctx context.Context, d notification.TelegramData) error
}

// TelegramJob delivers a formatted message. Only Message travels through
// the queue; the sender is attached when the worker decodes the job.
type TelegramJob struct {
	Message notification.TelegramData `json:"message"`

	sender Sender
}

// NewTelegramJob wraps a message for dispatch.
func NewTelegramJob(msg notification.TelegramData) *TelegramJob {
	return &TelegramJob{Message: msg}
}

func (j *TelegramJob) Handle(ctx context.Context) error {
	if j.sender == nil {
		return errors.New("jobs: telegram job has no sender")
	}
	if err := j.sender.Send(ctx, j.Message); err != nil {
		metrics.RecordNotification(notification.Telegram, "failed")
		logger.WithCtx(ctx).Warn("telegram delivery failed", "chat_id", j.Message.ChatID, "error", err)
		return err
	}
	metrics.RecordNotification(notification.Telegram, "sent")
	return nil
}

// Register makes the queue able to run TelegramJob with sender.
func Register(q *queue.Manager, sender Sender) {
	q.Register(func() queue.Job { return &TelegramJob{sender: sender} })
}
