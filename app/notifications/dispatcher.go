package notifications

import (
	"context"
	"time"

	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/notification"
	"github.com/shashiranjanraj/storefront/pkg/queue"
)

// Enqueuer is the part of *queue.Manager the dispatcher needs.
type Enqueuer interface {
	Dispatch(job queue.Job) error
	DispatchAfter(job queue.Job, delay time.Duration) error
}

// Publisher fans feed events out to live dashboards; *ws.Hub satisfies it.
type Publisher interface {
	Publish(v any)
}

// Config selects the Telegram destinations.
type Config struct {
	// Enabled is false when no bot token is configured.
	Enabled         bool
	ChannelID       string
	OrdersChannelID string
}

// routedToOrders marks notifications that prefer the orders channel.
type routedToOrders interface {
	ordersChannel()
}

// Dispatcher formats notifications in the caller's goroutine and hands
// delivery to the queue. It never returns an error: delivery is best
// effort and must not affect the request that triggered it.
type Dispatcher struct {
	queue Enqueuer
	feed  Publisher
	cfg   Config
}

// NewDispatcher creates a Dispatcher. feed may be nil.
func NewDispatcher(q Enqueuer, feed Publisher, cfg Config) *Dispatcher {
	return &Dispatcher{queue: q, feed: feed, cfg: cfg}
}

// Notify delivers n on every channel it supports.
func (d *Dispatcher) Notify(ctx context.Context, n notification.Notification) {
	d.NotifyAfter(ctx, n, 0)
}

// NotifyAfter is Notify with the Telegram delivery held back by delay.
// Feed events are published immediately.
func (d *Dispatcher) NotifyAfter(ctx context.Context, n notification.Notification, delay time.Duration) {
	for _, via := range n.Via() {
		switch via {
		case notification.Telegram:
			if t, ok := n.(notification.Telegrammable); ok {
				d.telegram(ctx, n, t.ToTelegram(), delay)
			}
		case notification.Feed:
			if f, ok := n.(notification.Feedable); ok && d.feed != nil {
				d.feed.Publish(f.ToFeed())
			}
		}
	}
}

func (d *Dispatcher) telegram(ctx context.Context, n notification.Notification, msg notification.TelegramData, delay time.Duration) {
	log := logger.WithCtx(ctx)

	if !d.cfg.Enabled {
		metrics.RecordNotification(notification.Telegram, "skipped")
		log.Debug("telegram disabled, notification skipped")
		return
	}

	if msg.ChatID == "" {
		msg.ChatID = d.chatFor(n)
	}

	job := jobs.NewTelegramJob(msg)
	var err error
	if delay > 0 {
		err = d.queue.DispatchAfter(job, delay)
	} else {
		err = d.queue.Dispatch(job)
	}
	if err != nil {
		metrics.RecordNotification(notification.Telegram, "failed")
		log.Error("telegram notification not queued", "error", err)
		return
	}
	metrics.RecordNotification(notification.Telegram, "queued")
}

func (d *Dispatcher) chatFor(n notification.Notification) string {
	if _, ok := n.(routedToOrders); ok && d.cfg.OrdersChannelID != "" {
		return d.cfg.OrdersChannelID
	}
	return d.cfg.ChannelID
}
