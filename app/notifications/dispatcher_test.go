package notifications_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/notifications"
	"github.com/shashiranjanraj/storefront/pkg/notification"
	"github.com/shashiranjanraj/storefront/pkg/queue"
)

type queued struct {
	job   *jobs.TelegramJob
	delay time.Duration
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []queued
	err  error
}

func (q *fakeQueue) Dispatch(job queue.Job) error { return q.DispatchAfter(job, 0) }

func (q *fakeQueue) DispatchAfter(job queue.Job, delay time.Duration) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, queued{job: job.(*jobs.TelegramJob), delay: delay})
	return nil
}

type fakeFeed struct{ events []notification.FeedEvent }

func (f *fakeFeed) Publish(v any) { f.events = append(f.events, v.(notification.FeedEvent)) }

var cfg = notifications.Config{Enabled: true, ChannelID: "@shop", OrdersChannelID: "@orders"}

func TestNotifyQueuesTelegramAndPublishesFeed(t *testing.T) {
	q, feed := &fakeQueue{}, &fakeFeed{}
	d := notifications.NewDispatcher(q, feed, cfg)

	d.Notify(context.Background(), notifications.NewProductCard(models.Product{Name: "Widget", Price: 10}))

	require.Len(t, q.jobs, 1)
	assert.Equal(t, "@shop", q.jobs[0].job.Message.ChatID)
	assert.Contains(t, q.jobs[0].job.Message.Text, "Widget")
	assert.Zero(t, q.jobs[0].delay)

	require.Len(t, feed.events, 1)
	assert.Equal(t, notifications.EventProductCreated, feed.events[0].Type)
}

func TestOrdersRouteToOrdersChannel(t *testing.T) {
	q := &fakeQueue{}
	d := notifications.NewDispatcher(q, nil, cfg)

	d.Notify(context.Background(), notifications.OrderPlaced{Order: models.Order{ID: 1}})
	d.Notify(context.Background(), notifications.OrderStatusChanged{OrderID: 1, Status: models.StatusShipped})

	require.Len(t, q.jobs, 2)
	assert.Equal(t, "@orders", q.jobs[0].job.Message.ChatID)
	assert.Equal(t, "@shop", q.jobs[1].job.Message.ChatID)
}

func TestOrdersFallBackToMainChannel(t *testing.T) {
	q := &fakeQueue{}
	d := notifications.NewDispatcher(q, nil, notifications.Config{Enabled: true, ChannelID: "@shop"})

	d.Notify(context.Background(), notifications.OrderPlaced{Order: models.Order{ID: 1}})

	require.Len(t, q.jobs, 1)
	assert.Equal(t, "@shop", q.jobs[0].job.Message.ChatID)
}

func TestNotifyAfterDelaysTelegram(t *testing.T) {
	q, feed := &fakeQueue{}, &fakeFeed{}
	d := notifications.NewDispatcher(q, feed, cfg)

	d.NotifyAfter(context.Background(), notifications.CatalogCard(models.Product{Name: "A"}), 4*time.Second)

	require.Len(t, q.jobs, 1)
	assert.Equal(t, 4*time.Second, q.jobs[0].delay)
	assert.Len(t, feed.events, 1)
}

func TestDisabledTelegramSkipsQueue(t *testing.T) {
	q, feed := &fakeQueue{}, &fakeFeed{}
	d := notifications.NewDispatcher(q, feed, notifications.Config{ChannelID: "@shop"})

	d.Notify(context.Background(), notifications.ProductDeleted{ID: 1, Name: "A"})

	assert.Empty(t, q.jobs)
	assert.Len(t, feed.events, 1)
}

func TestQueueFailureIsSwallowed(t *testing.T) {
	q := &fakeQueue{err: errors.New("queue full")}
	d := notifications.NewDispatcher(q, nil, cfg)

	assert.NotPanics(t, func() {
		d.Notify(context.Background(), notifications.SettingsChanged{SiteEnabled: true})
	})
}
