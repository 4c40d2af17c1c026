package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/notification"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

type sent struct {
	n     notification.Notification
	delay time.Duration
}

type recorder struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recorder) Notify(ctx context.Context, n notification.Notification) {
	r.NotifyAfter(ctx, n, 0)
}

func (r *recorder) NotifyAfter(_ context.Context, n notification.Notification, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{n: n, delay: delay})
}

func (r *recorder) all() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.sent...)
}

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testkit.DB(t, migration.Registered())
}

func ptr[T any](v T) *T { return &v }
