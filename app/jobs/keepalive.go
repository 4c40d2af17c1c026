package jobs

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/http"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// KeepAlive touches the store and the service's own ping route so free
// hosting tiers see activity. It never fails; problems are logged.
type KeepAlive struct {
	DB      *gorm.DB
	PingURL string
}

// NewKeepAlive targets the ping route on the local port.
func NewKeepAlive(db *gorm.DB, port string) *KeepAlive {
	return &KeepAlive{DB: db, PingURL: fmt.Sprintf("http://localhost:%s/api/ping", port)}
}

// Run performs one round. It matches schedule.Task.
func (k *KeepAlive) Run(ctx context.Context) {
	var count int64
	if err := k.DB.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		logger.Error("keep-alive: count products failed", "error", err)
		return
	}
	logger.Info("keep-alive: store reachable", "products", count)

	resp, err := http.Get(k.PingURL).
		Header("User-Agent", "storefront-keepalive").
		Retry(2, 500*time.Millisecond).
		Timeout(10 * time.Second).
		WithContext(ctx).
		Send()
	if err == nil {
		err = resp.Throw()
	}
	if err != nil {
		logger.Warn("keep-alive: ping failed", "url", k.PingURL, "error", err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := resp.JSON(&body); err != nil {
		logger.Warn("keep-alive: unexpected ping response", "error", err)
		return
	}
	logger.Info("keep-alive: ping ok", "status", body.Status)
}
