// Package server boots the storefront process: configuration, database,
// Redis, the job queue, storage, the HTTP kernel, the optional gRPC health
// port and the keep-alive schedule, and shuts them down in reverse order.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/app/notifications"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/grpc"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/notification"
	"github.com/shashiranjanraj/storefront/pkg/queue"
	"github.com/shashiranjanraj/storefront/pkg/schedule"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

const shutdownTimeout = 15 * time.Second

// App holds the shared resources of a running process.
type App struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Queue    *queue.Manager
	Cache    *cache.Store
	Telegram *notification.TelegramClient

	closers []func()
}

// Boot loads configuration and opens every backing resource. Redis is
// optional: without REDIS_ADDR the cache is disabled and the queue stays in
// memory.
func Boot(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	notifications.Currency = config.CurrencySymbol()

	a := &App{}

	if uri := config.LogMongoURI(); uri != "" {
		closeLog, err := logger.AttachMongo(uri, "storefront")
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			a.closers = append(a.closers, closeLog)
		}
	}

	db, err := database.Connect()
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, func() {
		if err := database.Close(db); err != nil {
			logger.Warn("database close failed", "error", err)
		}
	})
	logger.Info("database connected", "driver", config.DatabaseDriver())

	if addr := config.RedisAddr(); addr != "" {
		rdb, err := cache.Connect(ctx, addr, config.RedisPassword())
		if err != nil {
			logger.Warn("redis unavailable, cache disabled", "addr", addr, "error", err)
		} else {
			a.Redis = rdb
			a.closers = append(a.closers, func() { _ = rdb.Close() })
		}
	}
	a.Cache = cache.New(a.Redis)

	retryDelay := config.QueueRetryDelay()
	a.Queue = queue.New(a.queueDriver(),
		queue.WithMaxAttempts(config.QueueMaxAttempts()),
		queue.WithBackoff(func(attempt int) time.Duration { return time.Duration(attempt) * retryDelay }),
	)
	a.Queue.UseDB(db)
	a.Telegram = notification.NewTelegramClient(config.TelegramAPIURL(), config.TelegramBotToken())
	jobs.Register(a.Queue, a.Telegram)

	return a, nil
}

func (a *App) queueDriver() queue.Driver {
	if config.QueueDriver() == "redis" {
		if a.Redis != nil {
			d := queue.NewRedisDriver(a.Redis)
			a.closers = append(a.closers, func() { _ = d.Close() })
			return d
		}
		logger.Warn("QUEUE_DRIVER=redis but redis is unavailable, using the in-memory queue")
	}
	d := queue.NewMemoryDriver()
	a.closers = append(a.closers, func() { _ = d.Close() })
	return d
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Prepare applies pending migrations and runs the seeders.
func (a *App) Prepare(ctx context.Context, out io.Writer) error {
	if err := migration.New(a.DB, out).Run(); err != nil {
		return err
	}
	return seeders.RunAll(ctx, a.DB, out)
}

// Kernel builds the HTTP kernel on the app's resources.
func (a *App) Kernel(ctx context.Context, hub *ws.Hub, limiter *middleware.RateLimiter) (*kernel.Kernel, error) {
	disks, err := storage.NewManager(ctx, storage.ConfigFromEnv())
	if err != nil {
		return nil, err
	}
	logger.Info("storage ready", "disk", disks.DefaultName())

	if !a.Telegram.Enabled() {
		logger.Info("telegram bot token not set, notifications disabled")
	}

	return kernel.New(kernel.Deps{
		DB:          a.DB,
		Queue:       a.Queue,
		Cache:       a.Cache,
		Hub:         hub,
		Storage:     disks,
		RateLimiter: limiter,
		Telegram: notifications.Config{
			Enabled:         a.Telegram.Enabled(),
			ChannelID:       config.TelegramChannelID(),
			OrdersChannelID: config.TelegramOrdersChannelID(),
		},
		Stagger:           config.NotifyStagger(),
		AdminAuthRequired: config.AdminAuthRequired(),
		CORSOrigins:       config.CORSAllowedOrigins(),
	})
}

// Serve runs the whole service until ctx is cancelled, then drains the
// HTTP server, workers and scheduler.
func Serve(ctx context.Context) error {
	a, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Prepare(ctx, os.Stdout); err != nil {
		return err
	}

	hub := ws.NewHub()
	limiter := middleware.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst())

	k, err := a.Kernel(ctx, hub, limiter)
	if err != nil {
		return err
	}

	// Background loops stop when runCtx is cancelled.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go hub.Run(runCtx)
	go limiter.Cleanup(runCtx, time.Minute)
	a.Queue.StartWorkers(runCtx, config.QueueWorkers())

	sched := schedule.New()
	keepAlive := jobs.NewKeepAlive(a.DB, config.AppPort())
	interval := time.Duration(config.KeepAliveInterval()) * time.Minute
	if interval > 0 {
		sched.Every(interval, "keep-alive", keepAlive.Run)
		sched.After(5*time.Second, "keep-alive:boot", keepAlive.Run)
	}
	sched.Start()
	for _, e := range sched.List() {
		logger.Info("schedule: next run", "task", e.Name, "at", e.Next)
	}

	var grpcSrv *grpc.Server
	errCh := make(chan error, 2)

	if port := config.GRPCPort(); port != "" {
		lis, err := grpc.Listen(port)
		if err != nil {
			return err
		}
		grpcSrv = grpc.New(func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
		go func() {
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		logger.Info("storefront listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-errCh:
		logger.Error("server failed", "error", err)
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("http shutdown", "error", shutdownErr)
	}
	grpcSrv.Stop()
	sched.Stop(shutdownCtx)
	cancel()
	a.Queue.Wait()

	logger.Info("storefront stopped")
	return err
}

// Work runs queue workers only, for deployments that deliver notifications
// from a separate process over the Redis queue.
func Work(ctx context.Context, workers int) error {
	a, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.Queue.Driver().(*queue.MemoryDriver); ok {
		logger.Warn("queue:work is using the in-memory driver; it will only see jobs it dispatches itself")
	}

	a.Queue.StartWorkers(ctx, workers)
	logger.Info("queue workers started", "workers", workers)

	<-ctx.Done()
	a.Queue.Wait()
	logger.Info("queue workers stopped")
	return nil
}
