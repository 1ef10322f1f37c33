package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"psp-webhook/internal/admin"
	"psp-webhook/internal/config"
	"psp-webhook/internal/db"
	"psp-webhook/internal/logger"
	"psp-webhook/internal/metrics"
	"psp-webhook/internal/middleware"
	"psp-webhook/internal/order"
	"psp-webhook/internal/payment"
	"psp-webhook/internal/payment/buckaroo"
	"psp-webhook/internal/payment/webhook"
	"psp-webhook/internal/settings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc = func(cfg *config.Config) (*sql.DB, db.Dialect, error) {
		return db.NewDatabase(cfg)
	}
	startServerFunc = func(ctx context.Context, srv *http.Server) error {
		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	}
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	conn, dialect, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := newServer(ctx, cfg, conn, dialect, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.L().Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
	if err := startServerFunc(ctx, srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type routes struct {
	webhook     http.HandlerFunc
	paymentLogs http.HandlerFunc
	adminAuth   func(http.Handler) http.Handler
	metrics     http.Handler
}

// newServer wires repositories, services and middleware into the root handler.
// The rate limiter's cleanup loop runs until ctx is done.
func newServer(ctx context.Context, cfg *config.Config, conn *sql.DB, dialect db.Dialect, reg *prometheus.Registry) (http.Handler, error) {
	cipher, err := settings.NewCipher(cfg.SettingsEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("settings cipher: %w", err)
	}

	m := metrics.NewMetrics(reg)

	paymentRepo := payment.NewRepository(conn, dialect)
	settingsStore := settings.NewStore(
		settings.NewRepository(conn, dialect),
		cipher,
		cfg.UseTestEnvironment(),
		cfg.BuckarooWebhookURL,
	)
	orderSvc := order.NewService(order.NewRepository(conn, dialect))
	buckarooSvc := buckaroo.NewService(paymentRepo, buckaroo.NewHMACPushAuthenticator(), m)

	webhookHandler := webhook.NewWebhookHandler(settingsStore, buckarooSvc, orderSvc, cfg.BuckarooProviderID)
	adminHandler := admin.NewHandler(paymentRepo)

	router := setupRouter(routes{
		webhook:     webhookHandler.BuckarooWebhookHandler,
		paymentLogs: adminHandler.ListPaymentLogs,
		adminAuth:   middleware.AdminAuth(cfg.AdminJWTSecret),
		metrics:     metrics.Handler(reg),
	})

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	go limiter.Run(ctx)

	var h http.Handler = router
	h = limiter.Middleware(h)
	h = m.Wrap(h)
	h = middleware.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h, nil
}

func setupRouter(r routes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/webhook/buckaroo", r.webhook)
	mux.Handle("/admin/payment-logs", r.adminAuth(r.paymentLogs))
	if r.metrics != nil {
		mux.Handle("GET /metrics", r.metrics)
	}

	return mux
}
