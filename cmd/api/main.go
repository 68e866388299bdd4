package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/margaritastailoring/booking-platform/cmd/mainconfig"
	"github.com/margaritastailoring/booking-platform/internal/api/router"
	"github.com/margaritastailoring/booking-platform/internal/booking"
	"github.com/margaritastailoring/booking-platform/internal/calendar"
	appconfig "github.com/margaritastailoring/booking-platform/internal/config"
	"github.com/margaritastailoring/booking-platform/internal/draftstore"
	"github.com/margaritastailoring/booking-platform/internal/notify"
	"github.com/margaritastailoring/booking-platform/internal/observability/metrics"
	"github.com/margaritastailoring/booking-platform/pkg/logging"
)

func main() {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	store := buildStore(cfg, logger)
	sender := buildSender(context.Background(), cfg, logger)
	notifier := notify.NewNotifier(sender, notify.NotifierConfig{
		ConfirmationTemplateID: cfg.ConfirmationTemplateID,
		BusinessTemplateID:     cfg.BusinessTemplateID,
		BusinessName:           cfg.BusinessName,
		BusinessEmail:          cfg.BusinessEmail,
		BusinessPhone:          cfg.BusinessPhone,
		BusinessAddress:        cfg.BusinessAddress,
	}, logger)

	integrator := calendar.NewIntegrator(calendar.Config{
		ClientID:        cfg.GoogleClientID,
		ClientSecret:    cfg.GoogleClientSecret,
		RefreshToken:    cfg.GoogleRefreshToken,
		CalendarID:      cfg.GoogleCalendarID,
		InitTimeout:     cfg.CalendarInitTimeout,
		EventTimeout:    cfg.CalendarEventTimeout,
		BusinessName:    cfg.BusinessName,
		BusinessPhone:   cfg.BusinessPhone,
		BusinessAddress: cfg.BusinessAddress,
		Timezone:        cfg.Timezone,
	}, logger)
	// Warm up the calendar client off the request path; failure just means
	// fallback links until restart.
	go integrator.Initialize(context.Background())

	metricsHandler, bookingMetrics := setupBookingMetrics()

	orch := booking.NewOrchestrator(store, notifier, integrator, booking.OrchestratorConfig{
		WindowDays: cfg.BookingWindowDays,
	}, bookingMetrics, logger)
	bookingHandler := booking.NewHandler(orch, store, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     bookingHandler,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildStore connects the Redis draft store, degrading to in-memory storage
// when Redis is unreachable at boot.
func buildStore(cfg *appconfig.Config, logger *logging.Logger) draftstore.Store {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-memory draft store", "addr", cfg.RedisAddr, "error", err)
		return draftstore.NewMemoryStore()
	}

	logger.Info("draft store connected", "addr", cfg.RedisAddr)
	return draftstore.NewRedisStore(client)
}

// buildSender picks the email provider from configuration.
func buildSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.TemplateSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("sendgrid selected but not configured, emails disabled")
			return nil
		}
		return sender
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config, emails disabled", "error", err)
			return nil
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	default:
		logger.Info("using stub email sender", "provider", cfg.EmailProvider)
		return notify.NewStubSender(logger)
	}
}

// setupBookingMetrics wires a dedicated registry so tests and the runtime
// share the same construction path.
func setupBookingMetrics() (http.Handler, *metrics.BookingMetrics) {
	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), bookingMetrics
}
