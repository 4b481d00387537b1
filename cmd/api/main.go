package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/nextcart/storefront/internal/checkout/adapters"
	httpadapter "github.com/nextcart/storefront/internal/checkout/adapters/http"
	"github.com/nextcart/storefront/internal/checkout/adapters/payment"
	checkoutpostgres "github.com/nextcart/storefront/internal/checkout/adapters/postgres"
	"github.com/nextcart/storefront/internal/checkout/app"
	"github.com/nextcart/storefront/internal/checkout/metrics"
	"github.com/nextcart/storefront/internal/checkout/ports"
	"github.com/nextcart/storefront/internal/config"
	"github.com/nextcart/storefront/internal/database"
	idempostgres "github.com/nextcart/storefront/internal/idempotency/postgres"
	"github.com/nextcart/storefront/internal/mail"
	"github.com/nextcart/storefront/internal/telemetry"
)

const meterName = "github.com/nextcart/storefront"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := telemetry.NewLogger(cfg.Telemetry.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("creating database pool: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("migrations completed")
	}

	meter := otel.Meter(meterName)

	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("creating database metrics: %w", err)
	}
	checkoutMetrics, err := metrics.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("creating checkout metrics: %w", err)
	}
	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("creating http metrics: %w", err)
	}
	mailMetrics, err := mail.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("creating mail metrics: %w", err)
	}

	orders := adapters.NewObservableRepository(checkoutpostgres.NewRepository(pool), dbMetrics)
	addresses := checkoutpostgres.NewAddressStore(pool)
	catalog := adapters.NewObservableCatalog(checkoutpostgres.NewCatalog(pool), dbMetrics, checkoutMetrics)
	gateway := payment.NewSimulator()
	notifier := adapters.NewObservableNotifier(buildNotifier(cfg.Mail, logger), mailMetrics)
	idemStore := idempostgres.NewStore(pool)

	service := app.NewService(
		orders,
		addresses,
		catalog,
		gateway,
		notifier,
		idemStore,
		logger,
		checkoutMetrics,
		time.Duration(cfg.Checkout.WorkflowTimeoutSeconds)*time.Second,
	)

	ordersHandler := httpadapter.NewHandler(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.CheckHealth(r.Context(), pool); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	ordersHandler.Register(mux)

	handler := withRecovery(withLogging(httpadapter.WithMetrics(mux, httpMetrics)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}

func buildNotifier(cfg config.MailConfig, logger *slog.Logger) ports.Notifier {
	if !cfg.Enabled {
		logger.Info("mail delivery disabled, using noop notifier")
		return mail.NewNoopNotifier()
	}
	return mail.NewSMTPNotifier(mail.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		slog.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start),
		)
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "panic recovered", "error", rec)
				respondJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
