package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/princekumarofficial/tubely-service/internal/config"
	"github.com/princekumarofficial/tubely-service/internal/staging"
)

// Standalone sweeper for deployments that set sweeper.in_process to false.
func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	sweeper := staging.NewSweeper(cfg.StagingDir(), cfg.Sweeper.Interval, cfg.Sweeper.MaxAge, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var server *http.Server
	if cfg.Sweeper.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.Handler())
		server = &http.Server{
			Addr:              cfg.Sweeper.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", slog.String("error", err.Error()))
			}
		}()
		logger.Info("Serving metrics", slog.String("address", cfg.Sweeper.MetricsAddress))
	}

	sweeper.Start(ctx)

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}

	logger.Info("Staging sweeper stopped")
}
