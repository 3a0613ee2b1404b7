package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/princekumarofficial/tubely-service/docs"
	"github.com/princekumarofficial/tubely-service/internal/assets"
	"github.com/princekumarofficial/tubely-service/internal/config"
	"github.com/princekumarofficial/tubely-service/internal/events"
	"github.com/princekumarofficial/tubely-service/internal/http/handlers/videos"
	wsHandler "github.com/princekumarofficial/tubely-service/internal/http/handlers/websocket"
	"github.com/princekumarofficial/tubely-service/internal/http/middleware"
	"github.com/princekumarofficial/tubely-service/internal/media"
	"github.com/princekumarofficial/tubely-service/internal/ratelimit"
	"github.com/princekumarofficial/tubely-service/internal/staging"
	"github.com/princekumarofficial/tubely-service/internal/storage"
	"github.com/princekumarofficial/tubely-service/internal/storage/postgres"
	"github.com/princekumarofficial/tubely-service/internal/storage/sqlite"
	"github.com/princekumarofficial/tubely-service/internal/websocket"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Tubely API
// @version 1.0
// @description Upload backend for Tubely: thumbnails, fast-start MP4 videos and their metadata.
// @host localhost:8091
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.MustLoad()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer store.Close()
	slog.Info("Connected to database", slog.String("driver", cfg.Database.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, err := openSink(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize asset sink: ", err)
	}
	slog.Info("Asset sink ready", slog.String("sink", cfg.Assets.Sink))

	if err := os.MkdirAll(cfg.StagingDir(), 0755); err != nil {
		log.Fatal("Failed to create staging directory: ", err)
	}

	if cfg.Sweeper.InProcess {
		sweeper := staging.NewSweeper(cfg.StagingDir(), cfg.Sweeper.Interval, cfg.Sweeper.MaxAge, slog.Default())
		go sweeper.Start(ctx)
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	handlers := videos.NewHandlers(
		store,
		sink,
		media.NewFFProbe(cfg.Media.FFprobePath, cfg.Media.Timeout),
		media.NewFFmpeg(cfg.Media.FFmpegPath, cfg.Media.Timeout),
		events.NewEventPublisher(hub),
		cfg.StagingDir(),
		videos.DefaultLimits,
	)

	limits, closeLimits := rateLimits(ctx, cfg)
	defer closeLimits()

	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	router.Handle("POST /api/videos/{videoId}/thumbnail",
		auth(limits.RateLimitMiddleware(middleware.ActionThumbnailUpload)(handlers.UploadThumbnail())))
	router.Handle("POST /api/videos/{videoId}/upload",
		auth(limits.RateLimitMiddleware(middleware.ActionVideoUpload)(handlers.UploadVideo())))
	router.Handle("GET /api/videos/{videoId}", auth(handlers.GetVideo()))

	switch s := sink.(type) {
	case *assets.Memory:
		router.HandleFunc("GET /api/thumbnails/{videoId}", handlers.GetThumbnail())
		router.HandleFunc("GET /api/videos/{videoId}/content", handlers.GetVideoContent())
	case *assets.FS:
		router.Handle("GET /assets/", http.StripPrefix("/assets", hideDotFiles(http.FileServer(http.Dir(s.Root())))))
	}

	router.HandleFunc("GET /ws", wsHandler.WebSocketHandler(hub, cfg.JWTSecret))
	router.Handle("GET /metrics", promhttp.Handler())

	docs.SwaggerInfo.Host = cfg.HTTPServer.Address
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	server := http.Server{
		Addr:              cfg.HTTPServer.Address,
		Handler:           middleware.RequestLogger(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("server started", slog.String("address", cfg.HTTPServer.Address))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}

func openStore(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return sqlite.New(cfg.Database.SQLitePath)
	case "postgres":
		return postgres.NewPostgres(cfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func openSink(ctx context.Context, cfg *config.Config) (assets.Sink, error) {
	switch cfg.Assets.Sink {
	case "memory":
		return assets.NewMemory(cfg.HTTPServer.PublicBaseURL), nil
	case "fs":
		return assets.NewFS(cfg.Assets.Root, cfg.HTTPServer.PublicBaseURL)
	case "s3":
		return assets.NewS3(ctx, cfg.S3)
	case "minio":
		return assets.NewMinIO(ctx, cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown assets sink %q", cfg.Assets.Sink)
	}
}

// rateLimits connects to Redis when configured. Without Redis, or when the
// limit is zero, uploads are not rate limited.
func rateLimits(ctx context.Context, cfg *config.Config) (*middleware.RateLimitConfig, func()) {
	limits := middleware.NewRateLimitConfig()
	if cfg.Redis.Address == "" || cfg.RateLimit.UploadsPerMinute <= 0 {
		return limits, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unreachable, rate limit checks will fail open", slog.String("error", err.Error()))
	}

	n := cfg.RateLimit.UploadsPerMinute
	limits.
		Limit(middleware.ActionThumbnailUpload, ratelimit.NewTokenBucket(client, n, n)).
		Limit(middleware.ActionVideoUpload, ratelimit.NewTokenBucket(client, n, n))

	return limits, func() { client.Close() }
}

// hideDotFiles keeps the staging directory under the assets root private.
func hideDotFiles(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, part := range strings.Split(r.URL.Path, "/") {
			if strings.HasPrefix(part, ".") {
				http.NotFound(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
