package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/cocoexperiments/pokett-be/internal/auth"
	"github.com/cocoexperiments/pokett-be/internal/config"
	"github.com/cocoexperiments/pokett-be/internal/expense"
	"github.com/cocoexperiments/pokett-be/internal/group"
	"github.com/cocoexperiments/pokett-be/internal/handler"
	"github.com/cocoexperiments/pokett-be/internal/ledger"
	"github.com/cocoexperiments/pokett-be/internal/lock"
	"github.com/cocoexperiments/pokett-be/internal/metrics"
	"github.com/cocoexperiments/pokett-be/internal/middleware"
	"github.com/cocoexperiments/pokett-be/internal/service"
	"github.com/cocoexperiments/pokett-be/internal/storage/sqlite"
	"github.com/cocoexperiments/pokett-be/pkg/logging"
	"github.com/cocoexperiments/pokett-be/pkg/rpc/rpcconnect"
)

// tokenDuration applies to issued tokens only; the server just validates.
const tokenDuration = 24 * time.Hour

func main() {
	cfg, err := config.Load(os.Getenv("POKETT_CONFIG"))
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	locker, closeLocker, err := newLocker(cfg.Redis)
	if err != nil {
		return err
	}
	defer closeLocker()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	l := ledger.New(store, locker, metrics.NewLedger(registry))
	recorder := expense.NewRecorder(store, l)
	aggregator := group.NewAggregator(store, l)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, tokenDuration)

	mux := http.NewServeMux()

	// Register Connect services
	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)
	mux.Handle(rpcconnect.NewBalanceServiceHandler(service.NewBalanceService(l), interceptors))
	mux.Handle(rpcconnect.NewExpenseServiceHandler(service.NewExpenseService(recorder), interceptors))
	mux.Handle(rpcconnect.NewGroupServiceHandler(service.NewGroupService(aggregator), interceptors))

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// REST API and /health
	mux.Handle("/", handler.SetupRouter(handler.Deps{
		Ledger:     l,
		Recorder:   recorder,
		Aggregator: aggregator,
		Users:      store,
		JWT:        jwtManager,
	}))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(corsMiddleware(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newLocker returns a Redis-backed locker when an address is configured and
// an in-process one otherwise.
func newLocker(cfg config.RedisConfig) (lock.Locker, func(), error) {
	if cfg.Addr == "" {
		slog.Info("Using in-process pair locks")
		return lock.NewKeyedMutex(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("Using redis pair locks", "addr", cfg.Addr)
	return lock.NewRedisLocker(client, lock.DefaultRedisOptions()), func() { client.Close() }, nil
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	allowHeaders := strings.Join([]string{
		"Content-Type", "Authorization", "Connect-Protocol-Version", "Connect-Timeout-Ms",
	}, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
