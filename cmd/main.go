// query-service
//
// Intake for police-procedure queries. Accepts form values over HTTP and
// gRPC, validates them under the configured policy, and forwards each valid
// query once to the procedures endpoint:
//   - POST /submit          — one submission attempt
//   - GET  /options         — dropdown catalog
//   - QueryService/Submit   — same over gRPC
//
// Status changes are published to Redis (EVENT_QUERY_STATUS) when REDIS_URL
// is set; diagnostics go to stderr and, when DATABASE_URL is set, Postgres.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"aivs/query-service/internal/config"
	"aivs/query-service/internal/db"
	"aivs/query-service/internal/diag"
	"aivs/query-service/internal/events"
	"aivs/query-service/internal/grpcserver"
	"aivs/query-service/internal/intake"
	"aivs/query-service/internal/scheduler"
	"aivs/query-service/internal/submission"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[query-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handlers := diag.Tee{slog.NewTextHandler(os.Stderr, nil)}

	// ── PostgreSQL (diagnostics, optional) ───────────────────────────────────
	if cfg.DatabaseURL != "" {
		log.Println("[query-service] Connecting to PostgreSQL…")
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[query-service] PostgreSQL: %v", err)
		}
		defer pool.Close()
		handlers = append(handlers, diag.NewPostgresHandler(pool, slog.LevelInfo))
		log.Println("[query-service] PostgreSQL connected ✓")
	}
	logger := slog.New(handlers)
	slog.SetDefault(logger)

	// ── Redis (status events, optional) ──────────────────────────────────────
	var sink submission.StatusSink
	if cfg.RedisURL != "" {
		log.Println("[query-service] Connecting to Redis…")
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[query-service] Redis: %v", err)
		}
		defer rdb.Close()
		sink = events.NewRedisStatusSink(rdb)
		log.Println("[query-service] Redis connected ✓")
	}

	// ── Controller ───────────────────────────────────────────────────────────
	poster := submission.NewHTTPPoster(cfg.EndpointURL, cfg.Timeout)
	poster.PingURL = cfg.PingURL

	opts := []submission.Option{submission.WithLogger(logger)}
	if cfg.InFlight {
		opts = append(opts, submission.WithInFlightGuard())
	}
	ctrl := submission.NewController(cfg.Policy, poster, sink, opts...)
	logger.Info("form loaded", "policy", cfg.Policy.Name, "endpoint", cfg.EndpointURL)

	// ── Warm-up pinger ───────────────────────────────────────────────────────
	if cfg.PingInterval > 0 {
		sched := scheduler.New(poster, cfg.PingInterval, logger)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[query-service] Scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	intake.NewHandler(ctrl, version).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[query-service] v%s HTTP listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[query-service] HTTP server error: %v", err)
		}
	}()

	// ── gRPC server ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("[query-service] gRPC listen: %v", err)
	}
	gs := grpc.NewServer()
	grpcserver.Register(gs, grpcserver.NewServer(ctrl))

	go func() {
		log.Printf("[query-service] gRPC listening on :%s", cfg.GRPCPort)
		if err := gs.Serve(lis); err != nil {
			log.Fatalf("[query-service] gRPC server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[query-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[query-service] Shutdown error: %v", err)
	}
	gs.GracefulStop()
	log.Println("[query-service] Stopped.")
}
