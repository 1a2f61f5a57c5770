// Package main provides the long-running service: it executes the full
// pipeline on a schedule and serves health, status and Prometheus
// metrics over HTTP. Storage backends are selected by DSN; with no
// DSNs configured everything runs in memory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"pricelab/internal/config"
	"pricelab/internal/observability"
	"pricelab/internal/orchestrator"
	"pricelab/internal/storage"
	chstore "pricelab/internal/storage/clickhouse"
	"pricelab/internal/storage/memory"
	"pricelab/internal/storage/migrations"
	pgstore "pricelab/internal/storage/postgres"
)

// Server holds the scheduled pipeline and its stores.
type Server struct {
	cfg      *config.Config
	interval time.Duration

	orch   *orchestrator.Orchestrator
	logger *log.Logger

	pool *pgstore.Pool
	conn *chstore.Conn

	mu          sync.Mutex
	startedAt   time.Time
	lastRun     time.Time
	lastRunID   string
	lastError   string
	runsTotal   int
	runsFailed  int
	runInFlight bool
}

func main() {
	loadEnvFile()

	configPath := flag.String("config", os.Getenv("PRICELAB_CONFIG"), "Path to TOML config file")
	listenAddr := flag.String("listen-addr", "", "HTTP listen address (overrides config)")
	interval := flag.Duration("pipeline-interval", 24*time.Hour, "Pipeline run interval")
	runOnStart := flag.Bool("run-on-start", true, "Run the pipeline immediately on startup")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Config error: %v", err)
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	srv := &Server{
		cfg:       cfg,
		interval:  *interval,
		logger:    logger,
		startedAt: time.Now(),
	}

	stores, err := srv.openStores(ctx, cfg)
	if err != nil {
		logger.Fatalf("Storage error: %v", err)
	}
	defer srv.closeStores()

	srv.orch = orchestrator.New(orchestrator.Options{
		PriceChangeStore: stores.priceChanges,
		ObservationStore: stores.observations,
		TrendStore:       stores.trends,
		RunStore:         stores.runs,
		Config:           cfg,
		Verbose:          *verbose,
	})

	go srv.startHTTPServer(cfg.Server.ListenAddr)
	srv.runLoop(ctx, *runOnStart)
}

// pipelineStores bundles the selected storage backends.
type pipelineStores struct {
	priceChanges storage.PriceChangeStore
	observations storage.ObservationStore
	trends       storage.TrendStore
	runs         storage.RunStore
}

// openStores selects backends by DSN. Postgres carries the classified
// records and run audit trail; ClickHouse carries the observation
// series and trend statistics. A missing DSN falls back to memory.
func (s *Server) openStores(ctx context.Context, cfg *config.Config) (*pipelineStores, error) {
	stores := &pipelineStores{
		priceChanges: memory.NewPriceChangeStore(),
		observations: memory.NewObservationStore(),
		trends:       memory.NewTrendStore(),
		runs:         memory.NewRunStore(),
	}

	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		pool, err := pgstore.NewPool(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		s.pool = pool
		stores.priceChanges = pgstore.NewPriceChangeStore(pool)
		stores.runs = pgstore.NewRunStore(pool)
		s.logger.Printf("Using PostgreSQL for records and runs")
	}

	if dsn := cfg.Storage.ClickHouseDSN; dsn != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open clickhouse: %w", err)
		}
		s.conn = conn
		stores.observations = chstore.NewObservationStore(conn)
		stores.trends = chstore.NewTrendStore(conn)
		s.logger.Printf("Using ClickHouse for observations and trends")
	}

	return stores, nil
}

func (s *Server) closeStores() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.conn != nil {
		s.conn.Close()
	}
}

// runLoop executes the pipeline on the configured interval until the
// context is cancelled.
func (s *Server) runLoop(ctx context.Context, runOnStart bool) {
	if runOnStart {
		s.runPipeline(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("Run loop stopped")
			return
		case <-ticker.C:
			s.runPipeline(ctx)
		}
	}
}

func (s *Server) runPipeline(ctx context.Context) {
	s.mu.Lock()
	if s.runInFlight {
		s.mu.Unlock()
		s.logger.Printf("Skipping scheduled run: previous run still in flight")
		return
	}
	s.runInFlight = true
	s.mu.Unlock()

	start := time.Now()
	s.logger.Printf("Pipeline run starting")
	result, err := s.orch.RunFull(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runInFlight = false
	s.lastRun = start
	s.runsTotal++
	if err != nil {
		s.runsFailed++
		s.lastError = err.Error()
		s.logger.Printf("Pipeline run failed after %v: %v", time.Since(start), err)
		return
	}
	s.lastRunID = result.RunID
	s.lastError = ""
	s.logger.Printf("Pipeline run %s completed in %v: %d products, %d anomalies",
		result.RunID, time.Since(start),
		result.Categorized.TotalProducts, result.Anomalies.TotalAnomaliesDetected)
}

// startHTTPServer starts the HTTP server for health/metrics/status.
func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", s.handleStatus)

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	StartedAt   time.Time `json:"started_at"`
	LastRun     time.Time `json:"last_run,omitempty"`
	LastRunID   string    `json:"last_run_id,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	RunsTotal   int       `json:"runs_total"`
	RunsFailed  int       `json:"runs_failed"`
	RunInFlight bool      `json:"run_in_flight"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.startedAt).String(),
		StartedAt:   s.startedAt,
		LastRun:     s.lastRun,
		LastRunID:   s.lastRunID,
		LastError:   s.lastError,
		RunsTotal:   s.runsTotal,
		RunsFailed:  s.runsFailed,
		RunInFlight: s.runInFlight,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// loadEnvFile loads .env into the environment without overriding
// variables that are already set.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
