package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/cache"
	"github.com/bezalele/BetOddsIngestor/internal/clock"
	"github.com/bezalele/BetOddsIngestor/internal/config"
	"github.com/bezalele/BetOddsIngestor/internal/feed/balldontlie"
	"github.com/bezalele/BetOddsIngestor/internal/feed/theoddsapi"
	"github.com/bezalele/BetOddsIngestor/internal/ingest"
	"github.com/bezalele/BetOddsIngestor/internal/metrics"
	"github.com/bezalele/BetOddsIngestor/internal/repository"
	"github.com/bezalele/BetOddsIngestor/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "live", "run mode: live (scheduled), history (single backfill), once (single live run)")
	flag.Parse()

	setupLogger()
	log.Info().Str("mode", *mode).Msg("Starting BetOdds Ingestion Worker")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("league", cfg.LeagueCode).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	clk, err := clock.Resolve(cfg.SlateTimeZones...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve league time zone")
	}

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	oddsOpts := theoddsapi.Options{
		BaseURL:    cfg.OddsAPIBaseURL,
		APIKey:     cfg.OddsAPIKey,
		SportKey:   cfg.OddsAPISport,
		Regions:    cfg.OddsAPIRegions,
		Markets:    cfg.OddsAPIMarkets,
		OddsFormat: cfg.OddsAPIFormat,
		Timeout:    cfg.OddsAPITimeout,
	}

	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without odds cache")
	} else {
		defer redisCache.Close()
		oddsOpts.Cache = redisCache
		oddsOpts.CacheTTL = cfg.CacheTTLOdds
		log.Info().Msg("Redis cache connected")
	}

	oddsClient := theoddsapi.NewClient(oddsOpts)
	historyClient := balldontlie.New(balldontlie.Options{
		BaseURL: cfg.BalldontlieBaseURL,
		APIKey:  cfg.BalldontlieAPIKey,
	})

	pipeline := ingest.New(ingest.Deps{
		Clock:     clk,
		Resolver:  ingest.NewResolver(db.Sports, db.Leagues, db.Providers, db.Teams),
		Games:     db.Games,
		Markets:   db.Markets,
		Snapshots: db.Snapshots,
		Results:   db.Results,
		Schedule:  oddsClient,
		Odds:      oddsClient,
		Scores:    oddsClient,
		History:   historyClient,
		Settings: ingest.Settings{
			SportName:         cfg.SportName,
			SportCode:         cfg.SportCode,
			LeagueName:        cfg.LeagueName,
			LeagueCode:        cfg.LeagueCode,
			ScheduleBackDays:  cfg.ScheduleLookbackDays,
			ScheduleAheadDays: cfg.ScheduleLookaheadDays,
			ResultsBackDays:   cfg.ResultsLookbackDays,
			ResultsAheadDays:  1,
			HistoryBackDays:   cfg.HistoryLookbackDays,
			HistoryAheadDays:  1,
		},
	})

	if cfg.EnableMetrics {
		go startMetricsServer(ctx, cfg.MetricsPort, db)
		go trackUptime(ctx)
	}

	switch *mode {
	case "once":
		runOnce(ctx, cfg, pipeline.Run)
	case "history":
		runOnce(ctx, cfg, pipeline.RunHistory)
	case "live":
		runOnce(ctx, cfg, pipeline.Run)

		if !cfg.EnableScheduler {
			log.Info().Msg("Scheduler disabled, exiting after single run")
			return
		}

		sched := scheduler.New(pipeline, cfg.PipelineCron, cfg.HistoryCron, cfg.RunTimeout)
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}

		<-ctx.Done()
		sched.Stop()
	default:
		log.Fatal().Str("mode", *mode).Msg("Unknown run mode")
	}

	log.Info().Msg("Worker shutdown complete")
}

func runOnce(ctx context.Context, cfg *config.Config, run func(context.Context) error) {
	runCtx := ctx
	if cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.RunTimeout)
		defer cancel()
	}

	if err := run(runCtx); err != nil {
		log.Error().Err(err).Msg("Run failed")
	}
}

// setupLogger configures the zerolog logger
func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)
}

func trackUptime(ctx context.Context) {
	startTime := time.Now()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.SystemUptime.Set(time.Since(startTime).Seconds())
		case <-ctx.Done():
			return
		}
	}
}

// startMetricsServer serves Prometheus metrics and a health endpoint
func startMetricsServer(ctx context.Context, port int, db *repository.Database) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", port).Msg("Starting metrics server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
