package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"cantina/internal/advisor"
	"cantina/internal/api"
	"cantina/internal/catalog"
	"cantina/internal/config"
	"cantina/internal/database"
	"cantina/internal/live"
	"cantina/internal/monitoring"
	"cantina/internal/repository"
	"cantina/internal/suggestion"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
	debug       = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort > 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	// Initialize database
	if err := database.InitDB(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer database.CloseDB()

	orders := repository.NewOrderRepository(database.GetDB())
	recipes := repository.NewRecipeRepository(database.GetDB())

	// Initialize the suggestion engine and its collaborators
	engine := suggestion.NewEngine(orders, recipes, catalog.NewCalculator(), catalog.NewClassifier(), suggestion.Config{
		LookbackWeeks:    cfg.Suggestion.LookbackWeeks,
		MinConfidence:    cfg.Suggestion.MinConfidence,
		RecentSampleSize: cfg.Suggestion.RecentSampleSize,
	})
	cache := suggestion.NewAdjustmentCache(cfg.Suggestion.CacheTTL(), cfg.Suggestion.CacheSize)

	// Optional LLM run explainer
	adv, err := advisor.NewFromConfig(cfg.Advisor)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize advisor")
	}
	if adv != nil {
		log.Info().Str("model", cfg.Advisor.Model).Msg("Advisor enabled")
	}

	metricsCollector := monitoring.NewMetricsCollector()
	hub := live.NewHub()

	// Initialize API server
	suggestionAPI := api.NewSuggestionAPI(engine, recipes, metricsCollector, hub, adv, cache, cfg.Server.AuthSecret)

	// Start metrics server
	go startMetricsServer(cfg.Server.MetricsPort, metricsCollector)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: suggestionAPI.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("API server shutdown error")
		}
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("Starting API server")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("API server error")
	}
}

func startMetricsServer(port int, collector *monitoring.MetricsCollector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{}))

	log.Info().Int("port", port).Msg("Starting metrics server")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		log.Error().Err(err).Msg("Metrics server error")
	}
}
