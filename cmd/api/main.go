package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"nihonneta/internal/config"
	httphandler "nihonneta/internal/http"
	"nihonneta/internal/services/llm"
	"nihonneta/internal/services/neta"
	"nihonneta/internal/source"
)

func main() {
	var (
		port  = flag.String("port", "", "Port to run the server on (overrides PORT)")
		debug = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Optional .env for local development; real deployments set env vars.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}

	// Load configuration. A missing credential aborts here with a clear
	// message instead of attempting partial work per request.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize LLM client
	llmClient, err := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create LLM client")
	}

	// Initialize news source
	var newsSource source.Source
	switch cfg.News.Source {
	case "rss":
		newsSource = source.NewRSSSource(cfg.News)
	case "newsdata":
		newsSource = source.NewNewsDataSource(cfg.News)
	default:
		log.Fatal().Str("source", cfg.News.Source).Msg("Unknown news source")
	}

	// Initialize service
	netaService := neta.NewService(newsSource, llmClient)

	// Initialize HTTP router
	router := httphandler.NewRouter()

	// Register routes
	netaHandler := httphandler.NewNetaHandler(netaService)
	router.RegisterNetaRoutes(netaHandler)
	router.RegisterHealthRoutes()

	addr := cfg.Server.Port
	if *port != "" {
		addr = *port
	}

	server := &http.Server{
		Addr:         ":" + addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("port", addr).Str("news_source", cfg.News.Source).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Server stopped")
}
