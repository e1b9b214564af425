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

	"omi-voice-gateway/internal/assistant"
	"omi-voice-gateway/internal/calls"
	"omi-voice-gateway/internal/config"
	"omi-voice-gateway/internal/omi"
	"omi-voice-gateway/internal/summarize"
	"omi-voice-gateway/internal/vapi"
	"omi-voice-gateway/pkg/logger"
	"omi-voice-gateway/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// .env is optional; real deployments set env directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wiring: store → provider clients → services → handlers.
	store := calls.NewMemoryStore()
	settings := assistant.NewRegistry(assistant.Defaults(cfg.Vapi.PhoneNumberID, cfg.Vapi.AssistantID))

	vapiClient := vapi.NewClient(cfg.Vapi.APIKey, cfg.Vapi.BaseURL, settings,
		cfg.Vapi.DestinationName, cfg.Vapi.DestinationNumber)
	callService := calls.NewService(store, vapiClient, cfg.Vapi.DestinationName, cfg.Vapi.DestinationNumber)
	summarizer := summarize.NewService(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	notifier := omi.NewNotifier(cfg.OMI.AppID, cfg.OMI.AppSecret, cfg.OMI.BaseURL)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(utils.NewRateLimiter(cfg.App.RateLimitRPM).Middleware())

	registerRoutes(r, deps{
		Store:      store,
		Calls:      callService,
		Settings:   settings,
		Summarizer: summarizer,
		Notifier:   notifier,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Bounded status waits can legitimately hold a response for up to a
		// minute; the write timeout must sit above that clamp.
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

func corsConfig(cfg config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Content-Type", "Authorization", "X-Request-Id"}
	c.AllowCredentials = true
	if len(cfg.App.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.App.AllowedOrigins
	} else {
		c.AllowOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}
	return c
}
