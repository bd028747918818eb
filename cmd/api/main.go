// Package main is the entry point for the chat proxy server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/crt-lab/chatproxy/internal/activitylog"
	"github.com/crt-lab/chatproxy/internal/config"
	"github.com/crt-lab/chatproxy/internal/handler"
	"github.com/crt-lab/chatproxy/internal/llm"
	"github.com/crt-lab/chatproxy/internal/middleware"
	"github.com/crt-lab/chatproxy/internal/service"
	"github.com/crt-lab/chatproxy/internal/sheets"
	"github.com/crt-lab/chatproxy/internal/store"
	"github.com/crt-lab/chatproxy/pkg/logger"
	"github.com/crt-lab/chatproxy/pkg/tracing"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting chat proxy server")

	ctx := context.Background()

	// Initialize tracing if enabled
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "crt-chat-proxy", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect the logging sink. Failure is non-fatal: events fall back to
	// the local file and the experiment keeps running.
	var sink activitylog.Sink
	sheetSink, err := sheets.New(ctx, cfg.GoogleCredsFile, cfg.SheetURL)
	if err != nil {
		log.Warn("logging sink setup failed, events will go to the backup file", zap.Error(err))
	} else {
		sink = sheetSink
		log.Info("connected to logging sink", zap.String("spreadsheet_id", sheets.SpreadsheetID(cfg.SheetURL)))
	}

	// Optional NATS event mirror
	activityOpts := []activitylog.Option{activitylog.WithBackupFile(cfg.LogBackupFile)}
	if cfg.NATSURL != "" {
		mirror, err := activitylog.ConnectMirror(cfg.NATSURL, cfg.NATSToken, log)
		if err != nil {
			log.Warn("failed to connect event mirror", zap.Error(err))
		} else {
			defer mirror.Close()
			activityOpts = append(activityOpts, activitylog.WithMirror(mirror))
			log.Info("event mirror connected", zap.String("url", cfg.NATSURL))
		}
	}
	activity := activitylog.New(sink, log, activityOpts...)

	// Initialize the completion client. A missing key is non-fatal; every
	// chat then gets the fallback reply.
	var llmClient llm.Client
	if cfg.OpenAIAPIKey != "" {
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			log.Warn("failed to create OpenAI client", zap.Error(err))
		}
	} else if cfg.AnthropicAPIKey != "" {
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		if err != nil {
			log.Warn("failed to create Anthropic client", zap.Error(err))
		}
	}
	if llmClient == nil {
		log.Warn("no completion provider configured, chats will receive the fallback reply")
	}

	// Initialize services and handlers
	chatService := service.NewChatService(store.NewMemory(), activity, llmClient, log)

	healthHandler := handler.NewHealthHandler(chatService, activity.Configured())
	chatHandler := handler.NewChatHandler(chatService, log)
	testLogHandler := handler.NewTestLogHandler(activity)
	staticHandler := handler.NewStaticHandler(cfg.StaticDir)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigin, cfg.AllowOriginRegex, log))
	r.Use(middleware.AllowIframe)

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/session", chatHandler.CreateSession)
		r.Post("/chat", chatHandler.Chat)
		r.Get("/test-log", testLogHandler.TestLog)
	})

	// Front-end
	r.Get("/", staticHandler.Index)
	if staticHandler.HasAssets() {
		r.Handle("/static/*", staticHandler.Assets())
	} else {
		log.Warn("static directory not found, assets will not be served", zap.String("dir", cfg.StaticDir))
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
