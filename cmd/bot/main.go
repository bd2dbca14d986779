package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bashoori/instagram-bot/internal/infra/http/handlers"
	"github.com/bashoori/instagram-bot/internal/infra/http/middleware"
	"github.com/bashoori/instagram-bot/internal/infra/integration/instagram"
	"github.com/bashoori/instagram-bot/internal/infra/integration/messenger"
	"github.com/bashoori/instagram-bot/internal/infra/integration/sheets"
	"github.com/bashoori/instagram-bot/internal/infra/mail"
	"github.com/bashoori/instagram-bot/internal/infra/memory"
	"github.com/bashoori/instagram-bot/internal/usecase"
)

func main() {
	godotenv.Load()

	log, err := newLog("instagram-bot")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := run(log); err != nil {
		log.Errorw("startup", "err", err)
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		Http struct {
			Host            string        `conf:"default:0.0.0.0:8080"`
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
		}
		Meta struct {
			VerifyToken        string `conf:"mask"`
			GraphURL           string `conf:"default:https://graph.facebook.com/v17.0"`
			PageAccessToken    string `conf:"mask"`
			InstagramToken     string `conf:"mask"`
			InstagramAccountID string
		}
		Sheets struct {
			WebhookURL string
		}
		Booking struct {
			URL string `conf:"default:https://calendly.com/bashoori"`
		}
		Mail struct {
			Host     string
			Port     int `conf:"default:587"`
			User     string
			Password string `conf:"mask"`
			From     string `conf:"default:bot@bashoori.dev"`
			To       string
		}
		Session struct {
			TTL           time.Duration `conf:"default:10m"`
			SweepInterval time.Duration `conf:"default:1m"`
		}
	}{}

	help, err := conf.Parse("BOT", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// Session store

	store := memory.NewSessionStore(cfg.Session.TTL, cfg.Session.SweepInterval)
	middleware.ObserveActiveSessions(store.Count)

	// =========================================================================
	// Integration clients

	igClient := instagram.NewClient(cfg.Meta.InstagramToken, cfg.Meta.InstagramAccountID, cfg.Meta.GraphURL)
	msgrClient := messenger.NewClient(cfg.Meta.PageAccessToken, cfg.Meta.GraphURL)
	sheetsClient := sheets.NewClient(cfg.Sheets.WebhookURL)

	var mailSender usecase.EmailService
	if cfg.Mail.Host != "" && cfg.Mail.To != "" {
		mailSender = mail.NewEmailSender(
			cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password,
			cfg.Mail.From, cfg.Mail.To,
		)
	}

	// =========================================================================
	// Use case and handlers

	conversationUC := usecase.NewConversationUseCase(
		store, igClient, msgrClient, sheetsClient, mailSender,
		cfg.Booking.URL, log,
	)

	webhookHandler := handlers.NewWebhookHandler(cfg.Meta.VerifyToken, conversationUC, log)
	healthHandler := handlers.NewHealthHandler(map[string]bool{
		"instagram": igClient.Configured(),
		"messenger": msgrClient.Configured(),
		"sheets":    sheetsClient.Configured(),
		"mail":      mailSender != nil,
	})

	// =========================================================================
	// Router

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Get("/webhook", webhookHandler.HandleVerify)
	r.Post("/webhook", webhookHandler.HandleEvent)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// =========================================================================
	// Start API server

	server := &http.Server{
		Addr:         cfg.Http.Host,
		Handler:      r,
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
		IdleTimeout:  cfg.Http.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("startup", "status", "listening", "host", cfg.Http.Host)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func newLog(serviceName string) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.InitialFields = map[string]interface{}{
		"service": serviceName,
	}

	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}
