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

	"github.com/joho/godotenv"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/config"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/infrastructure/dynamo"
	jwtinfra "github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/infrastructure/jwt"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/infrastructure/smtp"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/infrastructure/sns"
	transport "github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment")
	}
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	client := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, client, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		slog.Error("jwt provider init failed", "error", err)
		os.Exit(1)
	}

	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err != nil {
		slog.Warn("sns unavailable, change alerts go out by email only", "error", err)
	} else {
		smsSender = sender
	}

	router := transport.NewRouter(transport.Deps{
		Config:       cfg,
		EmployeeRepo: dynamo.NewEmployeeRepo(client, cfg.DynamoTables.Employees),
		AdminRepo:    dynamo.NewAdminRepo(client, cfg.DynamoTables.Admins),
		OTPRepo:      dynamo.NewOTPRepo(client, cfg.DynamoTables.OTPs),
		SessionRepo:  dynamo.NewSessionRepo(client, cfg.DynamoTables.Sessions),
		Mailer:       smtp.NewMailer(cfg),
		SMSSender:    smsSender,
		JWTProvider:  jwtProvider,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
