package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookvault/internal/app"
	"bookvault/internal/config"
	"bookvault/internal/ratelimit"
	"bookvault/internal/server"
	"bookvault/internal/storage"
	"bookvault/internal/util"
)

const (
	defaultUploadDir  = "data/uploads/user"
	defaultStaticPath = "uploads/user"
)

func main() {
	configPath := flag.String("config", config.ConfigPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := util.InitLogger(cfg.LogLevel)

	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		logger.Error("parse session ttl", "err", err)
		os.Exit(1)
	}

	application, err := app.New(app.Config{
		DatabaseURL: cfg.DatabaseURL,
		JWTSecret:   cfg.JWTSecret,
		SessionTTL:  sessionTTL,
	})
	if err != nil {
		logger.Error("init application", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close store", "err", err)
		}
	}()

	srvCfg := server.Config{
		App:                    application,
		MaxUploadBytes:         cfg.MaxUploadBytes,
		AllowedImageExtensions: cfg.AllowedImageExtensions,
	}
	if err := wireImageStore(cfg, &srvCfg); err != nil {
		logger.Error("init image store", "err", err)
		os.Exit(1)
	}
	if err := wireRateLimiters(cfg, &srvCfg); err != nil {
		logger.Error("init rate limiters", "err", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(srvCfg).Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", "err", err)
	}
}

func wireImageStore(cfg config.FileConfig, srvCfg *server.Config) error {
	if cfg.ImageStore == "minio" {
		objects, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return err
		}
		srvCfg.Images = objects
		return nil
	}
	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = defaultUploadDir
	}
	files, err := storage.NewFileStore(uploadDir, defaultStaticPath)
	if err != nil {
		return err
	}
	srvCfg.Images = files
	srvCfg.StaticDir = files.Dir()
	srvCfg.StaticPath = files.PublicPath()
	return nil
}

func wireRateLimiters(cfg config.FileConfig, srvCfg *server.Config) error {
	if cfg.RedisAddr == "" {
		return nil
	}
	if cfg.LoginRateLimitPerMinute > 0 {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "bookvault:ratelimit:login", cfg.LoginRateLimitPerMinute, time.Minute)
		if err != nil {
			return err
		}
		srvCfg.LoginLimiter = limiter
	}
	if cfg.RegisterRateLimitPerMinute > 0 {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "bookvault:ratelimit:register", cfg.RegisterRateLimitPerMinute, time.Minute)
		if err != nil {
			return err
		}
		srvCfg.RegisterLimiter = limiter
	}
	return nil
}
