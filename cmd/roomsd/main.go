package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/room-booking/internal/config"
	"github.com/example/room-booking/internal/logging"
	"github.com/example/room-booking/internal/persistence/sqlite"
	"github.com/example/room-booking/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, nil); err != nil {
		fmt.Fprintln(os.Stderr, "roomsd:", err)
		os.Exit(1)
	}
}

// run starts the API server and blocks until ctx is cancelled. When ready is
// non-nil it receives the bound address once the listener is open.
func run(ctx context.Context, args []string, stdout io.Writer, ready chan<- string) error {
	flags := pflag.NewFlagSet("roomsd", pflag.ContinueOnError)
	flags.SetOutput(stdout)
	envFile := flags.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	port := flags.IntP("port", "p", -1, "listen port, 0 picks a free one (overrides ROOMS_HTTP_PORT)")
	dsn := flags.String("dsn", "", "SQLite DSN (overrides ROOMS_SQLITE_DSN)")
	hashKey := flags.String("hash-api-key", "", "print the bcrypt hash of the given API key and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *hashKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*hashKey), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash api key: %w", err)
		}
		_, err = fmt.Fprintln(stdout, string(hash))
		return err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *port >= 0 {
		cfg.HTTPPort = *port
	}
	if *dsn != "" {
		cfg.SQLiteDSN = *dsn
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(stdout, level, true)
	ctx = logging.ContextWithLogger(ctx, logger)

	storage, err := sqlite.Open(ctx, cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		return err
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(ctx); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		return err
	}

	handler := server.NewHandler(server.SQLiteRepositories(storage), server.Options{
		Logger:         logger,
		APIKeyHash:     cfg.APIKeyHash,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	listener, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(cfg.HTTPPort)))
	if err != nil {
		logger.Error("failed to listen", "error", err)
		return err
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	addr := listener.Addr().String()
	logger.Info("booking API listening", "addr", addr, "api_key_required", cfg.APIKeyHash != "")
	if ready != nil {
		ready <- addr
	}

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		return err
	}
	<-shutdownDone
	return nil
}
