package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/example/room-booking/internal/config"
	"github.com/example/room-booking/internal/resource"
	"github.com/example/room-booking/internal/store"
)

// apiKeyHeader matches the header the booking API checks.
const apiKeyHeader = "X-API-Key"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)
	a.terminal = term.IsTerminal(int(os.Stdout.Fd()))
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "roomctl:", err)
		os.Exit(1)
	}
}

type app struct {
	stdout   io.Writer
	stderr   io.Writer
	terminal bool
	now      func() time.Time

	cfg     config.ClientConfig
	output  string
	verbose bool
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, now: time.Now}
}

func (a *app) run(ctx context.Context, args []string) error {
	global := pflag.NewFlagSet("roomctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(io.Discard)
	configPath := global.StringP("config", "c", "", "JSONC configuration file")
	envFile := global.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	baseURL := global.String("base-url", "", "booking API base URL (overrides ROOMCTL_BASE_URL)")
	apiKey := global.String("api-key", "", "API key sent as "+apiKeyHeader+" (overrides ROOMCTL_API_KEY)")
	output := global.StringP("output", "o", "", "output format: table, json or yaml (default table on a terminal, json otherwise)")
	timeout := global.Duration("timeout", 0, "request timeout, 0 for none (overrides ROOMCTL_TIMEOUT)")
	global.BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")

	root := a.commands()
	root.flags = global
	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			root.printHelp(a.stderr)
			return nil
		}
		return fmt.Errorf("%w\n\nRun 'roomctl --help' for usage.", err)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envFile, err)
	}
	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		return err
	}
	if global.Changed("base-url") {
		cfg.BaseURL = *baseURL
	}
	if global.Changed("api-key") {
		cfg.APIKey = *apiKey
	}
	if global.Changed("timeout") {
		cfg.Timeout = *timeout
	}
	if global.Changed("output") {
		if !config.ValidOutput(*output) {
			return fmt.Errorf("unknown output format %q", *output)
		}
		cfg.Output = *output
	}
	a.cfg = cfg
	a.output = cfg.Output
	if a.output == config.OutputAuto {
		a.output = config.OutputJSON
		if a.terminal {
			a.output = config.OutputTable
		}
	}

	// Global flags are parsed; the root only dispatches from here on.
	root.flags = nil
	return root.execute(ctx, global.Args(), a.stderr)
}

// logger writes text records to stderr: warnings by default, everything
// with --verbose.
func (a *app) logger() *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

func (a *app) client(logger *slog.Logger) (*resource.Client, error) {
	opts := []resource.Option{
		resource.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
		resource.WithLogger(logger),
	}
	if a.cfg.APIKey != "" {
		opts = append(opts, resource.WithHeader(apiKeyHeader, a.cfg.APIKey))
	}
	return resource.NewClient(a.cfg.BaseURL, opts...)
}

func (a *app) store() (*store.Store, error) {
	logger := a.logger()
	client, err := a.client(logger)
	if err != nil {
		return nil, err
	}
	return store.New(client, logger), nil
}
