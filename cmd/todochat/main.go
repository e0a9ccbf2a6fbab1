package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"todochat/internal/adapter/api"
	"todochat/internal/adapter/auth"
	"todochat/internal/adapter/tui/chat"
	"todochat/internal/infra/config"
	"todochat/internal/infra/logger"
	"todochat/internal/infra/tracer"
	"todochat/internal/usecase"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		case "version", "--version":
			fmt.Println("todochat " + version)
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

var version = "dev"

func showUsage() {
	fmt.Println(`todochat - Terminal chat client for the AI todo assistant

USAGE:
    todochat [FLAGS]

FLAGS:
    -h, --help         Show this help message
    --config PATH      Config file path (default: ~/.config/todochat/config.yaml)
    --server URL       Override server.base_url

CONFIGURATION:
    Config file: ~/.config/todochat/config.yaml
    Environment: TODOCHAT_TOKEN overrides the configured bearer token;
                 TODOCHAT_PASSPHRASE decrypts "enc:" config secrets.

KEYS:
    Enter         Send message
    Alt+Enter     Insert newline
    Ctrl+N        Start a new conversation
    Esc           Dismiss the error banner
    Ctrl+C        Quit`)
}

func run() error {
	// 1. Config
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if url := serverFlag(); url != "" {
		cfg.Server.BaseURL = url
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	// 2. Logger & Tracer. The TUI owns the terminal, so a logger aimed at
	// stderr would tear the display; redirect it unless the user chose a file.
	logCfg := cfg.Logger
	if logCfg.Output == "" || strings.EqualFold(logCfg.Output, "stdout") || strings.EqualFold(logCfg.Output, "stderr") {
		logCfg.Output = "discard"
	}
	log, logCloser, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	// 3. Credentials
	token, err := auth.ResolveToken(cfg.Auth)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	auth.WarnIfExpired(token, log)

	// 4. Transport: HTTP client behind a circuit breaker, rate limited to
	// stay under the server's per-user quota.
	client := api.NewClient(cfg.Server.BaseURL, token, log,
		api.WithHTTPClient(&http.Client{Timeout: cfg.Server.Timeout}),
		api.WithRateLimit(rate.Every(time.Second), 3),
		api.WithHistoryLimit(cfg.UI.HistoryLimit),
	)
	svc := api.NewBreaker(client, api.BreakerConfig{}, log)

	// 5. Session core
	transcript := usecase.NewTranscript()
	coordinator := usecase.NewCoordinator(svc, transcript, log)

	// 6. TUI
	model := chat.NewModel(chat.ModelDeps{
		Coordinator:   coordinator,
		Logger:        log,
		AssistantName: cfg.UI.AssistantName,
		MaxMessages:   cfg.UI.MaxMessages,
	})

	log.Info("todochat starting",
		"server", cfg.Server.BaseURL,
		"history_limit", cfg.UI.HistoryLimit,
	)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func configPath() string {
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	if p := os.Getenv("TODOCHAT_CONFIG"); p != "" {
		return p
	}
	return config.DefaultPath
}

func serverFlag() string {
	for i, arg := range os.Args {
		if arg == "--server" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
		if strings.HasPrefix(arg, "--server=") {
			return strings.TrimPrefix(arg, "--server=")
		}
	}
	return ""
}
