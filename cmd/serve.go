package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	internal "github.com/HoneyChauhan001/attendance-management-system-frontend/internal"
	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/amsapi"
	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/session"
	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/webapp"
	"github.com/HoneyChauhan001/attendance-management-system-frontend/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web front-end",
	Long:  `Serve the login, employee, and admin screens against the configured attendance backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

type dependencies struct {
	Config   *internal.Config
	API      *amsapi.Client
	Sessions *session.Store
	Web      *webapp.Server
}

func startServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              deps.Config.Server.Addr,
		Handler:           deps.Web.Handler(),
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	slog.Info("starting web front-end", "addr", deps.Config.Server.Addr, "backend", deps.Config.API.BaseURL)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}

func initializeDependencies() (*dependencies, error) {
	// Missing .env is fine; real deployments configure via environment.
	_ = godotenv.Load()

	cfg, err := loadConfig(".")
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	api := amsapi.New(cfg.API.BaseURL, cfg.API.Timeout)
	sessions, err := session.NewStore(api, cfg.Session.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	return &dependencies{
		Config:   cfg,
		API:      api,
		Sessions: sessions,
		Web:      webapp.New(api, sessions, cfg.Session.CookieName),
	}, nil
}
