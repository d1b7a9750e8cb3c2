// @title			Leadflow API
// @version		1.0
// @description	Sales pipeline backend with realtime project rooms.
// @BasePath		/api

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtlprog/leadflow/internal/config"
	"github.com/mtlprog/leadflow/internal/database"
	"github.com/mtlprog/leadflow/internal/handler"
	"github.com/mtlprog/leadflow/internal/logger"
	"github.com/mtlprog/leadflow/internal/middleware"
	"github.com/mtlprog/leadflow/internal/realtime"
	"github.com/mtlprog/leadflow/internal/repository"
	"github.com/mtlprog/leadflow/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// newApp builds the CLI application. The serve flags are registered at the
// app level as well as on the serve command: the launcher invokes the binary
// with the positional application target first, which stops flag parsing, so
// on that path the bind parameters must come from the flags' HOST/PORT
// environment fallbacks resolved against the app-level flag set.
func newApp() *cli.App {
	return &cli.App{
		Name:  "leadflow",
		Usage: "Sales pipeline backend",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		}, serveFlags()...),
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Flags:  serveFlags(),
				Action: runServe,
			},
			{
				Name:   "seed",
				Usage:  "Seed the demo project with users and leads",
				Action: runSeed,
			},
		},
		Action: runServe,
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   config.DefaultHost,
			Usage:   "HTTP server bind address",
			EnvVars: []string{"HOST"},
		},
		&cli.StringFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   config.DefaultPort,
			Usage:   "HTTP server port",
			EnvVars: []string{"PORT"},
		},
		&cli.IntFlag{
			Name:  "workers",
			Value: 1,
			Usage: "Worker processes (only 1 is supported)",
		},
	}
}

// bindParams validates the positional application target and resolves the
// bind address from the flag set (and through it the HOST/PORT environment).
func bindParams(c *cli.Context) (host, port string, err error) {
	if target := c.Args().First(); target != "" && target != config.AppTarget {
		return "", "", fmt.Errorf("unknown application target %q", target)
	}

	host = c.String("host")
	if host == "" {
		host = config.DefaultHost
	}
	port = c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	return host, port, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	host, port, err := bindParams(c)
	if err != nil {
		return err
	}
	if workers := c.Int("workers"); workers > 1 {
		slog.Warn("multiple workers are not supported, running with one", "requested", workers)
	}
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()

	hub := realtime.NewHub()
	go hub.Run(hubCtx)

	h := handler.New(db.Pool(), hub)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              host + ":" + port,
		Handler:           middleware.CORS(mux),
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// No WriteTimeout: websocket rooms hold connections open.
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://"+host+":"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	stopHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runSeed(c *cli.Context) error {
	ctx := c.Context
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	demo := service.NewDemoService(
		db.Pool(),
		repository.NewProjectRepository(db.Pool()),
		repository.NewUserRepository(db.Pool()),
		repository.NewLeadRepository(db.Pool()),
	)

	data, err := demo.Bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}

	slog.Info("demo data seeded",
		"project", data.Project.Name,
		"users", len(data.Users),
		"leads", len(data.Leads))
	return nil
}
