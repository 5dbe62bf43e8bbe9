package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"restaurant-menu-service/internal/api"
	"restaurant-menu-service/internal/config"
	"restaurant-menu-service/internal/domain"
	"restaurant-menu-service/internal/logging"
	"restaurant-menu-service/internal/service"
	"restaurant-menu-service/internal/store"
	"restaurant-menu-service/internal/validation"
)

const (
	defaultAppName  = "restaurant-menu-service"
	shutdownTimeout = 30 * time.Second
	pingTimeout     = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", defaultAppName, err)
		os.Exit(1)
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:  defaultAppName,
		Usage: "REST API for restaurant menu categories, products and ingredients",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Optional .env file loaded before reading the environment",
				Sources: cli.EnvVars("ENV_FILE"),
				Value:   ".env",
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			pingCmd(),
		},
		Action: serveAction, // no subcommand runs the server
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API and the gRPC health endpoint",
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	return serve(ctx, cfg, logger)
}

func pingCmd() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the configured database is reachable",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(ctx, pingTimeout)
			defer cancel()

			db, err := store.Connect(ctx, cfg.Postgres.DSN(), poolConfig(cfg))
			if err != nil {
				return err
			}
			dbStore := store.NewPostgresStore(db)
			defer dbStore.Close()

			if err := dbStore.Ping(ctx); err != nil {
				return err
			}
			logger.Info().Str("database", cfg.Postgres.Redacted()).Msg("database reachable")
			return nil
		},
	}
}

func setup(cmd *cli.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.String("env-file"))
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading configuration: %w", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, logging.FormatFor(cfg.LogFormat, cfg.AppEnv), defaultAppName)
	logger.Info().Str("app_env", cfg.AppEnv).Str("log_level", cfg.LogLevel).Msg("configuration loaded")
	return cfg, logger, nil
}

func poolConfig(cfg *config.Config) store.PoolConfig {
	return store.PoolConfig{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
}

func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// --- Database Connection ---
	db, err := store.Connect(ctx, cfg.Postgres.DSN(), poolConfig(cfg))
	if err != nil {
		return err
	}
	dbStore := store.NewPostgresStore(db)
	defer func() {
		if err := dbStore.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing database connection pool")
		}
		logger.Info().Msg("database connection pool closed")
	}()
	logger.Info().Str("database", cfg.Postgres.Redacted()).Msg("database connection established")

	// --- HTTP ---
	crud := service.NewCRUDService(dbStore, validation.New())
	handler := api.NewHTTPHandler(crud, dbStore, domain.MenuResources(), cfg.HttpServer.BasePath)
	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      api.NewRouter(handler, logger, cfg.HttpServer.TimeoutRequest),
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	// --- gRPC health ---
	var grpcServer *grpc.Server
	var grpcListener net.Listener
	if cfg.GrpcServer.Enabled {
		grpcListener, err = net.Listen("tcp", ":"+cfg.GrpcServer.Port)
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC on port %s: %w", cfg.GrpcServer.Port, err)
		}
		grpcServer = api.NewGRPCServer(api.NewGRPCHealthHandler(dbStore, logger))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", httpServer.Addr).Str("base_path", cfg.HttpServer.BasePath).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	if grpcServer != nil {
		g.Go(func() error {
			logger.Info().Str("addr", grpcListener.Addr().String()).Msg("gRPC health server listening")
			if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("gRPC server: %w", err)
			}
			return nil
		})
	}

	// --- Graceful Shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if grpcServer != nil {
			stopped := make(chan struct{})
			go func() {
				grpcServer.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-shutdownCtx.Done():
				logger.Warn().Msg("gRPC graceful stop timed out, forcing stop")
				grpcServer.Stop()
			}
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("service stopped gracefully")
	return nil
}
