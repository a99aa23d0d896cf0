package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Skotchmaster/netra/internal/config"
	"github.com/Skotchmaster/netra/internal/db"
	"github.com/Skotchmaster/netra/internal/events"
	"github.com/Skotchmaster/netra/internal/hash"
	"github.com/Skotchmaster/netra/internal/httpserver"
	"github.com/Skotchmaster/netra/internal/logging"
	"github.com/Skotchmaster/netra/internal/metrics"
	"github.com/Skotchmaster/netra/internal/repo"
	"github.com/Skotchmaster/netra/internal/search"
	"github.com/Skotchmaster/netra/internal/service"
	"github.com/Skotchmaster/netra/internal/tokens"
)

const version = "2.0"

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "start the HTTP API",
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(log)
	ctx := logging.IntoContext(c.Context, log)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error("db_close_failed", "error", err)
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}
	store := repo.New(gdb)

	var audit events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer func() {
			if err := prod.Close(); err != nil {
				log.Error("kafka_close_failed", "error", err)
			}
		}()
		audit = prod
	}

	directory := &service.DirectoryService{Store: store}
	if cfg.ESURL != "" && cfg.Features().Search {
		client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			return fmt.Errorf("elasticsearch client: %w", err)
		}
		if err := client.Ping(ctx); err != nil {
			log.Warn("search_unreachable", "error", err)
		}
		directory.Search = client
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	issuer := tokens.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	e := httpserver.New(cfg, log, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Users:  store,
				Hasher: hash.New(cfg.BcryptCost),
				Tokens: issuer,
				Audit:  audit,
			},
			Metrics: m,
		},
		Directory: &httpserver.DirectoryHTTP{Svc: directory},
		Health:    &httpserver.HealthHTTP{Store: store, Profile: string(cfg.Profile), Version: version},
		Verifier:  issuer,
		Features:  cfg.Features(),
		Metrics:   m,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting", "addr", cfg.Addr(), "profile", cfg.Profile, "db_driver", cfg.DBDriver)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("echo start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting_down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("echo_shutdown_failed", "error", err)
	}
	log.Info("shutdown_complete")
	return nil
}
