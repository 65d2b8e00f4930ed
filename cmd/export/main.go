// Command export derives the OBIS dataset (Event, Occurrence, eMoF records)
// for the active cruise and writes it either as a Darwin Core archive
// directory or into the OBIS record database, depending on STORE.
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

	"github.com/gslCOBIO/andesOBIS/internal/adapter/andes"
	"github.com/gslCOBIO/andesOBIS/internal/adapter/dwca"
	httpadapter "github.com/gslCOBIO/andesOBIS/internal/adapter/http"
	"github.com/gslCOBIO/andesOBIS/internal/adapter/obisdb"
	"github.com/gslCOBIO/andesOBIS/internal/config"
	"github.com/gslCOBIO/andesOBIS/internal/domain"
	"github.com/gslCOBIO/andesOBIS/internal/observability"
	"github.com/gslCOBIO/andesOBIS/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := andes.New(cfg.AndesDSN())
	if err != nil {
		return err
	}
	defer func() {
		if err := source.Close(); err != nil {
			logger.Error("andes source close error", "error", err)
		}
	}()

	store, closeStore, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		srv := httpadapter.NewServer(cfg.MetricsAddr, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics listener error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics listener shutdown error", "error", err)
			}
		}()
	}

	p := pipeline.New(source, store, domain.NauticalMiles, logger, metrics, nil)
	_, runErr := p.Run(ctx)

	if err := closeStore(); err != nil {
		logger.Error("store close error", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// newStore builds the configured record store and returns it with its close
// function.
func newStore(cfg *config.Config, logger *slog.Logger) (pipeline.RecordStore, func() error, error) {
	switch cfg.Store {
	case config.StorePostgres:
		store, err := obisdb.New(cfg.OBISDSN())
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		writer, err := dwca.NewWriter(cfg.OutputDir, logger)
		if err != nil {
			return nil, nil, err
		}
		return writer, writer.Close, nil
	}
}
