package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/hockey-indexer/internal/app"
	"github.com/riskibarqy/hockey-indexer/internal/config"
	"github.com/riskibarqy/hockey-indexer/internal/interfaces/feed"
	"github.com/riskibarqy/hockey-indexer/internal/observability"
	"github.com/riskibarqy/hockey-indexer/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "version", cfg.ServiceVersion)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	runErr := run(ctx, stop, cfg, application, logger)

	if err := application.Close(); err != nil {
		logger.Error("close store", "error", err)
	}
	if err := observability.StopPprofServer(pprofServer, logger, shutdownTimeout); err != nil {
		logger.Error("stop pprof", "error", err)
	}
	if err := stopProfiler(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}
	tracingCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(tracingCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}

	if runErr != nil {
		logger.Error("indexer stopped with error", "error", runErr)
		os.Exit(1)
	}
	logger.Info("indexer stopped")
}

// run drives the receipt feed and the ingest server until ctx is done. A
// feed-only process stops once the feed is drained.
func run(ctx context.Context, stop context.CancelFunc, cfg config.Config, application *app.App, logger *logging.Logger) error {
	var wg conc.WaitGroup
	errs := make(chan error, 3)

	if cfg.ReceiptFeedPath != "" {
		wg.Go(func() {
			defer func() {
				if application.Server == nil {
					stop()
				}
			}()
			if err := consumeFeed(ctx, cfg.ReceiptFeedPath, application, logger); err != nil {
				errs <- fmt.Errorf("receipt feed: %w", err)
				stop()
			}
		})
	}

	if srv := application.Server; srv != nil {
		wg.Go(func() {
			logger.Info("http server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("http server: %w", err)
				stop()
			}
		})
		wg.Go(func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs <- fmt.Errorf("graceful shutdown: %w", err)
				return
			}
			logger.Info("http server stopped")
		})
	}

	wg.Wait()
	close(errs)

	var joined []error
	for err := range errs {
		joined = append(joined, err)
	}
	return errors.Join(joined...)
}

func consumeFeed(ctx context.Context, path string, application *app.App, logger *logging.Logger) error {
	src, err := feed.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	// closing the source unblocks a read parked on a quiet pipe
	stopClose := context.AfterFunc(ctx, func() { _ = src.Close() })
	defer stopClose()

	logger.Info("receipt feed starting", "path", path)
	if _, err := feed.NewReader(application.Dispatcher, logger.Named("feed")).Consume(ctx, src); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
