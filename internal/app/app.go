package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/hockey-indexer/external/gamecontract"
	"github.com/riskibarqy/hockey-indexer/internal/config"
	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	"github.com/riskibarqy/hockey-indexer/internal/interfaces/httpapi"
	"github.com/riskibarqy/hockey-indexer/internal/platform/logging"
	"github.com/riskibarqy/hockey-indexer/internal/usecase"
)

// Store is an entity store that can report its own health.
type Store interface {
	entity.Repository
	Ping(ctx context.Context) error
}

// App holds the wired indexer: one store, one dispatcher and the optional
// ingest HTTP server.
type App struct {
	Store      Store
	Dispatcher *usecase.Dispatcher
	Server     *http.Server

	closeStore func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	dispatcher := NewDispatcher(store, logger)
	dispatcher.SetContractAccountID(cfg.ContractAccountID)

	app := &App{
		Store:      store,
		Dispatcher: dispatcher,
		closeStore: closeStore,
	}
	if !cfg.HTTPEnabled {
		return app, nil
	}

	server, err := NewHTTPServer(cfg, dispatcher, store, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// NewDispatcher builds the receipt dispatcher and its services over store.
func NewDispatcher(store entity.Repository, logger *logging.Logger) *usecase.Dispatcher {
	accounts := usecase.NewAccountService(store)
	social := usecase.NewSocialService(store)
	matches := usecase.NewMatchService(store, usecase.NewRosterEngine())

	return usecase.NewDispatcher(accounts, social, matches, gamecontract.NewDecoder(), logger.Named("dispatcher"))
}

func NewHTTPServer(
	cfg config.Config,
	processor httpapi.ReceiptProcessor,
	health httpapi.HealthChecker,
	logger *logging.Logger,
) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(processor, health, logger, cfg.IngestMaxBodyBytes)
	router := httpapi.NewRouter(handler, logger.Named("http"), cfg.IngestToken)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

// Close releases the store connection. It does not stop the HTTP server.
func (a *App) Close() error {
	if a == nil || a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}
