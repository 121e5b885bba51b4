package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tota/internal/assets"
	"tota/internal/catalog"
	"tota/internal/gateway/config"
	"tota/internal/gateway/handler"
	"tota/internal/gateway/handler/rpc"
	"tota/internal/gateway/server"
	"tota/internal/generation"
	"tota/internal/logging"
	"tota/internal/preview"
	"tota/internal/resolver"
	"tota/internal/sandbox"
	"tota/internal/scanner"
	"tota/internal/surface"
)

type App struct {
	server  *server.Server
	logger  *zap.Logger
	closers []func() error
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, _, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return NewWithConfig(cfg, logger)
}

// NewWithConfig wires every component from cfg.
func NewWithConfig(cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)
	cat := catalog.Default()

	store, err := assets.Load(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load template assets: %w", err)
	}
	scan, err := scanner.New(cfg.Scanner, cat)
	if err != nil {
		return nil, err
	}
	cache, err := resolver.NewLRUCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to init resolution cache: %w", err)
	}
	res := resolver.New(store, cat,
		resolver.WithScanner(scan),
		resolver.WithCache(cache),
		resolver.WithLogger(logger.Named("resolver")),
	)
	docs := sandbox.New(cat, nil, sandbox.DefaultOptions(), logger.Named("sandbox"))

	docStore, closeStore, err := initDocumentStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	surfaces := surface.NewRegistry(docStore, cfg.PublicBaseURL, logger.Named("surface"))

	gen, err := initGenerator(cfg, cat, logger)
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	svc := preview.NewService(res, docs, surfaces, gen, logger.Named("preview"))

	mux := server.NewMux(server.Handlers{
		Preview: handler.NewPreviewHandler(svc, logger),
		Live:    handler.NewLiveHandler(surfaces, logger),
		RPC:     rpc.NewPreviewHandler(svc),
	}, logger)

	return &App{
		server:  server.New(cfg.Port, mux, logger),
		logger:  logger,
		closers: []func() error{closeStore},
	}, nil
}

func initGenerator(cfg *config.Config, cat *catalog.Catalog, logger *zap.Logger) (generation.Generator, error) {
	switch {
	case cfg.Generation.Fake:
		logger.Info("generation: fake model")
		return generation.NewPipeline(generation.FakeModel{}, cat, logger.Named("generation")), nil
	case cfg.Generation.APIKey != "":
		model, err := generation.NewGeminiModel(context.Background(), cfg.Generation.APIKey, cfg.Generation.Model, logger.Named("gemini"))
		if err != nil {
			return nil, fmt.Errorf("failed to init gemini: %w", err)
		}
		logger.Info("generation: gemini", zap.String("model", cfg.Generation.Model))
		return generation.NewPipeline(model, cat, logger.Named("generation")), nil
	default:
		logger.Warn("generation disabled: set GEMINI_API_KEY or GENERATION_FAKE")
		return nil, nil
	}
}

func (a *App) Logger() *zap.Logger { return a.logger }

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	for _, c := range a.closers {
		err = errors.Join(err, c())
	}
	_ = a.logger.Sync()
	return err
}
