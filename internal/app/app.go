package app

import (
	"context"
	"fmt"

	"github.com/cozy-creator/cropscan/internal/config"
	"github.com/cozy-creator/cropscan/internal/predictor"
	"github.com/cozy-creator/cropscan/internal/worker"
	"github.com/cozy-creator/cropscan/pkg/logger"
	"go.uber.org/zap"
)

// App carries the process-wide state shared by request handlers. It is
// built once at startup and is read-only afterwards.
type App struct {
	config       *config.Config
	ctx          context.Context
	cancelFunc   context.CancelFunc
	preprocessor *worker.PreprocessWorker

	Logger    *zap.Logger
	Predictor predictor.Predictor
}

// Option funcs used to initialize the App struct
type OptionFunc func(app *App) error

func WithLogger(logger *zap.Logger) OptionFunc {
	return func(app *App) error {
		app.Logger = logger
		return nil
	}
}

func WithPredictor(p predictor.Predictor) OptionFunc {
	return func(app *App) error {
		app.Predictor = p
		return nil
	}
}

func WithPreprocessWorker(w *worker.PreprocessWorker) OptionFunc {
	return func(app *App) error {
		app.preprocessor = w
		return nil
	}
}

func NewApp(cfg *config.Config, options ...OptionFunc) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		ctx:        ctx,
		config:     cfg,
		cancelFunc: cancel,
	}

	for _, opt := range options {
		if err := opt(app); err != nil {
			cancel()
			return nil, err
		}
	}

	if app.Logger == nil {
		l, err := logger.InitLogger(cfg)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		app.Logger = l
	}

	if app.Predictor == nil {
		p, err := predictor.New(cfg.Predictor)
		if err != nil {
			cancel()
			return nil, err
		}
		app.Predictor = p
	}

	if app.preprocessor == nil {
		app.preprocessor = worker.NewPreprocessWorker(cfg.PreprocessWorkers)
	}

	if cfg.UsesDefaultSecret() {
		app.Logger.Warn("SESSION_SECRET is not set, using the default secret key")
	}

	app.Logger.Debug("app initialized",
		zap.String("predictor", cfg.Predictor),
		zap.Int("preprocess_workers", app.preprocessor.Size()),
	)

	return app, nil
}

func (app *App) Close() {
	app.cancelFunc()

	if app.preprocessor != nil {
		app.preprocessor.Stop()
	}

	_ = app.Logger.Sync()
}

func (app *App) Config() *config.Config {
	return app.config
}

func (app *App) Context() context.Context {
	return app.ctx
}

func (app *App) Preprocessor() *worker.PreprocessWorker {
	return app.preprocessor
}
