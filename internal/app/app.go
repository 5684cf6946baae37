package app

import (
	"io"
	"log/slog"

	"github.com/vk/firmforge/internal/hcldoc"
	"github.com/vk/firmforge/internal/store"
	"github.com/vk/firmforge/internal/yamldoc"
)

// coreLoaders is the definitive list of document formats compiled into the
// firmforge binary.
var coreLoaders = []store.Loader{
	hcldoc.NewLoader(),
	yamldoc.NewLoader(),
}

// App encapsulates the application's dependencies, configuration, and
// lifecycle: a document store on the input side and a plan writer on the
// output side.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	store  *store.Store
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger. The plan is
// written to outW unless the config names a file; logs go to logW. Passing
// loaders overrides the built-in document formats.
func NewApp(outW, logW io.Writer, config *Config, loaders ...store.Loader) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(loaders) == 0 {
		loaders = coreLoaders
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: config,
		store:  store.New(loaders...),
	}
}

// RegisterProducer adds a computed build document to the store under the
// given identity, alongside whatever the scan finds on disk.
func (a *App) RegisterProducer(name string, fn store.Producer) error {
	return a.store.RegisterProducer(name, fn)
}
