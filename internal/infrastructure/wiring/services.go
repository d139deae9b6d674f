package wiring

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/learnpath/internal/infrastructure/catalogapi"
	"github.com/felixgeelhaar/learnpath/internal/infrastructure/config"
	"github.com/felixgeelhaar/learnpath/pkg/application"
	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
	"github.com/felixgeelhaar/learnpath/pkg/domain/events"
)

// AppServices exposes the application layer wired together with a workspace.
type AppServices struct {
	Workspace  *Workspace
	Tracker    *application.Tracker
	Catalog    *application.CatalogService
	Source     catalog.Source
	Dispatcher *events.EventDispatcher
	Logger     *slog.Logger
}

type buildOptions struct {
	overrides  config.Overrides
	logger     *slog.Logger
	notifier   events.Notifier
	httpClient *http.Client
	source     catalog.Source
}

// Option customizes BuildAppServices.
type Option func(*buildOptions)

// WithOverrides applies command-line settings on top of config and env.
func WithOverrides(o config.Overrides) Option {
	return func(b *buildOptions) { b.overrides = o }
}

// WithLogger sets the logger shared by all services.
func WithLogger(l *slog.Logger) Option {
	return func(b *buildOptions) { b.logger = l }
}

// WithNotifier sets where milestone and task toasts go.
func WithNotifier(n events.Notifier) Option {
	return func(b *buildOptions) { b.notifier = n }
}

// WithHTTPClient sets the client used for catalog calls.
func WithHTTPClient(c *http.Client) Option {
	return func(b *buildOptions) { b.httpClient = c }
}

// WithSource replaces the HTTP catalog client.
func WithSource(s catalog.Source) Option {
	return func(b *buildOptions) { b.source = s }
}

// BuildAppServices constructs the tracker, catalog service and event
// handlers for a project root. The returned error is a warning: services
// are always usable, falling back to defaults for a broken config file or
// snapshot.
func BuildAppServices(root string, opts ...Option) (*AppServices, error) {
	var b buildOptions
	for _, opt := range opts {
		opt(&b)
	}
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	workspace, cfgErr := NewWorkspace(root, b.overrides)
	var loadErr error
	if cfgErr != nil {
		loadErr = fmt.Errorf("config fallback: %w", cfgErr)
	}

	dispatcher := events.NewEventDispatcher()
	dispatcher.ContinueOnError = true
	dispatcher.Register(events.NewLoggingHandler(logger).Registration())
	dispatcher.Register(events.NewSaveFailureHandler(logger).Registration())
	dispatcher.Register(events.NewMilestoneHandler(b.notifier, logger).Registration())
	dispatcher.Register(events.NewTaskCompletionHandler(b.notifier, logger).Registration())

	tracker := application.NewTracker(workspace.Repo,
		application.WithLogger(logger),
		application.WithDispatcher(dispatcher))
	if err := tracker.LoadWarning(); err != nil {
		loadErr = errors.Join(loadErr, fmt.Errorf("state fallback: %w", err))
	}

	source := b.source
	if source == nil {
		source = catalogapi.NewClient(workspace.Config.APIBaseURL,
			catalogapi.WithTimeout(workspace.Config.RequestTimeout),
			catalogapi.WithHTTPClient(b.httpClient))
	}

	return &AppServices{
		Workspace:  workspace,
		Tracker:    tracker,
		Catalog:    application.NewCatalogService(source, tracker, logger),
		Source:     source,
		Dispatcher: dispatcher,
		Logger:     logger,
	}, loadErr
}
