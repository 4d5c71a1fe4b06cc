package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/toyz/axonresolve/internal/config"
	"github.com/toyz/axonresolve/internal/diagnostics"
	"github.com/toyz/axonresolve/internal/logging"
	"github.com/toyz/axonresolve/internal/metrics"
	"github.com/toyz/axonresolve/pkg/axon"
	"github.com/toyz/axonresolve/pkg/axon/adapters"
	"github.com/toyz/axonresolve/pkg/binding"
	"github.com/toyz/axonresolve/pkg/codec"
	"github.com/toyz/axonresolve/pkg/resolve"
	"github.com/toyz/axonresolve/pkg/resolvefx"
)

func codecOptions(cfg *config.Config) []codec.Option {
	return []codec.Option{
		codec.WithJSONEngine(codec.JSONEngine(cfg.Codec.JSONEngine)),
		codec.WithCSVSeparator(cfg.Codec.Separator()),
	}
}

// newAdapter selects the web adapter named in the configuration
func newAdapter(name string) (axon.WebServerInterface, error) {
	switch name {
	case "gin":
		return adapters.NewDefaultGinAdapter(), nil
	case "echo":
		return adapters.NewDefaultEchoAdapter(), nil
	case "fiber":
		return adapters.NewDefaultFiberAdapter(), nil
	default:
		return nil, errors.Newf("unknown adapter %q", name)
	}
}

// loadRegistry builds the resolver registry the same way serve does,
// without starting anything
func loadRegistry(cfg *config.Config) (*resolve.Registry, error) {
	var reg *resolve.Registry
	app := fx.New(
		resolvefx.Module(codecOptions(cfg)...),
		fx.NopLogger,
		fx.Populate(&reg),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return reg, nil
}

type routeParams struct {
	fx.In

	Server    axon.WebServerInterface
	Registry  *resolve.Registry
	Binder    *binding.Binder
	Config    *config.Config
	Collector *metrics.Collector `optional:"true"`
}

// registerRoutes exposes the registry listing and, when enabled, metrics
func registerRoutes(p routeParams) error {
	listing, err := p.Binder.Bind(func(verbose bool) ([]resolverRow, error) {
		return listingRows(p.Registry, verbose), nil
	}, "verbose = false @FromQuery")
	if err != nil {
		return err
	}
	p.Server.RegisterRoute(http.MethodGet, axon.NewAxonPath("/_resolvers"), listing)

	if p.Collector != nil {
		p.Collector.SetRegistry(p.Registry)
		p.Server.Mount(p.Config.Metrics.Path, p.Collector.Handler())
	}
	return nil
}

type startParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Server     axon.WebServerInterface
	Config     *config.Config
	Logger     *zap.Logger
}

// startServer runs the adapter in the background. A listener that fails,
// for instance on an address already in use, shuts the application down
// with exit code 1.
func startServer(p startParams) {
	server, logger := p.Server, p.Logger
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting server",
				zap.String("adapter", server.Name()),
				zap.String("addr", p.Config.Server.Addr),
			)
			go func() {
				if err := server.Start(p.Config.Server.Addr); err != nil {
					logger.Error("server stopped", zap.Error(err))
					if err := p.Shutdowner.Shutdown(fx.ExitCode(1)); err != nil {
						logger.Error("request shutdown", zap.Error(err))
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server", zap.String("adapter", server.Name()))
			return server.Stop(ctx)
		},
	})
}

// serveOptions assembles the application; split from serve for tests
func serveOptions(cfg *config.Config, logger *zap.Logger) fx.Option {
	opts := []fx.Option{
		fx.Supply(cfg, logger),
		resolvefx.WithZapLogger(),
		resolvefx.Module(codecOptions(cfg)...),
		fx.Provide(func() (axon.WebServerInterface, error) {
			return newAdapter(cfg.Server.Adapter)
		}),
		fx.Invoke(registerRoutes),
		fx.StopTimeout(cfg.Server.ShutdownTimeout),
	}

	if cfg.Metrics.Enabled {
		opts = append(opts,
			fx.Provide(metrics.NewCollector),
			fx.Provide(resolvefx.AsObserver(func(c *metrics.Collector) *metrics.Collector { return c })),
		)
	}
	return fx.Options(opts...)
}

func serve(cfg *config.Config, printer *diagnostics.Printer) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printer.Header("serve")
	printer.Summary("Configuration", map[string]interface{}{
		"adapter": cfg.Server.Adapter,
		"addr":    cfg.Server.Addr,
		"json":    cfg.Codec.JSONEngine,
		"metrics": cfg.Metrics.Enabled,
	})
	if !cfg.Metrics.Enabled {
		printer.Warn("metrics are disabled")
	}

	return runApp(ctx, fx.New(serveOptions(cfg, logger), fx.Invoke(startServer)), cfg.Server.ShutdownTimeout, logger, printer)
}

// runApp starts app and blocks until ctx is cancelled or the application
// asks to shut down. A non-zero exit code is returned as an error.
func runApp(ctx context.Context, app *fx.App, timeout time.Duration, logger *zap.Logger, printer *diagnostics.Printer) error {
	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "start application")
	}
	printer.Success("application started")

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case sig := <-app.Wait():
		logger.Info("application requested shutdown", zap.Int("exit_code", sig.ExitCode))
		exitCode = sig.ExitCode
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return errors.Wrap(err, "stop application")
	}
	if exitCode != 0 {
		return errors.Newf("server exited with code %d", exitCode)
	}
	printer.Success("stopped")
	return nil
}
