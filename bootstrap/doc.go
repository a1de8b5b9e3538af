// Package bootstrap orchestrates the lifecycle of wirekit applications.
//
// NewApp validates the typed config, initializes the logger, builds the root
// context and registers the infrastructure components the config enables:
// OpenTelemetry export and the read-only inspection server.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithRootDefinition(appcontext.Definition{
//	    Singletons: map[string]di.Factory{"catalog": di.ClassOf[Catalog]()},
//	}))
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    return a.Root.Bind(handler)
//	})
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Components start in registration order and stop in reverse order. The root
// context is destroyed after every component has stopped.
package bootstrap
