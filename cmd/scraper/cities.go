package main

import (
	"context"
	"errors"

	"github.com/ActivismeBe/geo-dataset/config"
	"github.com/ActivismeBe/geo-dataset/dataset/cities"
	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine"
)

// citiesCmd writes the Belgian cities to a GeoJSON file.
type citiesCmd struct{}

func (c *citiesCmd) Execute(ctx context.Context, app *App) error {
	if err := config.LoadEnvFile(app.EnvFile); err != nil {
		return err
	}

	cfg, errs := config.Load(app.ConfigFile)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	adapter, err := config.Connect(ctx, *cfg, sqlengine.WithLogger(app.Logger))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := adapter.Close(); closeErr != nil {
			app.Logger.Warn("closing database connection failed", "error", closeErr.Error())
		}
	}()

	exporter, err := cities.NewExporter(
		adapter,
		cities.WithSchema(cfg.Schema),
		cities.WithOutputPath(app.OutputPath),
		cities.WithLogger(app.Logger),
		cities.WithStdout(app.Stdout),
	)
	if err != nil {
		return err
	}

	return exporter.Run(ctx)
}

func (c *citiesCmd) Help() string {
	return "Writes all cities with their coordinates to a GeoJSON file."
}
