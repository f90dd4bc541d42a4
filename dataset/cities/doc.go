// Package cities exports the Belgian cities dataset.
//
// It builds the cities/provinces join for the connection's dialect, maps every row to a GeoJSON
// Feature with [longitude, latitude] coordinates and writes the FeatureCollection to disk.
//
//	exporter, err := cities.NewExporter(adapter, cities.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	return exporter.Run(ctx)
package cities
