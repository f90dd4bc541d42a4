// Package dataset provides the core types of the Belgian geo dataset exporter.
//
// It defines the GeoJSON model written to disk (FeatureCollection, Feature, Geometry),
// the typed CityRecord read from the database, the numeric-check Scalar used for
// loosely typed columns, and the DatabaseError that normalizes raw driver error
// messages of the shape "SQLSTATE[<state>] [<code>] <text>" into a code/message pair.
//
// Common usage pattern:
//
//	collection := dataset.NewFeatureCollection()
//	for _, city := range cities {
//		collection.Add(city.ToFeature())
//	}
//
//	payload, err := dataset.EncodeFeatureCollection(collection)
//	if err != nil {
//		// handle error
//	}
package dataset
