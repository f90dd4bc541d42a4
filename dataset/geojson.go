package dataset

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

const (
	// TypeFeatureCollection is the GeoJSON type tag of a FeatureCollection.
	TypeFeatureCollection = "FeatureCollection"

	// TypeFeature is the GeoJSON type tag of a Feature.
	TypeFeature = "Feature"

	// TypePoint is the GeoJSON type tag of a Point geometry.
	TypePoint = "Point"
)

var geoJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// FeatureCollection is an ordered list of features.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one city with its point geometry.
type Feature struct {
	ID         int64      `json:"id"`
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry is a GeoJSON Point.
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"` // [lng, lat]
}

// Properties are the descriptive fields of a city feature.
type Properties struct {
	Name       string `json:"name"`
	PostalCode Scalar `json:"postal_code"`
}

// NewFeatureCollection returns an empty collection whose features encode as [] and not null.
func NewFeatureCollection() FeatureCollection {
	return FeatureCollection{
		Type:     TypeFeatureCollection,
		Features: make([]Feature, 0),
	}
}

// Add appends a feature, keeping insertion order.
func (fc *FeatureCollection) Add(feature Feature) {
	fc.Features = append(fc.Features, feature)
}

// Len returns the number of features.
func (fc FeatureCollection) Len() int {
	return len(fc.Features)
}

// NewPoint builds a Point geometry. The coordinates are stored longitude first.
func NewPoint(latitude, longitude float64) Geometry {
	return Geometry{
		Type:        TypePoint,
		Coordinates: [2]float64{longitude, latitude},
	}
}

// Longitude returns the first coordinate.
func (g Geometry) Longitude() float64 {
	return g.Coordinates[0]
}

// Latitude returns the second coordinate.
func (g Geometry) Latitude() float64 {
	return g.Coordinates[1]
}

// EncodeFeatureCollection serializes the collection as GeoJSON.
func EncodeFeatureCollection(fc FeatureCollection) ([]byte, error) {
	if fc.Features == nil {
		fc.Features = make([]Feature, 0)
	}

	data, err := geoJSON.Marshal(fc)
	if err != nil {
		return nil, errors.Join(ErrEncodingDatasetFailed, err)
	}

	return data, nil
}

// DecodeFeatureCollection parses GeoJSON produced by EncodeFeatureCollection.
func DecodeFeatureCollection(data []byte) (FeatureCollection, error) {
	fc := NewFeatureCollection()

	if err := geoJSON.Unmarshal(data, &fc); err != nil {
		return FeatureCollection{}, err
	}

	if fc.Features == nil {
		fc.Features = make([]Feature, 0)
	}

	return fc, nil
}
