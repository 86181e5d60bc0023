// Package geo handles geographic data structures and coordinate conversions
// between the WGS-84, GCJ-02 and BD-09 datums.
package geo

import (
	"encoding/json"
	"fmt"
)

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	ID         any                    `json:"id,omitempty" yaml:"id,omitempty"`
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   *GeoJSONGeometry       `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature (Point, Polygon, etc.).
// Coordinates holds positions nested as deep as the geometry type requires,
// each position being [Lon, Lat, ...].
type GeoJSONGeometry struct {
	Type        string            `json:"type" yaml:"type"`
	Coordinates any               `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Geometries  []GeoJSONGeometry `json:"geometries,omitempty" yaml:"geometries,omitempty"`
}

// NewPoint builds a Point geometry from a coordinate.
func NewPoint(c Coordinate) *GeoJSONGeometry {
	return &GeoJSONGeometry{
		Type:        "Point",
		Coordinates: []any{c.Lon, c.Lat},
	}
}

// DecodeGeoJSON parses a FeatureCollection, a single Feature or a bare geometry.
// Features and geometries are wrapped into a one-element collection.
func DecodeGeoJSON(data []byte) (GeoJSONFeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return GeoJSONFeatureCollection{}, err
	}

	switch head.Type {
	case "FeatureCollection":
		var fc GeoJSONFeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return GeoJSONFeatureCollection{}, err
		}
		return fc, nil

	case "Feature":
		var f GeoJSONFeature
		if err := json.Unmarshal(data, &f); err != nil {
			return GeoJSONFeatureCollection{}, err
		}
		return GeoJSONFeatureCollection{Type: "FeatureCollection", Features: []GeoJSONFeature{f}}, nil

	case "Point", "MultiPoint", "LineString", "MultiLineString", "Polygon", "MultiPolygon", "GeometryCollection":
		var g GeoJSONGeometry
		if err := json.Unmarshal(data, &g); err != nil {
			return GeoJSONFeatureCollection{}, err
		}
		return GeoJSONFeatureCollection{
			Type:     "FeatureCollection",
			Features: []GeoJSONFeature{{Type: "Feature", Geometry: &g, Properties: map[string]interface{}{}}},
		}, nil

	default:
		return GeoJSONFeatureCollection{}, fmt.Errorf("%w: unsupported GeoJSON type %q", ErrInvalidGeometry, head.Type)
	}
}
