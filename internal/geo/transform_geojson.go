package geo

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned when a geometry holds malformed positions.
var ErrInvalidGeometry = errors.New("invalid geometry")

// ConvertFeatureCollection returns a copy of fc with every position moved
// from one datum to another. Properties are shared with the input.
func ConvertFeatureCollection(fc GeoJSONFeatureCollection, from, to Datum) (GeoJSONFeatureCollection, error) {
	out := GeoJSONFeatureCollection{
		Type:     fc.Type,
		Features: make([]GeoJSONFeature, 0, len(fc.Features)),
	}
	if out.Type == "" {
		out.Type = "FeatureCollection"
	}

	for i, f := range fc.Features {
		g, err := ConvertGeometry(f.Geometry, from, to)
		if err != nil {
			return GeoJSONFeatureCollection{}, fmt.Errorf("feature %d: %w", i, err)
		}
		f.Geometry = g
		out.Features = append(out.Features, f)
	}

	return out, nil
}

// ConvertGeometry returns a copy of g with every position converted.
// A nil geometry is returned as nil.
func ConvertGeometry(g *GeoJSONGeometry, from, to Datum) (*GeoJSONGeometry, error) {
	if g == nil {
		return nil, nil
	}

	out := &GeoJSONGeometry{Type: g.Type}

	if g.Type == "GeometryCollection" {
		out.Geometries = make([]GeoJSONGeometry, 0, len(g.Geometries))
		for _, child := range g.Geometries {
			c, err := ConvertGeometry(&child, from, to)
			if err != nil {
				return nil, err
			}
			out.Geometries = append(out.Geometries, *c)
		}
		return out, nil
	}

	coords, err := convertPositions(g.Coordinates, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Type, err)
	}
	out.Coordinates = coords

	return out, nil
}

// convertPositions walks nested coordinate arrays down to positions.
// An array whose first element is a number is treated as a position.
func convertPositions(v any, from, to Datum) (any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: coordinates must be an array, got %T", ErrInvalidGeometry, v)
	}
	if len(arr) == 0 {
		return []any{}, nil
	}

	if _, isNum := toFloat(arr[0]); isNum {
		return convertPosition(arr, from, to)
	}

	out := make([]any, 0, len(arr))
	for _, item := range arr {
		c, err := convertPositions(item, from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func convertPosition(pos []any, from, to Datum) ([]any, error) {
	if len(pos) < 2 {
		return nil, fmt.Errorf("%w: position needs at least 2 values, got %d", ErrInvalidGeometry, len(pos))
	}

	lon, okLon := toFloat(pos[0])
	lat, okLat := toFloat(pos[1])
	if !okLon || !okLat {
		return nil, fmt.Errorf("%w: non-numeric position %v", ErrInvalidGeometry, pos)
	}

	c, err := Convert(from, to, Coordinate{Lat: lat, Lon: lon})
	if err != nil {
		return nil, err
	}

	out := make([]any, len(pos))
	copy(out, pos)
	out[0], out[1] = c.Lon, c.Lat
	return out, nil
}

// toFloat accepts the number types produced by encoding/json and yaml.v3.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
