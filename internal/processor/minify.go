package processor

import (
	"encoding/json"

	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"

	"github.com/woozymasta/gcoord/internal/geo"
)

const geoJSONMediaType = "application/geo+json"

var minifier = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(geoJSONMediaType, mjson.Minify)
	return m
}

// MarshalCompact encodes fc as JSON and runs it through the JSON minifier.
func MarshalCompact(fc geo.GeoJSONFeatureCollection) ([]byte, error) {
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, err
	}

	return minifier.Bytes(geoJSONMediaType, data)
}
