package processor

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/woozymasta/gcoord/internal/geo"
)

// maxLayerSize caps the body read from a layer source.
const maxLayerSize = 64 << 20

// fetchGeoJSON downloads and parses a GeoJSON document.
func fetchGeoJSON(ctx context.Context, client *http.Client, url string) (geo.GeoJSONFeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return geo.GeoJSONFeatureCollection{}, err
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := client.Do(req)
	if err != nil {
		return geo.GeoJSONFeatureCollection{}, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return geo.GeoJSONFeatureCollection{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLayerSize+1))
	if err != nil {
		return geo.GeoJSONFeatureCollection{}, err
	}
	if len(data) > maxLayerSize {
		return geo.GeoJSONFeatureCollection{}, fmt.Errorf("layer exceeds %d bytes", maxLayerSize)
	}

	return geo.DecodeGeoJSON(data)
}
