// Package processor fetches GeoJSON layers and converts them between datums.
package processor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/woozymasta/gcoord/internal/config"
	"github.com/woozymasta/gcoord/internal/event"
	"github.com/woozymasta/gcoord/internal/geo"

	"github.com/rs/zerolog/log"
)

// Events emitted while processing a layer.
//
//	layer:start  (name string, from, to geo.Datum)
//	layer:skip   (name string, path string)
//	layer:done   (name string, path string, features int)
//	layer:error  (name string, err error)
const (
	EventLayerStart = "layer:start"
	EventLayerSkip  = "layer:skip"
	EventLayerDone  = "layer:done"
	EventLayerError = "layer:error"
)

// LayerPath returns the file a converted layer is stored in.
func LayerPath(dir, name string) string {
	return filepath.Join(dir, name+".geojson")
}

// ProcessLayer fetches a layer from its inline data or source URL, converts it
// into the layer's target datum and writes it under dir.
// An existing file is kept unless force is set.
func ProcessLayer(ctx context.Context, client *http.Client, l config.Layer, dir string, force bool, events *event.Dispatcher) error {
	if events == nil {
		events = event.New()
	}

	destFile := LayerPath(dir, l.Name)

	// Check if file exists
	if _, err := os.Stat(destFile); err == nil && !force {
		log.Debug().Str("layer", l.Name).Msg("Layer file exists, skipping")
		return events.Emit(EventLayerSkip, l.Name, destFile)
	}

	if l.Inline == nil && l.Source == "" {
		log.Warn().Str("layer", l.Name).Msg("Layer has neither inline data nor source, skipping")
		return events.Emit(EventLayerSkip, l.Name, destFile)
	}

	if err := events.Emit(EventLayerStart, l.Name, l.Datum, l.Target); err != nil {
		return err
	}

	count, err := convertLayer(ctx, client, l, dir, destFile)
	if err != nil {
		if emitErr := events.Emit(EventLayerError, l.Name, err); emitErr != nil {
			return emitErr
		}
		return err
	}

	return events.Emit(EventLayerDone, l.Name, destFile, count)
}

func convertLayer(ctx context.Context, client *http.Client, l config.Layer, dir, destFile string) (int, error) {
	var fc geo.GeoJSONFeatureCollection
	var err error

	// Inline Data Priority
	if l.Inline != nil {
		log.Info().
			Str("layer", l.Name).
			Msg("Using inline GeoJSON data from config")
		fc = *l.Inline
	} else {
		log.Info().
			Str("layer", l.Name).
			Str("source", l.Source).
			Msg("Fetching layer from URL")

		fc, err = fetchGeoJSON(ctx, client, l.Source)
		if err != nil {
			return 0, fmt.Errorf("fetch %s: %w", l.Source, err)
		}
	}

	converted, err := geo.ConvertFeatureCollection(fc, l.Datum, l.Target)
	if err != nil {
		return 0, fmt.Errorf("convert %s to %s: %w", l.Datum, l.Target, err)
	}

	if err := saveGeoJSON(dir, destFile, converted); err != nil {
		return 0, err
	}

	return len(converted.Features), nil
}

// saveGeoJSON writes the minified feature collection to disk.
// The data goes to a temporary file in dir first, so an interrupted write
// never leaves a partial layer that later runs would skip.
func saveGeoJSON(dir, path string, fc geo.GeoJSONFeatureCollection) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := MarshalCompact(fc)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		log.Warn().Err(err).Str("path", tmp).Msg("Failed to set layer file mode")
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}

	return nil
}
