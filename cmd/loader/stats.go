package main

import (
	"github.com/woozymasta/gcoord/internal/event"
	"github.com/woozymasta/gcoord/internal/geo"
	"github.com/woozymasta/gcoord/internal/processor"

	"github.com/rs/zerolog/log"
)

// stats counts layer outcomes reported through the processor events.
type stats struct {
	done     int
	skipped  int
	failed   int
	features int
}

func newStats() *stats {
	return &stats{}
}

func (s *stats) subscribe(d *event.Dispatcher) {
	d.On(processor.EventLayerStart, func(args ...any) error {
		name, from, to := args[0].(string), args[1].(geo.Datum), args[2].(geo.Datum)
		log.Info().
			Str("layer", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("Converting layer")
		return nil
	})

	d.On(processor.EventLayerSkip, func(args ...any) error {
		s.skipped++
		return nil
	})

	d.On(processor.EventLayerDone, func(args ...any) error {
		name, path, count := args[0].(string), args[1].(string), args[2].(int)
		s.done++
		s.features += count
		log.Info().
			Str("layer", name).
			Str("path", path).
			Int("features", count).
			Msg("Layer saved")
		return nil
	})

	d.On(processor.EventLayerError, func(args ...any) error {
		name, err := args[0].(string), args[1].(error)
		s.failed++
		log.Error().Err(err).Str("layer", name).Msg("Failed to process layer")
		return nil
	})
}
