package server

import (
	"net/http"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/gcoord/internal/config"
	"github.com/woozymasta/gcoord/internal/metrics"
	"github.com/woozymasta/gcoord/internal/processor"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config        *config.Config
	LayerResolver map[string]string
	LayersDir     string
	MaxBodyBytes  int64
}

// NewServerContext initializes the context and processes the layer configuration.
// It filters out layers whose converted file is missing and sets up the name resolver.
func NewServerContext(cfg *config.Config, layersDir string) *ServerContext {
	log.Info().Int("config_layers_count", len(cfg.Layers)).Msg("Initializing server context")

	resolver := make(map[string]string)
	validLayers := make([]config.Layer, 0, len(cfg.Layers))

	for i := range cfg.Layers {
		layer := &cfg.Layers[i]

		path := processor.LayerPath(layersDir, layer.Name)
		if _, err := os.Stat(path); err != nil {
			log.Warn().
				Str("layer", layer.Name).
				Str("path", path).
				Msg("Skipping layer: converted file not found, run the loader first")
			continue
		}

		// Setup Resolver
		resolver[layer.Name] = layer.Name
		for _, alias := range layer.Aliases {
			resolver[alias] = layer.Name
		}

		log.Debug().
			Str("layer", layer.Name).
			Str("datum", layer.Target.String()).
			Msg("Layer validated and added to context")

		validLayers = append(validLayers, *layer)
	}

	cfg.Layers = validLayers

	sort.Slice(cfg.Layers, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if cfg.Layers[i].Index != nil {
			idxI = *cfg.Layers[i].Index
		}
		if cfg.Layers[j].Index != nil {
			idxJ = *cfg.Layers[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return cfg.Layers[i].Name < cfg.Layers[j].Name
	})

	log.Info().
		Int("valid_layers_count", len(cfg.Layers)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:        cfg,
		LayerResolver: resolver,
		LayersDir:     layersDir,
		MaxBodyBytes:  16 << 20,
	}
}

// Routes returns the request-logged handler tree.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/datums", s.HandleDatums)
	mux.HandleFunc("/api/convert", s.HandleConvert)
	mux.HandleFunc("/api/layers", s.HandleLayersList)
	mux.HandleFunc("/layers/", s.HandleLayer)
	mux.Handle("/metrics", metrics.Handler())

	return RequestLogger(mux)
}
