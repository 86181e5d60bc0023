package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/woozymasta/gcoord/internal/config"
	"github.com/woozymasta/gcoord/internal/event"
	"github.com/woozymasta/gcoord/internal/geo"
	"github.com/woozymasta/gcoord/internal/logger"
	"github.com/woozymasta/gcoord/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string    `short:"c" long:"config"     env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	LayersDir  string    `short:"d" long:"layers-dir" env:"LAYERS_DIR"  description:"Directory for converted layers" default:"layers"`
	Limit      []string  `short:"l" long:"limit"      env:"LIMIT_NAMES" description:"Limit processing to specific layer names"`
	Target     geo.Datum `short:"t" long:"target"     env:"TARGET"      description:"Override target datum for every layer"`
	Timeout    int       `long:"timeout"              env:"TIMEOUT"     description:"HTTP timeout in seconds" default:"15"`
	Force      bool      `short:"f" long:"force"      description:"Force overwrite of existing files"`
	FailFast   bool      `short:"F" long:"fail-fast"  description:"Stop at the first failed layer"`
}

func main() {
	_ = godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = 15
	}
	client := &http.Client{Timeout: time.Duration(opts.Timeout) * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Filter layers if limit is set
	layersToProcess := cfg.Layers
	if len(opts.Limit) > 0 {
		layersToProcess = make([]config.Layer, 0)
		availableLayers := make(map[string]config.Layer)
		for _, l := range cfg.Layers {
			availableLayers[l.Name] = l
		}

		seen := make(map[string]bool)

		for _, limitName := range opts.Limit {
			if seen[limitName] {
				continue
			}
			seen[limitName] = true

			if l, ok := availableLayers[limitName]; ok {
				layersToProcess = append(layersToProcess, l)
			} else {
				log.Error().
					Str("name", limitName).
					Msg("Layer specified in --limit not found in configuration")
			}
		}
	}

	stats := newStats()
	events := event.New()
	stats.subscribe(events)

	log.Info().
		Int("layers_total", len(cfg.Layers)).
		Int("layers_queued", len(layersToProcess)).
		Msg("Starting loader")

	for _, layer := range layersToProcess {
		if opts.Target != "" {
			layer.Target = opts.Target
		}

		err := processor.ProcessLayer(ctx, client, layer, opts.LayersDir, opts.Force, events)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			log.Fatal().Err(ctx.Err()).Msg("Loader interrupted")
		}
		if opts.FailFast {
			log.Fatal().Err(err).Str("layer", layer.Name).Msg("Stopping at first failed layer")
		}
	}

	log.Info().
		Int("converted", stats.done).
		Int("skipped", stats.skipped).
		Int("failed", stats.failed).
		Int("features", stats.features).
		Msg("Loader finished")

	if stats.failed > 0 {
		os.Exit(1)
	}
}
