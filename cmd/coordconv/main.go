package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/woozymasta/gcoord/internal/geo"
	"github.com/woozymasta/gcoord/internal/logger"
	"github.com/woozymasta/gcoord/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	From    geo.Datum `short:"f" long:"from"    env:"COORD_FROM" description:"Source datum (wgs84, gcj02, bd09 or alias)" required:"true"`
	To      geo.Datum `short:"t" long:"to"      env:"COORD_TO"   description:"Target datum (wgs84, gcj02, bd09 or alias)" required:"true"`
	Input   string    `short:"i" long:"in"      description:"Input GeoJSON file path. Reads from stdin if empty"`
	Output  string    `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	Format  string    `short:"F" long:"format"  description:"Output format" choice:"text" choice:"json" choice:"yaml" default:"text"`
	Exact   bool      `short:"e" long:"exact"   description:"Use the iterative inverse for gcj02 to wgs84"`
	Compact bool      `short:"C" long:"compact" description:"Minify GeoJSON output"`

	Point struct {
		Lat string `positional-arg-name:"LAT"`
		Lon string `positional-arg-name:"LON"`
	} `positional-args:"yes"`
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

	var outputData []byte
	var err error

	if opts.Point.Lat != "" || opts.Point.Lon != "" {
		outputData, err = convertPoint(opts)
	} else {
		outputData, err = convertDocument(opts)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output file")
		}
		log.Info().
			Str("path", opts.Output).
			Str("from", opts.From.String()).
			Str("to", opts.To.String()).
			Msg("Conversion written")
		return
	}

	fmt.Println(string(outputData))
}

// convertPoint handles the LAT LON positional form.
func convertPoint(opts Options) ([]byte, error) {
	lat, err := strconv.ParseFloat(opts.Point.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", opts.Point.Lat, err)
	}
	lon, err := strconv.ParseFloat(opts.Point.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", opts.Point.Lon, err)
	}

	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return nil, fmt.Errorf("coordinates must be finite: %s %s", opts.Point.Lat, opts.Point.Lon)
	}

	c, err := convert(opts, geo.Coordinate{Lat: lat, Lon: lon})
	if err != nil {
		return nil, err
	}
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return nil, fmt.Errorf("coordinates out of convertible range: %s %s", opts.Point.Lat, opts.Point.Lon)
	}

	log.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Bool("out_of_china", geo.OutOfChina(lat, lon)).
		Msg("Converted point")

	switch opts.Format {
	case "json":
		return json.Marshal(c)
	case "yaml":
		return yaml.Marshal(c)
	default:
		latFixed, lonFixed := c.Fixed8()
		return []byte(latFixed + " " + lonFixed), nil
	}
}

func convert(opts Options, c geo.Coordinate) (geo.Coordinate, error) {
	if opts.Exact && opts.From == geo.GCJ02 && opts.To == geo.WGS84 {
		return geo.GCJ02ToWGS84Exact(c.Lat, c.Lon), nil
	}
	return geo.Convert(opts.From, opts.To, c)
}

// convertDocument converts a GeoJSON document read from a file or stdin.
func convertDocument(opts Options) ([]byte, error) {
	var inputData []byte
	var err error

	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
	} else {
		inputData, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	fc, err := geo.DecodeGeoJSON(inputData)
	if err != nil {
		return nil, fmt.Errorf("decode GeoJSON: %w", err)
	}

	converted, err := geo.ConvertFeatureCollection(fc, opts.From, opts.To)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("features", len(converted.Features)).Msg("Converted GeoJSON")

	switch {
	case opts.Format == "yaml":
		return yaml.Marshal(converted)
	case opts.Compact:
		return processor.MarshalCompact(converted)
	default:
		return json.MarshalIndent(converted, "", "  ")
	}
}
