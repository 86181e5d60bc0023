// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/gcoord/internal/geo"
	"github.com/woozymasta/gcoord/internal/metrics"
	"github.com/woozymasta/gcoord/internal/processor"
)

const etagCap = 64

// PointResponse is the result of a single point conversion.
type PointResponse struct {
	From       geo.Datum `json:"from"`
	To         geo.Datum `json:"to"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	LatFixed   string    `json:"lat_fixed"`
	LonFixed   string    `json:"lon_fixed"`
	OutOfChina bool      `json:"out_of_china"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleDatums lists the supported datums.
func (s *ServerContext) HandleDatums(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, geo.Datums)
}

// HandleLayersList serves the JSON list of available layers.
func (s *ServerContext) HandleLayersList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Config.Layers)
}

// HandleConvert converts a single point given as query parameters (GET)
// or a GeoJSON document given as request body (POST).
func (s *ServerContext) HandleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := geo.ParseDatum(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from", err)
		return
	}
	to, err := geo.ParseDatum(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to", err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.convertPoint(w, r, from, to)
	case http.MethodPost:
		s.convertGeoJSON(w, r, from, to)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method", errors.New("method not allowed"))
	}
}

func (s *ServerContext) convertPoint(w http.ResponseWriter, r *http.Request, from, to geo.Datum) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || !isFinite(lat) {
		writeError(w, http.StatusBadRequest, "lat", errors.New("lat must be a finite number"))
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil || !isFinite(lon) {
		writeError(w, http.StatusBadRequest, "lon", errors.New("lon must be a finite number"))
		return
	}

	c, err := geo.Convert(from, to, geo.Coordinate{Lat: lat, Lon: lon})
	if err != nil {
		writeError(w, http.StatusBadRequest, "convert", err)
		return
	}
	// huge inputs overflow inside the BD-09 perturbation
	if !isFinite(c.Lat) || !isFinite(c.Lon) {
		writeError(w, http.StatusUnprocessableEntity, "range", errors.New("coordinate out of convertible range"))
		return
	}

	outside := geo.OutOfChina(lat, lon)
	if outside {
		metrics.OutOfChinaTotal.Inc()
	}
	metrics.ConversionsTotal.WithLabelValues(from.String(), to.String()).Inc()

	latFixed, lonFixed := c.Fixed8()
	writeJSON(w, http.StatusOK, PointResponse{
		From:       from,
		To:         to,
		Lat:        c.Lat,
		Lon:        c.Lon,
		LatFixed:   latFixed,
		LonFixed:   lonFixed,
		OutOfChina: outside,
	})
}

func (s *ServerContext) convertGeoJSON(w http.ResponseWriter, r *http.Request, from, to geo.Datum) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, "body", err)
		return
	}

	fc, err := geo.DecodeGeoJSON(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "geojson", err)
		return
	}

	converted, err := geo.ConvertFeatureCollection(fc, from, to)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "geometry", err)
		return
	}

	metrics.ConversionsTotal.WithLabelValues(from.String(), to.String()).Add(float64(len(converted.Features)))

	out, err := processor.MarshalCompact(converted)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode", err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(out)
}

// HandleLayer serves converted layer files: /layers/{name}.geojson
func (s *ServerContext) HandleLayer(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/layers/"), ".geojson")
	if !ok || name == "" || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}

	realName, ok := s.LayerResolver[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	if !s.serveFile(w, r, processor.LayerPath(s.LayersDir, realName), "application/geo+json") {
		http.NotFound(w, r)
		return
	}
	metrics.LayersServedTotal.WithLabelValues(realName).Inc()
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// writeJSON encodes v before touching the response so an encode failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		metrics.RequestErrorsTotal.WithLabelValues("encode").Inc()
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, reason string, err error) {
	metrics.RequestErrorsTotal.WithLabelValues(reason).Inc()
	log.Debug().Err(err).Str("reason", reason).Int("status", status).Msg("Request rejected")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
