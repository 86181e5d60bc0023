package geo

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownDatum is returned for datum names outside WGS84, GCJ02 and BD09.
var ErrUnknownDatum = errors.New("unknown datum")

// Datum identifies a coordinate reference system.
type Datum string

// Supported datums.
const (
	WGS84 Datum = "wgs84"
	GCJ02 Datum = "gcj02"
	BD09  Datum = "bd09"
)

// Datums lists every supported datum in a stable order.
var Datums = []Datum{WGS84, GCJ02, BD09}

var datumAliases = map[string]Datum{
	"wgs84":  WGS84,
	"wgs-84": WGS84,
	"wgs":    WGS84,
	"gps":    WGS84,
	"gcj02":  GCJ02,
	"gcj-02": GCJ02,
	"gcj":    GCJ02,
	"mars":   GCJ02,
	"amap":   GCJ02,
	"bd09":   BD09,
	"bd-09":  BD09,
	"bd":     BD09,
	"baidu":  BD09,
}

// ParseDatum resolves a datum name or alias, ignoring case and surrounding spaces.
func ParseDatum(name string) (Datum, error) {
	if d, ok := datumAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDatum, name)
}

// Valid reports whether d is one of the supported datums.
func (d Datum) Valid() bool {
	return d == WGS84 || d == GCJ02 || d == BD09
}

func (d Datum) String() string { return string(d) }

// UnmarshalYAML lets configuration files use any datum alias.
func (d *Datum) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseDatum(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Convert moves c from one datum to another.
// Converting a datum into itself returns c unchanged.
func Convert(from, to Datum, c Coordinate) (Coordinate, error) {
	if !from.Valid() {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrUnknownDatum, from)
	}
	if !to.Valid() {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrUnknownDatum, to)
	}

	switch {
	case from == to:
		return c, nil
	case from == WGS84 && to == GCJ02:
		return WGS84ToGCJ02(c.Lat, c.Lon), nil
	case from == GCJ02 && to == WGS84:
		return GCJ02ToWGS84(c.Lat, c.Lon), nil
	case from == GCJ02 && to == BD09:
		return GCJ02ToBD09(c.Lat, c.Lon), nil
	case from == BD09 && to == GCJ02:
		return BD09ToGCJ02(c.Lat, c.Lon), nil
	case from == WGS84 && to == BD09:
		return WGS84ToBD09(c.Lat, c.Lon), nil
	default: // BD09 -> WGS84
		return BD09ToWGS84(c.Lat, c.Lon), nil
	}
}

// UnmarshalFlag lets command line options accept any datum alias.
func (d *Datum) UnmarshalFlag(value string) error {
	parsed, err := ParseDatum(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
