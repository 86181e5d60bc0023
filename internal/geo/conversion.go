package geo

import (
	"math"
	"strconv"
)

// Krasovsky 1940 ellipsoid parameters used by the GCJ-02 offset.
const (
	a  = 6378245.0
	ee = 0.00669342162296594323

	pi  = 3.1415926535897932384626
	xPi = 3.14159265358979324 * 3000.0 / 180.0
)

// Offsets applied by BD-09 on top of the GCJ-02 polar perturbation.
const (
	bdLatOffset = 0.006
	bdLonOffset = 0.0065
)

const exactMaxIterations = 30

// Coordinate is a (latitude, longitude) pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Fixed8 formats both components with exactly 8 digits after the decimal point.
func (c Coordinate) Fixed8() (lat, lon string) {
	return Retain8(c.Lat), Retain8(c.Lon)
}

// OutOfChina reports whether the point lies outside the mainland China
// bounding box, where no GCJ-02 offset applies.
func OutOfChina(lat, lon float64) bool {
	if lon < 72.004 || lon > 137.8347 {
		return true
	}
	if lat < 0.8293 || lat > 55.8271 {
		return true
	}
	return false
}

func transformLat(x, y float64) float64 {
	ret := -100.0 + 2.0*x + 3.0*y + 0.2*y*y + 0.1*x*y + 0.2*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*pi) + 20.0*math.Sin(2.0*x*pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(y*pi) + 40.0*math.Sin(y/3.0*pi)) * 2.0 / 3.0
	ret += (160.0*math.Sin(y/12.0*pi) + 320*math.Sin(y*pi/30.0)) * 2.0 / 3.0
	return ret
}

func transformLon(x, y float64) float64 {
	ret := 300.0 + x + 2.0*y + 0.1*x*x + 0.1*x*y + 0.1*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*pi) + 20.0*math.Sin(2.0*x*pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(x*pi) + 40.0*math.Sin(x/3.0*pi)) * 2.0 / 3.0
	ret += (150.0*math.Sin(x/12.0*pi) + 300.0*math.Sin(x/30.0*pi)) * 2.0 / 3.0
	return ret
}

// Transform applies the GCJ-02 offset computed at (lat, lon).
// Points outside China are returned unchanged.
func Transform(lat, lon float64) Coordinate {
	if OutOfChina(lat, lon) {
		return Coordinate{Lat: lat, Lon: lon}
	}

	dLat := transformLat(lon-105.0, lat-35.0)
	dLon := transformLon(lon-105.0, lat-35.0)

	// rescale by the local ellipsoid curvature
	radLat := lat / 180.0 * pi
	magic := math.Sin(radLat)
	magic = 1 - ee*magic*magic
	sqrtMagic := math.Sqrt(magic)

	dLat = (dLat * 180.0) / ((a * (1 - ee)) / (magic * sqrtMagic) * pi)
	dLon = (dLon * 180.0) / (a / sqrtMagic * math.Cos(radLat) * pi)

	return Coordinate{Lat: lat + dLat, Lon: lon + dLon}
}

// WGS84ToGCJ02 converts a WGS-84 point into GCJ-02.
func WGS84ToGCJ02(lat, lon float64) Coordinate {
	return Transform(lat, lon)
}

// GCJ02ToWGS84 converts a GCJ-02 point back to WGS-84.
//
// The offset is evaluated at the GCJ-02 point itself and reflected, so the
// result is accurate to a few meters rather than exact.
// Use GCJ02ToWGS84Exact when a tighter inverse is needed.
func GCJ02ToWGS84(lat, lon float64) Coordinate {
	gps := Transform(lat, lon)
	return Coordinate{
		Lat: lat*2 - gps.Lat,
		Lon: lon*2 - gps.Lon,
	}
}

// GCJ02ToWGS84Exact inverts WGS84ToGCJ02 by fixed-point refinement until the
// forward transform of the result lands within 1e-10 degrees of the input.
func GCJ02ToWGS84Exact(lat, lon float64) Coordinate {
	w := Coordinate{Lat: lat, Lon: lon}
	for i := 0; i < exactMaxIterations; i++ {
		g := Transform(w.Lat, w.Lon)
		dLat, dLon := g.Lat-lat, g.Lon-lon
		w.Lat -= dLat
		w.Lon -= dLon

		if math.Abs(dLat) < 1e-10 && math.Abs(dLon) < 1e-10 {
			break
		}
	}
	return w
}

// GCJ02ToBD09 converts a GCJ-02 point into BD-09.
func GCJ02ToBD09(lat, lon float64) Coordinate {
	x, y := lon, lat
	z := math.Sqrt(x*x+y*y) + 0.00002*math.Sin(y*xPi)
	theta := math.Atan2(y, x) + 0.000003*math.Cos(x*xPi)

	return Coordinate{
		Lat: z*math.Sin(theta) + bdLatOffset,
		Lon: z*math.Cos(theta) + bdLonOffset,
	}
}

// BD09ToGCJ02 converts a BD-09 point into GCJ-02.
func BD09ToGCJ02(lat, lon float64) Coordinate {
	x, y := lon-bdLonOffset, lat-bdLatOffset
	z := math.Sqrt(x*x+y*y) - 0.00002*math.Sin(y*xPi)
	theta := math.Atan2(y, x) - 0.000003*math.Cos(x*xPi)

	return Coordinate{
		Lat: z * math.Sin(theta),
		Lon: z * math.Cos(theta),
	}
}

// WGS84ToBD09 converts a WGS-84 point into BD-09 through GCJ-02.
func WGS84ToBD09(lat, lon float64) Coordinate {
	gcj := WGS84ToGCJ02(lat, lon)
	return GCJ02ToBD09(gcj.Lat, gcj.Lon)
}

// BD09ToWGS84 converts a BD-09 point into WGS-84 through GCJ-02.
// Both components are rounded to 8 decimal digits, see Retain8.
func BD09ToWGS84(lat, lon float64) Coordinate {
	gcj := BD09ToGCJ02(lat, lon)
	gps := GCJ02ToWGS84(gcj.Lat, gcj.Lon)
	return Coordinate{Lat: round8(gps.Lat), Lon: round8(gps.Lon)}
}

// Retain8 formats v as a fixed-point string with 8 digits after the decimal point.
func Retain8(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

func round8(v float64) float64 {
	r, err := strconv.ParseFloat(Retain8(v), 64)
	if err != nil {
		return v
	}
	return r
}
