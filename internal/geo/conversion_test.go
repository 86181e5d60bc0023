package geo

import (
	"math"
	"strings"
	"testing"
)

const (
	beijingLat = 39.9042
	beijingLon = 116.4074
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestOutOfChina(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"beijing", beijingLat, beijingLon, false},
		{"lon lower bound", 35, 72.004, false},
		{"lon below bound", 35, 72.003, true},
		{"lon upper bound", 35, 137.8347, false},
		{"lon above bound", 35, 137.8348, true},
		{"lat lower bound", 0.8293, 100, false},
		{"lat below bound", 0.8292, 100, true},
		{"lat upper bound", 55.8271, 100, false},
		{"lat above bound", 55.8272, 100, true},
		{"london", 51.5074, -0.1278, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutOfChina(tt.lat, tt.lon); got != tt.want {
				t.Errorf("OutOfChina(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestWGS84ToGCJ02OutOfChinaUnchanged(t *testing.T) {
	points := []Coordinate{
		{Lat: 51.5074, Lon: -0.1278},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 35, Lon: 72.003},
		{Lat: 60, Lon: 100},
	}

	for _, p := range points {
		got := WGS84ToGCJ02(p.Lat, p.Lon)
		if got != p {
			t.Errorf("WGS84ToGCJ02(%v) = %v, want unchanged", p, got)
		}
		if back := GCJ02ToWGS84(p.Lat, p.Lon); back != p {
			t.Errorf("GCJ02ToWGS84(%v) = %v, want unchanged", p, back)
		}
	}
}

func TestWGS84ToGCJ02Beijing(t *testing.T) {
	got := WGS84ToGCJ02(beijingLat, beijingLon)

	lat, lon := got.Fixed8()
	if lat != "39.90560334" || lon != "116.41364225" {
		t.Errorf("WGS84ToGCJ02(beijing) = %s, %s", lat, lon)
	}

	if tr := Transform(beijingLat, beijingLon); tr != got {
		t.Errorf("Transform = %v, WGS84ToGCJ02 = %v", tr, got)
	}
}

func TestGCJ02RoundTrip(t *testing.T) {
	points := []Coordinate{
		{Lat: beijingLat, Lon: beijingLon},
		{Lat: 31.2304, Lon: 121.4737},
		{Lat: 22.5431, Lon: 114.0579},
		{Lat: 30.5728, Lon: 104.0668},
	}

	for _, p := range points {
		gcj := WGS84ToGCJ02(p.Lat, p.Lon)

		// single pass inverse is a few meters off
		back := GCJ02ToWGS84(gcj.Lat, gcj.Lon)
		if !near(back.Lat, p.Lat, 2e-5) || !near(back.Lon, p.Lon, 2e-5) {
			t.Errorf("GCJ02ToWGS84 round trip of %v = %v", p, back)
		}
		if back == p {
			t.Errorf("GCJ02ToWGS84 round trip of %v is exact, expected an approximation", p)
		}

		exact := GCJ02ToWGS84Exact(gcj.Lat, gcj.Lon)
		if !near(exact.Lat, p.Lat, 1e-6) || !near(exact.Lon, p.Lon, 1e-6) {
			t.Errorf("GCJ02ToWGS84Exact round trip of %v = %v", p, exact)
		}
	}
}

func TestBD09RoundTrip(t *testing.T) {
	bd := GCJ02ToBD09(beijingLat, beijingLon)
	if near(bd.Lat, beijingLat, 1e-3) && near(bd.Lon, beijingLon, 1e-3) {
		t.Fatalf("GCJ02ToBD09 did not offset the point: %v", bd)
	}

	back := BD09ToGCJ02(bd.Lat, bd.Lon)
	if !near(back.Lat, beijingLat, 1e-6) || !near(back.Lon, beijingLon, 1e-6) {
		t.Errorf("BD09 round trip = %v, want within 1e-6 of beijing", back)
	}
}

func TestWGS84ToBD09ChainsThroughGCJ02(t *testing.T) {
	gcj := WGS84ToGCJ02(beijingLat, beijingLon)
	want := GCJ02ToBD09(gcj.Lat, gcj.Lon)

	if got := WGS84ToBD09(beijingLat, beijingLon); got != want {
		t.Errorf("WGS84ToBD09 = %v, want %v", got, want)
	}
}

func TestBD09ToWGS84Retain8(t *testing.T) {
	bd := WGS84ToBD09(beijingLat, beijingLon)
	got := BD09ToWGS84(bd.Lat, bd.Lon)

	lat, lon := got.Fixed8()
	if lat != "39.90420109" || lon != "116.40740375" {
		t.Errorf("BD09ToWGS84 = %s, %s", lat, lon)
	}

	for _, s := range []string{lat, lon} {
		dot := strings.IndexByte(s, '.')
		if dot < 0 || len(s)-dot-1 != 8 {
			t.Errorf("%q does not have 8 fractional digits", s)
		}
	}

	// the numeric result already equals its 8 digit form
	if Retain8(got.Lat) != lat || got.Lat != 39.90420109 {
		t.Errorf("BD09ToWGS84 latitude not rounded: %v", got.Lat)
	}
}

func TestRetain8(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{39.904226, "39.90422600"},
		{0, "0.00000000"},
		{-12.5, "-12.50000000"},
		{1.123456789, "1.12345679"},
	}

	for _, tt := range tests {
		if got := Retain8(tt.in); got != tt.want {
			t.Errorf("Retain8(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
