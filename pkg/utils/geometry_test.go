package utils

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestPathLength(t *testing.T) {
	tests := []struct {
		name        string
		path        orb.LineString
		wantKm      float64
		toleranceKm float64
	}{
		{"Empty", nil, 0, 0},
		{"Single Point", orb.LineString{{26.1025, 44.4268}}, 0, 0},
		{"One Degree On Equator", orb.LineString{{0, 0}, {1, 0}}, 111.319, 0.01},
		{"Two Segments", orb.LineString{{0, 0}, {1, 0}, {2, 0}}, 222.639, 0.02},
		{"Bucharest To Sofia", orb.LineString{{26.1025, 44.4268}, {23.3219, 42.6977}}, 296, 3},
		{"Antimeridian", orb.LineString{{179.5, 0}, {-179.5, 0}}, 111.319, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PathLength(tt.path) / 1000
			if math.Abs(got-tt.wantKm) > tt.toleranceKm {
				t.Errorf("PathLength() = %.3f km, want %.3f km (±%.3f)", got, tt.wantKm, tt.toleranceKm)
			}
		})
	}
}

func TestRingArea(t *testing.T) {
	tests := []struct {
		name      string
		ring      orb.Ring
		wantKm2   float64
		tolerance float64
	}{
		{"Degenerate", orb.Ring{{0, 0}, {1, 1}}, 0, 0},
		{"One Degree Square At Equator", orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 12391, 20},
		{"Closed Ring Same Result", orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}, 12391, 20},
		{"Reversed Winding", orb.Ring{{0, 1}, {1, 1}, {1, 0}, {0, 0}}, 12391, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RingArea(tt.ring) / 1e6
			if math.Abs(got-tt.wantKm2) > tt.tolerance {
				t.Errorf("RingArea() = %.2f km², want %.2f km²", got, tt.wantKm2)
			}
		})
	}
}

func TestRingAreaLeavesInputOpen(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 0}, {1, 1}}
	RingArea(ring)
	if len(ring) != 3 {
		t.Errorf("RingArea() modified its input: %v", ring)
	}
}

func TestMercatorRoundTrip(t *testing.T) {
	points := [][2]float64{{0, 0}, {26.1025, 44.4268}, {-122.4, 37.8}, {179.9, -60}}
	for _, p := range points {
		x, y := LonLatToMercator(p[0], p[1])
		lon, lat := MercatorToLonLat(x, y)
		if math.Abs(lon-p[0]) > 1e-9 || math.Abs(lat-p[1]) > 1e-9 {
			t.Errorf("round trip of %v = (%f, %f)", p, lon, lat)
		}
	}
}

func TestMercatorClampsPoles(t *testing.T) {
	_, y := LonLatToMercator(0, 90)
	if math.IsInf(y, 0) || math.IsNaN(y) {
		t.Fatalf("LonLatToMercator(0, 90) y = %v", y)
	}
	if _, lat := MercatorToLonLat(0, y); math.Abs(lat-MaxMercatorLatitude) > 1e-6 {
		t.Errorf("clamped latitude = %f, want %f", lat, MaxMercatorLatitude)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
	}
	for _, tt := range tests {
		if got := NormalizeDegrees(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
