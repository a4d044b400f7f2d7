package utils

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/project"
)

const (
	// EarthRadiusMeters is the WGS84 equatorial radius used for all geodesic helpers.
	EarthRadiusMeters = orb.EarthRadius
	// MaxMercatorLatitude is the latitude where Web Mercator is clipped.
	MaxMercatorLatitude = 85.05112878
)

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// PathLength returns the great-circle length in meters of a lon/lat path.
func PathLength(path orb.LineString) float64 {
	if len(path) < 2 {
		return 0
	}
	return geo.LengthHaversine(path)
}

// RingArea returns the area in square meters enclosed by a lon/lat ring on
// the sphere. The ring does not need to be closed explicitly.
func RingArea(ring orb.Ring) float64 {
	if !ring.Closed() && len(ring) > 0 {
		closed := make(orb.Ring, len(ring), len(ring)+1)
		copy(closed, ring)
		ring = append(closed, ring[0])
	}
	if len(ring) < 4 {
		return 0
	}
	return math.Abs(geo.Area(ring))
}

// LonLatToMercator projects lon/lat degrees to Web Mercator meters.
func LonLatToMercator(lon, lat float64) (x, y float64) {
	lat = math.Max(-MaxMercatorLatitude, math.Min(MaxMercatorLatitude, lat))
	p := project.WGS84.ToMercator(orb.Point{lon, lat})
	return p.X(), p.Y()
}

// MercatorToLonLat converts Web Mercator meters back to lon/lat degrees.
func MercatorToLonLat(x, y float64) (lon, lat float64) {
	p := project.Mercator.ToWGS84(orb.Point{x, y})
	return p.Lon(), p.Lat()
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
