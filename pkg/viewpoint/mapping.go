package viewpoint

import (
	"errors"
	"math"
	"sort"
)

// WebMercatorReferenceScale is the scale denominator of zoom level 0 in the
// ArcGIS/Google Web Mercator tiling scheme at 96 DPI.
const WebMercatorReferenceScale = 591657527.591555

// LevelScale pairs a discrete zoom level with its map scale denominator.
type LevelScale struct {
	Level int
	Scale float64
}

// Mapping converts between planar zoom levels and perspective viewing
// scales. It is strictly monotonic (scale halves as zoom grows by one) and
// exactly invertible.
type Mapping struct {
	levels []LevelScale
}

// ErrNonMonotonicLevels is returned for a tiling scheme whose scales do not
// strictly decrease as the level increases.
var ErrNonMonotonicLevels = errors.New("level scales are not strictly decreasing")

// WebMercatorMapping returns the mapping of the standard Web Mercator tiling scheme.
func WebMercatorMapping() Mapping {
	return Mapping{}
}

// NewMapping builds a mapping from a tiling scheme's levels of detail.
// Between two levels the scale is interpolated on a log scale; beyond the
// first and last level it halves/doubles per level. An empty slice yields
// the Web Mercator mapping.
func NewMapping(levels []LevelScale) (Mapping, error) {
	if len(levels) == 0 {
		return WebMercatorMapping(), nil
	}
	sorted := make([]LevelScale, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	for i, ls := range sorted {
		if ls.Scale <= 0 {
			return Mapping{}, ErrNonMonotonicLevels
		}
		if i > 0 && (ls.Level == sorted[i-1].Level || ls.Scale >= sorted[i-1].Scale) {
			return Mapping{}, ErrNonMonotonicLevels
		}
	}
	return Mapping{levels: sorted}, nil
}

// Levels returns a copy of the levels the mapping was built from.
func (m Mapping) Levels() []LevelScale {
	out := make([]LevelScale, len(m.levels))
	copy(out, m.levels)
	return out
}

// ZoomToScale converts a (possibly fractional) zoom level to a scale denominator.
func (m Mapping) ZoomToScale(zoom float64) float64 {
	if len(m.levels) == 0 {
		return WebMercatorReferenceScale / math.Exp2(zoom)
	}
	first, last := m.levels[0], m.levels[len(m.levels)-1]
	switch {
	case zoom <= float64(first.Level):
		return first.Scale * math.Exp2(float64(first.Level)-zoom)
	case zoom >= float64(last.Level):
		return last.Scale / math.Exp2(zoom-float64(last.Level))
	}

	i := sort.Search(len(m.levels), func(i int) bool { return float64(m.levels[i].Level) >= zoom })
	lo, hi := m.levels[i-1], m.levels[i]
	t := (zoom - float64(lo.Level)) / float64(hi.Level-lo.Level)
	return math.Exp(math.Log(lo.Scale) + t*(math.Log(hi.Scale)-math.Log(lo.Scale)))
}

// ScaleToZoom converts a scale denominator to a fractional zoom level.
func (m Mapping) ScaleToZoom(scale float64) float64 {
	if len(m.levels) == 0 {
		return math.Log2(WebMercatorReferenceScale / scale)
	}
	first, last := m.levels[0], m.levels[len(m.levels)-1]
	switch {
	case scale >= first.Scale:
		return float64(first.Level) - math.Log2(scale/first.Scale)
	case scale <= last.Scale:
		return float64(last.Level) + math.Log2(last.Scale/scale)
	}

	// scales decrease with the index
	i := sort.Search(len(m.levels), func(i int) bool { return m.levels[i].Scale <= scale })
	lo, hi := m.levels[i-1], m.levels[i]
	t := (math.Log(scale) - math.Log(lo.Scale)) / (math.Log(hi.Scale) - math.Log(lo.Scale))
	return float64(lo.Level) + t*float64(hi.Level-lo.Level)
}
