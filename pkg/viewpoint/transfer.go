package viewpoint

import (
	"math"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/utils"
)

// MinZoom is the lowest zoom level a planar renderer accepts.
const MinZoom = 0

// Transferer converts viewpoints between projection models. The zero value
// uses the Web Mercator mapping without zoom snapping.
type Transferer struct {
	Mapping Mapping
	// SnapZoom rounds planar zoom levels to whole tile levels.
	SnapZoom bool
}

// Transfer returns a viewpoint for target that frames the same ground
// location and approximate extent as v did under source. The center passes
// through unchanged, the framing magnitude is remapped through the mapping,
// tilt only exists in the perspective model and heading is kept.
func (t Transferer) Transfer(v Viewpoint, source, target Kind) Viewpoint {
	out := Viewpoint{
		Center:  v.Center,
		Heading: utils.NormalizeDegrees(v.Heading),
	}

	switch {
	case source == target && target == Perspective:
		out.Scale = v.Scale
		out.Tilt = v.Tilt
	case source == target:
		out.Zoom = t.planarZoom(v.Zoom)
	case target == Perspective:
		out.Scale = t.Mapping.ZoomToScale(v.Zoom)
	default:
		out.Zoom = t.planarZoom(t.Mapping.ScaleToZoom(v.Scale))
	}
	return out
}

func (t Transferer) planarZoom(zoom float64) float64 {
	if t.SnapZoom {
		zoom = math.Round(zoom)
	}
	return math.Max(MinZoom, zoom)
}
