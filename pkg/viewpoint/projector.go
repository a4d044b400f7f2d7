package viewpoint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/utils"
)

const (
	// metersPerInch / dpi converts a scale denominator to meters per pixel.
	metersPerPixelAtScale1 = 0.0254 / 96
	// DefaultFieldOfView is the vertical field of view of the perspective camera, in degrees.
	DefaultFieldOfView = 55.0
)

// Surface describes the drawing area a projector targets. A unit is one cell
// of the target (a terminal cell, an image pixel) and is UnitWidth by
// UnitHeight 96-DPI pixels large.
type Surface struct {
	Width      int
	Height     int
	UnitWidth  float64
	UnitHeight float64
}

func (s Surface) unit() (float64, float64) {
	uw, uh := s.UnitWidth, s.UnitHeight
	if uw <= 0 {
		uw = 1
	}
	if uh <= 0 {
		uh = 1
	}
	return uw, uh
}

// Projector maps lon/lat coordinates to surface units and back for one
// viewpoint under one projection model.
type Projector struct {
	kind    Kind
	vp      Viewpoint
	surface Surface

	// planar
	centerX, centerY float64
	resolution       float64
	sinH, cosH       float64

	// perspective
	mvp    mgl64.Mat4
	invMVP mgl64.Mat4
	cosLat float64
}

// NewProjector prepares a projector for v shown by a renderer of kind k.
func NewProjector(k Kind, v Viewpoint, surface Surface, m Mapping) *Projector {
	p := &Projector{kind: k, vp: v, surface: surface}
	uw, uh := surface.unit()

	scale := v.Scale
	if k == Planar {
		scale = m.ZoomToScale(v.Zoom)
	}
	p.resolution = scale * metersPerPixelAtScale1

	heading := utils.DegToRad(v.Heading)
	p.sinH, p.cosH = math.Sin(heading), math.Cos(heading)

	if k == Planar {
		p.centerX, p.centerY = utils.LonLatToMercator(v.Center.Lon, v.Center.Lat)
		return p
	}

	p.cosLat = math.Cos(utils.DegToRad(v.Center.Lat))
	fov := mgl64.DegToRad(DefaultFieldOfView)
	halfHeight := p.resolution * float64(surface.Height) * uh / 2
	distance := halfHeight / math.Tan(fov/2)
	tilt := utils.DegToRad(v.Tilt)

	forward := mgl64.Vec3{p.sinH, p.cosH, 0}
	eye := forward.Mul(-distance * math.Sin(tilt)).Add(mgl64.Vec3{0, 0, distance * math.Cos(tilt)})
	view := mgl64.LookAtV(eye, mgl64.Vec3{0, 0, 0}, forward)

	aspect := 1.0
	if surface.Height > 0 {
		aspect = (float64(surface.Width) * uw) / (float64(surface.Height) * uh)
	}
	proj := mgl64.Perspective(fov, aspect, distance*0.01, distance*100)
	p.mvp = proj.Mul4(view)
	p.invMVP = p.mvp.Inv()
	return p
}

// Kind returns the projection model of the projector.
func (p *Projector) Kind() Kind {
	return p.kind
}

// Project returns the surface position of pt and whether it is visible.
func (p *Projector) Project(pt LonLat) (x, y float64, ok bool) {
	w, h := float64(p.surface.Width), float64(p.surface.Height)
	if p.kind == Planar {
		uw, uh := p.surface.unit()
		mx, my := utils.LonLatToMercator(pt.Lon, pt.Lat)
		dx := (mx - p.centerX) / p.resolution
		dy := (my - p.centerY) / p.resolution
		rx := dx*p.cosH - dy*p.sinH
		ry := dx*p.sinH + dy*p.cosH
		x = w/2 + rx/uw
		y = h/2 - ry/uh
		return x, y, x >= 0 && x < w && y >= 0 && y < h
	}

	e, n := p.toLocal(pt)
	clip := p.mvp.Mul4x1(mgl64.Vec4{e, n, 0, 1})
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x = (ndc.X() + 1) / 2 * w
	y = (1 - ndc.Y()) / 2 * h
	return x, y, x >= 0 && x < w && y >= 0 && y < h && ndc.Z() >= -1 && ndc.Z() <= 1
}

// Unproject returns the ground coordinate under surface position (x, y).
// It reports false when the position does not hit the ground.
func (p *Projector) Unproject(x, y float64) (LonLat, bool) {
	w, h := float64(p.surface.Width), float64(p.surface.Height)
	if w == 0 || h == 0 {
		return LonLat{}, false
	}
	if p.kind == Planar {
		uw, uh := p.surface.unit()
		rx := (x - w/2) * uw
		ry := (h/2 - y) * uh
		dx := rx*p.cosH + ry*p.sinH
		dy := -rx*p.sinH + ry*p.cosH
		lon, lat := utils.MercatorToLonLat(p.centerX+dx*p.resolution, p.centerY+dy*p.resolution)
		return LonLat{Lon: lon, Lat: lat}, true
	}

	ndcX := 2*x/w - 1
	ndcY := 1 - 2*y/h
	near := p.invMVP.Mul4x1(mgl64.Vec4{ndcX, ndcY, -1, 1})
	far := p.invMVP.Mul4x1(mgl64.Vec4{ndcX, ndcY, 1, 1})
	if near.W() == 0 || far.W() == 0 {
		return LonLat{}, false
	}
	origin := near.Vec3().Mul(1 / near.W())
	dir := far.Vec3().Mul(1 / far.W()).Sub(origin)
	if dir.Z() >= 0 {
		return LonLat{}, false
	}
	hit := origin.Add(dir.Mul(-origin.Z() / dir.Z()))
	return p.fromLocal(hit.X(), hit.Y()), true
}

// toLocal converts to east/north meters around the viewpoint center.
func (p *Projector) toLocal(pt LonLat) (east, north float64) {
	east = utils.EarthRadiusMeters * utils.DegToRad(pt.Lon-p.vp.Center.Lon) * p.cosLat
	north = utils.EarthRadiusMeters * utils.DegToRad(pt.Lat-p.vp.Center.Lat)
	return east, north
}

func (p *Projector) fromLocal(east, north float64) LonLat {
	lat := p.vp.Center.Lat + utils.RadToDeg(north/utils.EarthRadiusMeters)
	lon := p.vp.Center.Lon
	if p.cosLat != 0 {
		lon += utils.RadToDeg(east / (utils.EarthRadiusMeters * p.cosLat))
	}
	return LonLat{Lon: lon, Lat: lat}
}
