package viewpoint

import (
	"math"
	"testing"
)

var testSurface = Surface{Width: 200, Height: 100, UnitWidth: 8, UnitHeight: 16}

func TestProjectorCenter(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		vp   Viewpoint
	}{
		{"Planar", Planar, Viewpoint{Center: bucharest, Zoom: 6}},
		{"Planar Rotated", Planar, Viewpoint{Center: bucharest, Zoom: 6, Heading: 90}},
		{"Perspective Top Down", Perspective, Viewpoint{Center: bucharest, Scale: 9244648}},
		{"Perspective Tilted", Perspective, Viewpoint{Center: bucharest, Scale: 9244648, Tilt: 45, Heading: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProjector(tt.kind, tt.vp, testSurface, WebMercatorMapping())
			x, y, ok := p.Project(tt.vp.Center)
			if !ok {
				t.Fatal("center not visible")
			}
			if math.Abs(x-100) > 1e-6 || math.Abs(y-50) > 1e-6 {
				t.Errorf("center projected to (%f, %f), want (100, 50)", x, y)
			}
		})
	}
}

func TestProjectorOrientation(t *testing.T) {
	north := LonLat{Lon: bucharest.Lon, Lat: bucharest.Lat + 0.5}
	east := LonLat{Lon: bucharest.Lon + 0.5, Lat: bucharest.Lat}

	for _, kind := range []Kind{Planar, Perspective} {
		vp := Viewpoint{Center: bucharest, Zoom: 6, Scale: 9244648}
		p := NewProjector(kind, vp, testSurface, WebMercatorMapping())

		_, ny, _ := p.Project(north)
		if ny >= 50 {
			t.Errorf("%s: north projected below center (y=%f)", kind, ny)
		}
		ex, _, _ := p.Project(east)
		if ex <= 100 {
			t.Errorf("%s: east projected left of center (x=%f)", kind, ex)
		}
	}

	// Heading 90 puts east at the top of a planar view.
	p := NewProjector(Planar, Viewpoint{Center: bucharest, Zoom: 6, Heading: 90}, testSurface, WebMercatorMapping())
	ex, ey, _ := p.Project(east)
	if math.Abs(ex-100) > 1e-6 || ey >= 50 {
		t.Errorf("rotated east projected to (%f, %f)", ex, ey)
	}
}

func TestProjectorUnprojectInverse(t *testing.T) {
	views := []struct {
		kind Kind
		vp   Viewpoint
	}{
		{Planar, Viewpoint{Center: bucharest, Zoom: 6, Heading: 20}},
		{Perspective, Viewpoint{Center: bucharest, Scale: 9244648}},
		{Perspective, Viewpoint{Center: bucharest, Scale: 9244648, Tilt: 50, Heading: 300}},
	}
	for _, v := range views {
		p := NewProjector(v.kind, v.vp, testSurface, WebMercatorMapping())
		for _, pt := range []LonLat{bucharest, {Lon: 25.5, Lat: 44.0}, {Lon: 26.7, Lat: 44.9}} {
			x, y, ok := p.Project(pt)
			if !ok {
				t.Fatalf("%s: %v not visible", v.kind, pt)
			}
			back, hit := p.Unproject(x, y)
			if !hit {
				t.Fatalf("%s: unproject of (%f, %f) missed the ground", v.kind, x, y)
			}
			if math.Abs(back.Lon-pt.Lon) > 1e-6 || math.Abs(back.Lat-pt.Lat) > 1e-6 {
				t.Errorf("%s: %v came back as %v", v.kind, pt, back)
			}
		}
	}
}

func TestProjectorHorizonMiss(t *testing.T) {
	vp := Viewpoint{Center: bucharest, Scale: 9244648, Tilt: 85}
	p := NewProjector(Perspective, vp, testSurface, WebMercatorMapping())
	if _, hit := p.Unproject(100, 0); hit {
		t.Error("expected the top edge of a nearly horizontal camera to miss the ground")
	}
}

func TestProjectorEmptySurface(t *testing.T) {
	p := NewProjector(Planar, Viewpoint{Center: bucharest, Zoom: 3}, Surface{}, WebMercatorMapping())
	if _, ok := p.Unproject(0, 0); ok {
		t.Error("unproject on an empty surface should fail")
	}
}
