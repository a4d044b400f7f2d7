package viewpoint

import (
	"errors"
	"math"
	"testing"
)

var bucharest = LonLat{Lon: 26.1025, Lat: 44.4268}

func TestKind(t *testing.T) {
	if Planar.String() != "2D" || Perspective.String() != "3D" {
		t.Errorf("unexpected labels %q %q", Planar, Perspective)
	}
	if Planar.Other() != Perspective || Perspective.Other() != Planar {
		t.Error("Other() is not an involution")
	}
	if Kind(7).Valid() {
		t.Error("Kind(7) reported valid")
	}

	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"2D", Planar, false},
		{"planar", Planar, false},
		{" 3d ", Perspective, false},
		{"Perspective", Perspective, false},
		{"4D", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		vp      Viewpoint
		kind    Kind
		wantErr bool
	}{
		{"Planar OK", Viewpoint{Center: bucharest, Zoom: 6}, Planar, false},
		{"Perspective OK", Viewpoint{Center: bucharest, Scale: 123456789, Tilt: 45}, Perspective, false},
		{"Bad Latitude", Viewpoint{Center: LonLat{Lat: 91}, Zoom: 1}, Planar, true},
		{"Negative Zoom", Viewpoint{Center: bucharest, Zoom: -1}, Planar, true},
		{"Zero Scale", Viewpoint{Center: bucharest}, Perspective, true},
		{"Horizontal Tilt", Viewpoint{Center: bucharest, Scale: 1000, Tilt: 90}, Perspective, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.vp.Validate(tt.kind); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWebMercatorMapping(t *testing.T) {
	m := WebMercatorMapping()
	if got := m.ZoomToScale(0); math.Abs(got-WebMercatorReferenceScale) > 1e-6 {
		t.Errorf("ZoomToScale(0) = %f", got)
	}
	if got := m.ZoomToScale(6); math.Abs(got-9244648.868618) > 1e-3 {
		t.Errorf("ZoomToScale(6) = %f", got)
	}
	// The default perspective start scale sits a little above zoom 2.
	if got := m.ScaleToZoom(123456789); math.Abs(got-2.2607) > 1e-3 {
		t.Errorf("ScaleToZoom(123456789) = %f", got)
	}
}

func TestMappingMonotonicAndInvertible(t *testing.T) {
	lods := []LevelScale{
		{Level: 2, Scale: 147914381.897889},
		{Level: 0, Scale: 591657527.591555},
		{Level: 1, Scale: 295828763.795777},
		{Level: 5, Scale: 18489297.737236},
	}
	m, err := NewMapping(lods)
	if err != nil {
		t.Fatalf("NewMapping() error = %v", err)
	}
	if levels := m.Levels(); levels[0].Level != 0 || levels[3].Level != 5 {
		t.Errorf("levels not sorted: %+v", levels)
	}

	prev := math.Inf(1)
	for zoom := -2.0; zoom <= 9; zoom += 0.25 {
		scale := m.ZoomToScale(zoom)
		if scale >= prev {
			t.Fatalf("ZoomToScale not strictly decreasing at zoom %f", zoom)
		}
		prev = scale
		if back := m.ScaleToZoom(scale); math.Abs(back-zoom) > 1e-9 {
			t.Errorf("ScaleToZoom(ZoomToScale(%f)) = %f", zoom, back)
		}
	}
}

func TestNewMappingRejectsBadLevels(t *testing.T) {
	tests := []struct {
		name   string
		levels []LevelScale
	}{
		{"Increasing Scale", []LevelScale{{0, 100}, {1, 200}}},
		{"Duplicate Level", []LevelScale{{0, 100}, {0, 50}}},
		{"Zero Scale", []LevelScale{{0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMapping(tt.levels); !errors.Is(err, ErrNonMonotonicLevels) {
				t.Errorf("NewMapping() error = %v, want ErrNonMonotonicLevels", err)
			}
		})
	}
	if m, err := NewMapping(nil); err != nil || len(m.Levels()) != 0 {
		t.Errorf("NewMapping(nil) = %+v, %v", m, err)
	}
}

func TestTransferRoundTrip(t *testing.T) {
	tr := Transferer{Mapping: WebMercatorMapping()}
	inputs := []Viewpoint{
		{Center: bucharest, Zoom: 6},
		{Center: LonLat{Lon: -122.4194, Lat: 37.7749}, Zoom: 12.5, Heading: 30},
		{Center: LonLat{Lon: 0, Lat: 0}, Zoom: 0},
		{Center: LonLat{Lon: 179.99, Lat: -60}, Zoom: 18.75, Heading: -45},
	}

	for _, v := range inputs {
		there := tr.Transfer(v, Planar, Perspective)
		if there.Center != v.Center {
			t.Errorf("center changed on the way out: %v -> %v", v.Center, there.Center)
		}
		if there.Tilt != 0 {
			t.Errorf("planar framing produced tilt %f", there.Tilt)
		}
		if there.Scale <= 0 {
			t.Errorf("perspective scale %f not positive", there.Scale)
		}

		back := tr.Transfer(there, Perspective, Planar)
		if back.Center != v.Center {
			t.Errorf("center changed on round trip: %v -> %v", v.Center, back.Center)
		}
		if math.Abs(back.Zoom-v.Zoom) > 1e-9 {
			t.Errorf("zoom %f came back as %f", v.Zoom, back.Zoom)
		}
		wantHeading := math.Mod(v.Heading+360, 360)
		if math.Abs(back.Heading-wantHeading) > 1e-9 {
			t.Errorf("heading %f came back as %f", v.Heading, back.Heading)
		}
	}
}

func TestTransferSnapZoom(t *testing.T) {
	tr := Transferer{Mapping: WebMercatorMapping(), SnapZoom: true}
	v := Viewpoint{Center: bucharest, Scale: 123456789, Tilt: 30}

	planar := tr.Transfer(v, Perspective, Planar)
	if planar.Zoom != 2 {
		t.Errorf("snapped zoom = %f, want 2", planar.Zoom)
	}
	if planar.Tilt != 0 {
		t.Errorf("planar viewpoint kept tilt %f", planar.Tilt)
	}

	// Round trip from planar stays within half a level.
	start := Viewpoint{Center: bucharest, Zoom: 6.3}
	back := tr.Transfer(tr.Transfer(start, Planar, Perspective), Perspective, Planar)
	if math.Abs(back.Zoom-start.Zoom) > 0.5 {
		t.Errorf("snapped round trip drifted: %f -> %f", start.Zoom, back.Zoom)
	}
}

func TestTransferSameKind(t *testing.T) {
	tr := Transferer{}
	v := Viewpoint{Center: bucharest, Scale: 5000, Tilt: 40, Heading: 370}
	got := tr.Transfer(v, Perspective, Perspective)
	if got.Scale != 5000 || got.Tilt != 40 || math.Abs(got.Heading-10) > 1e-9 {
		t.Errorf("Transfer(same kind) = %+v", got)
	}
}

func TestTransferClampsZoom(t *testing.T) {
	tr := Transferer{}
	got := tr.Transfer(Viewpoint{Center: bucharest, Scale: WebMercatorReferenceScale * 8}, Perspective, Planar)
	if got.Zoom != MinZoom {
		t.Errorf("zoom = %f, want %d", got.Zoom, MinZoom)
	}
}

func TestTransferDropsTiltThroughPlanar(t *testing.T) {
	tr := Transferer{Mapping: WebMercatorMapping()}
	tests := []struct {
		name string
		v    Viewpoint
	}{
		{"tilted", Viewpoint{Center: bucharest, Scale: 123456789, Tilt: 45, Heading: 20}},
		{"steep close up", Viewpoint{Center: LonLat{Lon: 2.35, Lat: 48.85}, Scale: 50000, Tilt: 80}},
		{"level", Viewpoint{Center: bucharest, Scale: 5000000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planar := tr.Transfer(tt.v, Perspective, Planar)
			back := tr.Transfer(planar, Planar, Perspective)
			if back.Tilt != 0 {
				t.Errorf("tilt %f survived the planar hop as %f", tt.v.Tilt, back.Tilt)
			}
			if back.Center != tt.v.Center {
				t.Errorf("center %v came back as %v", tt.v.Center, back.Center)
			}
			if math.Abs(back.Scale-tt.v.Scale)/tt.v.Scale > 1e-9 {
				t.Errorf("scale %f came back as %f", tt.v.Scale, back.Scale)
			}
			if math.Abs(back.Heading-tt.v.Heading) > 1e-9 {
				t.Errorf("heading %f came back as %f", tt.v.Heading, back.Heading)
			}
		})
	}
}
