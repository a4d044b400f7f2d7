package term

import (
	"math"
	"testing"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/measure"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

func TestMeasurementWidgetResult(t *testing.T) {
	tests := []struct {
		name      string
		variant   measure.Variant
		vertices  []viewpoint.LonLat
		wantOK    bool
		wantValue float64
		wantUnit  string
		tolerance float64
	}{
		{
			name:     "no tool",
			variant:  measure.VariantNone,
			vertices: []viewpoint.LonLat{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}},
		},
		{
			name:     "distance needs two vertices",
			variant:  measure.VariantDistance,
			vertices: []viewpoint.LonLat{{Lon: 0, Lat: 0}},
		},
		{
			name:      "distance along equator",
			variant:   measure.VariantDistance,
			vertices:  []viewpoint.LonLat{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 2, Lat: 0}},
			wantOK:    true,
			wantValue: 222.639,
			wantUnit:  "km",
			tolerance: 0.02,
		},
		{
			name:      "direct line keeps last segment",
			variant:   measure.VariantDirectLine,
			vertices:  []viewpoint.LonLat{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 5, Lat: 0}, {Lon: 6, Lat: 0}},
			wantOK:    true,
			wantValue: 111.319,
			wantUnit:  "km",
			tolerance: 0.01,
		},
		{
			name:     "area needs three vertices",
			variant:  measure.VariantArea,
			vertices: []viewpoint.LonLat{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}},
		},
		{
			name:      "one degree square",
			variant:   measure.VariantArea,
			vertices:  []viewpoint.LonLat{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 0, Lat: 1}},
			wantOK:    true,
			wantValue: 12391,
			wantUnit:  "km²",
			tolerance: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewMeasurementWidget()
			w.SetActiveTool(tt.variant)
			for _, v := range tt.vertices {
				w.AddVertex(v)
			}
			value, unit, ok := w.Result()
			if ok != tt.wantOK {
				t.Fatalf("Result() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if unit != tt.wantUnit || math.Abs(value-tt.wantValue) > tt.tolerance {
				t.Errorf("Result() = %.3f %s, want %.3f %s", value, unit, tt.wantValue, tt.wantUnit)
			}
		})
	}
}

func TestMeasurementWidgetGeoJSONRing(t *testing.T) {
	w := NewMeasurementWidget()
	w.SetActiveTool(measure.VariantArea)
	for _, v := range []viewpoint.LonLat{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 1, Lat: 1}} {
		w.AddVertex(v)
	}

	fc, ok := w.GeoJSON()
	if !ok || len(fc.Features) != 1 {
		t.Fatalf("GeoJSON() = %v, %v", fc, ok)
	}
	geom := fc.Features[0].Geometry.(map[string]interface{})
	ring := geom["coordinates"].([][][]float64)[0]
	if geom["type"] != "Polygon" || len(ring) != 4 {
		t.Fatalf("geometry = %v, want closed polygon", geom)
	}
	if ring[0][0] != ring[3][0] || ring[0][1] != ring[3][1] {
		t.Errorf("ring is not closed: %v", ring)
	}
	if n := len(w.Vertices()); n != 3 {
		t.Errorf("vertices = %d after export, want 3", n)
	}
}
