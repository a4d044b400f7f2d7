package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/convert"
)

var (
	distance = convert.MeasurementToGeoJSON("distance", orb.LineString{{26.1, 44.4}, {23.3, 42.7}}, false, 296.4, "km")
	area     = convert.MeasurementToGeoJSON("area", orb.LineString{{0, 0}, {1, 0}, {1, 1}}, true, 6195.8, "km²")
)

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"No Escaping Needed", "Hello World", "Hello World"},
		{"Ampersand", "Me & You", "Me &amp; You"},
		{"Less Than", "1 < 2", "1 &lt; 2"},
		{"Double Quote", `He said "Hi"`, `He said &quot;Hi&quot;`},
		{"Single Quote", "It's mine", "It&apos;s mine"},
		{"Empty String", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeXML(tt.input); got != tt.want {
				t.Errorf("escapeXML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatProperties(t *testing.T) {
	got := formatProperties(map[string]interface{}{"value": 1.5, "name": "distance", "geometry": "x"}, ", ")
	if got != "name: distance, value: 1.5" {
		t.Errorf("formatProperties() = %q", got)
	}
	if got := formatProperties(nil, ", "); got != "" {
		t.Errorf("formatProperties(nil) = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"geojson", FormatGeoJSON, false},
		{" KML ", FormatKML, false},
		{"gpx", FormatGPX, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
	if FormatGeoJSON.Extension() != ".geojson" || FormatKML.Extension() != ".kml" {
		t.Error("unexpected extensions")
	}
}

func TestConvertGeoJSONToKML(t *testing.T) {
	kml := ConvertGeoJSONToKML(distance, "Measurements & More")
	for _, want := range []string{
		"<name>Measurements &amp; More</name>",
		"<LineString><coordinates>26.1000000000,44.4000000000,0 23.3000000000,42.7000000000,0</coordinates></LineString>",
		"<name>distance</name>",
	} {
		if !strings.Contains(kml, want) {
			t.Errorf("KML missing %q:\n%s", want, kml)
		}
	}

	kml = ConvertGeoJSONToKML(area, "Area")
	if !strings.Contains(kml, "<Polygon><outerBoundaryIs>") {
		t.Errorf("KML missing polygon:\n%s", kml)
	}
}

func TestConvertGeoJSONToGPX(t *testing.T) {
	gpx := ConvertGeoJSONToGPX(area, "Area")
	if strings.Count(gpx, "<trkpt") != 4 {
		t.Errorf("expected closed ring of 4 track points:\n%s", gpx)
	}
	if !strings.Contains(gpx, `<trkpt lat="0.0000000000" lon="1.0000000000">`) {
		t.Errorf("GPX has wrong lat/lon order:\n%s", gpx)
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := WriteFile(distance, FormatGeoJSON, dir, "distance-1")
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if filepath.Base(path) != "distance-1.geojson" {
		t.Errorf("unexpected path %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var decoded convert.GeoJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded.Type != "FeatureCollection" || len(decoded.Features) != 1 {
		t.Errorf("unexpected export %+v", decoded)
	}

	if _, err := WriteFile(distance, Format("shp"), dir, "x"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
