package export

import (
	"fmt"
	"strings"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/convert"
)

// ConvertGeoJSONToGPX converts a GeoJSON FeatureCollection to a GPX document.
// Points become waypoints; lines and the outer ring of polygons become tracks.
func ConvertGeoJSONToGPX(geoJSON *convert.GeoJSON, documentName string) string {
	var waypoints, tracks strings.Builder
	for _, feature := range geoJSON.Features {
		geometryMap, ok := feature.Geometry.(map[string]interface{})
		if !ok {
			continue
		}
		name := escapeXML(featureName(feature))
		desc := escapeXML(formatProperties(feature.Properties, ", "))

		var track [][]float64
		switch geometryMap["type"] {
		case "Point":
			if c, ok := geometryMap["coordinates"].([]float64); ok && len(c) >= 2 {
				fmt.Fprintf(&waypoints, `
    <wpt lat="%.10f" lon="%.10f">
        <name>%s</name>
        <desc>%s</desc>
    </wpt>`, c[1], c[0], name, desc)
			}
		case "LineString":
			track, _ = geometryMap["coordinates"].([][]float64)
		case "Polygon":
			if rings, ok := geometryMap["coordinates"].([][][]float64); ok && len(rings) > 0 {
				track = rings[0]
			}
		}
		if len(track) == 0 {
			continue
		}

		fmt.Fprintf(&tracks, `
    <trk>
        <name>%s</name>
        <desc>%s</desc>
        <trkseg>`, name, desc)
		for _, c := range track {
			fmt.Fprintf(&tracks, `<trkpt lat="%.10f" lon="%.10f"></trkpt>`, c[1], c[0])
		}
		tracks.WriteString(`
        </trkseg>
    </trk>`)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="arcgis-viewer"
    xmlns="http://www.topografix.com/GPX/1/1">
    <metadata>
        <name>%s</name>
    </metadata>%s%s
</gpx>`, escapeXML(documentName), waypoints.String(), tracks.String())
}
