package export

import (
	"fmt"
	"strings"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/convert"
)

const kmlCoordFormat = "%.10f,%.10f,0"

// ConvertGeoJSONToKML converts a GeoJSON FeatureCollection to a KML document.
func ConvertGeoJSONToKML(geoJSON *convert.GeoJSON, documentName string) string {
	var placemarks strings.Builder
	for _, feature := range geoJSON.Features {
		geometryMap, ok := feature.Geometry.(map[string]interface{})
		if !ok {
			continue
		}

		var geometry string
		switch geometryMap["type"] {
		case "Point":
			if c, ok := geometryMap["coordinates"].([]float64); ok && len(c) >= 2 {
				geometry = fmt.Sprintf("<Point><coordinates>"+kmlCoordFormat+"</coordinates></Point>", c[0], c[1])
			}
		case "LineString":
			if coords, ok := geometryMap["coordinates"].([][]float64); ok && len(coords) > 0 {
				geometry = fmt.Sprintf("<LineString><coordinates>%s</coordinates></LineString>", kmlCoords(coords))
			}
		case "Polygon":
			if rings, ok := geometryMap["coordinates"].([][][]float64); ok && len(rings) > 0 {
				var b strings.Builder
				fmt.Fprintf(&b, "<outerBoundaryIs><LinearRing><coordinates>%s</coordinates></LinearRing></outerBoundaryIs>", kmlCoords(rings[0]))
				for _, inner := range rings[1:] {
					fmt.Fprintf(&b, "<innerBoundaryIs><LinearRing><coordinates>%s</coordinates></LinearRing></innerBoundaryIs>", kmlCoords(inner))
				}
				geometry = "<Polygon>" + b.String() + "</Polygon>"
			}
		}
		if geometry == "" {
			continue
		}

		fmt.Fprintf(&placemarks, `
        <Placemark>
            <name>%s</name>
            <description>%s</description>
            %s
        </Placemark>`, escapeXML(featureName(feature)), escapeXML(formatProperties(feature.Properties, ", ")), geometry)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
    <Document>
        <name>%s</name>%s
    </Document>
</kml>`, escapeXML(documentName), placemarks.String())
}

func kmlCoords(coords [][]float64) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = fmt.Sprintf(kmlCoordFormat, c[0], c[1])
	}
	return strings.Join(parts, " ")
}
