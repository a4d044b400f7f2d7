// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package convert turns ArcGIS features and measurement geometry into GeoJSON.
package convert

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/arcgis"
)

const (
	crsName           = "urn:ogc:def:crs:OGC:1.3:CRS84"
	featureCollection = "FeatureCollection"
	featureType       = "Feature"
)

// labelKeys are tried in order when a feature has no configured label field.
var labelKeys = []string{"CITY_NAME", "name", "Name", "NAME", "title", "Title", "TITLE", "OBJECTID", "FID"}

// NewCollection returns an empty FeatureCollection in WGS84.
func NewCollection() *GeoJSON {
	return &GeoJSON{
		Type: featureCollection,
		CRS: CRS{
			Type:       "name",
			Properties: CRSProps{Name: crsName},
		},
		Features: []GeoJSONFeature{},
	}
}

// ToGeoJSON converts ArcGIS features to a GeoJSON FeatureCollection.
// Points (x,y), paths (first path only) and rings are supported; features
// without a usable geometry are skipped.
func ToGeoJSON(features []arcgis.Feature) (*GeoJSON, error) {
	geoJSON := NewCollection()

	for i, feature := range features {
		if feature.Geometry == nil {
			continue
		}
		geometry, ok := feature.Geometry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("feature %d: unexpected geometry type %T", i, feature.Geometry)
		}

		var geom map[string]interface{}
		if x, xOk := geometry["x"].(float64); xOk {
			if y, yOk := geometry["y"].(float64); yOk {
				geom = map[string]interface{}{
					"type":        "Point",
					"coordinates": []float64{x, y},
				}
			}
		} else if paths, ok := geometry["paths"].([]interface{}); ok && len(paths) > 0 {
			if coords := toCoords(paths[0]); len(coords) > 0 {
				geom = map[string]interface{}{
					"type":        "LineString",
					"coordinates": coords,
				}
			}
		} else if rings, ok := geometry["rings"].([]interface{}); ok && len(rings) > 0 {
			var allRings [][][]float64
			for _, r := range rings {
				if ring := closeRing(toCoords(r)); len(ring) > 0 {
					allRings = append(allRings, ring)
				}
			}
			if len(allRings) > 0 {
				geom = map[string]interface{}{
					"type":        "Polygon",
					"coordinates": allRings,
				}
			}
		}

		if geom != nil {
			geoJSON.Features = append(geoJSON.Features, GeoJSONFeature{
				Type:       featureType,
				Properties: feature.Attributes,
				Geometry:   geom,
			})
		}
	}

	return geoJSON, nil
}

// Points extracts the point features of a collection with their labels.
// labelField is tried first; an empty field falls back to common name keys.
func Points(geoJSON *GeoJSON, labelField string) []LabeledPoint {
	if geoJSON == nil {
		return nil
	}
	var points []LabeledPoint
	for _, f := range geoJSON.Features {
		geom, ok := f.Geometry.(map[string]interface{})
		if !ok || geom["type"] != "Point" {
			continue
		}
		coords, ok := geom["coordinates"].([]float64)
		if !ok || len(coords) < 2 {
			continue
		}
		points = append(points, LabeledPoint{
			Label: FeatureLabel(f.Properties, labelField),
			Lon:   coords[0],
			Lat:   coords[1],
		})
	}
	return points
}

// FeatureLabel extracts a suitable name from a feature's properties.
func FeatureLabel(props map[string]interface{}, preferred string) string {
	keys := labelKeys
	if preferred != "" {
		keys = append([]string{preferred}, labelKeys...)
	}
	for _, key := range keys {
		if val, ok := props[key]; ok && val != nil {
			return fmt.Sprintf("%v", val)
		}
	}
	return featureType
}

// MeasurementToGeoJSON wraps a measured path (distance) or ring (area) in a
// single-feature collection. The measured value is kept in the properties.
func MeasurementToGeoJSON(name string, path orb.LineString, closed bool, value float64, unit string) *GeoJSON {
	geoJSON := NewCollection()
	if len(path) == 0 {
		return geoJSON
	}

	geom := map[string]interface{}{"type": "LineString", "coordinates": pointsToCoords(path)}
	if closed {
		ring := orb.Ring(path)
		if ring[0] != ring[len(ring)-1] {
			ring = append(ring[:len(ring):len(ring)], ring[0])
		}
		geom = map[string]interface{}{"type": "Polygon", "coordinates": [][][]float64{pointsToCoords(ring)}}
	}

	geoJSON.Features = append(geoJSON.Features, GeoJSONFeature{
		Type: featureType,
		Properties: map[string]interface{}{
			"name":  name,
			"value": value,
			"unit":  unit,
		},
		Geometry: geom,
	})
	return geoJSON
}

func pointsToCoords(points []orb.Point) [][]float64 {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lon(), p.Lat()}
	}
	return coords
}

func toCoords(raw interface{}) [][]float64 {
	points, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var coords [][]float64
	for _, p := range points {
		point, pointOk := p.([]interface{})
		if !pointOk || len(point) < 2 {
			continue
		}
		x, xOk := point[0].(float64)
		y, yOk := point[1].(float64)
		if xOk && yOk {
			coords = append(coords, []float64{x, y})
		}
	}
	return coords
}

func closeRing(ring [][]float64) [][]float64 {
	if len(ring) == 0 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		ring = append(ring, []float64{first[0], first[1]})
	}
	return ring
}
