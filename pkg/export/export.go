// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package export writes measurement geometry as GeoJSON, KML or GPX.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/convert"
)

// Format is an export file format.
type Format string

const (
	FormatGeoJSON Format = "geojson"
	FormatKML     Format = "kml"
	FormatGPX     Format = "gpx"
)

const (
	filePerm   = 0600
	dirPerm    = 0750
	jsonIndent = "  "
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatGeoJSON, FormatKML, FormatGPX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q (geojson, kml, gpx)", s)
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	if f == FormatGeoJSON {
		return ".geojson"
	}
	return "." + string(f)
}

// Encode renders a collection in the given format.
func Encode(geoJSON *convert.GeoJSON, format Format, name string) ([]byte, error) {
	switch format {
	case FormatGeoJSON:
		data, err := json.MarshalIndent(geoJSON, "", jsonIndent)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal GeoJSON: %w", err)
		}
		return data, nil
	case FormatKML:
		return []byte(ConvertGeoJSONToKML(geoJSON, name)), nil
	case FormatGPX:
		return []byte(ConvertGeoJSONToGPX(geoJSON, name)), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// WriteFile encodes a collection and writes it to dir/name.ext, creating dir
// when needed. It returns the path written.
func WriteFile(geoJSON *convert.GeoJSON, format Format, dir, name string) (string, error) {
	data, err := Encode(geoJSON, format, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+format.Extension())
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// featureName extracts a suitable name from a GeoJSON feature's properties.
func featureName(feature convert.GeoJSONFeature) string {
	return convert.FeatureLabel(feature.Properties, "")
}

// formatProperties formats properties as "key: value" pairs sorted by key.
func formatProperties(props map[string]interface{}, sep string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		if k != "geometry" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, props[k]))
	}
	return strings.Join(parts, sep)
}

// escapeXML escapes XML special characters in a string.
func escapeXML(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	).Replace(s)
}
