// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package viewpoint describes camera framings for the planar and perspective
// renderers and converts framings between the two projection models.
package viewpoint

import (
	"fmt"
	"strings"
)

// Kind identifies a renderer's projection model.
type Kind int

const (
	Planar      Kind = iota // 2D map view
	Perspective             // 3D scene view
)

// String returns the short label used on the toggle control.
func (k Kind) String() string {
	switch k {
	case Planar:
		return "2D"
	case Perspective:
		return "3D"
	default:
		return "UNKNOWN"
	}
}

// Other returns the opposite projection model.
func (k Kind) Other() Kind {
	if k == Planar {
		return Perspective
	}
	return Planar
}

// Valid reports whether k is one of the two projection models.
func (k Kind) Valid() bool {
	return k == Planar || k == Perspective
}

// ParseKind accepts "2d"/"planar" and "3d"/"perspective" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2d", "planar":
		return Planar, nil
	case "3d", "perspective":
		return Perspective, nil
	}
	return 0, fmt.Errorf("unknown view kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid view kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// LonLat is a WGS84 coordinate in degrees.
type LonLat struct {
	Lon float64 `yaml:"lon" json:"lon"`
	Lat float64 `yaml:"lat" json:"lat"`
}

func (p LonLat) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.Lon, p.Lat)
}

// Viewpoint is a camera framing. Planar renderers read Zoom, perspective
// renderers read Scale and Tilt. Heading is shared by both.
type Viewpoint struct {
	Center  LonLat  `json:"center"`
	Zoom    float64 `json:"zoom,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
	Tilt    float64 `json:"tilt,omitempty"`
	Heading float64 `json:"heading,omitempty"`
}

// Framing returns the magnitude the given kind reads: Zoom for Planar and
// Scale for Perspective.
func (v Viewpoint) Framing(k Kind) float64 {
	if k == Perspective {
		return v.Scale
	}
	return v.Zoom
}

// Validate checks that v can be shown by a renderer of kind k.
func (v Viewpoint) Validate(k Kind) error {
	if v.Center.Lat < -90 || v.Center.Lat > 90 {
		return fmt.Errorf("latitude %f out of range", v.Center.Lat)
	}
	if v.Center.Lon < -180 || v.Center.Lon > 180 {
		return fmt.Errorf("longitude %f out of range", v.Center.Lon)
	}
	switch k {
	case Planar:
		if v.Zoom < 0 {
			return fmt.Errorf("zoom %f must not be negative", v.Zoom)
		}
	case Perspective:
		if v.Scale <= 0 {
			return fmt.Errorf("scale %f must be positive", v.Scale)
		}
		if v.Tilt < 0 || v.Tilt >= 90 {
			return fmt.Errorf("tilt %f must be in [0, 90)", v.Tilt)
		}
	default:
		return fmt.Errorf("invalid view kind %d", k)
	}
	return nil
}

// Describe renders the framing as read by kind k, e.g. for the status line
// or the clipboard.
func (v Viewpoint) Describe(k Kind) string {
	if k == Perspective {
		return fmt.Sprintf("center=%s scale=1:%.0f tilt=%.1f heading=%.1f", v.Center, v.Scale, v.Tilt, v.Heading)
	}
	return fmt.Sprintf("center=%s zoom=%.2f heading=%.1f", v.Center, v.Zoom, v.Heading)
}
