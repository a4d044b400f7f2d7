// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package snapshot rasterizes the active view to a PNG image: graticule,
// point features with labels, the drawn measurement and a caption.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/scene"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

const (
	graticuleStep = 10.0
	pointRadius   = 4.0
)

// Frame is what a snapshot depicts.
type Frame struct {
	Kind        viewpoint.Kind
	Viewpoint   viewpoint.Viewpoint
	Scene       *scene.Scene
	Measurement []viewpoint.LonLat
	// Closed draws the measurement as a polygon.
	Closed  bool
	Caption string
}

// Render draws f on a width by height image.
func Render(f Frame, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid snapshot size %dx%d", width, height)
	}
	mapping := viewpoint.WebMercatorMapping()
	if f.Scene != nil {
		m, err := f.Scene.Mapping()
		if err != nil {
			return nil, err
		}
		mapping = m
	}
	proj := viewpoint.NewProjector(f.Kind, f.Viewpoint, viewpoint.Surface{Width: width, Height: height}, mapping)

	dc := gg.NewContext(width, height)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(0.86, 0.92, 0.96))

	dc.SetRGBA(0.4, 0.5, 0.6, 0.5)
	dc.SetLineWidth(1)
	for lon := -180.0; lon <= 180; lon += graticuleStep {
		strokeLine(dc, proj, meridian(lon))
	}
	for lat := -80.0; lat <= 80; lat += graticuleStep {
		strokeLine(dc, proj, parallel(lat))
	}

	if len(f.Measurement) > 1 {
		path := f.Measurement
		if f.Closed {
			path = append(append([]viewpoint.LonLat{}, path...), path[0])
		}
		dc.SetRGB(0.85, 0.2, 0.1)
		dc.SetLineWidth(2)
		strokeLine(dc, proj, path)
	}

	var labels []label
	if f.Scene != nil {
		dc.SetRGB(0.1, 0.3, 0.7)
		for _, pt := range f.Scene.Points() {
			x, y, ok := proj.Project(pt.Position)
			if !ok {
				continue
			}
			dc.DrawCircle(x, y, pointRadius)
			if err := dc.Fill(); err != nil {
				return nil, err
			}
			labels = append(labels, label{text: pt.Label, x: int(x + pointRadius + 2), y: int(y + 4)})
		}
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), dc.Image(), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	for _, l := range labels {
		drawer.Dot = fixed.P(l.x, l.y)
		drawer.DrawString(l.text)
	}
	caption := f.Caption
	if caption == "" {
		caption = fmt.Sprintf("%s %s", f.Kind, f.Viewpoint.Describe(f.Kind))
	}
	drawer.Dot = fixed.P(6, height-6)
	drawer.DrawString(caption)
	return img, nil
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WriteFile renders f and saves it as a PNG in dir. It returns the file path.
func WriteFile(f Frame, width, height int, dir, name string) (string, error) {
	img, err := Render(f, width, height)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	path := filepath.Join(dir, name+".png")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer file.Close()
	if err := Encode(file, img); err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return path, nil
}

type label struct {
	text string
	x, y int
}

// strokeLine strokes the visible runs of a lon/lat polyline.
func strokeLine(dc *gg.Context, proj *viewpoint.Projector, pts []viewpoint.LonLat) {
	drawing := false
	for _, pt := range pts {
		x, y, ok := proj.Project(pt)
		if !ok {
			if drawing {
				_ = dc.Stroke()
			}
			drawing = false
			continue
		}
		if drawing {
			dc.LineTo(x, y)
		} else {
			dc.MoveTo(x, y)
			drawing = true
		}
	}
	if drawing {
		_ = dc.Stroke()
	}
}

func meridian(lon float64) []viewpoint.LonLat {
	pts := make([]viewpoint.LonLat, 0, 17)
	for lat := -80.0; lat <= 80; lat += graticuleStep {
		pts = append(pts, viewpoint.LonLat{Lon: lon, Lat: lat})
	}
	return pts
}

func parallel(lat float64) []viewpoint.LonLat {
	pts := make([]viewpoint.LonLat, 0, 37)
	for lon := -180.0; lon <= 180; lon += graticuleStep {
		pts = append(pts, viewpoint.LonLat{Lon: lon, Lat: lat})
	}
	return pts
}
