package term

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/convert"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/measure"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/utils"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

// panel is an overlay drawn as a box of text lines.
type panel interface {
	Lines() []string
}

// MeasurementWidget collects vertices picked with the mouse and measures
// them with the engaged tool.
type MeasurementWidget struct {
	view     view.Renderer
	variant  measure.Variant
	vertices []viewpoint.LonLat
}

// NewMeasurementWidget returns a widget with no tool engaged.
func NewMeasurementWidget() *MeasurementWidget {
	return &MeasurementWidget{}
}

func (m *MeasurementWidget) SetView(r view.Renderer) { m.view = r }

func (m *MeasurementWidget) SetActiveTool(v measure.Variant) {
	if v != m.variant {
		m.vertices = nil
	}
	m.variant = v
}

func (m *MeasurementWidget) Clear() {
	m.variant = measure.VariantNone
	m.vertices = nil
}

// Variant returns the engaged tool.
func (m *MeasurementWidget) Variant() measure.Variant { return m.variant }

// View returns the renderer the widget follows.
func (m *MeasurementWidget) View() view.Renderer { return m.view }

// AddVertex appends a picked position. It is ignored when no tool is engaged.
func (m *MeasurementWidget) AddVertex(pt viewpoint.LonLat) bool {
	if m.variant == measure.VariantNone {
		return false
	}
	// direct-line measures a single segment
	if m.variant == measure.VariantDirectLine && len(m.vertices) == 2 {
		m.vertices = m.vertices[:0]
	}
	m.vertices = append(m.vertices, pt)
	return true
}

// Vertices returns a copy of the picked positions.
func (m *MeasurementWidget) Vertices() []viewpoint.LonLat {
	out := make([]viewpoint.LonLat, len(m.vertices))
	copy(out, m.vertices)
	return out
}

// Closed reports whether the vertices form a ring.
func (m *MeasurementWidget) Closed() bool {
	return m.variant == measure.VariantArea
}

// Result returns the measured value and its unit, or ok false when there are
// not enough vertices yet.
func (m *MeasurementWidget) Result() (value float64, unit string, ok bool) {
	path := m.path()
	switch m.variant {
	case measure.VariantDistance, measure.VariantDirectLine:
		if len(path) < 2 {
			return 0, "", false
		}
		return utils.PathLength(path) / 1000, "km", true
	case measure.VariantArea:
		if len(path) < 3 {
			return 0, "", false
		}
		return utils.RingArea(orb.Ring(path)) / 1e6, "km²", true
	}
	return 0, "", false
}

// GeoJSON returns the current measurement as a feature collection.
func (m *MeasurementWidget) GeoJSON() (*convert.GeoJSON, bool) {
	value, unit, ok := m.Result()
	if !ok {
		return nil, false
	}
	return convert.MeasurementToGeoJSON(string(m.variant), m.path(), m.Closed(), value, unit), true
}

func (m *MeasurementWidget) path() orb.LineString {
	path := make(orb.LineString, len(m.vertices))
	for i, v := range m.vertices {
		path[i] = orb.Point{v.Lon, v.Lat}
	}
	return path
}

func (m *MeasurementWidget) Lines() []string {
	if m.variant == measure.VariantNone {
		return []string{"Measure", "d distance  a area"}
	}
	lines := []string{"Measure: " + string(m.variant)}
	if value, unit, ok := m.Result(); ok {
		lines = append(lines, fmt.Sprintf("%.2f %s", value, unit))
	} else {
		lines = append(lines, "click to add points")
	}
	return append(lines, fmt.Sprintf("%d point(s)  c clear", len(m.vertices)))
}

// Legend lists the feature layer of the scene.
type Legend struct {
	view  view.Renderer
	title string
	count int
}

// NewLegend returns a legend titled title for a layer with count features.
func NewLegend(title string, count int) *Legend {
	return &Legend{title: title, count: count}
}

func (l *Legend) SetView(r view.Renderer) { l.view = r }

// View returns the renderer the legend follows.
func (l *Legend) View() view.Renderer { return l.view }

func (l *Legend) Lines() []string {
	return []string{l.title, fmt.Sprintf("%c %d features", pointRune, l.count)}
}
