// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package measure owns the measurement tool selection of the viewer.
package measure

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

// Tool is the measurement tool the user has selected.
type Tool int

const (
	None Tool = iota
	Distance
	Area
)

func (t Tool) String() string {
	switch t {
	case None:
		return "none"
	case Distance:
		return "distance"
	case Area:
		return "area"
	default:
		return "unknown"
	}
}

// ParseTool is the inverse of Tool.String. An empty string is None.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "distance":
		return Distance, nil
	case "area":
		return Area, nil
	}
	return None, fmt.Errorf("unknown measurement tool %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tool) UnmarshalText(text []byte) error {
	parsed, err := ParseTool(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Variant is the engine-side tool engaged on the measurement widget.
type Variant string

const (
	VariantNone       Variant = ""
	VariantDistance   Variant = "distance"    // planar distance
	VariantDirectLine Variant = "direct-line" // perspective straight-line distance
	VariantArea       Variant = "area"        // area in either projection
)

// Widget is the measurement overlay provided by the rendering engine.
type Widget interface {
	SetActiveTool(v Variant)
	Clear()
}

// State is a snapshot of the tool selection and the two control highlights.
type State struct {
	Tool           Tool `json:"tool"`
	DistanceActive bool `json:"distanceActive"`
	AreaActive     bool `json:"areaActive"`
}

// Controller enforces that at most one measurement tool is engaged. All of
// its operations are total: redundant input is a no-op, never an error.
type Controller struct {
	widget Widget
	state  State
	logger *zap.Logger
}

// NewController returns a controller with no tool selected.
func NewController(w Widget, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{widget: w, logger: logger.Named("measure")}
}

// State returns the current selection.
func (c *Controller) State() State {
	return c.state
}

// Tool returns the selected tool.
func (c *Controller) Tool() Tool {
	return c.state.Tool
}

// SelectDistance engages the distance tool variant of the active renderer:
// the planar distance tool or the perspective direct-line tool.
func (c *Controller) SelectDistance(active viewpoint.Kind) {
	variant := VariantDistance
	if active == viewpoint.Perspective {
		variant = VariantDirectLine
	}
	c.widget.SetActiveTool(variant)
	c.transition(State{Tool: Distance, DistanceActive: true}, variant)
}

// SelectArea engages the area tool, which works in both projections.
func (c *Controller) SelectArea() {
	c.widget.SetActiveTool(VariantArea)
	c.transition(State{Tool: Area, AreaActive: true}, VariantArea)
}

// Clear discards drawn measurements and deselects the tool.
func (c *Controller) Clear() {
	if c.state == (State{}) {
		return
	}
	c.widget.Clear()
	c.transition(State{}, VariantNone)
}

func (c *Controller) transition(next State, variant Variant) {
	if c.state.Tool != next.Tool {
		c.logger.Debug("tool changed",
			zap.Stringer("from", c.state.Tool),
			zap.Stringer("to", next.Tool),
			zap.String("variant", string(variant)))
	}
	c.state = next
}
