// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package view keeps exactly one of the planar and perspective renderers
// mounted on the display surface, moves the camera framing between them and
// keeps the overlay widgets bound to whichever one is active.
package view

import (
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/measure"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/scene"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

// Position is a fixed overlay slot in a renderer's UI.
type Position string

const (
	BottomLeft  Position = "bottom-left"
	BottomRight Position = "bottom-right"
)

// Renderer is one view instance supplied by the rendering engine.
type Renderer interface {
	Kind() viewpoint.Kind
	Viewpoint() viewpoint.Viewpoint
	SetViewpoint(v viewpoint.Viewpoint)
	// Mount binds the renderer to a display container. Engines return an
	// error wrapping ErrContainerUnavailable when the container cannot host it.
	Mount(container string) error
	Unmount()
	AddOverlay(w Widget, pos Position)
	RemoveOverlay(w Widget)
}

// Widget is an overlay that follows one renderer at a time.
type Widget interface {
	SetView(r Renderer)
}

// MeasurementWidget is the measurement overlay.
type MeasurementWidget interface {
	Widget
	measure.Widget
}

// Overlays are the two overlay widgets rebound on every switch.
type Overlays struct {
	Measurement MeasurementWidget
	Legend      Widget
}

// Engine constructs renderers over a shared scene.
type Engine interface {
	NewRenderer(kind viewpoint.Kind, sc *scene.Scene, initial viewpoint.Viewpoint) (Renderer, error)
}
