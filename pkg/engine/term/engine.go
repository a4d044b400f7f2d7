// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package term renders the scene in a terminal with tcell. Both renderers
// share one screen; the mounted one draws the map, its overlays and the
// control bar.
package term

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/scene"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

const (
	// Terminal cells are roughly 8x16 pixels.
	cellWidth  = 8
	cellHeight = 16

	// The smallest screens the renderers can be mounted on. The perspective
	// renderer needs room for the horizon.
	MinPlanarWidth       = 24
	MinPlanarHeight      = 8
	MinPerspectiveWidth  = 40
	MinPerspectiveHeight = 12

	maxTilt  = 80.0
	tiltStep = 5.0
)

// Engine creates renderers that draw on one tcell screen.
type Engine struct {
	screen    tcell.Screen
	container string

	mu      sync.Mutex
	mounted *Renderer
}

// NewEngine returns an engine drawing on screen, which is known to the
// viewer as the named container.
func NewEngine(screen tcell.Screen, container string) *Engine {
	return &Engine{screen: screen, container: container}
}

// Screen returns the tcell screen.
func (e *Engine) Screen() tcell.Screen {
	return e.screen
}

// NewRenderer implements view.Engine.
func (e *Engine) NewRenderer(kind viewpoint.Kind, sc *scene.Scene, initial viewpoint.Viewpoint) (view.Renderer, error) {
	mapping, err := sc.Mapping()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		engine:   e,
		kind:     kind,
		scene:    sc,
		mapping:  mapping,
		vp:       initial,
		overlays: make(map[view.Widget]view.Position),
	}, nil
}

// Mounted returns the renderer currently drawing on the screen, or nil.
func (e *Engine) Mounted() *Renderer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mounted
}

func (e *Engine) attach(container string, r *Renderer) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if container != e.container {
		return fmt.Errorf("%w: no container %q", view.ErrContainerUnavailable, container)
	}
	w, h := e.screen.Size()
	minW, minH := MinPlanarWidth, MinPlanarHeight
	if r.kind == viewpoint.Perspective {
		minW, minH = MinPerspectiveWidth, MinPerspectiveHeight
	}
	if w < minW || h < minH {
		return fmt.Errorf("%w: screen %dx%d is smaller than %dx%d", view.ErrContainerUnavailable, w, h, minW, minH)
	}
	if e.mounted != nil && e.mounted != r {
		return fmt.Errorf("%w: %s renderer is drawing", view.ErrContainerOccupied, e.mounted.kind)
	}
	e.mounted = r
	return nil
}

func (e *Engine) detach(r *Renderer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mounted == r {
		e.mounted = nil
	}
}

// Renderer is a terminal view.Renderer.
type Renderer struct {
	engine   *Engine
	kind     viewpoint.Kind
	scene    *scene.Scene
	mapping  viewpoint.Mapping
	vp       viewpoint.Viewpoint
	mounted  bool
	overlays map[view.Widget]view.Position
}

func (r *Renderer) Kind() viewpoint.Kind { return r.kind }

func (r *Renderer) Viewpoint() viewpoint.Viewpoint { return r.vp }

func (r *Renderer) SetViewpoint(v viewpoint.Viewpoint) { r.vp = v }

func (r *Renderer) Mount(container string) error {
	if err := r.engine.attach(container, r); err != nil {
		return err
	}
	r.mounted = true
	return nil
}

func (r *Renderer) Unmount() {
	r.engine.detach(r)
	r.mounted = false
}

func (r *Renderer) AddOverlay(w view.Widget, pos view.Position) { r.overlays[w] = pos }

func (r *Renderer) RemoveOverlay(w view.Widget) { delete(r.overlays, w) }

// Scene returns the scene the renderer depicts.
func (r *Renderer) Scene() *scene.Scene { return r.scene }

// Surface returns the map area of a w by h screen: everything below the
// control bar.
func Surface(w, h int) viewpoint.Surface {
	return viewpoint.Surface{Width: w, Height: h - 1, UnitWidth: cellWidth, UnitHeight: cellHeight}
}

// Projector returns a projector for the renderer's current viewpoint on the
// engine's screen.
func (r *Renderer) Projector() *viewpoint.Projector {
	w, h := r.engine.screen.Size()
	return viewpoint.NewProjector(r.kind, r.vp, Surface(w, h), r.mapping)
}

// Pick returns the ground position under screen cell (x, y).
func (r *Renderer) Pick(x, y int) (viewpoint.LonLat, bool) {
	if y < 1 {
		return viewpoint.LonLat{}, false
	}
	return r.Projector().Unproject(float64(x)+0.5, float64(y-1)+0.5)
}

// Pan moves the center by dx, dy cells.
func (r *Renderer) Pan(dx, dy int) {
	w, h := r.engine.screen.Size()
	s := Surface(w, h)
	center, ok := r.Projector().Unproject(float64(s.Width)/2+float64(dx), float64(s.Height)/2+float64(dy))
	if !ok {
		return
	}
	center.Lat = clamp(center.Lat, -85, 85)
	center.Lon = wrapLon(center.Lon)
	r.vp.Center = center
}

// Zoom zooms in (positive steps) or out (negative steps) by whole levels.
func (r *Renderer) Zoom(steps int) {
	if r.kind == viewpoint.Planar {
		r.vp.Zoom = clamp(r.vp.Zoom+float64(steps), viewpoint.MinZoom, 23)
		return
	}
	zoom := r.mapping.ScaleToZoom(r.vp.Scale) + float64(steps)
	r.vp.Scale = r.mapping.ZoomToScale(clamp(zoom, viewpoint.MinZoom, 23))
}

// Tilt changes the perspective camera tilt. Planar renderers ignore it.
func (r *Renderer) Tilt(steps int) {
	if r.kind != viewpoint.Perspective {
		return
	}
	r.vp.Tilt = clamp(r.vp.Tilt+float64(steps)*tiltStep, 0, maxTilt)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrapLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
