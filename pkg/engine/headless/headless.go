// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package headless is an in-memory rendering engine. It draws nothing and
// records every lifecycle call, which makes it the engine for scripted runs,
// the remote control server and tests.
package headless

import (
	"fmt"
	"sync"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/measure"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/scene"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

// Display tracks which renderer occupies each container.
type Display struct {
	mu          sync.Mutex
	unavailable map[string]bool
	refused     map[viewpoint.Kind]bool
	occupants   map[string]*Renderer
}

// NewDisplay returns a display where every container is available.
func NewDisplay() *Display {
	return &Display{
		unavailable: make(map[string]bool),
		refused:     make(map[viewpoint.Kind]bool),
		occupants:   make(map[string]*Renderer),
	}
}

// SetAvailable marks a container as able or unable to host renderers.
func (d *Display) SetAvailable(container string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unavailable[container] = !ok
}

// Refuse makes every container unavailable to renderers of the given kind,
// like a display without 3D support.
func (d *Display) Refuse(kind viewpoint.Kind, refuse bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refused[kind] = refuse
}

// Occupant returns the renderer mounted on container, or nil.
func (d *Display) Occupant(container string) *Renderer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.occupants[container]
}

func (d *Display) attach(container string, r *Renderer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.unavailable[container] {
		return fmt.Errorf("%w: %q", view.ErrContainerUnavailable, container)
	}
	if d.refused[r.kind] {
		return fmt.Errorf("%w: %q cannot host a %s renderer", view.ErrContainerUnavailable, container, r.kind)
	}
	if cur, ok := d.occupants[container]; ok && cur != r {
		return fmt.Errorf("%w: %q holds the %s renderer", view.ErrContainerOccupied, container, cur.kind)
	}
	d.occupants[container] = r
	return nil
}

func (d *Display) detach(container string, r *Renderer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.occupants[container] == r {
		delete(d.occupants, container)
	}
}

// Engine creates headless renderers on a shared display.
type Engine struct {
	Display *Display
	// Fail makes NewRenderer return the error for the given kind.
	Fail map[viewpoint.Kind]error

	renderers []*Renderer
}

// NewEngine returns an engine with a fresh display.
func NewEngine() *Engine {
	return &Engine{Display: NewDisplay()}
}

// NewRenderer implements view.Engine.
func (e *Engine) NewRenderer(kind viewpoint.Kind, sc *scene.Scene, initial viewpoint.Viewpoint) (view.Renderer, error) {
	if err := e.Fail[kind]; err != nil {
		return nil, err
	}
	if e.Display == nil {
		e.Display = NewDisplay()
	}
	r := &Renderer{
		kind:     kind,
		scene:    sc,
		vp:       initial,
		display:  e.Display,
		overlays: make(map[view.Widget]view.Position),
	}
	e.renderers = append(e.renderers, r)
	return r, nil
}

// Renderers returns the renderers created so far.
func (e *Engine) Renderers() []*Renderer {
	return e.renderers
}

// Event is one recorded renderer call.
type Event struct {
	Op        string
	Viewpoint viewpoint.Viewpoint
}

// Renderer is a headless view.Renderer.
type Renderer struct {
	kind      viewpoint.Kind
	scene     *scene.Scene
	vp        viewpoint.Viewpoint
	display   *Display
	container string
	overlays  map[view.Widget]view.Position
	events    []Event
}

func (r *Renderer) Kind() viewpoint.Kind { return r.kind }

func (r *Renderer) Viewpoint() viewpoint.Viewpoint { return r.vp }

func (r *Renderer) SetViewpoint(v viewpoint.Viewpoint) {
	r.vp = v
	r.record("set-viewpoint")
}

func (r *Renderer) Mount(container string) error {
	if err := r.display.attach(container, r); err != nil {
		return err
	}
	r.container = container
	r.record("mount")
	return nil
}

func (r *Renderer) Unmount() {
	if r.container == "" {
		return
	}
	r.display.detach(r.container, r)
	r.container = ""
	r.record("unmount")
}

func (r *Renderer) AddOverlay(w view.Widget, pos view.Position) {
	r.overlays[w] = pos
}

func (r *Renderer) RemoveOverlay(w view.Widget) {
	delete(r.overlays, w)
}

// Container returns the container the renderer is mounted on, or "".
func (r *Renderer) Container() string { return r.container }

// Scene returns the scene the renderer depicts.
func (r *Renderer) Scene() *scene.Scene { return r.scene }

// Overlay reports where w sits in this renderer's UI.
func (r *Renderer) Overlay(w view.Widget) (view.Position, bool) {
	pos, ok := r.overlays[w]
	return pos, ok
}

// Events returns the recorded calls in order.
func (r *Renderer) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Renderer) record(op string) {
	r.events = append(r.events, Event{Op: op, Viewpoint: r.vp})
}

// MeasurementWidget records the tool variant it was set to and how often it
// was cleared.
type MeasurementWidget struct {
	View    view.Renderer
	Variant measure.Variant
	Clears  int
	Tools   []measure.Variant
}

func (m *MeasurementWidget) SetView(r view.Renderer) { m.View = r }

func (m *MeasurementWidget) SetActiveTool(v measure.Variant) {
	m.Variant = v
	m.Tools = append(m.Tools, v)
}

func (m *MeasurementWidget) Clear() {
	m.Variant = measure.VariantNone
	m.Clears++
}

// Legend is a legend widget listing the scene's feature layer.
type Legend struct {
	Title string
	View  view.Renderer
}

func (l *Legend) SetView(r view.Renderer) { l.View = r }
