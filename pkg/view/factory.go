package view

import (
	"fmt"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/scene"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

// Handle is one of the two renderers for the process lifetime. Only the
// binder changes Mounted and only the coordinator changes the viewpoint.
type Handle struct {
	renderer Renderer
	kind     viewpoint.Kind
	mounted  bool
}

// Kind returns the renderer's projection model.
func (h *Handle) Kind() viewpoint.Kind { return h.kind }

// Viewpoint returns a copy of the renderer's current viewpoint.
func (h *Handle) Viewpoint() viewpoint.Viewpoint { return h.renderer.Viewpoint() }

// Mounted reports whether the renderer is bound to the display container.
func (h *Handle) Mounted() bool { return h.mounted }

// Renderer returns the engine renderer behind the handle.
func (h *Handle) Renderer() Renderer { return h.renderer }

func (h *Handle) setViewpoint(v viewpoint.Viewpoint) { h.renderer.SetViewpoint(v) }

// InitialViews are the start framings of the two renderers.
type InitialViews struct {
	Planar      viewpoint.Viewpoint
	Perspective viewpoint.Viewpoint
}

// Synchronized derives the perspective start framing from the planar one.
func (iv InitialViews) Synchronized(t viewpoint.Transferer) InitialViews {
	iv.Perspective = t.Transfer(iv.Planar, viewpoint.Planar, viewpoint.Perspective)
	return iv
}

// CreateRenderers builds the planar and perspective renderers over sc.
// Any failure is a *ConstructionError.
func CreateRenderers(eng Engine, sc *scene.Scene, initial InitialViews) (planar, perspective *Handle, err error) {
	if eng == nil || sc == nil {
		return nil, nil, &ConstructionError{Component: "renderers", Err: fmt.Errorf("engine and scene are required")}
	}
	planar, err = createRenderer(eng, sc, viewpoint.Planar, initial.Planar)
	if err != nil {
		return nil, nil, err
	}
	perspective, err = createRenderer(eng, sc, viewpoint.Perspective, initial.Perspective)
	if err != nil {
		return nil, nil, err
	}
	return planar, perspective, nil
}

func createRenderer(eng Engine, sc *scene.Scene, kind viewpoint.Kind, initial viewpoint.Viewpoint) (*Handle, error) {
	component := fmt.Sprintf("%s renderer", kind)
	if err := initial.Validate(kind); err != nil {
		return nil, &ConstructionError{Component: component, Err: fmt.Errorf("initial viewpoint: %w", err)}
	}
	r, err := eng.NewRenderer(kind, sc, initial)
	if err != nil {
		return nil, &ConstructionError{Component: component, Err: err}
	}
	if r.Kind() != kind {
		return nil, &ConstructionError{Component: component, Err: fmt.Errorf("engine returned a %s renderer", r.Kind())}
	}
	return &Handle{renderer: r, kind: kind}, nil
}
