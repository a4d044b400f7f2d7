package headless

import (
	"errors"
	"testing"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/scene"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

func newRenderers(t *testing.T) (*Engine, *Renderer, *Renderer) {
	t.Helper()
	eng := NewEngine()
	sc := scene.New(scene.Layer{Kind: scene.TileLayer}, scene.Layer{Kind: scene.FeatureLayer}, nil, nil)
	planar, err := eng.NewRenderer(viewpoint.Planar, sc, viewpoint.Viewpoint{Zoom: 6})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	perspective, err := eng.NewRenderer(viewpoint.Perspective, sc, viewpoint.Viewpoint{Scale: 123456789})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return eng, planar.(*Renderer), perspective.(*Renderer)
}

func TestDisplayExclusion(t *testing.T) {
	eng, planar, perspective := newRenderers(t)

	if err := planar.Mount("viewDiv"); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if err := planar.Mount("viewDiv"); err != nil {
		t.Errorf("remount of occupant error = %v", err)
	}
	if err := perspective.Mount("viewDiv"); !errors.Is(err, view.ErrContainerOccupied) {
		t.Errorf("second renderer Mount() error = %v, want ErrContainerOccupied", err)
	}
	if eng.Display.Occupant("viewDiv") != planar {
		t.Error("occupant changed after refused mount")
	}

	planar.Unmount()
	planar.Unmount()
	if err := perspective.Mount("viewDiv"); err != nil {
		t.Fatalf("Mount() after unmount error = %v", err)
	}
	if planar.Container() != "" || perspective.Container() != "viewDiv" {
		t.Errorf("containers = %q, %q", planar.Container(), perspective.Container())
	}
}

func TestDisplayAvailability(t *testing.T) {
	eng, planar, perspective := newRenderers(t)

	eng.Display.SetAvailable("viewDiv", false)
	if err := planar.Mount("viewDiv"); !errors.Is(err, view.ErrContainerUnavailable) {
		t.Errorf("Mount() error = %v, want ErrContainerUnavailable", err)
	}
	eng.Display.SetAvailable("viewDiv", true)

	eng.Display.Refuse(viewpoint.Perspective, true)
	if err := perspective.Mount("viewDiv"); !errors.Is(err, view.ErrContainerUnavailable) {
		t.Errorf("refused kind Mount() error = %v, want ErrContainerUnavailable", err)
	}
	if err := planar.Mount("viewDiv"); err != nil {
		t.Errorf("planar Mount() error = %v", err)
	}
}

func TestRendererEvents(t *testing.T) {
	_, planar, _ := newRenderers(t)

	planar.SetViewpoint(viewpoint.Viewpoint{Zoom: 7})
	if err := planar.Mount("viewDiv"); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	planar.Unmount()

	events := planar.Events()
	want := []string{"set-viewpoint", "mount", "unmount"}
	if len(events) != len(want) {
		t.Fatalf("events = %+v, want %v", events, want)
	}
	for i, op := range want {
		if events[i].Op != op {
			t.Errorf("event %d = %s, want %s", i, events[i].Op, op)
		}
	}
	if events[1].Viewpoint.Zoom != 7 {
		t.Errorf("mount recorded zoom %f, want 7", events[1].Viewpoint.Zoom)
	}
}

func TestEngineFail(t *testing.T) {
	boom := errors.New("no WebGL")
	eng := NewEngine()
	eng.Fail = map[viewpoint.Kind]error{viewpoint.Perspective: boom}
	sc := scene.New(scene.Layer{}, scene.Layer{}, nil, nil)

	if _, err := eng.NewRenderer(viewpoint.Perspective, sc, viewpoint.Viewpoint{}); !errors.Is(err, boom) {
		t.Errorf("NewRenderer() error = %v, want %v", err, boom)
	}
	if _, err := eng.NewRenderer(viewpoint.Planar, sc, viewpoint.Viewpoint{}); err != nil {
		t.Errorf("planar NewRenderer() error = %v", err)
	}
	if n := len(eng.Renderers()); n != 1 {
		t.Errorf("Renderers() = %d, want 1", n)
	}
}
