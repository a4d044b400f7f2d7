package view

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/scene"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

// Options configure Build.
type Options struct {
	Engine    Engine
	Scene     *scene.Scene
	Initial   InitialViews
	Container string
	Overlays  Overlays
	SnapZoom  bool
	// SyncInitial derives the perspective start framing from the planar one.
	SyncInitial bool
	Logger      *zap.Logger
}

// Build creates both renderers, initializes a coordinator over them and
// mounts the planar renderer. Renderer failures are *ConstructionError, a
// failed first mount is returned as the *MountError.
func Build(opts Options) (*Coordinator, error) {
	if opts.Scene == nil {
		return nil, &ConstructionError{Component: "scene", Err: errors.New("no scene")}
	}
	mapping, err := opts.Scene.Mapping()
	if err != nil {
		return nil, &ConstructionError{Component: "zoom mapping", Err: err}
	}
	transfer := viewpoint.Transferer{Mapping: mapping, SnapZoom: opts.SnapZoom}

	initial := opts.Initial
	if opts.SyncInitial {
		initial = initial.Synchronized(transfer)
	}
	planar, perspective, err := CreateRenderers(opts.Engine, opts.Scene, initial)
	if err != nil {
		return nil, err
	}

	container := opts.Container
	if container == "" {
		container = "viewDiv"
	}
	c := NewCoordinator(Config{
		Planar:      planar,
		Perspective: perspective,
		Binder:      NewBinder(container, opts.Logger),
		Overlays:    opts.Overlays,
		Transfer:    transfer,
		Logger:      opts.Logger,
	})
	if err := c.Initialize(); err != nil {
		return nil, err
	}
	return c, nil
}
