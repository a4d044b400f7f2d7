package view

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/measure"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/viewpoint"
)

type phase int

const (
	phaseIdle phase = iota
	phaseSwitching
)

// Config wires a Coordinator.
type Config struct {
	Planar      *Handle
	Perspective *Handle
	Binder      *Binder
	Overlays    Overlays
	Transfer    viewpoint.Transferer
	Logger      *zap.Logger
}

// State is a snapshot of the viewer for status lines and remote clients.
// Active and Viewpoint are only meaningful when Mounted is true.
type State struct {
	Mounted     bool                `json:"mounted"`
	Active      viewpoint.Kind      `json:"active"`
	Viewpoint   viewpoint.Viewpoint `json:"viewpoint"`
	Measurement measure.State       `json:"measurement"`
	SwitchLabel string              `json:"switchLabel"`
}

// Coordinator owns the active renderer slot. It is not safe for concurrent
// use; callers serialize access through one event queue.
type Coordinator struct {
	planar      *Handle
	perspective *Handle
	active      *Handle
	binder      *Binder
	overlays    Overlays
	measure     *measure.Controller
	transfer    viewpoint.Transferer
	phase       phase
	subscribers []func(State)
	logger      *zap.Logger
}

// NewCoordinator returns a coordinator with no renderer mounted. Call
// Initialize before anything else.
func NewCoordinator(cfg Config) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	binder := cfg.Binder
	if binder == nil {
		binder = NewBinder("viewDiv", logger)
	}
	var mw measure.Widget = nopMeasurement{}
	if cfg.Overlays.Measurement != nil {
		mw = cfg.Overlays.Measurement
	}
	return &Coordinator{
		planar:      cfg.Planar,
		perspective: cfg.Perspective,
		binder:      binder,
		overlays:    cfg.Overlays,
		measure:     measure.NewController(mw, logger),
		transfer:    cfg.Transfer,
		logger:      logger.Named("coordinator"),
	}
}

// Initialize mounts the planar renderer and attaches both overlays to it.
// Calling it again is a no-op.
func (c *Coordinator) Initialize() error {
	if c.active != nil {
		return nil
	}
	if err := c.binder.Mount(c.planar); err != nil {
		return err
	}
	c.binder.AttachOverlays(c.planar, c.overlays)
	c.active = c.planar
	c.logger.Info("viewer initialized", zap.String("view", c.planar.Viewpoint().Describe(viewpoint.Planar)))
	c.notify()
	return nil
}

// Active returns the mounted handle, or nil before Initialize.
func (c *Coordinator) Active() *Handle {
	return c.active
}

// Inactive returns the handle that is not mounted.
func (c *Coordinator) Inactive() *Handle {
	if c.active == c.perspective {
		return c.planar
	}
	return c.perspective
}

// SwitchView moves the viewer to the other projection model. The current
// framing is carried over, the measurement tool is reset and both overlays
// follow the new renderer. If the new renderer cannot be mounted the previous
// one is restored and a *SwitchError is returned.
func (c *Coordinator) SwitchView() error {
	if c.active == nil {
		return ErrNotInitialized
	}
	if c.phase != phaseIdle {
		return ErrSwitchInProgress
	}
	c.phase = phaseSwitching
	defer func() { c.phase = phaseIdle }()

	from := c.active
	to := c.Inactive()
	current := from.Viewpoint()

	c.measure.Clear()
	c.binder.Unmount(from)

	previous := to.Viewpoint()
	to.setViewpoint(c.transfer.Transfer(current, from.Kind(), to.Kind()))

	if err := c.binder.Mount(to); err != nil {
		return c.rollback(from, to, previous, err)
	}
	c.binder.AttachOverlays(to, c.overlays)
	c.active = to

	c.logger.Info("view switched",
		zap.Stringer("from", from.Kind()),
		zap.Stringer("to", to.Kind()),
		zap.String("view", to.Viewpoint().Describe(to.Kind())))
	c.notify()
	return nil
}

func (c *Coordinator) rollback(from, to *Handle, previous viewpoint.Viewpoint, cause error) error {
	to.setViewpoint(previous)
	serr := &SwitchError{From: from.Kind(), To: to.Kind(), Err: cause, RolledBack: true}
	if err := c.binder.Mount(from); err != nil {
		serr.RolledBack = false
		serr.Err = multierr.Append(cause, err)
		c.active = nil
		c.logger.Error("switch rollback failed", zap.Error(serr.Err))
		return serr
	}
	c.binder.AttachOverlays(from, c.overlays)
	c.logger.Warn("switch aborted", zap.Stringer("to", to.Kind()), zap.Error(cause))
	c.notify()
	return serr
}

// SelectDistance engages the distance tool of the active renderer.
func (c *Coordinator) SelectDistance() {
	if c.active == nil {
		return
	}
	c.measure.SelectDistance(c.active.Kind())
	c.notify()
}

// SelectArea engages the area tool.
func (c *Coordinator) SelectArea() {
	if c.active == nil {
		return
	}
	c.measure.SelectArea()
	c.notify()
}

// Clear discards measurements and deselects the tool.
func (c *Coordinator) Clear() {
	if c.active == nil {
		return
	}
	c.measure.Clear()
	c.notify()
}

// Measurement returns the tool selection.
func (c *Coordinator) Measurement() measure.State {
	return c.measure.State()
}

// SwitchLabel is the label of the mode the toggle control switches to.
func (c *Coordinator) SwitchLabel() string {
	if c.active == nil {
		return viewpoint.Perspective.String()
	}
	return c.active.Kind().Other().String()
}

// State returns a snapshot of the viewer.
func (c *Coordinator) State() State {
	s := State{
		Measurement: c.measure.State(),
		SwitchLabel: c.SwitchLabel(),
	}
	if c.active != nil {
		s.Mounted = true
		s.Active = c.active.Kind()
		s.Viewpoint = c.active.Viewpoint()
	}
	return s
}

// Subscribe registers fn to receive the state after every change.
func (c *Coordinator) Subscribe(fn func(State)) {
	c.subscribers = append(c.subscribers, fn)
}

func (c *Coordinator) notify() {
	if len(c.subscribers) == 0 {
		return
	}
	s := c.State()
	for _, fn := range c.subscribers {
		fn(s)
	}
}

type nopMeasurement struct{}

func (nopMeasurement) SetActiveTool(measure.Variant) {}
func (nopMeasurement) Clear()                        {}
