package view

import (
	"go.uber.org/zap"
)

// Binder mounts renderers on the display container and keeps every overlay
// widget bound to at most one renderer.
type Binder struct {
	container string
	occupant  *Handle
	bindings  map[Widget]*Handle
	logger    *zap.Logger
}

// NewBinder returns a binder for the named display container.
func NewBinder(container string, logger *zap.Logger) *Binder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Binder{
		container: container,
		bindings:  make(map[Widget]*Handle),
		logger:    logger.Named("binder"),
	}
}

// Container returns the display container ID.
func (b *Binder) Container() string {
	return b.container
}

// Occupant returns the mounted handle, or nil.
func (b *Binder) Occupant() *Handle {
	return b.occupant
}

// Mount binds h to the display container. Mounting the current occupant
// again is a no-op.
func (b *Binder) Mount(h *Handle) error {
	if b.occupant == h {
		return nil
	}
	if b.occupant != nil {
		return &MountError{Container: b.container, Kind: h.Kind(), Err: ErrContainerOccupied}
	}
	if err := h.renderer.Mount(b.container); err != nil {
		return &MountError{Container: b.container, Kind: h.Kind(), Err: err}
	}
	h.mounted = true
	b.occupant = h
	b.logger.Debug("mounted", zap.Stringer("kind", h.Kind()), zap.String("container", b.container))
	return nil
}

// Unmount severs h from the display container. It is idempotent.
func (b *Binder) Unmount(h *Handle) {
	if !h.mounted {
		return
	}
	h.renderer.Unmount()
	h.mounted = false
	if b.occupant == h {
		b.occupant = nil
	}
	b.logger.Debug("unmounted", zap.Stringer("kind", h.Kind()))
}

// AttachOverlays rebinds the measurement widget (bottom-right) and the legend
// (bottom-left) to h, detaching them from any renderer they followed before.
func (b *Binder) AttachOverlays(h *Handle, o Overlays) {
	if o.Measurement != nil {
		b.bind(o.Measurement, h, BottomRight)
	}
	if o.Legend != nil {
		b.bind(o.Legend, h, BottomLeft)
	}
}

// BoundTo returns the handle w follows, or nil.
func (b *Binder) BoundTo(w Widget) *Handle {
	return b.bindings[w]
}

func (b *Binder) bind(w Widget, h *Handle, pos Position) {
	if prev, ok := b.bindings[w]; ok {
		if prev == h {
			return
		}
		prev.renderer.RemoveOverlay(w)
	}
	h.renderer.AddOverlay(w, pos)
	w.SetView(h.renderer)
	b.bindings[w] = h
}
