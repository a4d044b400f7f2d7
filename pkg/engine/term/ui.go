package term

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/app"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/export"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/snapshot"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
)

const (
	snapshotWidth  = 1280
	snapshotHeight = 800
)

// keyCommands maps keys to viewer commands.
var keyCommands = map[rune]view.Command{
	's': view.CmdSwitchView,
	'd': view.CmdDistance,
	'a': view.CmdArea,
	'c': view.CmdClear,
}

// UI feeds terminal input into the event loop and redraws after each event.
type UI struct {
	Engine      *Engine
	Loop        *app.Loop
	Measurement *MeasurementWidget
	OutputDir   string
	Format      export.Format
	Logger      *zap.Logger
	// Copy writes text to the system clipboard.
	Copy func(string) error

	status string
}

// NewUI returns a UI with the system clipboard and GeoJSON exports.
func NewUI(eng *Engine, loop *app.Loop, m *MeasurementWidget, outputDir string, logger *zap.Logger) *UI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UI{
		Engine:      eng,
		Loop:        loop,
		Measurement: m,
		OutputDir:   outputDir,
		Format:      export.FormatGeoJSON,
		Logger:      logger.Named("ui"),
		Copy:        clipboard.WriteAll,
	}
}

// Run processes terminal events until the user quits or ctx is cancelled.
func (u *UI) Run(ctx context.Context) error {
	screen := u.Engine.Screen()
	screen.EnableMouse()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)
	defer close(quit)

	u.Redraw(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if u.Handle(ctx, ev) {
				return nil
			}
			u.Redraw(ctx)
		}
	}
}

// Redraw paints the current state.
func (u *UI) Redraw(ctx context.Context) {
	_, err := u.Loop.Do(ctx, func(c *view.Coordinator) error {
		u.Engine.Draw(c.State(), u.status)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		u.Logger.Warn("redraw failed", zap.Error(err))
	}
}

// Handle applies one terminal event and reports whether the UI should quit.
func (u *UI) Handle(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.Engine.Screen().Sync()
	case *tcell.EventKey:
		return u.handleKey(ctx, ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			u.pick(ctx, x, y)
		}
	}
	return false
}

func (u *UI) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		u.navigate(ctx, func(r *Renderer) { r.Pan(0, -4) })
		return false
	case tcell.KeyDown:
		u.navigate(ctx, func(r *Renderer) { r.Pan(0, 4) })
		return false
	case tcell.KeyLeft:
		u.navigate(ctx, func(r *Renderer) { r.Pan(-8, 0) })
		return false
	case tcell.KeyRight:
		u.navigate(ctx, func(r *Renderer) { r.Pan(8, 0) })
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	ch := ev.Rune()
	if cmd, ok := keyCommands[ch]; ok {
		u.status = ""
		if _, err := u.Loop.Dispatch(ctx, string(cmd)); err != nil {
			u.status = err.Error()
		}
		return false
	}
	switch ch {
	case 'q':
		return true
	case '+', '=':
		u.navigate(ctx, func(r *Renderer) { r.Zoom(1) })
	case '-':
		u.navigate(ctx, func(r *Renderer) { r.Zoom(-1) })
	case ']':
		u.navigate(ctx, func(r *Renderer) { r.Tilt(1) })
	case '[':
		u.navigate(ctx, func(r *Renderer) { r.Tilt(-1) })
	case 'y':
		u.copyViewpoint(ctx)
	case 'e':
		u.exportMeasurement(ctx)
	case 'p':
		u.snapshot(ctx)
	}
	return false
}

// navigate changes the mounted renderer's camera on the loop goroutine.
func (u *UI) navigate(ctx context.Context, fn func(*Renderer)) {
	_, _ = u.Loop.Do(ctx, func(*view.Coordinator) error {
		if r := u.Engine.Mounted(); r != nil {
			fn(r)
		}
		return nil
	})
}

func (u *UI) pick(ctx context.Context, x, y int) {
	_, _ = u.Loop.Do(ctx, func(*view.Coordinator) error {
		r := u.Engine.Mounted()
		if r == nil || u.Measurement.View() != view.Renderer(r) {
			return nil
		}
		if pt, ok := r.Pick(x, y); ok && u.Measurement.AddVertex(pt) {
			u.status = fmt.Sprintf("point %s", pt)
		}
		return nil
	})
}

func (u *UI) copyViewpoint(ctx context.Context) {
	st, err := u.Loop.State(ctx)
	if err != nil {
		return
	}
	text := st.Viewpoint.Describe(st.Active)
	if err := u.Copy(text); err != nil {
		u.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	u.status = "copied " + text
}

func (u *UI) exportMeasurement(ctx context.Context) {
	_, _ = u.Loop.Do(ctx, func(*view.Coordinator) error {
		geo, ok := u.Measurement.GeoJSON()
		if !ok {
			u.status = "nothing to export"
			return nil
		}
		name := fmt.Sprintf("measurement_%s", time.Now().Format("20060102_150405"))
		path, err := export.WriteFile(geo, u.Format, u.OutputDir, name)
		if err != nil {
			u.status = err.Error()
			u.Logger.Warn("export failed", zap.Error(err))
			return nil
		}
		u.status = "saved " + path
		u.Logger.Info("measurement exported", zap.String("path", path))
		return nil
	})
}

func (u *UI) snapshot(ctx context.Context) {
	_, _ = u.Loop.Do(ctx, func(*view.Coordinator) error {
		r := u.Engine.Mounted()
		if r == nil {
			return nil
		}
		frame := snapshot.Frame{
			Kind:      r.Kind(),
			Viewpoint: r.Viewpoint(),
			Scene:     r.Scene(),
		}
		if u.Measurement.View() == view.Renderer(r) {
			frame.Measurement = u.Measurement.Vertices()
			frame.Closed = u.Measurement.Closed()
		}
		name := fmt.Sprintf("snapshot_%s", time.Now().Format("20060102_150405"))
		path, err := snapshot.WriteFile(frame, snapshotWidth, snapshotHeight, u.OutputDir, name)
		if err != nil {
			u.status = err.Error()
			u.Logger.Warn("snapshot failed", zap.Error(err))
			return nil
		}
		u.status = "saved " + path
		return nil
	})
}
