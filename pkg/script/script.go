// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package script drives the viewer from JavaScript.
package script

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/app"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
)

// DefaultTimeout bounds a script run when the context has no deadline.
const DefaultTimeout = 60 * time.Second

// Run executes src with the viewer commands bound as globals:
//
//	switchView() selectDistance() selectArea() clearMeasurements() state()
//
// Each command returns the viewer state as a plain object. A failed command
// throws. The script's completion value is returned.
func Run(ctx context.Context, src, name string, d app.Dispatcher, logger *zap.Logger) (goja.Value, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("script").With(zap.String("script", name))

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	vm := goja.New()

	bind := func(fn string, call func() (view.State, error)) error {
		return vm.Set(fn, func(goja.FunctionCall) goja.Value {
			st, err := call()
			if err != nil {
				panic(vm.NewGoError(err))
			}
			return vm.ToValue(stateObject(st))
		})
	}
	commands := map[string]view.Command{
		"switchView":        view.CmdSwitchView,
		"selectDistance":    view.CmdDistance,
		"selectArea":        view.CmdArea,
		"clearMeasurements": view.CmdClear,
	}
	for fn, cmd := range commands {
		if err := bind(fn, func() (view.State, error) { return d.Dispatch(ctx, string(cmd)) }); err != nil {
			return nil, err
		}
	}
	if err := bind("state", func() (view.State, error) { return d.State(ctx) }); err != nil {
		return nil, err
	}
	if err := vm.Set("log", func(msg string) { logger.Info(msg) }); err != nil {
		return nil, err
	}
	if err := vm.Set("sprintf", fmt.Sprintf); err != nil {
		return nil, err
	}

	resultCh := make(chan struct {
		val goja.Value
		err error
	}, 1)
	go func() {
		val, err := vm.RunString(src)
		resultCh <- struct {
			val goja.Value
			err error
		}{val, err}
	}()

	select {
	case <-ctx.Done():
		vm.Interrupt("timeout")
		<-resultCh
		return nil, fmt.Errorf("script %s interrupted: %w", name, ctx.Err())
	case res := <-resultCh:
		if res.err != nil {
			return nil, fmt.Errorf("failed to run script %s: %w", name, res.err)
		}
		logger.Debug("script finished")
		return res.val, nil
	}
}

// stateObject flattens a state into the shape scripts read.
func stateObject(st view.State) map[string]any {
	return map[string]any{
		"mounted":     st.Mounted,
		"active":      st.Active.String(),
		"switchLabel": st.SwitchLabel,
		"tool":        st.Measurement.Tool.String(),
		"distance":    st.Measurement.DistanceActive,
		"area":        st.Measurement.AreaActive,
		"center":      []float64{st.Viewpoint.Center.Lon, st.Viewpoint.Center.Lat},
		"zoom":        st.Viewpoint.Zoom,
		"scale":       st.Viewpoint.Scale,
		"tilt":        st.Viewpoint.Tilt,
		"heading":     st.Viewpoint.Heading,
	}
}
