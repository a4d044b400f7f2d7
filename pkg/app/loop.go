// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package app serializes every viewer command through one event queue so the
// coordinator is only ever touched by a single goroutine.
package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
)

// ErrStopped is returned for requests submitted after the loop has stopped.
var ErrStopped = errors.New("event loop stopped")

// Dispatcher runs named commands against the viewer and reports its state.
// Front ends such as the WebSocket handler and the script runner take one.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string) (view.State, error)
	State(ctx context.Context) (view.State, error)
}

var _ Dispatcher = (*Loop)(nil)

type request struct {
	fn    func(*view.Coordinator) error
	state chan<- result
}

type result struct {
	state view.State
	err   error
}

// Loop owns a coordinator and runs submitted requests one at a time.
type Loop struct {
	coord    *view.Coordinator
	requests chan request
	done     chan struct{}
	logger   *zap.Logger
}

// NewLoop returns a loop over coord. Call Run to start processing.
func NewLoop(coord *view.Coordinator, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		coord:    coord,
		requests: make(chan request),
		done:     make(chan struct{}),
		logger:   logger.Named("loop"),
	}
}

// Run processes requests until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	l.logger.Debug("event loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("event loop stopped")
			return ctx.Err()
		case req := <-l.requests:
			err := req.fn(l.coord)
			req.state <- result{state: l.coord.State(), err: err}
		}
	}
}

// Do runs fn on the loop goroutine and returns the state after it.
func (l *Loop) Do(ctx context.Context, fn func(*view.Coordinator) error) (view.State, error) {
	reply := make(chan result, 1)
	select {
	case l.requests <- request{fn: fn, state: reply}:
	case <-l.done:
		return view.State{}, ErrStopped
	case <-ctx.Done():
		return view.State{}, ctx.Err()
	}
	res := <-reply
	return res.state, res.err
}

// Dispatch runs a named command on the loop goroutine.
func (l *Loop) Dispatch(ctx context.Context, name string) (view.State, error) {
	cmd, err := view.ParseCommand(name)
	if err != nil {
		return view.State{}, err
	}
	state, err := l.Do(ctx, func(c *view.Coordinator) error { return c.Dispatch(cmd) })
	if err != nil {
		l.logger.Warn("command failed", zap.String("command", string(cmd)), zap.Error(err))
	}
	return state, err
}

// State returns the current viewer state.
func (l *Loop) State(ctx context.Context) (view.State, error) {
	return l.Do(ctx, func(*view.Coordinator) error { return nil })
}
