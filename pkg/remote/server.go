// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package remote exposes the viewer commands over a WebSocket endpoint.
package remote

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/app"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
)

// StateCommand asks for the current state without changing anything.
const StateCommand = "state"

const writeWait = 10 * time.Second

// Request is one client message.
type Request struct {
	ID      string `json:"id,omitempty"`
	Command string `json:"command"`
}

// Response answers a Request.
type Response struct {
	ID      string      `json:"id,omitempty"`
	OK      bool        `json:"ok"`
	Command string      `json:"command,omitempty"`
	State   *view.State `json:"state,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Handler upgrades HTTP requests to WebSocket connections and serves
// commands on them until the client goes away.
type Handler struct {
	Dispatcher app.Dispatcher
	Logger     *zap.Logger
	// AllowedOrigins restricts browser clients; empty allows any origin.
	AllowedOrigins []string

	upgrader websocket.Upgrader
}

// NewHandler returns a handler feeding d.
func NewHandler(d app.Dispatcher, logger *zap.Logger, allowedOrigins ...string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{Dispatcher: d, Logger: logger.Named("remote"), AllowedOrigins: allowedOrigins}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if len(h.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	defer conn.Close()
	h.Logger.Info("client connected", zap.String("remote", r.RemoteAddr))

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Warn("read failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
			}
			return
		}

		resp := h.handle(r.Context(), req)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			h.Logger.Warn("write failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
			return
		}
	}
}

func (h *Handler) handle(ctx context.Context, req Request) Response {
	resp := Response{ID: req.ID, Command: req.Command}

	var (
		state view.State
		err   error
	)
	if req.Command == StateCommand {
		state, err = h.Dispatcher.State(ctx)
	} else {
		state, err = h.Dispatcher.Dispatch(ctx, req.Command)
	}

	// a rolled back switch still reports the state the viewer is in
	if err != nil {
		resp.Error = err.Error()
		if state.SwitchLabel != "" {
			resp.State = &state
		}
		return resp
	}
	resp.OK = true
	resp.State = &state
	return resp
}
