package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tota/internal/surface"
)

const (
	liveWriteWait = 10 * time.Second
	livePongWait  = 60 * time.Second
	livePingEvery = (livePongWait * 9) / 10
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type liveEvent struct {
	Type      string `json:"type"`
	ProjectID string `json:"projectId"`
	Handle    string `json:"handle,omitempty"`
	URL       string `json:"url,omitempty"`
	Sequence  uint64 `json:"sequence,omitempty"`
}

func installedEvent(inst surface.Installed) liveEvent {
	return liveEvent{Type: "installed", ProjectID: inst.ProjectID, Handle: inst.Handle, URL: inst.URL, Sequence: inst.Sequence}
}

// LiveHandler pushes install events so a host can swap its frame to the
// newest document.
type LiveHandler struct {
	surfaces *surface.Registry
	logger   *zap.Logger
}

func NewLiveHandler(surfaces *surface.Registry, logger *zap.Logger) *LiveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveHandler{surfaces: surfaces, logger: logger}
}

// HandleLive serves GET /api/live/{projectId}.
func (h *LiveHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.PathValue("projectId"))
	if projectID == "" {
		http.Error(w, "projectId is required", http.StatusBadRequest)
		return
	}
	conn, err := liveUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, unsubscribe := h.surfaces.Subscribe(projectID)
	defer unsubscribe()

	if err := conn.SetReadDeadline(time.Now().Add(livePongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	// Reader: only control frames are expected; any error ends the session.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(ev liveEvent) bool {
		if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
			return false
		}
		return conn.WriteJSON(ev) == nil
	}

	hello := liveEvent{Type: "subscribed", ProjectID: projectID}
	if !write(hello) {
		return
	}
	if cur, ok := h.surfaces.Current(projectID); ok {
		if !write(installedEvent(cur)) {
			return
		}
	}

	ticker := time.NewTicker(livePingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case inst, ok := <-events:
			if !ok {
				return
			}
			if !write(installedEvent(inst)) {
				h.logger.Debug("live write failed", zap.String("project", projectID))
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
