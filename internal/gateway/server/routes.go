package server

import (
	"net/http"

	"go.uber.org/zap"

	"tota/internal/gateway/handler"
	"tota/internal/gateway/handler/rpc"
	"tota/internal/gateway/middleware"
	"tota/internal/metrics"
)

type Handlers struct {
	Preview *handler.PreviewHandler
	Live    *handler.LiveHandler
	RPC     *rpc.PreviewHandler
}

func NewMux(h Handlers, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	route := func(pattern, label string, next http.Handler) {
		mux.Handle(pattern, middleware.Observe(label, logger, next))
	}

	// JSON API
	route("POST /api/preview", "/api/preview", http.HandlerFunc(h.Preview.HandlePreview))
	route("POST /api/generate", "/api/generate", http.HandlerFunc(h.Preview.HandleGenerate))
	route("POST /api/files", "/api/files", http.HandlerFunc(h.Preview.HandleFiles))
	route("GET /preview/{projectId}/{handle}", "/preview", http.HandlerFunc(h.Preview.HandleDocument))
	route("GET /api/live/{projectId}", "/api/live", http.HandlerFunc(h.Live.HandleLive))

	// RPC
	prefix, rpcHandler := h.RPC.Handler()
	route(prefix, "rpc", rpcHandler)

	// Ops
	mux.HandleFunc("GET /healthz", handler.HandleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	return middleware.CORS(mux)
}
