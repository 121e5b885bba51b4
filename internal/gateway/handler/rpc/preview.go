package rpc

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"tota/internal/preview"
	"tota/internal/surface"
)

const (
	PreviewServiceName       = "tota.preview.v1.PreviewService"
	PreviewRenderProcedure   = "/" + PreviewServiceName + "/Render"
	PreviewResolveProcedure  = "/" + PreviewServiceName + "/ResolveFiles"
	previewServicePathPrefix = "/" + PreviewServiceName + "/"
)

// PreviewHandler exposes the preview service over Connect. Messages are
// google.protobuf.Struct with the same field names as the JSON API.
type PreviewHandler struct {
	svc *preview.Service
}

func NewPreviewHandler(svc *preview.Service) *PreviewHandler {
	return &PreviewHandler{svc: svc}
}

// Handler returns the path prefix and handler to mount on a mux.
func (h *PreviewHandler) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	render := connect.NewUnaryHandler(PreviewRenderProcedure, h.Render, opts...)
	resolve := connect.NewUnaryHandler(PreviewResolveProcedure, h.ResolveFiles, opts...)
	return previewServicePathPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PreviewRenderProcedure:
			render.ServeHTTP(w, r)
		case PreviewResolveProcedure:
			resolve.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

func (h *PreviewHandler) Render(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	in, err := requestFromStruct(req.Msg)
	if err != nil {
		return nil, err
	}
	resp, err := h.svc.Render(ctx, in)
	if err != nil {
		return nil, toConnectError(err)
	}
	out, err := structpb.NewStruct(map[string]any{
		"projectId": resp.ProjectID,
		"handle":    resp.Handle,
		"url":       resp.URL,
		"sequence":  resp.Sequence,
		"files":     filesToList(resp.Files, false),
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

func (h *PreviewHandler) ResolveFiles(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	in, err := requestFromStruct(req.Msg)
	if err != nil {
		return nil, err
	}
	res, err := h.svc.ResolveFiles(in)
	if err != nil {
		return nil, toConnectError(err)
	}
	loaded := make([]any, 0, len(res.Stats.LoadedFiles))
	for _, p := range res.Stats.LoadedFiles {
		loaded = append(loaded, p)
	}
	out, err := structpb.NewStruct(map[string]any{
		"files": filesToList(res.Files, true),
		"stats": map[string]any{
			"totalBaseFiles": res.Stats.TotalBaseFiles,
			"generatedFiles": res.Stats.GeneratedFiles,
			"minimalSetSize": res.Stats.MinimalSetSize,
			"reduction":      res.Stats.Reduction,
			"loadedFiles":    loaded,
		},
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, preview.ErrInvalidRequest):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, surface.ErrSuperseded):
		return connect.NewError(connect.CodeAborted, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
