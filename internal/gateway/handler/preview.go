package handler

import (
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"tota/internal/assets"
	"tota/internal/preview"
	"tota/internal/resolver"
)

type PreviewHandler struct {
	svc    *preview.Service
	logger *zap.Logger
}

func NewPreviewHandler(svc *preview.Service, logger *zap.Logger) *PreviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreviewHandler{svc: svc, logger: logger}
}

type fileInput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type previewRequest struct {
	ProjectID     string      `json:"projectId"`
	Code          string      `json:"code"`
	ComponentName string      `json:"componentName"`
	FilePath      string      `json:"filePath"`
	Files         []fileInput `json:"files"`
	Static        bool        `json:"static"`
}

func (p previewRequest) toRequest() preview.Request {
	files := make([]assets.VirtualFile, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, assets.VirtualFile{Path: f.Path, Content: f.Content})
	}
	return preview.Request{
		ProjectID:     strings.TrimSpace(p.ProjectID),
		Code:          p.Code,
		ComponentName: p.ComponentName,
		FilePath:      p.FilePath,
		Files:         files,
		Static:        p.Static,
	}
}

type fileRef struct {
	Path    string      `json:"path"`
	Kind    assets.Kind `json:"kind"`
	Content string      `json:"content,omitempty"`
}

type previewResponse struct {
	ProjectID string    `json:"projectId"`
	Handle    string    `json:"handle"`
	URL       string    `json:"url"`
	DirectURL string    `json:"directUrl,omitempty"`
	Sequence  uint64    `json:"sequence"`
	Files     []fileRef `json:"files"`
}

// fileRefs lists files sorted by path; withContent includes the sources.
func fileRefs(files []assets.VirtualFile, withContent bool) []fileRef {
	out := make([]fileRef, 0, len(files))
	for _, f := range files {
		ref := fileRef{Path: f.Path, Kind: f.Kind}
		if withContent {
			ref.Content = f.Content
		}
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func toPreviewResponse(resp preview.Response) previewResponse {
	return previewResponse{
		ProjectID: resp.ProjectID,
		Handle:    resp.Handle,
		URL:       resp.URL,
		DirectURL: resp.DirectURL,
		Sequence:  resp.Sequence,
		Files:     fileRefs(resp.Files, false),
	}
}

// HandlePreview serves POST /api/preview.
func (h *PreviewHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	var body previewRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.svc.Render(r.Context(), body.toRequest())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreviewResponse(resp))
}

type generateRequest struct {
	ProjectID string `json:"projectId"`
	Prompt    string `json:"prompt"`
}

type generateResponse struct {
	Type        string           `json:"type"`
	Description string           `json:"description,omitempty"`
	Response    string           `json:"response,omitempty"`
	Component   string           `json:"componentName,omitempty"`
	Preview     *previewResponse `json:"preview,omitempty"`
}

// HandleGenerate serves POST /api/generate.
func (h *PreviewHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out, err := h.svc.Generate(r.Context(), strings.TrimSpace(body.ProjectID), body.Prompt)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp := generateResponse{
		Type:        string(out.Result.Kind),
		Description: out.Result.Description,
		Response:    out.Result.Response,
		Component:   out.Result.Main.Name,
	}
	if out.Preview != nil {
		pr := toPreviewResponse(*out.Preview)
		resp.Preview = &pr
	}
	writeJSON(w, http.StatusOK, resp)
}

type filesResponse struct {
	Files []fileRef              `json:"files"`
	Stats resolver.LoadingStats `json:"stats"`
}

// HandleFiles serves POST /api/files, the minimal set with sources.
func (h *PreviewHandler) HandleFiles(w http.ResponseWriter, r *http.Request) {
	var body previewRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := h.svc.ResolveFiles(body.toRequest())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, filesResponse{Files: fileRefs(res.Files, true), Stats: res.Stats})
}

// HandleDocument serves GET /preview/{projectId}/{handle}. Only the current
// document of a project is served.
func (h *PreviewHandler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectId")
	handle := r.PathValue("handle")
	doc, err := h.svc.Surfaces().Document(r.Context(), projectID, handle)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", "sandbox allow-scripts")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// HandleHealth serves GET /healthz.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
