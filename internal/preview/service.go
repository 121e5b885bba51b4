// Package preview turns generated component source into an installed
// sandbox document for a project.
package preview

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"tota/internal/assets"
	"tota/internal/generation"
	"tota/internal/resolver"
	"tota/internal/sandbox"
	"tota/internal/surface"
)

var (
	ErrInvalidRequest = errors.New("invalid preview request")
	ErrNoGenerator    = errors.New("generation is not configured")
)

// Request describes one component to preview. Files carries the other
// generated files of the project so imports between them resolve.
type Request struct {
	ProjectID     string
	Code          string
	ComponentName string
	FilePath      string
	Files         []assets.VirtualFile
	Static        bool
}

// Resolution is the minimal file set for a request, without rendering.
type Resolution struct {
	Entry assets.VirtualFile
	Files []assets.VirtualFile
	Stats resolver.LoadingStats
}

type Response struct {
	surface.Installed
	Files []assets.VirtualFile `json:"files"`
}

type GenerateResponse struct {
	Result  generation.Result
	Preview *Response
}

type Service struct {
	resolver  *resolver.Resolver
	docs      *sandbox.Generator
	surfaces  *surface.Registry
	generator generation.Generator
	logger    *zap.Logger
}

func NewService(res *resolver.Resolver, docs *sandbox.Generator, surfaces *surface.Registry, gen generation.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{resolver: res, docs: docs, surfaces: surfaces, generator: gen, logger: logger}
}

// normalize fills defaults: the component name falls back to the file stem,
// the path to src/components/<Name>.tsx.
func normalize(req Request) (Request, error) {
	if strings.TrimSpace(req.Code) == "" {
		return req, fmt.Errorf("%w: code is required", ErrInvalidRequest)
	}
	req.ProjectID = strings.TrimSpace(req.ProjectID)
	req.ComponentName = strings.TrimSpace(req.ComponentName)
	req.FilePath = assets.CanonicalPath(strings.TrimSpace(req.FilePath))
	if req.ComponentName == "" && req.FilePath != "" {
		base := path.Base(req.FilePath)
		req.ComponentName = strings.TrimSuffix(base, path.Ext(base))
	}
	if req.ComponentName == "" {
		req.ComponentName = "Component"
	}
	if req.FilePath == "" {
		req.FilePath = generation.ComponentPath(req.ComponentName)
	}
	files := make([]assets.VirtualFile, 0, len(req.Files))
	for _, f := range req.Files {
		p := assets.CanonicalPath(f.Path)
		if p == "" {
			return req, fmt.Errorf("%w: file path is required", ErrInvalidRequest)
		}
		if p == req.FilePath {
			continue
		}
		files = append(files, assets.Generated(p, f.Content))
	}
	req.Files = files
	return req, nil
}

func (s *Service) resolve(req Request) (assets.VirtualFile, *resolver.MinimalFileSet, []assets.VirtualFile) {
	entry := assets.Generated(req.FilePath, req.Code)
	all := append(append([]assets.VirtualFile(nil), req.Files...), entry)
	return entry, s.resolver.ResolveWithin([]assets.VirtualFile{entry}, req.Files), all
}

// ResolveFiles computes the minimal file set for req.
func (s *Service) ResolveFiles(req Request) (Resolution, error) {
	req, err := normalize(req)
	if err != nil {
		return Resolution{}, err
	}
	entry, set, entries := s.resolve(req)
	return Resolution{
		Entry: entry,
		Files: set.Files(),
		Stats: s.resolver.Stats(entries, set),
	}, nil
}

// Render builds the document for req and installs it on the project's
// surface, replacing whatever was shown before.
func (s *Service) Render(ctx context.Context, req Request) (Response, error) {
	req, err := normalize(req)
	if err != nil {
		return Response{}, err
	}
	if req.ProjectID == "" {
		return Response{}, fmt.Errorf("%w: projectId is required", ErrInvalidRequest)
	}
	seq := s.surfaces.Begin(req.ProjectID)
	started := time.Now()

	_, set, _ := s.resolve(req)
	var doc sandbox.Document
	if req.Static {
		doc = s.docs.BuildStatic(req.Code, req.ComponentName)
	} else {
		doc = s.docs.Build(req.Code, req.ComponentName, set)
	}

	inst, err := s.surfaces.InstallAt(ctx, req.ProjectID, seq, []byte(doc))
	if err != nil {
		return Response{}, err
	}
	s.logger.Debug("rendered preview",
		zap.String("project", req.ProjectID),
		zap.String("component", req.ComponentName),
		zap.Int("files", set.Len()),
		zap.Duration("took", time.Since(started)),
	)
	return Response{Installed: inst, Files: set.Files()}, nil
}

// Generate asks the generation collaborator for source and previews the
// main component. Conversation replies carry no preview.
func (s *Service) Generate(ctx context.Context, projectID, prompt string) (GenerateResponse, error) {
	if s.generator == nil {
		return GenerateResponse{}, ErrNoGenerator
	}
	if strings.TrimSpace(projectID) == "" {
		return GenerateResponse{}, fmt.Errorf("%w: projectId is required", ErrInvalidRequest)
	}
	res, err := s.generator.Generate(ctx, generation.Request{ProjectID: projectID, Prompt: prompt})
	if err != nil {
		if errors.Is(err, generation.ErrEmptyPrompt) {
			return GenerateResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return GenerateResponse{}, fmt.Errorf("generate: %w", err)
	}
	out := GenerateResponse{Result: res}
	if res.Kind == generation.KindConversation {
		return out, nil
	}
	files := make([]assets.VirtualFile, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, assets.Generated(f.Path, f.Code))
	}
	rendered, err := s.Render(ctx, Request{
		ProjectID:     projectID,
		Code:          res.Main.Code,
		ComponentName: res.Main.Name,
		FilePath:      res.Main.Path,
		Files:         files,
	})
	if err != nil {
		return out, err
	}
	out.Preview = &rendered
	return out, nil
}

func (s *Service) Surfaces() *surface.Registry { return s.surfaces }
