// Package assets is the template asset store: a path-keyed table of
// baseline project files, primitive sources and icon definitions that the
// resolver draws from.
package assets

//go:generate go run ../../cmd/assetgen -root template -o manifest_gen.go

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"go.uber.org/zap"
)

//go:embed template
var templateFS embed.FS

type manifestEntry struct {
	Path   string
	Kind   Kind
	Source string
}

// Store is immutable after construction and safe for concurrent use.
type Store struct {
	files map[string]VirtualFile
}

type Stats struct {
	Files      int          `json:"files"`
	TotalBytes int          `json:"totalBytes"`
	ByKind     map[Kind]int `json:"byKind"`
}

// Load builds the store from the hand-authored baseline and the embedded
// template tree listed in the generated manifest. Manifest entries are
// merged after the baseline and win on path collisions.
func Load(logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	files, err := readManifest(templateFS, manifest)
	if err != nil {
		return nil, err
	}
	s := New(append(append([]VirtualFile(nil), baselineFiles...), files...)...)
	st := s.Stats()
	logger.Info("template assets loaded",
		zap.Int("files", st.Files),
		zap.Int("bytes", st.TotalBytes),
		zap.Int("primitives", st.ByKind[KindPrimitive]),
		zap.Int("icons", st.ByKind[KindIcon]),
		zap.Int("utilities", st.ByKind[KindUtility]),
		zap.Int("config", st.ByKind[KindConfig]),
	)
	return s, nil
}

func readManifest(fsys fs.FS, entries []manifestEntry) ([]VirtualFile, error) {
	out := make([]VirtualFile, 0, len(entries))
	for _, e := range entries {
		raw, err := fs.ReadFile(fsys, e.Source)
		if err != nil {
			return nil, fmt.Errorf("read template asset %s: %w", e.Source, err)
		}
		out = append(out, VirtualFile{Path: e.Path, Kind: e.Kind, Content: string(raw)})
	}
	return out, nil
}

// New merges files in order; a later file replaces an earlier one with the
// same canonical path.
func New(files ...VirtualFile) *Store {
	s := &Store{files: make(map[string]VirtualFile, len(files))}
	for _, f := range files {
		f.Path = CanonicalPath(f.Path)
		if f.Path == "" {
			continue
		}
		s.files[f.Path] = f
	}
	return s
}

func (s *Store) Get(p string) (VirtualFile, bool) {
	if s == nil {
		return VirtualFile{}, false
	}
	f, ok := s.files[CanonicalPath(p)]
	return f, ok
}

func (s *Store) Has(p string) bool {
	_, ok := s.Get(p)
	return ok
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.files)
}

// All returns every file sorted by path.
func (s *Store) All() []VirtualFile {
	if s == nil {
		return nil
	}
	out := make([]VirtualFile, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// WithOverrides returns a new store in which overrides replace same-path
// entries. Overrides that carry no kind are marked generated.
func (s *Store) WithOverrides(overrides ...VirtualFile) *Store {
	next := &Store{files: make(map[string]VirtualFile, s.Len()+len(overrides))}
	if s != nil {
		for k, v := range s.files {
			next.files[k] = v
		}
	}
	for _, f := range overrides {
		f.Path = CanonicalPath(f.Path)
		if f.Path == "" {
			continue
		}
		if f.Kind == "" {
			f.Kind = KindGenerated
		}
		next.files[f.Path] = f
	}
	return next
}

func (s *Store) Stats() Stats {
	st := Stats{ByKind: map[Kind]int{}}
	if s == nil {
		return st
	}
	for _, f := range s.files {
		st.Files++
		st.TotalBytes += len(f.Content)
		st.ByKind[f.Kind]++
	}
	return st
}
