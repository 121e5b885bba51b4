package resolver

import (
	"sort"

	"tota/internal/assets"
)

// MinimalFileSet is deduplicated by path. Iteration order is insertion
// order; callers that display the set sort it themselves.
type MinimalFileSet struct {
	order []string
	files map[string]assets.VirtualFile
}

func newMinimalFileSet() *MinimalFileSet {
	return &MinimalFileSet{files: make(map[string]assets.VirtualFile)}
}

// Add inserts f unless a file with the same path is already present.
func (s *MinimalFileSet) Add(f assets.VirtualFile) bool {
	if _, ok := s.files[f.Path]; ok {
		return false
	}
	s.files[f.Path] = f
	s.order = append(s.order, f.Path)
	return true
}

func (s *MinimalFileSet) Has(path string) bool {
	_, ok := s.files[path]
	return ok
}

func (s *MinimalFileSet) Get(path string) (assets.VirtualFile, bool) {
	f, ok := s.files[path]
	return f, ok
}

func (s *MinimalFileSet) Len() int { return len(s.order) }

func (s *MinimalFileSet) Files() []assets.VirtualFile {
	out := make([]assets.VirtualFile, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, s.files[p])
	}
	return out
}

// SortedPaths returns the member paths in lexicographic order.
func (s *MinimalFileSet) SortedPaths() []string {
	out := append([]string(nil), s.order...)
	sort.Strings(out)
	return out
}
