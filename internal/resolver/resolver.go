// Package resolver computes the minimal set of files needed to render a
// generated component: the shared utility file, the catalog primitives it
// uses and every generated file it reaches through project imports.
package resolver

import (
	"math"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"tota/internal/assets"
	"tota/internal/catalog"
	"tota/internal/metrics"
	"tota/internal/scanner"
)

type Resolver struct {
	store    *assets.Store
	cat      *catalog.Catalog
	scanner  scanner.Scanner
	cache    Cache
	baseline []string
	logger   *zap.Logger
}

type Option func(*Resolver)

func WithScanner(s scanner.Scanner) Option {
	return func(r *Resolver) {
		if s != nil {
			r.scanner = s
		}
	}
}

// WithCache replaces the default map cache. The cache is owned by the
// caller and may be shared between resolvers over the same store.
func WithCache(c Cache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithBaseline adds always-required paths on top of the utility file.
func WithBaseline(paths ...string) Option {
	return func(r *Resolver) {
		for _, p := range paths {
			if p = assets.CanonicalPath(p); p != "" {
				r.baseline = append(r.baseline, p)
			}
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func New(store *assets.Store, cat *catalog.Catalog, opts ...Option) *Resolver {
	if cat == nil {
		cat = catalog.Default()
	}
	r := &Resolver{
		store:    store,
		cat:      cat,
		scanner:  scanner.NewRegexScanner(cat),
		cache:    NewMapCache(),
		baseline: []string{cat.UtilityFile},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// lookupCounters tracks cache traffic for one resolution.
type lookupCounters struct {
	hits   int
	misses int
}

// lookup prefers a generated file, then the cache, then the asset store.
func (r *Resolver) lookup(p string, generated map[string]assets.VirtualFile, lc *lookupCounters) (assets.VirtualFile, bool) {
	if g, ok := generated[p]; ok {
		return g, true
	}
	if f, ok := r.cache.Get(p); ok {
		lc.hits++
		return f, true
	}
	lc.misses++
	f, ok := r.store.Get(p)
	if !ok {
		return assets.VirtualFile{}, false
	}
	r.cache.Add(p, f)
	return f, true
}

// Resolve walks the entry files breadth first. Imports that match neither a
// generated file nor a template asset are dropped. Generated files are only
// scanned once, so mutually importing files terminate.
func (r *Resolver) Resolve(entries []assets.VirtualFile) *MinimalFileSet {
	return r.ResolveWithin(entries, nil)
}

// ResolveWithin is Resolve where project holds further generated files that
// entries may import. Project files are only included when reached.
func (r *Resolver) ResolveWithin(entries, project []assets.VirtualFile) *MinimalFileSet {
	start := time.Now()
	var lc lookupCounters

	generated := make(map[string]assets.VirtualFile, len(entries)+len(project))
	for _, f := range project {
		if f.Path = assets.CanonicalPath(f.Path); f.Path != "" {
			if f.Kind == "" {
				f.Kind = assets.KindGenerated
			}
			generated[f.Path] = f
		}
	}
	queue := make([]assets.VirtualFile, 0, len(entries))
	for _, f := range entries {
		f.Path = assets.CanonicalPath(f.Path)
		if f.Path == "" {
			continue
		}
		if f.Kind == "" {
			f.Kind = assets.KindGenerated
		}
		generated[f.Path] = f
		queue = append(queue, f)
	}

	set := newMinimalFileSet()
	for _, p := range r.baseline {
		if f, ok := r.lookup(p, generated, &lc); ok {
			set.Add(f)
		}
	}

	visited := make(map[string]bool, len(queue))
	dropped := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.Path] {
			continue
		}
		visited[cur.Path] = true

		usage := r.scanner.Scan(cur.Content)
		for _, name := range usage.Primitives.Sorted() {
			e, ok := r.cat.Entry(name)
			if !ok || set.Has(e.File) {
				continue
			}
			if f, ok := r.lookup(e.File, generated, &lc); ok {
				set.Add(f)
			}
		}
		if len(usage.Icons) > 0 && !set.Has(r.cat.IconFile) {
			if f, ok := r.lookup(r.cat.IconFile, generated, &lc); ok {
				set.Add(f)
			}
		}

		for _, imp := range usage.AliasImports {
			target, ok := r.importTarget(cur.Path, imp, generated)
			if !ok {
				dropped++
				r.logger.Debug("dropping unresolved import",
					zap.String("file", cur.Path), zap.String("specifier", imp.Raw))
				continue
			}
			if g, ok := generated[target]; ok {
				set.Add(g)
				if !visited[target] {
					queue = append(queue, g)
				}
				continue
			}
			if f, ok := r.lookup(target, generated, &lc); ok {
				set.Add(f)
			}
		}
	}

	for _, f := range entries {
		if g, ok := generated[assets.CanonicalPath(f.Path)]; ok {
			set.Add(g)
		}
	}

	metrics.RecordResolution(set.Len(), lc.hits, lc.misses)
	r.logger.Debug("resolved minimal file set",
		zap.Int("entries", len(generated)),
		zap.Int("files", set.Len()),
		zap.Int("cache_hits", lc.hits),
		zap.Int("cache_misses", lc.misses),
		zap.Int("dropped_imports", dropped),
		zap.Duration("took", time.Since(start)),
	)
	return set
}

// importTarget maps an import to a known path. Extensionless specifiers
// also try ".ts" and an index file when the default extension misses.
func (r *Resolver) importTarget(importer string, imp scanner.AliasImport, generated map[string]assets.VirtualFile) (string, bool) {
	base := imp.Resolved
	if imp.Relative {
		base = path.Join(path.Dir(importer), imp.Raw)
		if !hasExt(base) {
			base += r.cat.DefaultExt
		}
	}
	base = assets.CanonicalPath(base)
	if base == "" {
		return "", false
	}
	candidates := []string{base}
	if !hasExt(imp.Raw) && strings.HasSuffix(base, r.cat.DefaultExt) {
		stem := strings.TrimSuffix(base, r.cat.DefaultExt)
		candidates = append(candidates, stem+".ts", stem+"/index"+r.cat.DefaultExt, stem+"/index.ts")
	}
	for _, c := range candidates {
		if _, ok := generated[c]; ok {
			return c, true
		}
		if r.cache != nil {
			if _, ok := r.cache.Get(c); ok {
				return c, true
			}
		}
		if r.store.Has(c) {
			return c, true
		}
	}
	return "", false
}

func hasExt(p string) bool {
	return strings.Contains(path.Base(p), ".")
}

// ClearCache drops every memoized asset lookup.
func (r *Resolver) ClearCache() {
	r.cache.Clear()
}

func (r *Resolver) CacheLen() int {
	return r.cache.Len()
}

// LoadingStats compares a minimal set against the full template.
type LoadingStats struct {
	TotalBaseFiles int      `json:"totalBaseFiles"`
	GeneratedFiles int      `json:"generatedFiles"`
	MinimalSetSize int      `json:"minimalSetSize"`
	Reduction      int      `json:"reduction"` // percent of the template not loaded
	LoadedFiles    []string `json:"loadedFiles"`
}

func (r *Resolver) Stats(entries []assets.VirtualFile, set *MinimalFileSet) LoadingStats {
	if set == nil {
		set = r.Resolve(entries)
	}
	st := LoadingStats{
		TotalBaseFiles: r.store.Len(),
		GeneratedFiles: len(entries),
		MinimalSetSize: set.Len(),
		LoadedFiles:    set.SortedPaths(),
	}
	if st.TotalBaseFiles > 0 {
		st.Reduction = int(math.Round((1 - float64(st.MinimalSetSize)/float64(st.TotalBaseFiles)) * 100))
	}
	return st
}
