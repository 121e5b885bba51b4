// Package sandbox renders self-contained HTML documents that compile and
// mount a generated component inside an isolated frame.
package sandbox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"path"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"tota/internal/assets"
	"tota/internal/catalog"
	"tota/internal/metrics"
	"tota/internal/resolver"
	"tota/internal/transform"
)

// Document is a complete HTML page.
type Document string

const hooksPrelude = "var useState = React.useState, useEffect = React.useEffect, useMemo = React.useMemo, " +
	"useCallback = React.useCallback, useRef = React.useRef, useReducer = React.useReducer, " +
	"useContext = React.useContext, useLayoutEffect = React.useLayoutEffect, useId = React.useId, " +
	"createContext = React.createContext, forwardRef = React.forwardRef, memo = React.memo, " +
	"Fragment = React.Fragment;\n"

var (
	documentTmpl = template.Must(template.New("document").Parse(mustRuntime("document.html.tmpl")))
	staticTmpl   = template.Must(template.New("static").Parse(mustRuntime("static.html.tmpl")))
)

type dependency struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Source string `json:"source"`
}

type manifest struct {
	Entry string   `json:"entry"`
	Files []string `json:"files"`
}

type documentData struct {
	Title        string
	Options      Options
	Boundary     string
	Shims        string
	IconShim     string
	IconDefs     string
	Manifest     string
	Prelude      string
	Dependencies string
	Source       string
	Resolve      string
	MissingEntry string
}

// Generator builds preview documents. It is safe for concurrent use.
type Generator struct {
	opts    Options
	cat     *catalog.Catalog
	tr      transform.Transformer
	logger  *zap.Logger
	shimmed map[string]bool

	boundary string
	shims    string
	iconShim string
	iconDefs string
}

func New(cat *catalog.Catalog, tr transform.Transformer, opts Options, logger *zap.Logger) *Generator {
	if cat == nil {
		cat = catalog.Default()
	}
	if tr == nil {
		tr = transform.New(cat)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defs := map[string][]string{}
	for _, icon := range cat.Icons() {
		defs[icon.Name] = icon.Paths
	}
	shims := mustRuntime("shims.js")
	g := &Generator{
		opts:     opts.withDefaults(),
		cat:      cat,
		tr:       tr,
		logger:   logger,
		shimmed:  shimmedNames(shims),
		boundary: indentLines(mustRuntime("boundary.js"), "    "),
		shims:    indentLines(shims, "      "),
		iconShim: indentLines(mustRuntime("icons.js"), "      "),
		iconDefs: jsLiteral(defs),
	}
	if missing := MissingShims(cat.Identifiers()); len(missing) > 0 {
		logger.Warn("catalog identifiers without runtime shim", zap.Strings("identifiers", missing))
	}
	return g
}

// Build renders the live document for entryCode. Generated files in set other
// than the entry are compiled ahead of it and bound to their file stem.
// Any failure while compiling or mounting is reported inside the page.
func (g *Generator) Build(entryCode, entryName string, set *resolver.MinimalFileSet) Document {
	source := g.tr.Transform(entryCode, entryName)
	g.checkShims(source, set)

	deps := g.dependencies(entryCode, set)
	var paths []string
	if set != nil {
		paths = set.SortedPaths()
	}
	if paths == nil {
		paths = []string{}
	}

	data := documentData{
		Title:        previewTitle(entryName),
		Options:      g.opts,
		Boundary:     g.boundary,
		Shims:        g.shims,
		IconShim:     g.iconShim,
		IconDefs:     g.iconDefs,
		Manifest:     jsLiteral(manifest{Entry: entryName, Files: paths}),
		Prelude:      jsLiteral(hooksPrelude + g.iconPrelude(source, deps)),
		Dependencies: jsLiteral(deps),
		Source:       jsLiteral(source),
		Resolve:      jsLiteral(resolveExpr(entryName)),
		MissingEntry: jsLiteral("No component found to render"),
	}
	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, data); err != nil {
		g.logger.Error("render preview document", zap.Error(err))
		return errorDocument(entryName, err)
	}
	metrics.RecordDocument("live", buf.Len())
	return Document(buf.String())
}

var tagNameRe = regexp.MustCompile(`<([A-Z][\w$]*)[\s/>]`)

// iconPrelude binds every icon rendered as a tag in the compiled sources to
// its Icons entry, so icons named like browser globals resolve to the icon.
func (g *Generator) iconPrelude(source string, deps []dependency) string {
	seen := map[string]bool{}
	collect := func(src string) {
		for _, m := range tagNameRe.FindAllStringSubmatch(src, -1) {
			if g.cat.IsIcon(m[1]) {
				seen[m[1]] = true
			}
		}
	}
	collect(source)
	for _, d := range deps {
		collect(d.Source)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "var %[1]s = Icons.%[1]s;\n", name)
	}
	return b.String()
}

// resolveExpr is evaluated after the compiled entry code and yields the
// component to mount. name is only referenced when it is a valid identifier.
func resolveExpr(name string) string {
	expr := fmt.Sprintf(`typeof %[1]s !== "undefined" && %[1]s ? %[1]s : `, transform.EntryBinding)
	if transform.IsIdentifier(name) {
		return expr + fmt.Sprintf(`(typeof %[1]s !== "undefined" ? %[1]s : undefined)`, name)
	}
	return expr + "undefined"
}

func (g *Generator) dependencies(entryCode string, set *resolver.MinimalFileSet) []dependency {
	deps := []dependency{}
	if set == nil {
		return deps
	}
	primitiveFiles := map[string]bool{}
	for _, e := range g.cat.Entries() {
		primitiveFiles[e.File] = true
	}
	for _, p := range set.SortedPaths() {
		f, _ := set.Get(p)
		if f.Kind != assets.KindGenerated || f.Content == entryCode || primitiveFiles[p] || !isScript(p) {
			continue
		}
		name := bindingName(p)
		if !transform.IsIdentifier(name) {
			g.logger.Debug("skip dependency without identifier stem", zap.String("path", p))
			continue
		}
		deps = append(deps, dependency{Name: name, Path: p, Source: g.tr.Transform(f.Content, name)})
	}
	return deps
}

func (g *Generator) checkShims(source string, set *resolver.MinimalFileSet) {
	for _, ref := range shimReferences(source) {
		if !g.shimmed[ref] {
			g.logger.Warn("no runtime shim for primitive", zap.String("identifier", ref))
			continue
		}
		if set == nil {
			continue
		}
		if e, ok := g.cat.Lookup(ref); ok && !set.Has(e.File) {
			g.logger.Warn("primitive used outside minimal set",
				zap.String("identifier", ref), zap.String("file", e.File))
		}
	}
}

func isScript(p string) bool {
	switch path.Ext(p) {
	case ".tsx", ".ts", ".jsx", ".js":
		return true
	}
	return false
}

func bindingName(p string) string {
	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if base == "index" {
		base = path.Base(path.Dir(p))
	}
	return base
}

func previewTitle(name string) string {
	if strings.TrimSpace(name) == "" {
		name = "Component"
	}
	return name + " Preview"
}

// jsLiteral encodes v for inclusion in an inline script. encoding/json
// escapes <, > and & so the payload cannot close the script element.
func jsLiteral(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func errorDocument(name string, err error) Document {
	return Document(fmt.Sprintf(
		"<!DOCTYPE html><html><head><title>%s</title></head><body><div class=\"preview-error\">Preview error: %s</div></body></html>",
		html.EscapeString(previewTitle(name)), html.EscapeString(err.Error()),
	))
}
