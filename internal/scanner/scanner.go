// Package scanner detects which catalog primitives and icons a piece of
// generated source uses and which project modules it imports.
//
// Two implementations share the Scanner contract: RegexScanner is the
// fast heuristic over raw text, TokenScanner works on a token stream and
// ignores comments and string literals.
package scanner

import (
	"fmt"
	"sort"
	"strings"

	"tota/internal/catalog"
)

// AliasImport is a project-local import. Resolved holds the canonical
// repository path for aliased specifiers; relative specifiers keep Resolved
// empty because they can only be resolved against the importing file.
type AliasImport struct {
	Raw      string `json:"raw"`
	Resolved string `json:"resolved,omitempty"`
	Relative bool   `json:"relative,omitempty"`
}

type NameSet map[string]struct{}

func (s NameSet) Add(name string) { s[name] = struct{}{} }

func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// UsageResult is derived per scan and never persisted. Primitives holds
// owning entry names: a use of CardHeader is reported as Card.
type UsageResult struct {
	AliasImports []AliasImport `json:"aliasImports"`
	Primitives   NameSet       `json:"primitives"`
	Icons        NameSet       `json:"icons"`
}

// Scanner is a pure function of its input and safe for concurrent use.
type Scanner interface {
	Scan(code string) UsageResult
}

const (
	KindRegex = "regex"
	KindToken = "token"
)

// New returns the scanner registered under kind. An empty kind selects the
// regex scanner.
func New(kind string, cat *catalog.Catalog) (Scanner, error) {
	if cat == nil {
		cat = catalog.Default()
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindRegex:
		return NewRegexScanner(cat), nil
	case KindToken:
		return NewTokenScanner(cat), nil
	default:
		return nil, fmt.Errorf("unknown scanner kind %q", kind)
	}
}

// collector accumulates findings shared by both scanners.
type collector struct {
	cat    *catalog.Catalog
	res    UsageResult
	seenIm map[string]bool
}

func newCollector(cat *catalog.Catalog) *collector {
	return &collector{
		cat: cat,
		res: UsageResult{
			AliasImports: []AliasImport{},
			Primitives:   NameSet{},
			Icons:        NameSet{},
		},
		seenIm: map[string]bool{},
	}
}

func (c *collector) specifier(spec string) {
	spec = strings.TrimSpace(spec)
	if spec == "" || c.seenIm[spec] {
		return
	}
	if resolved, ok := c.cat.ResolveAlias(spec); ok {
		c.seenIm[spec] = true
		c.res.AliasImports = append(c.res.AliasImports, AliasImport{Raw: spec, Resolved: resolved})
		return
	}
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") {
		c.seenIm[spec] = true
		c.res.AliasImports = append(c.res.AliasImports, AliasImport{Raw: spec, Relative: true})
	}
}

// ident records a tag or import-list hit.
func (c *collector) ident(name string) {
	if e, ok := c.cat.Lookup(name); ok {
		c.res.Primitives.Add(e.Name)
		return
	}
	if c.cat.IsIcon(name) {
		c.res.Icons.Add(name)
	}
}

// importedName extracts the exported name from one import-list element:
// "Button", "Button as B", "type ButtonProps".
func importedName(binding string) string {
	fields := strings.Fields(binding)
	if len(fields) == 0 {
		return ""
	}
	if fields[0] == "type" && len(fields) > 1 {
		fields = fields[1:]
	}
	return fields[0]
}
