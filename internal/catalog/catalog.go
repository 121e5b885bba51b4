// Package catalog holds the vocabulary of UI primitives and icons that
// generated components may reference.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var rawCatalog []byte

// Entry is one primitive family. Parts are the companion identifiers that
// ship in the same file (CardHeader for Card).
type Entry struct {
	Name       string   `yaml:"name" json:"name"`
	File       string   `yaml:"file" json:"file"`
	ImportPath string   `yaml:"importPath" json:"importPath"`
	Parts      []string `yaml:"parts,omitempty" json:"parts,omitempty"`
}

// Identifiers returns the entry name followed by its parts.
func (e Entry) Identifiers() []string {
	out := make([]string, 0, 1+len(e.Parts))
	out = append(out, e.Name)
	out = append(out, e.Parts...)
	return out
}

type Icon struct {
	Name  string   `json:"name"`
	Paths []string `json:"paths"`
}

type Catalog struct {
	AliasPrefix string
	SourceRoot  string
	DefaultExt  string
	UtilityFile string
	IconFile    string

	entries []Entry
	icons   []Icon
	byIdent map[string]int
	byIcon  map[string]int
}

type document struct {
	AliasPrefix string              `yaml:"aliasPrefix"`
	SourceRoot  string              `yaml:"sourceRoot"`
	DefaultExt  string              `yaml:"defaultExt"`
	UtilityFile string              `yaml:"utilityFile"`
	IconFile    string              `yaml:"iconFile"`
	Primitives  []Entry             `yaml:"primitives"`
	Icons       map[string][]string `yaml:"icons"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog. It panics if the embedded document
// is malformed, which is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(rawCatalog)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded catalog invalid: %v", defaultErr))
	}
	return defaultCat
}

// Parse decodes a catalog document and validates identifier uniqueness.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := &Catalog{
		AliasPrefix: firstNonEmpty(doc.AliasPrefix, "@/"),
		SourceRoot:  firstNonEmpty(doc.SourceRoot, "src/"),
		DefaultExt:  firstNonEmpty(doc.DefaultExt, ".tsx"),
		UtilityFile: firstNonEmpty(doc.UtilityFile, "src/lib/utils.ts"),
		IconFile:    firstNonEmpty(doc.IconFile, "src/components/icons/index.ts"),
		entries:     make([]Entry, 0, len(doc.Primitives)),
		byIdent:     make(map[string]int),
		byIcon:      make(map[string]int),
	}
	for _, e := range doc.Primitives {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry without name")
		}
		if strings.TrimSpace(e.File) == "" {
			return nil, fmt.Errorf("catalog entry %s: file is required", e.Name)
		}
		idx := len(c.entries)
		for _, id := range e.Identifiers() {
			if _, dup := c.byIdent[id]; dup {
				return nil, fmt.Errorf("catalog identifier %s declared twice", id)
			}
			c.byIdent[id] = idx
		}
		c.entries = append(c.entries, e)
	}
	names := make([]string, 0, len(doc.Icons))
	for name := range doc.Icons {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, clash := c.byIdent[name]; clash {
			return nil, fmt.Errorf("icon %s collides with a primitive identifier", name)
		}
		c.byIcon[name] = len(c.icons)
		c.icons = append(c.icons, Icon{Name: name, Paths: doc.Icons[name]})
	}
	return c, nil
}

// Entries returns the primitive families in declaration order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

func (c *Catalog) Icons() []Icon {
	return append([]Icon(nil), c.icons...)
}

// Lookup maps any primitive identifier (entry name or part) to its entry.
func (c *Catalog) Lookup(ident string) (Entry, bool) {
	idx, ok := c.byIdent[ident]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// Entry returns the family registered under name. Parts do not match.
func (c *Catalog) Entry(name string) (Entry, bool) {
	e, ok := c.Lookup(name)
	if !ok || e.Name != name {
		return Entry{}, false
	}
	return e, true
}

// Identifiers lists every primitive name and part, sorted.
func (c *Catalog) Identifiers() []string {
	out := make([]string, 0, len(c.byIdent))
	for id := range c.byIdent {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) IconNames() []string {
	out := make([]string, 0, len(c.icons))
	for _, ic := range c.icons {
		out = append(out, ic.Name)
	}
	return out
}

// ResolveAlias turns an aliased specifier into a repository path. The
// default extension is appended when the final segment has no dot.
func (c *Catalog) ResolveAlias(spec string) (string, bool) {
	if !strings.HasPrefix(spec, c.AliasPrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(spec, c.AliasPrefix)
	if rest == "" {
		return "", false
	}
	out := c.SourceRoot + rest
	if !hasExtension(out) {
		out += c.DefaultExt
	}
	return out, true
}

func hasExtension(p string) bool {
	base := p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		base = p[i+1:]
	}
	return strings.Contains(base, ".")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (c *Catalog) IsIcon(name string) bool {
	_, ok := c.byIcon[name]
	return ok
}
