package scanner

import (
	"regexp"
	"strings"

	"tota/internal/catalog"
)

var (
	importStmtRe = regexp.MustCompile(`\bimport\s+(?:type\s+)?((?:[\w$]+\s*,\s*)?(?:\{[^}]*\}|\*\s*as\s+[\w$]+|[\w$]+))\s*from\s*['"]([^'"\n]+)['"]`)
	importListRe = regexp.MustCompile(`\{([^}]*)\}`)
	// A tag opens with "<Name" followed by whitespace, "/" or ">".
	tagOpenRe = regexp.MustCompile(`<([A-Z][\w$]*)[\s/>]`)
)

// RegexScanner matches import statements and tag openings over the raw
// text. Comments and string literals are not excluded.
type RegexScanner struct {
	cat *catalog.Catalog
}

func NewRegexScanner(cat *catalog.Catalog) *RegexScanner {
	if cat == nil {
		cat = catalog.Default()
	}
	return &RegexScanner{cat: cat}
}

func (s *RegexScanner) Scan(code string) UsageResult {
	c := newCollector(s.cat)
	for _, m := range importStmtRe.FindAllStringSubmatch(code, -1) {
		c.specifier(m[2])
		if list := importListRe.FindStringSubmatch(m[1]); list != nil {
			for _, b := range strings.Split(list[1], ",") {
				if name := importedName(b); name != "" {
					c.ident(name)
				}
			}
		}
	}
	for _, m := range tagOpenRe.FindAllStringSubmatch(code, -1) {
		c.ident(m[1])
	}
	return c.res
}
