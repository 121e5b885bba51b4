// Package transform rewrites generated component source so it runs without
// a module loader inside the sandbox document.
package transform

import (
	"regexp"
	"strings"

	"tota/internal/catalog"
)

const (
	// Namespace is the runtime object that carries primitive shims.
	Namespace = "Shim"
	// EntryBinding receives the default export.
	EntryBinding = "__PreviewEntry"
)

// Transformer is a pure text rewrite. The output carries no import or
// export statements; it is not validated beyond that.
type Transformer interface {
	Transform(code, entryName string) string
}

var (
	importFromRe   = regexp.MustCompile(`\bimport\s+(?:type\s+)?(?:[\w$]+\s*,\s*)?(?:\{[^}]*\}|\*\s*as\s+[\w$]+|[\w$]+)\s*from\s*['"][^'"\n]*['"][ \t]*;?`)
	importBareRe   = regexp.MustCompile(`\bimport\s*['"][^'"\n]*['"][ \t]*;?`)
	exportListRe   = regexp.MustCompile(`(?m)^[ \t]*export\s*(?:type\s*)?(?:\*(?:\s*as\s+[\w$]+)?|\{[^}]*\})(?:\s*from\s*['"][^'"\n]*['"])?[ \t]*;?`)
	exportDeclRe   = regexp.MustCompile(`(?m)^([ \t]*)export\s+((?:declare\s+)?(?:async\s+)?(?:function|class|const|let|var|interface|type|enum|abstract)\b)`)
	defaultNamedRe = regexp.MustCompile(`\bexport\s+default\s+((?:async\s+)?function\s*\*?\s*|class\s+)([A-Za-z_$][\w$]*)`)
	defaultAnyRe   = regexp.MustCompile(`\bexport\s+default\s+`)
	declaredRe     = regexp.MustCompile(`\b(?:const|let|var|function|class)\s+([A-Z][\w$]*)`)
	identRe        = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

// RegexTransformer applies targeted substitutions. It handles the commonly
// generated subset: one default-exported component plus helpers.
type RegexTransformer struct {
	identRe *regexp.Regexp
}

func New(cat *catalog.Catalog) *RegexTransformer {
	if cat == nil {
		cat = catalog.Default()
	}
	ids := cat.Identifiers()
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = regexp.QuoteMeta(id)
	}
	return &RegexTransformer{
		identRe: regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

func (t *RegexTransformer) Transform(code, entryName string) string {
	out := StripImports(code)
	out = t.namespace(out)
	return rewriteExports(out, entryName)
}

// StripImports removes static import statements until none remain.
func StripImports(code string) string {
	for i := 0; i < 8; i++ {
		next := importFromRe.ReplaceAllString(code, "")
		next = importBareRe.ReplaceAllString(next, "")
		if next == code {
			break
		}
		code = next
	}
	return code
}

// namespace prefixes catalog identifiers used as a tag or a call, unless the
// source declares a binding of the same name.
func (t *RegexTransformer) namespace(code string) string {
	declared := map[string]bool{}
	for _, m := range declaredRe.FindAllStringSubmatch(code, -1) {
		declared[m[1]] = true
	}

	var b strings.Builder
	b.Grow(len(code) + 64)
	last := 0
	for _, loc := range t.identRe.FindAllStringIndex(code, -1) {
		start, end := loc[0], loc[1]
		name := code[start:end]
		if declared[name] || !isUsage(code, start, end) {
			continue
		}
		b.WriteString(code[last:start])
		b.WriteString(Namespace)
		b.WriteByte('.')
		b.WriteString(name)
		last = end
	}
	b.WriteString(code[last:])
	return b.String()
}

func isUsage(code string, start, end int) bool {
	if start > 0 {
		switch code[start-1] {
		case '.', '$':
			return false
		case '<':
			return true
		case '/':
			return start > 1 && code[start-2] == '<'
		}
	}
	i := end
	for i < len(code) && (code[i] == ' ' || code[i] == '\t') {
		i++
	}
	return i < len(code) && code[i] == '('
}

func rewriteExports(code, entryName string) string {
	found := false
	entry := ""
	// "class extends Base" is anonymous; the keyword is not a name
	if m := defaultNamedRe.FindStringSubmatchIndex(code); m != nil && code[m[4]:m[5]] != "extends" {
		found = true
		entry = code[m[4]:m[5]]
		// keep the declaration, drop "export default"
		code = code[:m[0]] + code[m[2]:]
	} else if loc := defaultAnyRe.FindStringIndex(code); loc != nil {
		found = true
		code = code[:loc[0]] + "var " + EntryBinding + " = " + code[loc[1]:]
	}
	code = exportListRe.ReplaceAllString(code, "")
	code = exportDeclRe.ReplaceAllString(code, "$1$2")
	// later default exports, if any, become plain expressions
	code = defaultAnyRe.ReplaceAllString(code, "")

	switch {
	case entry != "":
		code = strings.TrimRight(code, "\n") + "\nvar " + EntryBinding + " = " + entry + ";\n"
	case !found && IsIdentifier(entryName) && declares(code, entryName):
		code = strings.TrimRight(code, "\n") + "\nvar " + EntryBinding + " = " + entryName + ";\n"
	}
	return code
}

func declares(code, name string) bool {
	for _, m := range declaredRe.FindAllStringSubmatch(code, -1) {
		if m[1] == name {
			return true
		}
	}
	return false
}

// IsIdentifier reports whether s is a plain JavaScript identifier.
func IsIdentifier(s string) bool {
	return identRe.MatchString(s)
}
