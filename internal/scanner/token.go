package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"tota/internal/catalog"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokPunct
)

type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

// TokenScanner recognizes imports and tag openings on a token stream, so
// matches inside comments and string literals are not reported.
type TokenScanner struct {
	cat *catalog.Catalog
}

func NewTokenScanner(cat *catalog.Catalog) *TokenScanner {
	if cat == nil {
		cat = catalog.Default()
	}
	return &TokenScanner{cat: cat}
}

func (s *TokenScanner) Scan(code string) UsageResult {
	c := newCollector(s.cat)
	toks := tokenize(code)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.kind == tokIdent && t.text == "import":
			if spec, names, next, ok := parseImport(toks, i+1); ok {
				c.specifier(spec)
				for _, n := range names {
					c.ident(n)
				}
				i = next - 1
			}
		case t.kind == tokPunct && t.text == "<" && i+1 < len(toks):
			n := toks[i+1]
			if n.kind != tokIdent || n.start != t.end || !isUpper(n.text) {
				continue
			}
			if n.end >= len(code) || isTagBoundary(code[n.end]) {
				c.ident(n.text)
			}
		}
	}
	return c.res
}

// parseImport reads `[type] [Default[,]] ({list} | * as X) from "spec"`
// starting after the import keyword. It returns the specifier, the names of
// the import list and the index of the token after the specifier.
func parseImport(toks []token, i int) (string, []string, int, bool) {
	at := func(j int, kind tokenKind, text string) bool {
		return j < len(toks) && toks[j].kind == kind && (text == "" || toks[j].text == text)
	}
	if at(i, tokIdent, "type") && !at(i+1, tokIdent, "from") && !at(i+1, tokPunct, ",") {
		i++
	}
	bound := false
	if at(i, tokIdent, "") && toks[i].text != "from" {
		i++
		bound = true
		if at(i, tokPunct, ",") {
			i++
			bound = false
		}
	}
	var names []string
	switch {
	case at(i, tokPunct, "*"):
		if !at(i+1, tokIdent, "as") || !at(i+2, tokIdent, "") {
			return "", nil, 0, false
		}
		i += 3
		bound = true
	case at(i, tokPunct, "{"):
		i++
		expectName := true
		for i < len(toks) && !at(i, tokPunct, "}") {
			t := toks[i]
			switch {
			case t.kind == tokPunct && t.text == ",":
				expectName = true
			case t.kind == tokIdent && expectName:
				if t.text == "type" && at(i+1, tokIdent, "") {
					break
				}
				names = append(names, t.text)
				expectName = false
			case t.kind == tokString:
				return "", nil, 0, false
			}
			i++
		}
		if i >= len(toks) {
			return "", nil, 0, false
		}
		i++
		bound = true
	}
	if !bound || !at(i, tokIdent, "from") || !at(i+1, tokString, "") {
		return "", nil, 0, false
	}
	return toks[i+1].text, names, i + 2, true
}

// tokenize splits JS/TS/JSX source into identifiers, quoted strings and
// single-character punctuation. Comments are dropped. Template literal text
// is dropped but ${...} expressions inside it are tokenized.
func tokenize(src string) []token {
	out := make([]token, 0, len(src)/4)
	depth := 0
	var tmpl []int // brace depths at which a template literal resumes

	i := 0
	for i < len(src) {
		r, w := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == utf8.RuneError && w == 1:
			i++
		case unicode.IsSpace(r):
			i += w
		case r == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case r == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return out
			}
			i += end + 4
		case r == '\'' || r == '"':
			if i > 0 && isWordByte(src[i-1]) {
				// apostrophe inside JSX text such as "Don't"
				i++
				continue
			}
			start := i
			i++
			for i < len(src) && src[i] != byte(r) && src[i] != '\n' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			end := i
			if end > len(src) {
				end = len(src)
			}
			out = append(out, token{kind: tokString, text: src[start+1 : end], start: start, end: min(i+1, len(src))})
			i++
		case r == '`':
			i = skipTemplate(src, i+1, &tmpl, depth)
		case isIdentStart(r):
			start := i
			i += w
			for i < len(src) {
				rc, wc := utf8.DecodeRuneInString(src[i:])
				if !isIdentCont(rc) {
					break
				}
				i += wc
			}
			out = append(out, token{kind: tokIdent, text: src[start:i], start: start, end: i})
		case r == '{':
			depth++
			out = append(out, token{kind: tokPunct, text: "{", start: i, end: i + 1})
			i++
		case r == '}':
			if n := len(tmpl); n > 0 && tmpl[n-1] == depth {
				tmpl = tmpl[:n-1]
				i = skipTemplate(src, i+1, &tmpl, depth)
				continue
			}
			if depth > 0 {
				depth--
			}
			out = append(out, token{kind: tokPunct, text: "}", start: i, end: i + 1})
			i++
		default:
			out = append(out, token{kind: tokPunct, text: src[i : i+w], start: i, end: i + w})
			i += w
		}
	}
	return out
}

// skipTemplate advances past template literal text. On "${" it records the
// current brace depth and returns so the expression is tokenized as code.
func skipTemplate(src string, i int, tmpl *[]int, depth int) int {
	for i < len(src) {
		switch {
		case src[i] == '\\':
			i += 2
		case src[i] == '`':
			return i + 1
		case src[i] == '$' && i+1 < len(src) && src[i+1] == '{':
			*tmpl = append(*tmpl, depth)
			return i + 2
		default:
			i++
		}
	}
	return len(src)
}

func isIdentStart(r rune) bool { return r == '_' || r == '$' || unicode.IsLetter(r) }
func isIdentCont(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func isTagBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '/' || b == '>'
}
