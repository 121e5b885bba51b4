package sandbox

import (
	"bytes"
	"regexp"

	"go.uber.org/zap"

	"tota/internal/metrics"
)

const staticUnavailable = "<div>Preview not available</div>"

var (
	returnBlockRe = regexp.MustCompile(`(?s)return\s*\(\s*(.*?)\s*\);?\s*\}.*?(?:export|$)`)
	classNameRe   = regexp.MustCompile(`\bclassName=`)
	exprRe        = regexp.MustCompile(`\{[^}]+\}`)

	staticRewrites = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`(?s)<Button(\s[^>]*)?>(.*?)</Button>`), `<button class="inline-flex items-center justify-center rounded-md text-sm font-medium bg-purple-600 text-white px-4 py-2 hover:bg-purple-700"${1}>${2}</button>`},
		{regexp.MustCompile(`(?s)<Card(\s[^>]*)?>(.*?)</Card>`), `<div class="rounded-lg border bg-white shadow-sm p-6"${1}>${2}</div>`},
		{regexp.MustCompile(`(?s)<Badge(\s[^>]*)?>(.*?)</Badge>`), `<span class="inline-flex items-center rounded-full bg-purple-600 text-white px-2.5 py-0.5 text-xs font-semibold"${1}>${2}</span>`},
		{regexp.MustCompile(`<Input(\s[^>]*?)?\s*/>`), `<input class="flex h-10 w-full rounded-md border border-gray-300 bg-white px-3 py-2 text-sm"${1} />`},
		{regexp.MustCompile(`<[A-Z][\w.]*(\s[^>]*?)?\s*/>`), `<div${1}></div>`},
		{regexp.MustCompile(`<[A-Z][\w.]*(\s[^>]*)?>`), `<div${1}>`},
		{regexp.MustCompile(`</[A-Z][\w.]*\s*>`), `</div>`},
	}
)

type staticData struct {
	Title   string
	Options Options
	Body    string
}

// BuildStatic renders a script-free approximation of the component's markup.
// Only the first returned JSX block is used and expressions are dropped.
func (g *Generator) BuildStatic(code, name string) Document {
	var buf bytes.Buffer
	err := staticTmpl.Execute(&buf, staticData{
		Title:   previewTitle(name),
		Options: g.opts,
		Body:    StaticMarkup(code),
	})
	if err != nil {
		g.logger.Error("render static document", zap.Error(err))
		return errorDocument(name, err)
	}
	metrics.RecordDocument("static", buf.Len())
	return Document(buf.String())
}

// StaticMarkup converts the first JSX return block of code into plain HTML.
func StaticMarkup(code string) string {
	m := returnBlockRe.FindStringSubmatch(code)
	if m == nil {
		return staticUnavailable
	}
	out := classNameRe.ReplaceAllString(m[1], "class=")
	out = exprRe.ReplaceAllString(out, "")
	for _, rw := range staticRewrites {
		out = rw.re.ReplaceAllString(out, rw.repl)
	}
	return out
}
