package sandbox

import (
	"embed"
	"regexp"
	"sort"
	"strings"
)

//go:embed runtime
var runtimeFS embed.FS

func mustRuntime(name string) string {
	b, err := runtimeFS.ReadFile("runtime/" + name)
	if err != nil {
		panic("sandbox: missing runtime asset " + name)
	}
	return string(b)
}

var (
	shimAssignRe = regexp.MustCompile(`\bShim\.([A-Za-z_$][\w$]*)\s*=[^=]`)
	disclosureRe = regexp.MustCompile(`disclosure\(\s*"([A-Za-z_$][\w$]*)"\s*,\s*\{([^}]*)\}\s*\)`)
	closersRe    = regexp.MustCompile(`closers:\s*\[([^\]]*)\]`)
	quotedRe     = regexp.MustCompile(`"([A-Za-z_$][\w$]*)"`)
	modalRe      = regexp.MustCompile(`\bmodal:\s*true\b`)
)

// shimmedNames lists every Shim member the runtime script defines, including
// members produced by the disclosure helper.
func shimmedNames(src string) map[string]bool {
	out := map[string]bool{}
	for _, m := range shimAssignRe.FindAllStringSubmatch(src, -1) {
		out[m[1]] = true
	}
	for _, m := range disclosureRe.FindAllStringSubmatch(src, -1) {
		prefix, opts := m[1], m[2]
		out[prefix] = true
		out[prefix+"Trigger"] = true
		out[prefix+"Content"] = true
		if c := closersRe.FindStringSubmatch(opts); c != nil {
			for _, q := range quotedRe.FindAllStringSubmatch(c[1], -1) {
				out[prefix+q[1]] = true
			}
		}
		if modalRe.MatchString(opts) {
			for _, suffix := range []string{"Header", "Footer", "Title", "Description"} {
				out[prefix+suffix] = true
			}
		}
	}
	return out
}

// MissingShims returns the identifiers in ids that have no runtime shim.
func MissingShims(ids []string) []string {
	shimmed := shimmedNames(mustRuntime("shims.js"))
	var missing []string
	for _, id := range ids {
		if !shimmed[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

var shimRefRe = regexp.MustCompile(`\bShim\.([A-Za-z_$][\w$]*)`)

// shimReferences lists the distinct Shim members referenced by transformed code.
func shimReferences(code string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range shimRefRe.FindAllStringSubmatch(code, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	sort.Strings(out)
	return out
}

func indentLines(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
