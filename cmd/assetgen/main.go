// assetgen walks the template asset tree and writes the static manifest the
// asset store loads at process start.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

var (
	rootDir    string
	outputFile string
	pkgName    string
)

func init() {
	flag.StringVar(&rootDir, "root", "template", "template asset directory, relative to the package")
	flag.StringVar(&outputFile, "o", "manifest_gen.go", "output file")
	flag.StringVar(&pkgName, "pkg", "assets", "package name of the generated file")
}

type entry struct {
	Path   string
	Kind   string
	Source string
}

var manifestTemplate = template.Must(template.New("manifest").Parse(`// Code generated by assetgen; DO NOT EDIT.

package {{.Package}}

var manifest = []manifestEntry{
{{- range .Entries}}
	{Path: {{printf "%q" .Path}}, Kind: {{.Kind}}, Source: {{printf "%q" .Source}}},
{{- end}}
}
`))

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "assetgen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	entries, err := collect(rootDir)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := manifestTemplate.Execute(&buf, map[string]any{
		"Package": pkgName,
		"Entries": entries,
	}); err != nil {
		return fmt.Errorf("render manifest: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format manifest: %w", err)
	}
	return os.WriteFile(outputFile, src, 0o644)
}

func collect(root string) ([]entry, error) {
	base := filepath.Base(filepath.Clean(root))
	out := make([]entry, 0, 64)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		out = append(out, entry{
			Path:   rel,
			Kind:   kindConst(rel),
			Source: path.Join(base, rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func kindConst(rel string) string {
	switch {
	case strings.HasPrefix(rel, "src/components/ui/"):
		return "KindPrimitive"
	case strings.HasPrefix(rel, "src/components/icons/"):
		return "KindIcon"
	case strings.HasPrefix(rel, "src/lib/"), strings.HasPrefix(rel, "src/hooks/"), strings.HasSuffix(rel, ".css"):
		return "KindUtility"
	default:
		return "KindConfig"
	}
}
