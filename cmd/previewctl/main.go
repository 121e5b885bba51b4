// previewctl resolves and renders preview documents from the command line.
//
//	previewctl files [-name X] component.tsx
//	previewctl html [-static] [-name X] [-o out.html] component.tsx
//	previewctl generate [-fake] [-model M] [-out dir] "prompt"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"tota/internal/assets"
	"tota/internal/catalog"
	"tota/internal/generation"
	"tota/internal/resolver"
	"tota/internal/sandbox"
)

const usage = `usage:
  previewctl files [-name X] <component.tsx>
  previewctl html [-static] [-name X] [-o out.html] <component.tsx>
  previewctl generate [-fake] [-model M] [-out dir] <prompt>`

var errUsage = errors.New(usage)

func main() {
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "files":
		return runFiles(args[1:], out)
	case "html":
		return runHTML(args[1:], out)
	case "generate":
		return runGenerate(ctx, args[1:], out)
	default:
		return errUsage
	}
}

// readComponent loads the entry file and derives its component name from the
// file stem unless one is given.
func readComponent(fs *flag.FlagSet, name string) (assets.VirtualFile, string, error) {
	if fs.NArg() != 1 {
		return assets.VirtualFile{}, "", errUsage
	}
	file := fs.Arg(0)
	raw, err := os.ReadFile(file)
	if err != nil {
		return assets.VirtualFile{}, "", err
	}
	base := filepath.Base(file)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = stem
	}
	return assets.Generated(generation.ComponentPath(stem), string(raw)), name, nil
}

func newResolver(cat *catalog.Catalog) (*resolver.Resolver, error) {
	store, err := assets.Load(nil)
	if err != nil {
		return nil, err
	}
	return resolver.New(store, cat), nil
}

func runFiles(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "component name (default: file stem)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	entry, _, err := readComponent(fs, *name)
	if err != nil {
		return err
	}
	res, err := newResolver(catalog.Default())
	if err != nil {
		return err
	}
	entries := []assets.VirtualFile{entry}
	set := res.Resolve(entries)
	stats := res.Stats(entries, set)
	for _, p := range stats.LoadedFiles {
		fmt.Fprintln(out, p)
	}
	fmt.Fprintf(out, "\n%d of %d template files loaded (%d%% reduction)\n",
		stats.MinimalSetSize-stats.GeneratedFiles, stats.TotalBaseFiles, stats.Reduction)
	return nil
}

func runHTML(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("html", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "component name (default: file stem)")
	static := fs.Bool("static", false, "render the static fallback document")
	output := fs.String("o", "", "write the document to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	entry, component, err := readComponent(fs, *name)
	if err != nil {
		return err
	}
	cat := catalog.Default()
	docs := sandbox.New(cat, nil, sandbox.DefaultOptions(), nil)

	var doc sandbox.Document
	if *static {
		doc = docs.BuildStatic(entry.Content, component)
	} else {
		res, err := newResolver(cat)
		if err != nil {
			return err
		}
		doc = docs.Build(entry.Content, component, res.Resolve([]assets.VirtualFile{entry}))
	}
	if *output == "" {
		_, err = io.WriteString(out, string(doc))
		return err
	}
	return os.WriteFile(*output, []byte(doc), 0o644)
}

func runGenerate(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fake := fs.Bool("fake", false, "use the offline model")
	model := fs.String("model", generation.DefaultGeminiModel, "Gemini model id")
	outDir := fs.String("out", "", "write generated components under this directory")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	prompt := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(prompt) == "" {
		return errUsage
	}

	var m generation.Model = generation.FakeModel{}
	if !*fake {
		gm, err := generation.NewGeminiModel(ctx, os.Getenv("GEMINI_API_KEY"), *model, nil)
		if err != nil {
			return err
		}
		m = gm
	}
	res, err := generation.NewPipeline(m, catalog.Default(), nil).Generate(ctx, generation.Request{Prompt: prompt})
	if err != nil {
		return err
	}
	if *outDir != "" && res.Kind != generation.KindConversation {
		for _, f := range res.Files {
			p := filepath.Join(*outDir, filepath.FromSlash(f.Path))
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(p, []byte(f.Code), 0o644); err != nil {
				return err
			}
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
