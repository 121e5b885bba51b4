package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heroSource = `import { Button } from "@/components/ui/button";
import { ArrowRight } from "lucide-react";

export default function Hero() {
  return (
    <section className="py-24">
      <h1 className="text-5xl">Ship faster</h1>
      <Button>Start <ArrowRight /></Button>
    </section>
  );
}
`

func writeComponent(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "Hero.tsx")
	require.NoError(t, os.WriteFile(p, []byte(heroSource), 0o644))
	return p
}

func TestFilesPrintsMinimalSet(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"files", writeComponent(t)}, &out))

	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "src/components/Hero.tsx", lines[0])
	assert.Contains(t, out.String(), "src/components/ui/button.tsx\n")
	assert.Contains(t, out.String(), "src/lib/utils.ts\n")
	assert.Contains(t, out.String(), "% reduction)")
}

func TestHTMLWritesLiveDocument(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"html", writeComponent(t)}, &out))

	doc := out.String()
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>Hero Preview</title>")
	assert.Contains(t, doc, "Shim.Button")
}

func TestHTMLStaticToFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.html")
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"html", "-static", "-name", "Landing", "-o", dst, writeComponent(t)}, &out))
	assert.Empty(t, out.String())

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<title>Landing Preview</title>")
	assert.Contains(t, string(raw), `<h1 class="text-5xl">Ship faster</h1>`)
}

func TestGenerateWithFakeModel(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"generate", "-fake", "-out", dir, "a", "bakery", "website"}, &out))

	var res struct {
		Type      string `json:"type"`
		Component struct {
			Name string `json:"name"`
			Path string `json:"path"`
		} `json:"component"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "website", res.Type)
	assert.Equal(t, "LandingPage", res.Component.Name)
	assert.FileExists(t, filepath.Join(dir, "src", "components", "LandingPage.tsx"))
	assert.FileExists(t, filepath.Join(dir, "src", "components", "Header.tsx"))
}

func TestUsageErrors(t *testing.T) {
	var out bytes.Buffer
	for _, args := range [][]string{nil, {"nope"}, {"files"}, {"generate", "-fake"}} {
		err := run(context.Background(), args, &out)
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}
}
