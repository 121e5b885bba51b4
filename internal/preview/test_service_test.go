package preview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tota/internal/assets"
	"tota/internal/catalog"
	"tota/internal/gateway/repository/document"
	"tota/internal/generation"
	"tota/internal/resolver"
	"tota/internal/sandbox"
	"tota/internal/surface"
)

func newTestService(t *testing.T, gen generation.Generator) (*Service, *document.MemoryStore) {
	t.Helper()
	store, err := assets.Load(nil)
	require.NoError(t, err)
	cat := catalog.Default()
	docs := document.NewMemoryStore()
	return NewService(
		resolver.New(store, cat),
		sandbox.New(cat, nil, sandbox.DefaultOptions(), nil),
		surface.NewRegistry(docs, "", nil),
		gen,
		nil,
	), docs
}

const heroCode = `import { Button } from "@/components/ui/button";
export default function Hero() { return <Button>Go</Button>; }`

func TestRenderInstallsDocument(t *testing.T) {
	svc, docs := newTestService(t, nil)
	ctx := context.Background()

	resp, err := svc.Render(ctx, Request{ProjectID: "p1", Code: heroCode, ComponentName: "Hero"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), resp.Sequence)
	assert.Equal(t, "/preview/p1/"+resp.Handle, resp.URL)

	paths := make([]string, 0, len(resp.Files))
	for _, f := range resp.Files {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"src/components/Hero.tsx", "src/components/ui/button.tsx", "src/lib/utils.ts"}, paths)

	raw, err := docs.Get(ctx, "p1", resp.Handle)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<title>Hero Preview</title>")
	assert.Contains(t, string(raw), "Shim.Button")
}

func TestRenderSupersedesPrevious(t *testing.T) {
	svc, docs := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Render(ctx, Request{ProjectID: "p", Code: heroCode})
	require.NoError(t, err)
	second, err := svc.Render(ctx, Request{ProjectID: "p", Code: heroCode, Static: true})
	require.NoError(t, err)

	handles, err := docs.List(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []string{second.Handle}, handles)
	_, err = svc.Surfaces().Document(ctx, "p", first.Handle)
	assert.ErrorIs(t, err, document.ErrNotFound)

	raw, err := svc.Surfaces().Document(ctx, "p", second.Handle)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), sandbox.DefaultBabelURL)
}

func TestRenderValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Render(ctx, Request{ProjectID: "p", Code: " "})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.Render(ctx, Request{Code: heroCode})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.Render(ctx, Request{ProjectID: "p", Code: heroCode, Files: []assets.VirtualFile{{Path: ""}}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestNormalizeDefaults(t *testing.T) {
	req, err := normalize(Request{Code: "x", FilePath: "/src/components/Pricing.tsx"})
	require.NoError(t, err)
	assert.Equal(t, "Pricing", req.ComponentName)
	assert.Equal(t, "src/components/Pricing.tsx", req.FilePath)

	req, err = normalize(Request{Code: "x", ComponentName: "Hero"})
	require.NoError(t, err)
	assert.Equal(t, "src/components/Hero.tsx", req.FilePath)

	req, err = normalize(Request{Code: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Component", req.ComponentName)
}

func TestResolveFilesFollowsProjectFiles(t *testing.T) {
	svc, _ := newTestService(t, nil)
	page := `import Header from "@/components/Header";
export default function Page() { return <Header />; }`
	res, err := svc.ResolveFiles(Request{
		Code:          page,
		ComponentName: "Page",
		Files: []assets.VirtualFile{
			{Path: "src/components/Header.tsx", Content: `export default function Header() { return <Badge>New</Badge>; }`},
			{Path: "src/components/Unused.tsx", Content: `export default function Unused() { return <Card />; }`},
		},
	})
	require.NoError(t, err)

	paths := map[string]bool{}
	for _, f := range res.Files {
		paths[f.Path] = true
	}
	assert.True(t, paths["src/components/Header.tsx"])
	assert.True(t, paths["src/components/ui/badge.tsx"])
	assert.False(t, paths["src/components/ui/card.tsx"])
	assert.Equal(t, "src/components/Page.tsx", res.Entry.Path)
	assert.Equal(t, len(res.Files), res.Stats.MinimalSetSize)
}

func TestGenerateRendersMainComponent(t *testing.T) {
	svc, _ := newTestService(t, generation.NewPipeline(generation.FakeModel{}, nil, nil))
	out, err := svc.Generate(context.Background(), "p", "a landing page for a cafe")
	require.NoError(t, err)
	require.NotNil(t, out.Preview)
	assert.Equal(t, generation.KindWebsite, out.Result.Kind)

	paths := map[string]bool{}
	for _, f := range out.Preview.Files {
		paths[f.Path] = true
	}
	assert.True(t, paths["src/components/LandingPage.tsx"])
	assert.True(t, paths["src/components/Header.tsx"])
	assert.True(t, paths["src/components/ui/button.tsx"])
}

func TestGenerateConversationHasNoPreview(t *testing.T) {
	svc, _ := newTestService(t, generation.NewPipeline(generation.FakeModel{}, nil, nil))
	out, err := svc.Generate(context.Background(), "p", "hello")
	require.NoError(t, err)
	assert.Nil(t, out.Preview)
	assert.NotEmpty(t, out.Result.Response)
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, generation.Request) (generation.Result, error) {
	return generation.Result{}, errors.New("quota")
}

func TestGenerateErrors(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.Generate(context.Background(), "p", "x")
	assert.ErrorIs(t, err, ErrNoGenerator)

	svc, _ = newTestService(t, failingGenerator{})
	_, err = svc.Generate(context.Background(), "p", "x")
	assert.ErrorContains(t, err, "quota")

	svc, _ = newTestService(t, generation.NewPipeline(generation.FakeModel{}, nil, nil))
	_, err = svc.Generate(context.Background(), "p", "  ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRenderTrimsProjectID(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Render(ctx, Request{ProjectID: "p1", Code: heroCode})
		require.NoError(t, err)
	}
	resp, err := svc.Render(ctx, Request{ProjectID: " p1", Code: heroCode})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), resp.Sequence)
	assert.Equal(t, "p1", resp.ProjectID)

	cur, ok := svc.Surfaces().Current("p1")
	require.True(t, ok)
	assert.Equal(t, resp.Handle, cur.Handle)
}
