package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tota/internal/assets"
	"tota/internal/catalog"
	"tota/internal/scanner"
)

func newTestResolver(t *testing.T, opts ...Option) (*Resolver, *assets.Store) {
	t.Helper()
	store, err := assets.Load(nil)
	require.NoError(t, err)
	return New(store, catalog.Default(), opts...), store
}

func TestResolveIncludesTaggedPrimitive(t *testing.T) {
	r, _ := newTestResolver(t)
	entry := assets.Generated("src/components/Hero.tsx", `export default function Hero() {
  return <Button variant="outline">Go</Button>;
}`)
	set := r.Resolve([]assets.VirtualFile{entry})
	assert.Equal(t, []string{
		"src/components/Hero.tsx",
		"src/components/ui/button.tsx",
		"src/lib/utils.ts",
	}, set.SortedPaths())
}

func TestResolveEveryCatalogPrimitive(t *testing.T) {
	r, _ := newTestResolver(t)
	for _, e := range catalog.Default().Entries() {
		entry := assets.Generated("src/components/X.tsx", "const x = <"+e.Name+" />;")
		set := r.Resolve([]assets.VirtualFile{entry})
		assert.True(t, set.Has(e.File), e.Name)
	}
}

func TestResolveNoCatalogUsage(t *testing.T) {
	r, _ := newTestResolver(t)
	entry := assets.Generated("src/components/Plain.tsx", `export default function Plain() { return <div>Hello</div>; }`)
	set := r.Resolve([]assets.VirtualFile{entry})
	assert.Equal(t, []string{"src/components/Plain.tsx", "src/lib/utils.ts"}, set.SortedPaths())
}

func TestResolveIsIdempotent(t *testing.T) {
	r, _ := newTestResolver(t)
	entry := assets.Generated("src/components/Page.tsx", `import { Card, CardHeader } from "@/components/ui/card";
export default function Page() { return <Card><CardHeader /><Badge>new</Badge></Card>; }`)
	a := r.Resolve([]assets.VirtualFile{entry})
	b := r.Resolve([]assets.VirtualFile{entry})
	assert.Equal(t, a.SortedPaths(), b.SortedPaths())
	assert.Greater(t, r.CacheLen(), 0)
}

func TestResolveDropsUnresolvableImport(t *testing.T) {
	r, _ := newTestResolver(t)
	entry := assets.Generated("src/components/Page.tsx", `import { Foo } from "@/components/Foo";
export default function Page() { return <Foo />; }`)
	set := r.Resolve([]assets.VirtualFile{entry})
	assert.Equal(t, []string{"src/components/Page.tsx", "src/lib/utils.ts"}, set.SortedPaths())
}

func TestResolveMutualImportsTerminate(t *testing.T) {
	r, _ := newTestResolver(t)
	a := assets.Generated("src/components/A.tsx", `import B from "@/components/B";
export default function A() { return <B />; }`)
	b := assets.Generated("src/components/B.tsx", `import A from "@/components/A";
export default function B() { return <Separator />; }`)
	set := r.Resolve([]assets.VirtualFile{a, b})
	assert.Equal(t, []string{
		"src/components/A.tsx",
		"src/components/B.tsx",
		"src/components/ui/separator.tsx",
		"src/lib/utils.ts",
	}, set.SortedPaths())
}

func TestResolveFollowsGeneratedImports(t *testing.T) {
	r, _ := newTestResolver(t)
	page := assets.Generated("src/pages/Home.tsx", `import Hero from "../components/Hero";
import { Footer } from "@/components/Footer";
export default function Home() { return <><Hero /><Footer /></>; }`)
	hero := assets.Generated("src/components/Hero.tsx", `export default function Hero() { return <Badge>hi</Badge>; }`)
	footer := assets.Generated("src/components/Footer.tsx", `export function Footer() { return <Separator />; }`)
	unrelated := assets.Generated("src/components/Unused.tsx", `export default function U() { return <Slider />; }`)

	set := r.Resolve([]assets.VirtualFile{page, hero, footer, unrelated})
	paths := set.SortedPaths()
	assert.Contains(t, paths, "src/components/ui/badge.tsx")
	assert.Contains(t, paths, "src/components/ui/separator.tsx")
	// every supplied generated file is an entry in its own right
	assert.Contains(t, paths, "src/components/ui/slider.tsx")
	assert.Contains(t, paths, "src/components/Unused.tsx")
}

func TestResolveGeneratedOverridesCatalog(t *testing.T) {
	r, _ := newTestResolver(t)
	custom := assets.Generated("src/components/ui/button.tsx", "export const Button = () => null;")
	entry := assets.Generated("src/App.tsx", `export default function App() { return <Button />; }`)
	set := r.Resolve([]assets.VirtualFile{entry, custom})
	f, ok := set.Get("src/components/ui/button.tsx")
	require.True(t, ok)
	assert.Equal(t, assets.KindGenerated, f.Kind)
	assert.Equal(t, "export const Button = () => null;", f.Content)
}

func TestResolveStoreImportIncludedWithoutRecursion(t *testing.T) {
	r, _ := newTestResolver(t)
	entry := assets.Generated("src/components/X.tsx", `import { useToast } from "@/hooks/use-toast";
export default function X() { return null; }`)
	set := r.Resolve([]assets.VirtualFile{entry})
	assert.True(t, set.Has("src/hooks/use-toast.ts"))
	assert.Equal(t, 3, set.Len())
}

func TestResolveIconsPullIconFile(t *testing.T) {
	r, _ := newTestResolver(t)
	entry := assets.Generated("src/components/X.tsx", `export default function X() { return <ArrowRight />; }`)
	set := r.Resolve([]assets.VirtualFile{entry})
	assert.True(t, set.Has(catalog.Default().IconFile))
}

func TestWithBaselineAndScanner(t *testing.T) {
	r, _ := newTestResolver(t,
		WithBaseline("src/index.css"),
		WithScanner(scanner.NewTokenScanner(nil)),
	)
	entry := assets.Generated("src/components/X.tsx", `// <Button> is mentioned only here
export default function X() { return <div />; }`)
	set := r.Resolve([]assets.VirtualFile{entry})
	assert.Equal(t, []string{"src/components/X.tsx", "src/index.css", "src/lib/utils.ts"}, set.SortedPaths())
}

func TestClearCache(t *testing.T) {
	lc, err := NewLRUCache(2)
	require.NoError(t, err)
	r, _ := newTestResolver(t, WithCache(lc))
	r.Resolve([]assets.VirtualFile{assets.Generated("a.tsx", "<Button/><Card/><Badge/>")})
	assert.Equal(t, 2, r.CacheLen())
	r.ClearCache()
	assert.Equal(t, 0, r.CacheLen())
}

func TestStats(t *testing.T) {
	r, store := newTestResolver(t)
	entries := []assets.VirtualFile{assets.Generated("src/components/X.tsx", "<Button/>")}
	st := r.Stats(entries, nil)
	assert.Equal(t, store.Len(), st.TotalBaseFiles)
	assert.Equal(t, 1, st.GeneratedFiles)
	assert.Equal(t, 3, st.MinimalSetSize)
	assert.Equal(t, []string{"src/components/X.tsx", "src/components/ui/button.tsx", "src/lib/utils.ts"}, st.LoadedFiles)
	assert.Greater(t, st.Reduction, 80)
}

func TestMapCacheConcurrent(t *testing.T) {
	c := NewMapCache()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			c.Add("p", assets.VirtualFile{Path: "p"})
			c.Get("p")
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Equal(t, 1, c.Len())
}

func TestResolveWithinIncludesOnlyReachedProjectFiles(t *testing.T) {
	r, _ := newTestResolver(t)
	entry := assets.Generated("src/components/Page.tsx", `import Header from "@/components/Header";
export default function Page() { return <Header />; }`)
	project := []assets.VirtualFile{
		assets.Generated("src/components/Header.tsx", `export default function Header() { return <Badge>New</Badge>; }`),
		assets.Generated("src/components/Unused.tsx", `export default function Unused() { return <Card />; }`),
	}
	set := r.ResolveWithin([]assets.VirtualFile{entry}, project)
	assert.Equal(t, []string{
		"src/components/Header.tsx",
		"src/components/Page.tsx",
		"src/components/ui/badge.tsx",
		"src/lib/utils.ts",
	}, set.SortedPaths())
}
