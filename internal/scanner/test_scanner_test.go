package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tota/internal/catalog"
)

func bothScanners(t *testing.T) map[string]Scanner {
	t.Helper()
	out := map[string]Scanner{}
	for _, kind := range []string{KindRegex, KindToken} {
		s, err := New(kind, catalog.Default())
		require.NoError(t, err)
		out[kind] = s
	}
	return out
}

func TestScanPrimitiveDetection(t *testing.T) {
	cases := []struct {
		name string
		code string
		want []string
	}{
		{"tag with attribute", `<Button variant="outline">Go</Button>`, []string{"Button"}},
		{"self closing", `return <Separator/>;`, []string{"Separator"}},
		{"tag then newline", "<Card\n  className=\"p-4\">", []string{"Card"}},
		{"part maps to owner", `<CardHeader><CardTitle>x</CardTitle></CardHeader>`, []string{"Card"}},
		{"import list only", `import { Badge } from "@/components/ui/badge";`, []string{"Badge"}},
		{"aliased import list", `import { Input as TextInput } from "@/components/ui/input";`, []string{"Input"}},
		{"plain html", `<div>Hello</div>`, []string{}},
		{"prefix is not a match", `<ButtonGroup>`, []string{}},
		{"multiline import list", "import {\n  Tabs,\n  TabsList,\n} from \"@/components/ui/tabs\";", []string{"Tabs"}},
	}
	for kind, s := range bothScanners(t) {
		for _, tc := range cases {
			t.Run(kind+"/"+tc.name, func(t *testing.T) {
				res := s.Scan(tc.code)
				assert.Equal(t, tc.want, res.Primitives.Sorted())
			})
		}
	}
}

func TestScanAliasImports(t *testing.T) {
	code := `import React, { useState } from "react";
import { Button } from "@/components/ui/button";
import Hero from '@/components/Hero';
import * as utils from "@/lib/utils.ts";
import { helper } from "./helper";
import type { Props } from "../types";
`
	for kind, s := range bothScanners(t) {
		t.Run(kind, func(t *testing.T) {
			res := s.Scan(code)
			assert.Equal(t, []AliasImport{
				{Raw: "@/components/ui/button", Resolved: "src/components/ui/button.tsx"},
				{Raw: "@/components/Hero", Resolved: "src/components/Hero.tsx"},
				{Raw: "@/lib/utils.ts", Resolved: "src/lib/utils.ts"},
				{Raw: "./helper", Relative: true},
				{Raw: "../types", Relative: true},
			}, res.AliasImports)
		})
	}
}

func TestScanDeduplicatesImports(t *testing.T) {
	code := `import { Card } from "@/components/ui/card";
import { CardHeader } from "@/components/ui/card";`
	for kind, s := range bothScanners(t) {
		res := s.Scan(code)
		assert.Len(t, res.AliasImports, 1, kind)
		assert.Equal(t, []string{"Card"}, res.Primitives.Sorted(), kind)
	}
}

func TestScanIcons(t *testing.T) {
	code := `import { ArrowRight, Star } from "lucide-react";
export default function X() { return <span><ArrowRight className="h-4" /><Check/></span>; }`
	for kind, s := range bothScanners(t) {
		res := s.Scan(code)
		assert.Equal(t, []string{"ArrowRight", "Check", "Star"}, res.Icons.Sorted(), kind)
		assert.Empty(t, res.AliasImports, kind)
	}
}

func TestTokenScannerIgnoresCommentsAndStrings(t *testing.T) {
	code := `// <Button> in a comment
/* import { Dialog } from "@/components/ui/dialog"; */
const label = "<Badge variant='x'>";
const tpl = ` + "`<Card >`" + `;
export default function X() { return <p>Don't use <Alert>here</Alert></p>; }`

	tok := NewTokenScanner(nil).Scan(code)
	assert.Equal(t, []string{"Alert"}, tok.Primitives.Sorted())
	assert.Empty(t, tok.AliasImports)

	rx := NewRegexScanner(nil).Scan(code)
	assert.True(t, rx.Primitives.Has("Button"))
	assert.True(t, rx.Primitives.Has("Dialog"))
	assert.True(t, rx.Primitives.Has("Alert"))
}

func TestTokenScannerTemplateExpressions(t *testing.T) {
	code := "const x = `title ${cond ? <Badge>new</Badge> : null} tail`;\nconst y = <Progress value={3} />;"
	res := NewTokenScanner(nil).Scan(code)
	assert.Equal(t, []string{"Badge", "Progress"}, res.Primitives.Sorted())
}

func TestTokenScannerRejectsComparisons(t *testing.T) {
	res := NewTokenScanner(nil).Scan(`if (a < Button) {}`)
	assert.Empty(t, res.Primitives)
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New("ast", nil)
	require.Error(t, err)

	s, err := New("", nil)
	require.NoError(t, err)
	assert.IsType(t, &RegexScanner{}, s)
}

func TestScanIsPure(t *testing.T) {
	s := NewRegexScanner(nil)
	code := `<Button/>`
	a := s.Scan(code)
	b := s.Scan(code)
	assert.Equal(t, a, b)
}
