package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// FakeModel answers deterministically without network access. It plans a
// website when the prompt mentions one and a single component otherwise.
type FakeModel struct{}

func (FakeModel) Name() string { return "fake" }

var (
	greetingRe  = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|thanks|thank you)\b`)
	websiteRe   = regexp.MustCompile(`(?i)\b(website|landing page|portfolio|shop|store)\b`)
	componentRe = regexp.MustCompile(`Component: ([A-Z][A-Za-z0-9]*)|Create the main ([A-Z][A-Za-z0-9]*) component|Component name: ([A-Z][A-Za-z0-9]*)`)
	userMsgRe   = regexp.MustCompile(`(?s)User message:\n(.*)$`)
)

func (FakeModel) Complete(_ context.Context, prompt string, jsonMode bool) (string, error) {
	if jsonMode {
		return fakePlan(prompt), nil
	}
	m := componentRe.FindStringSubmatch(prompt)
	if m == nil {
		return fakeComponent(DefaultComponentName, nil), nil
	}
	name := firstNonEmpty(m[1], m[2], m[3])
	if m[2] != "" {
		return fakeComponent(name, importedSections(prompt)), nil
	}
	return fakeComponent(name, nil), nil
}

func fakePlan(prompt string) string {
	msg := prompt
	if m := userMsgRe.FindStringSubmatch(prompt); m != nil {
		msg = m[1]
	}
	var p Plan
	switch {
	case greetingRe.MatchString(msg):
		p = Plan{Type: KindConversation, Response: defaultConversationReply}
	case websiteRe.MatchString(msg):
		p = Plan{Type: KindWebsite, MainComponent: "LandingPage", SubComponents: []ComponentSpec{
			{Name: "Header", Purpose: "Navigation with logo and links", Dependencies: []string{"Button"}},
			{Name: "Hero", Purpose: "Headline with call to action", Dependencies: []string{"Button", "Badge"}},
			{Name: "Footer", Purpose: "Footer with links", Dependencies: []string{"Separator"}},
		}}
	default:
		p = Plan{Type: KindComponent, MainComponent: DefaultComponentName}
	}
	b, _ := json.Marshal(p)
	return "```json\n" + string(b) + "\n```"
}

var importedRe = regexp.MustCompile(`import ([A-Z][A-Za-z0-9]*) from '@/components/`)

func importedSections(prompt string) []string {
	var out []string
	for _, m := range importedRe.FindAllStringSubmatch(prompt, -1) {
		out = append(out, m[1])
	}
	return out
}

func fakeComponent(name string, sections []string) string {
	var b strings.Builder
	b.WriteString("```tsx\nimport React from 'react';\n")
	if len(sections) == 0 {
		b.WriteString("import { Button } from '@/components/ui/button';\n")
		b.WriteString("import { Card, CardContent } from '@/components/ui/card';\n")
		b.WriteString("import { ArrowRight } from 'lucide-react';\n\n")
		fmt.Fprintf(&b, "const %s = () => {\n  return (\n", name)
		b.WriteString("    <Card className=\"max-w-md mx-auto mt-10\">\n")
		fmt.Fprintf(&b, "      <CardContent className=\"p-6 space-y-4\">\n        <h2 className=\"text-2xl font-bold\">%s</h2>\n", name)
		b.WriteString("        <Button>Get started <ArrowRight className=\"ml-2 h-4 w-4\" /></Button>\n")
		b.WriteString("      </CardContent>\n    </Card>\n  );\n};\n\n")
	} else {
		for _, s := range sections {
			fmt.Fprintf(&b, "import %s from '@/components/%s';\n", s, s)
		}
		fmt.Fprintf(&b, "\nconst %s = () => {\n  return (\n    <div className=\"min-h-screen\">\n", name)
		for _, s := range sections {
			fmt.Fprintf(&b, "      <%s />\n", s)
		}
		b.WriteString("    </div>\n  );\n};\n\n")
	}
	fmt.Fprintf(&b, "export default %s;\n```", name)
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
