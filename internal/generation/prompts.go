package generation

import (
	"fmt"
	"strings"

	"tota/internal/catalog"
)

func availableComponents(cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("## Available UI components\n")
	for _, e := range cat.Entries() {
		fmt.Fprintf(&b, "- %s (import from '%s')", e.Name, e.ImportPath)
		if len(e.Parts) > 0 {
			fmt.Fprintf(&b, ": %s", strings.Join(e.Parts, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n## Available icons (import from 'lucide-react')\n")
	b.WriteString(strings.Join(cat.IconNames(), ", "))
	b.WriteString("\n")
	return b.String()
}

func planPrompt(cat *catalog.Catalog, prompt string) string {
	return `You are a React website and component generator.

Classify the user's message and answer with one JSON object and nothing else.

Greetings, questions about you, or general chat:
{"type": "conversation", "response": "<friendly reply in the user's language>"}

Requests for a website, landing page, portfolio or shop:
{"type": "website", "mainComponent": "LandingPage", "subComponents": [
  {"name": "Header", "purpose": "Navigation with logo and links", "dependencies": ["Button"]},
  {"name": "Footer", "purpose": "Footer with links", "dependencies": ["Separator"]}
]}

Requests for a single component:
{"type": "component", "mainComponent": "ContactForm", "subComponents": []}

` + availableComponents(cat) + `
User message:
` + prompt
}

const componentRules = `Generate a complete React/TypeScript component.

Rules:
1. Import UI components from '@/components/ui/<name>'
2. Import icons from 'lucide-react'
3. Use Tailwind CSS for all styling
4. Be mobile responsive with sm:, md:, lg: breakpoints
5. Use placeholder images such as https://placehold.co/400x400

Return only the component code.
Start with: import React from 'react';
End with: export default ComponentName;`

func subComponentPrompt(spec ComponentSpec) string {
	deps := strings.Join(spec.Dependencies, ", ")
	if deps == "" {
		deps = "None specific"
	}
	return fmt.Sprintf("%s\n\nComponent: %s\nPurpose: %s\nUI components to use: %s\n\nCreate a production-ready %s component.",
		componentRules, spec.Name, spec.Purpose, deps, spec.Name)
}

func mainPrompt(plan Plan, prompt string) string {
	if plan.Type != KindWebsite || len(plan.SubComponents) == 0 {
		return fmt.Sprintf("%s\n\nCreate: %s\n\nComponent name: %s", componentRules, prompt, plan.MainComponent)
	}
	var sections, imports strings.Builder
	for _, s := range plan.SubComponents {
		fmt.Fprintf(&sections, "- %s: %s\n", s.Name, s.Purpose)
		fmt.Fprintf(&imports, "import %s from '@/components/%s';\n", s.Name, s.Name)
	}
	return fmt.Sprintf(`%s

Create the main %s component that combines these sections into one website:

%s
Original request: %q

Import every section:
%s
Render the sections in a logical order with the header first and the footer last.`,
		componentRules, plan.MainComponent, sections.String(), prompt, imports.String())
}
