// Package generation talks to the model that turns prompts into component
// source. Only the text that comes back matters to the preview pipeline.
package generation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Kind string

const (
	KindConversation Kind = "conversation"
	KindComponent    Kind = "component"
	KindWebsite      Kind = "website"
)

const (
	DefaultComponentName = "GeneratedComponent"
	componentDir         = "src/components/"
)

var ErrEmptyPrompt = errors.New("generation: prompt is required")

type Request struct {
	ProjectID string
	Prompt    string
}

// File is one generated source file.
type File struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Code string `json:"code"`
}

// Result is what a generation run produced. For KindConversation only
// Response is set; otherwise Main is the entry component and Files holds
// every generated file including Main.
type Result struct {
	Kind        Kind   `json:"type"`
	Main        File   `json:"component"`
	Files       []File `json:"components"`
	Description string `json:"description,omitempty"`
	Response    string `json:"response,omitempty"`
}

type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// Model completes a single prompt. jsonMode asks for a bare JSON object.
type Model interface {
	Name() string
	Complete(ctx context.Context, prompt string, jsonMode bool) (string, error)
}

// ComponentSpec is one planned sub-component.
type ComponentSpec struct {
	Name         string   `json:"name"`
	Purpose      string   `json:"purpose"`
	Dependencies []string `json:"dependencies"`
}

// Plan is the model's classification of a prompt.
type Plan struct {
	Type          Kind            `json:"type"`
	MainComponent string          `json:"mainComponent"`
	SubComponents []ComponentSpec `json:"subComponents"`
	Response      string          `json:"response"`
}

var fenceRe = regexp.MustCompile("```(?:json|typescript|tsx|jsx|ts|js)?[ \t]*\n?")

// ParsePlan extracts the first JSON object from text. Unparseable text
// yields a single-component plan.
func ParsePlan(text string) Plan {
	fallback := Plan{Type: KindComponent, MainComponent: DefaultComponentName}
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
	obj, ok := extractObject(cleaned)
	if !ok {
		return fallback
	}
	var p Plan
	if err := unmarshalFlex(obj, &p); err != nil {
		return fallback
	}
	switch p.Type {
	case KindConversation, KindComponent, KindWebsite:
	default:
		p.Type = KindComponent
	}
	if p.Type != KindConversation && !isComponentName(p.MainComponent) {
		p.MainComponent = DefaultComponentName
	}
	kept := p.SubComponents[:0]
	for _, s := range p.SubComponents {
		if isComponentName(s.Name) && s.Name != p.MainComponent {
			kept = append(kept, s)
		}
	}
	p.SubComponents = kept
	return p
}

// CleanCode strips markdown fences the model wraps code in.
func CleanCode(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

var componentNameRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

func isComponentName(s string) bool {
	return componentNameRe.MatchString(s)
}

// ComponentPath is where a generated component named name lives.
func ComponentPath(name string) string {
	return componentDir + name + ".tsx"
}

func describe(main string, subs []ComponentSpec) string {
	if len(subs) == 0 {
		return fmt.Sprintf("Created %s", main)
	}
	names := make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.Name
	}
	return fmt.Sprintf("Created %s with %d sub-components: %s", main, len(subs), strings.Join(names, ", "))
}
