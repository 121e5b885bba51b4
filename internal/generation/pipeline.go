package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tota/internal/catalog"
	"tota/internal/metrics"
)

const defaultConversationReply = "Hello! Describe the website or component you would like to build."

// Pipeline plans a prompt, generates each planned sub-component and then
// the main component that ties them together.
type Pipeline struct {
	model  Model
	cat    *catalog.Catalog
	logger *zap.Logger
}

func NewPipeline(model Model, cat *catalog.Catalog, logger *zap.Logger) *Pipeline {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{model: model, cat: cat, logger: logger}
}

func (p *Pipeline) Generate(ctx context.Context, req Request) (res Result, err error) {
	defer func() { metrics.RecordGeneration(err == nil) }()
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return Result{}, ErrEmptyPrompt
	}
	started := time.Now()

	raw, err := p.model.Complete(ctx, planPrompt(p.cat, prompt), true)
	if err != nil {
		return Result{}, fmt.Errorf("plan request: %w", err)
	}
	plan := ParsePlan(raw)
	p.logger.Debug("generation plan",
		zap.String("model", p.model.Name()),
		zap.String("type", string(plan.Type)),
		zap.String("main", plan.MainComponent),
		zap.Int("sub_components", len(plan.SubComponents)),
	)
	if plan.Type == KindConversation {
		reply := strings.TrimSpace(plan.Response)
		if reply == "" {
			reply = defaultConversationReply
		}
		return Result{Kind: KindConversation, Response: reply}, nil
	}

	var files []File
	var subs []ComponentSpec
	if plan.Type == KindWebsite {
		for _, spec := range plan.SubComponents {
			code, err := p.model.Complete(ctx, subComponentPrompt(spec), false)
			if err != nil {
				if ctx.Err() != nil {
					return Result{}, ctx.Err()
				}
				p.logger.Warn("sub-component generation failed", zap.String("component", spec.Name), zap.Error(err))
				continue
			}
			files = append(files, File{Name: spec.Name, Path: ComponentPath(spec.Name), Code: CleanCode(code)})
			subs = append(subs, spec)
		}
		plan.SubComponents = subs
	}

	code, err := p.model.Complete(ctx, mainPrompt(plan, prompt), false)
	if err != nil {
		return Result{}, fmt.Errorf("main component request: %w", err)
	}
	main := File{Name: plan.MainComponent, Path: ComponentPath(plan.MainComponent), Code: CleanCode(code)}
	files = append(files, main)

	p.logger.Info("generated components",
		zap.String("project", req.ProjectID),
		zap.String("main", main.Name),
		zap.Int("files", len(files)),
		zap.Duration("took", time.Since(started)),
	)
	return Result{
		Kind:        plan.Type,
		Main:        main,
		Files:       files,
		Description: describe(main.Name, subs),
	}, nil
}
