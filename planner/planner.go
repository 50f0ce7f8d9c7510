package planner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/kardolus/playmaker/agent"
	"github.com/kardolus/playmaker/internal"
	"github.com/kardolus/playmaker/internal/fsio"
	"github.com/kardolus/playmaker/stream"
)

const maxSlugLength = 50

// Planner turns a change description into a saved Playwright test plan
// by driving the agent runtime's planner definition.
type Planner struct {
	runtime agent.Runtime
	tracker *stream.Tracker
	writer  fsio.Writer
	opts    agent.Options
	out     *zap.SugaredLogger
}

func New(runtime agent.Runtime, tracker *stream.Tracker, writer fsio.Writer, opts agent.Options) *Planner {
	opts.Agent = "planner"
	return &Planner{
		runtime: runtime,
		tracker: tracker,
		writer:  writer,
		opts:    opts,
		out:     zap.NewNop().Sugar(),
	}
}

func (p *Planner) WithLogger(l *zap.SugaredLogger) *Planner {
	if l != nil {
		p.out = l
	}
	return p
}

// Plan asks the agent for a test plan and returns the plan markdown
// plus the run's cost/step totals.
func (p *Planner) Plan(ctx context.Context, request string) (string, stream.Totals, error) {
	prompt := fmt.Sprintf("Create a Playwright test plan for:\n\n%s", request)

	s, err := p.runtime.Query(ctx, prompt, p.opts)
	if err != nil {
		return "", stream.Totals{}, err
	}

	capture := &stream.ResultCapture{Inner: s}
	collector := &stream.TextCollector{}

	totals, err := p.tracker.Track(ctx, capture, collector)
	if err != nil {
		return "", totals, err
	}

	plan := capture.Result(collector.Text())
	if strings.TrimSpace(plan) == "" {
		return "", totals, fmt.Errorf("planner produced no plan")
	}

	p.out.Infof("plan ready: steps=%d cost=%.4f", totals.StepCount, totals.TotalCost)
	return plan, totals, nil
}

// PlanAndSave writes the plan under dir using a slug derived from the
// request and returns the file path.
func (p *Planner) PlanAndSave(ctx context.Context, request, dir string) (string, stream.Totals, error) {
	plan, totals, err := p.Plan(ctx, request)
	if err != nil {
		return "", totals, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", totals, err
	}

	slug := Slugify(request)
	path := filepath.Join(dir, slug+".md")
	if _, err := os.Stat(path); err == nil {
		// keep earlier plans for the same request around
		path = filepath.Join(dir, internal.GenerateUniqueSlug(slug+"-")+".md")
	}

	file, err := p.writer.Create(path)
	if err != nil {
		return "", totals, err
	}
	if err := p.writer.Write(file, []byte(plan)); err != nil {
		_ = file.Close()
		return "", totals, err
	}
	if err := file.Close(); err != nil {
		return "", totals, fmt.Errorf("close %s: %w", path, err)
	}

	return path, totals, nil
}

// Slugify derives a filesystem-safe name from a change description.
func Slugify(request string) string {
	var b strings.Builder
	for _, r := range request {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}

	slug := strings.TrimSpace(b.String())
	if runes := []rune(slug); len(runes) > maxSlugLength {
		slug = strings.TrimSpace(string(runes[:maxSlugLength]))
	}
	slug = strings.ReplaceAll(slug, " ", "-")

	if slug == "" {
		slug = "plan"
	}
	return slug
}
