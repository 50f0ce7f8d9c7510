package judge

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kardolus/playmaker/agent"
	"github.com/kardolus/playmaker/internal/fsio"
	"github.com/kardolus/playmaker/stream"
)

// Judge scores generated Playwright tests. With a runtime it asks the
// agent's judge definition for a verdict; without one it falls back to
// heuristic scoring.
type Judge struct {
	runtime   agent.Runtime
	tracker   *stream.Tracker
	reader    fsio.Reader
	opts      agent.Options
	threshold int
	out       *zap.SugaredLogger
}

func New(runtime agent.Runtime, tracker *stream.Tracker, reader fsio.Reader, opts agent.Options, threshold int) *Judge {
	opts.Agent = "judge"
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Judge{
		runtime:   runtime,
		tracker:   tracker,
		reader:    reader,
		opts:      opts,
		threshold: threshold,
		out:       zap.NewNop().Sugar(),
	}
}

func (j *Judge) WithLogger(l *zap.SugaredLogger) *Judge {
	if l != nil {
		j.out = l
	}
	return j
}

// EvaluateContent scores a single test file's content.
func (j *Judge) EvaluateContent(ctx context.Context, content string) (Verdict, error) {
	if j.runtime == nil {
		return Heuristic(content, j.threshold), nil
	}

	prompt := fmt.Sprintf("Evaluate this Playwright test:\n\n```typescript\n%s\n```\n\nProvide your verdict as JSON.", content)

	s, err := j.runtime.Query(ctx, prompt, j.opts)
	if err != nil {
		return Verdict{}, err
	}

	capture := &stream.ResultCapture{Inner: s}
	collector := &stream.TextCollector{}

	totals, err := j.tracker.Track(ctx, capture, collector)
	if err != nil {
		return Verdict{}, err
	}

	j.out.Infof("verdict ready: steps=%d cost=%.4f", totals.StepCount, totals.TotalCost)
	return ParseVerdict(capture.Result(collector.Text())), nil
}

func (j *Judge) EvaluateFile(ctx context.Context, path string) (Verdict, error) {
	content, err := j.reader.ReadFile(path)
	if err != nil {
		return Verdict{}, err
	}
	return j.EvaluateContent(ctx, string(content))
}

// EvaluateDirectory scores every *.spec.ts and *.spec.js file under
// dir, keyed by path.
func (j *Judge) EvaluateDirectory(ctx context.Context, dir string) (map[string]Verdict, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".spec.ts") || strings.HasSuffix(path, ".spec.js") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	results := make(map[string]Verdict, len(files))
	for _, file := range files {
		verdict, err := j.EvaluateFile(ctx, file)
		if err != nil {
			return results, err
		}
		results[file] = verdict
	}

	return results, nil
}
