package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kardolus/playmaker/judge"
)

const (
	StagePlanner   = "planner"
	StageGenerator = "generator"
	StageJudge     = "judge"
	StageHealer    = "healer"
)

// StageResult records one workflow stage's outcome.
type StageResult struct {
	Stage   string
	Success bool
	Details string
	Verdict *judge.Verdict
}

// Judger is the slice of the judge the orchestrator needs.
type Judger interface {
	EvaluateDirectory(ctx context.Context, dir string) (map[string]judge.Verdict, error)
}

// Orchestrator chains the browser-automation agents and the judge into
// a plan -> generate -> judge (-> heal) pipeline. The planner, generator
// and healer run through the Playwright CLI; the judge through the
// agent runtime.
type Orchestrator struct {
	shell     Shell
	judger    Judger
	workDir   string
	testsDir  string
	threshold int
	out       *zap.SugaredLogger
}

func New(shell Shell, judger Judger, workDir, testsDir string, threshold int) *Orchestrator {
	if threshold <= 0 {
		threshold = judge.DefaultThreshold
	}
	return &Orchestrator{
		shell:     shell,
		judger:    judger,
		workDir:   workDir,
		testsDir:  testsDir,
		threshold: threshold,
		out:       zap.NewNop().Sugar(),
	}
}

func (o *Orchestrator) WithLogger(l *zap.SugaredLogger) *Orchestrator {
	if l != nil {
		o.out = l
	}
	return o
}

// PlanGenerateJudge runs the three base stages, short-circuiting on the
// first failure.
func (o *Orchestrator) PlanGenerateJudge(ctx context.Context, request string) ([]StageResult, error) {
	var results []StageResult

	o.out.Infof("running %s", StagePlanner)
	planner, err := o.runAgent(ctx, StagePlanner, "--request", request)
	if err != nil {
		return results, err
	}
	results = append(results, planner)
	if !planner.Success {
		o.out.Warnf("%s failed", StagePlanner)
		return results, nil
	}

	o.out.Infof("running %s", StageGenerator)
	generator, err := o.runAgent(ctx, StageGenerator)
	if err != nil {
		return results, err
	}
	results = append(results, generator)
	if !generator.Success {
		o.out.Warnf("%s failed", StageGenerator)
		return results, nil
	}

	o.out.Infof("running %s", StageJudge)
	judged, err := o.runJudge(ctx)
	if err != nil {
		return results, err
	}
	results = append(results, judged)

	return results, nil
}

// Full runs PlanGenerateJudge and, when the judge passes, the healer.
func (o *Orchestrator) Full(ctx context.Context, request string) ([]StageResult, error) {
	results, err := o.PlanGenerateJudge(ctx, request)
	if err != nil {
		return results, err
	}

	judged := findStage(results, StageJudge)
	if judged == nil || !judged.Success {
		o.out.Info("skipping healer: judge issues need manual review")
		return results, nil
	}

	o.out.Infof("running %s", StageHealer)
	healer, err := o.runAgent(ctx, StageHealer)
	if err != nil {
		return results, err
	}
	results = append(results, healer)

	return results, nil
}

func (o *Orchestrator) runAgent(ctx context.Context, stage string, extraArgs ...string) (StageResult, error) {
	args := append([]string{"playwright", stage}, extraArgs...)

	res, err := o.shell.Run(ctx, o.workDir, "npx", args...)
	if err != nil {
		return StageResult{}, fmt.Errorf("%s stage failed to run: %w", stage, err)
	}

	details := res.Stdout
	if strings.TrimSpace(details) == "" {
		details = res.Stderr
	}

	return StageResult{
		Stage:   stage,
		Success: res.ExitCode == 0,
		Details: details,
	}, nil
}

func (o *Orchestrator) runJudge(ctx context.Context) (StageResult, error) {
	verdicts, err := o.judger.EvaluateDirectory(ctx, o.testsDir)
	if err != nil {
		return StageResult{}, fmt.Errorf("judge stage failed: %w", err)
	}

	if len(verdicts) == 0 {
		return StageResult{
			Stage:   StageJudge,
			Details: "no tests found to judge",
		}, nil
	}

	allPassed := true
	total := 0
	var sample *judge.Verdict
	for _, v := range verdicts {
		v := v
		if sample == nil {
			sample = &v
		}
		if !v.Passed {
			allPassed = false
		}
		total += v.Score
	}
	avg := total / len(verdicts)

	return StageResult{
		Stage:   StageJudge,
		Success: allPassed && avg >= o.threshold,
		Details: fmt.Sprintf("evaluated %d tests, average score: %d/100", len(verdicts), avg),
		Verdict: sample,
	}, nil
}

func findStage(results []StageResult, stage string) *StageResult {
	for i := range results {
		if results[i].Stage == stage {
			return &results[i]
		}
	}
	return nil
}
