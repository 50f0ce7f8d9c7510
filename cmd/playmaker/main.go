package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kardolus/playmaker/agent"
	"github.com/kardolus/playmaker/api/github"
	"github.com/kardolus/playmaker/api/http"
	"github.com/kardolus/playmaker/config"
	"github.com/kardolus/playmaker/internal/fsio"
	"github.com/kardolus/playmaker/judge"
	"github.com/kardolus/playmaker/orchestrator"
	"github.com/kardolus/playmaker/planner"
	"github.com/kardolus/playmaker/stream"
)

const secretEnv = "ANTHROPIC_API_KEY"

var (
	saveMode    bool
	fullMode    bool
	judgeFile   string
	pullRequest string
	projectDir  string
	judgeLimit  int
	showConfig  bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "playmaker",
		Short: "Agent-driven Playwright test automation",
		Long:  "Playmaker drives a coding agent to plan, generate and judge Playwright browser tests.",
	}

	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "d", "", "Project directory")

	planCmd := &cobra.Command{
		Use:   "plan <request>",
		Short: "Create a test plan from a change description",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPlan,
	}
	planCmd.Flags().BoolVarP(&saveMode, "save", "s", false, "Save the plan to the specs directory")
	planCmd.Flags().StringVar(&pullRequest, "pr", "", "Pull request reference (owner/repo#number) to include as change description")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate tests from saved plans",
		RunE:  runGenerate,
	}

	judgeCmd := &cobra.Command{
		Use:   "judge",
		Short: "Judge test quality with the agent",
		RunE:  runJudge,
	}
	judgeCmd.Flags().StringVarP(&judgeFile, "file", "f", "", "Single test file to judge")
	judgeCmd.Flags().IntVar(&judgeLimit, "threshold", 0, "Pass threshold (0 uses the configured value)")

	workflowCmd := &cobra.Command{
		Use:   "workflow <request>",
		Short: "Run the full agent workflow",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWorkflow,
	}
	workflowCmd.Flags().BoolVar(&fullMode, "full", false, "Include the healer stage")
	workflowCmd.Flags().IntVar(&judgeLimit, "threshold", 0, "Judge pass threshold (0 uses the configured value)")

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision the agent definition files",
		RunE:  runSetup,
	}
	setupCmd.Flags().BoolVar(&showConfig, "show-config", false, "Print the effective configuration instead")

	rootCmd.AddCommand(planCmd, generateCmd, judgeCmd, workflowCmd, setupCmd)

	viper.AutomaticEnv()

	if err := rootCmd.Execute(); err != nil {
		var budget stream.BudgetExceededError
		if errors.As(err, &budget) {
			fmt.Fprintf(os.Stderr, "warning: budget exceeded, stopping (cost so far: %.4f, steps: %d)\n",
				budget.Totals.TotalCost, budget.Totals.StepCount)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type harness struct {
	cfg     config.Config
	runtime agent.Runtime
	tracker *stream.Tracker
	out     *zap.SugaredLogger
}

func newHarness() (*harness, error) {
	cfg := config.NewManager(config.New()).WithEnvironment().Config

	if projectDir != "" {
		cfg.WorkDir = projectDir
	}
	if judgeLimit > 0 {
		cfg.JudgeThreshold = judgeLimit
	}

	if viper.GetString(secretEnv) == "" {
		return nil, errors.New("missing environment variable: " + secretEnv)
	}

	out := newDiagnosticsLogger()

	return &harness{
		cfg:     cfg,
		runtime: agent.NewCLIRuntime(cfg.AgentBinary),
		tracker: stream.NewTracker(stream.CostMode(cfg.CostMode), stream.WithDiagnostics(out)),
		out:     out,
	}, nil
}

func (h *harness) options() agent.Options {
	return agent.Options{
		Model:        h.cfg.Model,
		MaxTurns:     h.cfg.MaxTurns,
		WorkDir:      h.cfg.WorkDir,
		MaxBudgetUSD: h.cfg.MaxBudgetUSD,
		AllowedTools: h.cfg.AllowedTools,
	}
}

func (h *harness) judge() *judge.Judge {
	return judge.New(h.runtime, h.tracker, &fsio.RealReader{}, h.options(), h.cfg.JudgeThreshold).WithLogger(h.out)
}

func runPlan(cmd *cobra.Command, args []string) error {
	h, err := newHarness()
	if err != nil {
		return err
	}

	request := strings.Join(args, " ")

	if pullRequest != "" {
		owner, repo, number, err := github.ParseRef(pullRequest)
		if err != nil {
			return err
		}

		diff, err := github.New(http.New(), h.cfg.GithubURL, h.cfg.GithubToken).FetchDiff(owner, repo, number)
		if err != nil {
			return err
		}
		request = fmt.Sprintf("%s\n\nChange under test:\n\n%s", request, diff)
	}

	p := planner.New(h.runtime, h.tracker, &fsio.RealWriter{}, h.options()).WithLogger(h.out)

	ctx := cmd.Context()
	if saveMode {
		path, totals, err := p.PlanAndSave(ctx, request, specsPath(h.cfg))
		if err != nil {
			return err
		}
		fmt.Printf("plan saved to %s (cost: %.4f, steps: %d)\n", path, totals.TotalCost, totals.StepCount)
		return nil
	}

	plan, totals, err := p.Plan(ctx, request)
	if err != nil {
		return err
	}
	fmt.Println(plan)
	fmt.Printf("\n(cost: %.4f, steps: %d)\n", totals.TotalCost, totals.StepCount)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	h, err := newHarness()
	if err != nil {
		return err
	}

	shell := orchestrator.NewExecShellRunner()
	res, err := shell.Run(cmd.Context(), h.cfg.WorkDir, "npx", "playwright", orchestrator.StageGenerator)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("generator failed:\n%s", res.Stderr)
	}

	fmt.Print(res.Stdout)
	return nil
}

func runJudge(cmd *cobra.Command, args []string) error {
	h, err := newHarness()
	if err != nil {
		return err
	}

	j := h.judge()
	ctx := cmd.Context()

	if judgeFile != "" {
		verdict, err := j.EvaluateFile(ctx, judgeFile)
		if err != nil {
			return err
		}
		printVerdict(judgeFile, verdict)
		return nil
	}

	verdicts, err := j.EvaluateDirectory(ctx, testsPath(h.cfg))
	if err != nil {
		return err
	}
	if len(verdicts) == 0 {
		return fmt.Errorf("no tests found under %s", testsPath(h.cfg))
	}

	for path, verdict := range verdicts {
		printVerdict(path, verdict)
	}
	return nil
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	h, err := newHarness()
	if err != nil {
		return err
	}

	o := orchestrator.New(
		orchestrator.NewExecShellRunner(),
		h.judge(),
		h.cfg.WorkDir,
		testsPath(h.cfg),
		h.cfg.JudgeThreshold,
	).WithLogger(h.out)

	var results []orchestrator.StageResult
	if fullMode {
		results, err = o.Full(cmd.Context(), strings.Join(args, " "))
	} else {
		results, err = o.PlanGenerateJudge(cmd.Context(), strings.Join(args, " "))
	}
	if err != nil {
		return err
	}

	fmt.Println("workflow summary:")
	failed := false
	for _, result := range results {
		status := "ok"
		if !result.Success {
			status = "failed"
			failed = true
		}
		fmt.Printf("  [%s] %s\n", status, result.Stage)
	}

	if failed {
		return errors.New("workflow finished with failures")
	}
	return nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	h, err := newHarness()
	if err != nil {
		return err
	}

	if showConfig {
		data, err := config.NewManager(config.New()).WithEnvironment().ShowConfig()
		if err != nil {
			return err
		}
		fmt.Print(data)
		return nil
	}

	written, err := agent.WriteDefinitions(&fsio.RealWriter{}, h.cfg.WorkDir, agent.DefaultDefinitions(h.cfg.Model))
	if err != nil {
		return err
	}

	if len(written) == 0 {
		fmt.Println("agent definitions already provisioned")
		return nil
	}
	for _, path := range written {
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func printVerdict(path string, verdict judge.Verdict) {
	status := "failed"
	if verdict.Passed {
		status = "passed"
	}
	fmt.Printf("%s: %d/100 (%s)\n", path, verdict.Score, status)
	for _, issue := range verdict.Issues {
		fmt.Printf("  - %s\n", issue)
	}
	for _, suggestion := range verdict.Suggestions {
		fmt.Printf("  + %s\n", suggestion)
	}
}

func specsPath(cfg config.Config) string {
	return filepath.Join(cfg.WorkDir, cfg.SpecsDir)
}

func testsPath(cfg config.Config) string {
	return filepath.Join(cfg.WorkDir, cfg.TestsDir)
}

func newDiagnosticsLogger() *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zapcore.InfoLevel,
	)
	return zap.New(core).Sugar()
}
