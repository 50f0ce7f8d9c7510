package orchestrator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/gomega"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/kardolus/playmaker/judge"
	"github.com/kardolus/playmaker/orchestrator"
)

func TestUnitOrchestrator(t *testing.T) {
	spec.Run(t, "Testing the orchestrator", testOrchestrator, spec.Report(report.Terminal{}))
}

type fakeJudger struct {
	verdicts map[string]judge.Verdict
	err      error
}

func (f *fakeJudger) EvaluateDirectory(ctx context.Context, dir string) (map[string]judge.Verdict, error) {
	return f.verdicts, f.err
}

func testOrchestrator(t *testing.T, when spec.G, it spec.S) {
	var (
		ctrl   *gomock.Controller
		shell  *MockShell
		judger *fakeJudger
		ctx    context.Context
	)

	it.Before(func() {
		RegisterTestingT(t)

		ctrl = gomock.NewController(t)
		shell = NewMockShell(ctrl)
		judger = &fakeJudger{verdicts: map[string]judge.Verdict{}}
		ctx = context.Background()
	})

	it.After(func() {
		ctrl.Finish()
	})

	ok := orchestrator.Result{ExitCode: 0, Stdout: "done"}
	failed := orchestrator.Result{ExitCode: 1, Stderr: "boom"}

	when("PlanGenerateJudge", func() {
		it("runs all three stages when everything passes", func() {
			gomock.InOrder(
				shell.EXPECT().
					Run(gomock.Any(), "work", "npx", "playwright", "planner", "--request", "a request").
					Return(ok, nil),
				shell.EXPECT().
					Run(gomock.Any(), "work", "npx", "playwright", "generator").
					Return(ok, nil),
			)
			judger.verdicts = map[string]judge.Verdict{
				"tests/a.spec.ts": {Passed: true, Score: 90},
				"tests/b.spec.ts": {Passed: true, Score: 80},
			}

			o := orchestrator.New(shell, judger, "work", "tests", 70)

			results, err := o.PlanGenerateJudge(ctx, "a request")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].Stage).To(Equal(orchestrator.StagePlanner))
			Expect(results[1].Stage).To(Equal(orchestrator.StageGenerator))
			Expect(results[2].Stage).To(Equal(orchestrator.StageJudge))
			Expect(results[2].Success).To(BeTrue())
			Expect(results[2].Details).To(ContainSubstring("average score: 85/100"))
		})

		it("short-circuits when the planner fails", func() {
			shell.EXPECT().
				Run(gomock.Any(), "work", "npx", "playwright", "planner", "--request", "a request").
				Return(failed, nil)

			o := orchestrator.New(shell, judger, "work", "tests", 70)

			results, err := o.PlanGenerateJudge(ctx, "a request")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Success).To(BeFalse())
			Expect(results[0].Details).To(Equal("boom"))
		})

		it("fails the judge stage when the average is below the threshold", func() {
			shell.EXPECT().Run(gomock.Any(), "work", "npx", "playwright", "planner", "--request", "r").Return(ok, nil)
			shell.EXPECT().Run(gomock.Any(), "work", "npx", "playwright", "generator").Return(ok, nil)
			judger.verdicts = map[string]judge.Verdict{
				"tests/a.spec.ts": {Passed: true, Score: 60},
			}

			o := orchestrator.New(shell, judger, "work", "tests", 70)

			results, err := o.PlanGenerateJudge(ctx, "r")
			Expect(err).NotTo(HaveOccurred())
			Expect(results[2].Success).To(BeFalse())
		})

		it("reports an unsuccessful judge stage when no tests exist", func() {
			shell.EXPECT().Run(gomock.Any(), "work", "npx", "playwright", "planner", "--request", "r").Return(ok, nil)
			shell.EXPECT().Run(gomock.Any(), "work", "npx", "playwright", "generator").Return(ok, nil)
			judger.verdicts = nil

			o := orchestrator.New(shell, judger, "work", "tests", 70)

			results, err := o.PlanGenerateJudge(ctx, "r")
			Expect(err).NotTo(HaveOccurred())
			Expect(results[2].Success).To(BeFalse())
			Expect(results[2].Details).To(ContainSubstring("no tests"))
		})

		it("propagates shell failures", func() {
			shell.EXPECT().
				Run(gomock.Any(), "work", "npx", "playwright", "planner", "--request", "r").
				Return(orchestrator.Result{}, errors.New("npx not found"))

			o := orchestrator.New(shell, judger, "work", "tests", 70)

			_, err := o.PlanGenerateJudge(ctx, "r")
			Expect(err).To(MatchError(ContainSubstring("npx not found")))
		})
	})

	when("Full", func() {
		it("runs the healer when the judge passes", func() {
			gomock.InOrder(
				shell.EXPECT().Run(gomock.Any(), "work", "npx", "playwright", "planner", "--request", "r").Return(ok, nil),
				shell.EXPECT().Run(gomock.Any(), "work", "npx", "playwright", "generator").Return(ok, nil),
				shell.EXPECT().Run(gomock.Any(), "work", "npx", "playwright", "healer").Return(ok, nil),
			)
			judger.verdicts = map[string]judge.Verdict{
				"tests/a.spec.ts": {Passed: true, Score: 95},
			}

			o := orchestrator.New(shell, judger, "work", "tests", 70)

			results, err := o.Full(ctx, "r")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(4))
			Expect(results[3].Stage).To(Equal(orchestrator.StageHealer))
		})

		it("skips the healer when the judge fails", func() {
			shell.EXPECT().Run(gomock.Any(), "work", "npx", "playwright", "planner", "--request", "r").Return(ok, nil)
			shell.EXPECT().Run(gomock.Any(), "work", "npx", "playwright", "generator").Return(ok, nil)
			judger.verdicts = map[string]judge.Verdict{
				"tests/a.spec.ts": {Passed: false, Score: 20},
			}

			o := orchestrator.New(shell, judger, "work", "tests", 70)

			results, err := o.Full(ctx, "r")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
		})
	})
}
