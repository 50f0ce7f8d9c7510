package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

type CostMode string

const (
	// CostModeAuthoritative takes the total from the terminal result
	// message and treats it as final for the whole run.
	CostModeAuthoritative CostMode = "authoritative"
	// CostModeIncremental sums per-turn system costs instead.
	CostModeIncremental CostMode = "incremental"
)

// Totals is the aggregate the tracker returns once consumption ends.
type Totals struct {
	TotalCost float64
	StepCount int
}

// Hooks is the caller's observation side channel. The tracker owns no
// state derived from hook outcomes; both methods are fire-and-forget.
//
//go:generate mockgen -destination=hookmocks_test.go -package=stream_test github.com/kardolus/playmaker/stream Hooks
type Hooks interface {
	OnAssistant(msg AssistantMessage)
	OnBudgetExceeded()
}

// NopHooks is an embeddable no-op so callers can implement only the
// methods they care about.
type NopHooks struct{}

func (NopHooks) OnAssistant(AssistantMessage) {}
func (NopHooks) OnBudgetExceeded()            {}

// BudgetExceededError is a typed error so the call site can decide how
// to terminate (process exit, cancellation, propagation). Totals holds
// the aggregate accumulated before the stop.
type BudgetExceededError struct {
	Totals Totals
}

func (e BudgetExceededError) Error() string {
	return fmt.Sprintf("budget exceeded: cost=%.4f steps=%d", e.Totals.TotalCost, e.Totals.StepCount)
}

type Tracker struct {
	mode CostMode
	out  *zap.SugaredLogger

	costIsFinal bool
}

type TrackerOption func(*Tracker)

func WithDiagnostics(l *zap.SugaredLogger) TrackerOption {
	return func(t *Tracker) {
		if l != nil {
			t.out = l
		}
	}
}

func NewTracker(mode CostMode, opts ...TrackerOption) *Tracker {
	if mode == "" {
		mode = CostModeAuthoritative
	}

	t := &Tracker{mode: mode, out: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Track consumes the stream one message at a time in arrival order and
// returns the frozen Totals when the stream ends. A budget-exceeded
// error message stops consumption immediately and surfaces as a
// BudgetExceededError; upstream iterator failures propagate unchanged.
// Malformed or unrecognized messages are skipped.
func (t *Tracker) Track(ctx context.Context, s MessageStream, hooks Hooks) (Totals, error) {
	var totals Totals
	t.costIsFinal = false

	for {
		msg, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			return totals, nil
		}
		if err != nil {
			return totals, err
		}

		switch m := msg.(type) {
		case ResultMessage:
			t.applyResultCost(&totals, m)

		case SystemMessage:
			if t.mode == CostModeIncremental && m.CostUSD != nil {
				totals.TotalCost += *m.CostUSD
			}

		case AssistantMessage:
			if m.Message.ID == "" || m.Message.Usage == nil {
				continue
			}
			totals.StepCount++
			t.out.Infof("step %d: id=%s tokens_in=%d tokens_out=%d",
				totals.StepCount, m.Message.ID, m.Message.Usage.InputTokens, m.Message.Usage.OutputTokens)
			if hooks != nil {
				hooks.OnAssistant(m)
			}

		case ErrorMessage:
			if m.Error.Kind != BudgetExceededKind {
				continue
			}
			t.out.Warnf("budget exceeded after %d steps (cost so far: %.4f)", totals.StepCount, totals.TotalCost)
			if hooks != nil {
				hooks.OnBudgetExceeded()
			}
			return totals, BudgetExceededError{Totals: totals}

		case UnknownMessage:
			// forward compatibility: skip

		default:
			// skip
		}
	}
}

// applyResultCost assigns the authoritative total. Once set it is never
// lowered by a later value; a result without a usable usage record
// leaves the total unchanged.
func (t *Tracker) applyResultCost(totals *Totals, m ResultMessage) {
	if t.mode != CostModeAuthoritative {
		return
	}
	if m.Usage == nil || m.Usage.TotalCostUSD == nil {
		return
	}

	cost := *m.Usage.TotalCostUSD
	if t.costIsFinal && cost < totals.TotalCost {
		return
	}

	totals.TotalCost = cost
	t.costIsFinal = true
}
