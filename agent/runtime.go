package agent

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/kardolus/playmaker/stream"
)

// Options configures one query against the agent runtime. The tracker
// never reads these; they only shape the subprocess invocation.
type Options struct {
	Model        string
	MaxTurns     int
	WorkDir      string
	MaxBudgetUSD float64
	AllowedTools []string
	Agent        string // named agent definition to route the task to
}

//go:generate mockgen -destination=../planner/runtimemocks_test.go -package=planner_test github.com/kardolus/playmaker/agent Runtime
//go:generate mockgen -destination=../judge/runtimemocks_test.go -package=judge_test github.com/kardolus/playmaker/agent Runtime
type Runtime interface {
	Query(ctx context.Context, prompt string, opts Options) (stream.MessageStream, error)
}

// CLIRuntime drives the agent CLI as a subprocess and decodes its JSONL
// stream output. The binary is an opaque collaborator; playmaker only
// consumes what it prints.
type CLIRuntime struct {
	binary string
}

func NewCLIRuntime(binary string) *CLIRuntime {
	if strings.TrimSpace(binary) == "" {
		binary = "claude"
	}
	return &CLIRuntime{binary: binary}
}

func (r *CLIRuntime) Query(ctx context.Context, prompt string, opts Options) (stream.MessageStream, error) {
	args := []string{"-p", prompt, "--output-format", "stream-json", "--verbose"}

	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}
	if opts.MaxTurns > 0 {
		args = append(args, "--max-turns", strconv.Itoa(opts.MaxTurns))
	}
	if opts.MaxBudgetUSD > 0 {
		args = append(args, "--max-budget-usd", strconv.FormatFloat(opts.MaxBudgetUSD, 'f', -1, 64))
	}
	if len(opts.AllowedTools) > 0 {
		args = append(args, "--allowed-tools", strings.Join(opts.AllowedTools, ","))
	}
	if opts.Agent != "" {
		args = append(args, "--agents", opts.Agent)
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open runtime stdout: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start agent runtime: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &cmdStream{cmd: cmd, scanner: scanner, stderr: &stderr}, nil
}

const maxLineBytes = 4 * 1024 * 1024

// cmdStream adapts the subprocess's line-oriented stdout to a
// MessageStream. Lines that are not valid JSON are skipped.
type cmdStream struct {
	cmd     *exec.Cmd
	scanner *bufio.Scanner
	stderr  *bytes.Buffer
	done    bool
}

func (s *cmdStream) Next(ctx context.Context) (stream.Message, error) {
	if s.done {
		return nil, io.EOF
	}

	for s.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			s.finish()
			return nil, err
		}

		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		msg, err := stream.DecodeMessage(line)
		if err != nil {
			continue
		}
		return msg, nil
	}

	if err := s.finish(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (s *cmdStream) finish() error {
	if s.done {
		return nil
	}
	s.done = true

	if err := s.scanner.Err(); err != nil {
		_ = s.cmd.Wait()
		return err
	}

	if err := s.cmd.Wait(); err != nil {
		msg := strings.TrimSpace(s.stderr.String())
		if msg != "" {
			return fmt.Errorf("agent runtime failed: %w: %s", err, msg)
		}
		return fmt.Errorf("agent runtime failed: %w", err)
	}
	return nil
}

// Close terminates the subprocess early. Safe to call after EOF.
func (s *cmdStream) Close() error {
	if s.done {
		return nil
	}
	s.done = true

	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	return nil
}
