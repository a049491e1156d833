package networking

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/log"
)

// Result is the outcome of one external command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Err converts a non-zero exit into an EXTERNAL_TOOL_ERROR naming step.
func (r *Result) Err(step string) error {
	if r.ExitCode == 0 {
		return nil
	}
	msg := strings.TrimSpace(r.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(r.Stdout)
	}
	return errors.NewExternalToolError(
		fmt.Sprintf("%s failed with exit code %d", step, r.ExitCode),
		stderrors.New(msg),
	)
}

// CommandRunner executes external tools (ip, wg, wg-quick).
// A returned error means the command could not be run at all; a command
// that ran and exited non-zero is reported through Result.ExitCode.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
	RunInput(ctx context.Context, input string, name string, args ...string) (*Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Timeout bounds every command. Zero means no timeout.
	Timeout time.Duration
}

func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	return r.run(ctx, nil, name, args...)
}

func (r *ExecRunner) RunInput(ctx context.Context, input string, name string, args ...string) (*Result, error) {
	return r.run(ctx, strings.NewReader(input), name, args...)
}

func (r *ExecRunner) run(ctx context.Context, stdin *strings.Reader, name string, args ...string) (*Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = stdin
	}

	log.Debugf("Running: %s %s", name, strings.Join(args, " "))
	err := cmd.Run()

	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) && ctx.Err() == nil {
			res.ExitCode = exitErr.ExitCode()
			log.Debugf("Command %s exited with code %d: %s", name, res.ExitCode, strings.TrimSpace(res.Stderr))
			return res, nil
		}
		if ctx.Err() != nil {
			return res, errors.NewExternalToolError(fmt.Sprintf("%s did not finish", name), ctx.Err())
		}
		return res, errors.NewExternalToolError(fmt.Sprintf("failed to run %s", name), err)
	}
	return res, nil
}

// LookPath reports the resolved path of an external tool.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
