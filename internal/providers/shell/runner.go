package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webterm/internal/infrastructure/config"
)

// waitDelay bounds how long Wait blocks on pipes held open by orphaned
// grandchildren after the shell itself has been killed
const waitDelay = 2 * time.Second

// Runner executes fallback commands on the host. A command that runs and
// exits non-zero is not an error: its stderr is returned as text. Errors
// mean the command was rejected, could not start, or timed out.
type Runner struct {
	policy  *Policy
	binary  string
	timeout time.Duration
	pty     bool
	logger  *zap.Logger
}

// NewRunner builds a runner from the shell section of the configuration
func NewRunner(cfg config.ShellConfig, logger *zap.Logger) (*Runner, error) {
	policy, err := NewPolicy(cfg.Mode, cfg.Allowlist)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	binary := cfg.Binary
	if binary == "" {
		binary = "/bin/sh"
	}

	return &Runner{
		policy:  policy,
		binary:  binary,
		timeout: cfg.Timeout,
		pty:     cfg.PTY,
		logger:  logger,
	}, nil
}

// Run executes raw with dir as the working directory and returns the
// captured streams once the process exits. Under a PTY both streams are
// merged into stdout.
func (r *Runner) Run(ctx context.Context, raw, dir string) (string, string, error) {
	argv, err := r.policy.Argv(raw)
	if err != nil {
		return "", "", err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var cmd *exec.Cmd
	if argv == nil {
		cmd = exec.CommandContext(ctx, r.binary, "-c", raw)
	} else {
		cmd = exec.CommandContext(ctx, argv[0], argv[1:]...)
	}
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay

	start := time.Now()
	var stdout, stderr string
	if r.pty {
		stdout, err = runPTY(cmd)
	} else {
		setProcessGroup(cmd)
		var outBuf, errBuf bytes.Buffer
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
		err = cmd.Run()
		stdout, stderr = outBuf.String(), errBuf.String()
	}

	fields := []zap.Field{
		zap.String("mode", r.policy.Mode),
		zap.String("dir", dir),
		zap.Bool("pty", r.pty),
		zap.Duration("duration", time.Since(start)),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		r.logger.Warn("Shell command cancelled", append(fields, zap.Error(ctxErr))...)
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return stdout, stderr, fmt.Errorf("command timed out after %s", r.timeout)
		}
		return stdout, stderr, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.logger.Debug("Shell command exited non-zero", append(fields, zap.Int("exit_code", exitErr.ExitCode()))...)
		return stdout, stderr, nil
	}
	if err != nil {
		r.logger.Warn("Shell command failed to run", append(fields, zap.Error(err))...)
		return stdout, stderr, err
	}

	r.logger.Debug("Shell command finished", fields...)
	return stdout, stderr, nil
}

// Mode reports the configured trust mode
func (r *Runner) Mode() string {
	return r.policy.Mode
}
