package shell

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mattn/go-shellwords"

	"github.com/GriffinCanCode/webterm/internal/infrastructure/config"
)

var (
	// ErrShellDisabled is returned for every fallback command in disabled mode
	ErrShellDisabled = errors.New("shell fallback is disabled")
	// ErrNotAllowed is returned in allowlist mode when a command is rejected
	ErrNotAllowed = errors.New("command not allowed")
)

// Policy decides how, and whether, a raw command line reaches the host
type Policy struct {
	Mode      string
	Allowlist []string
}

// NewPolicy validates mode and allow-list patterns
func NewPolicy(mode string, allowlist []string) (*Policy, error) {
	switch mode {
	case config.ShellModeShell, config.ShellModeAllowlist, config.ShellModeDisabled:
	default:
		return nil, fmt.Errorf("unknown shell mode %q", mode)
	}

	for _, pattern := range allowlist {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid allow-list pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	return &Policy{Mode: mode, Allowlist: allowlist}, nil
}

// Argv checks raw against the policy. In shell mode it returns a nil argv
// and raw is handed to the interpreter verbatim. In allowlist mode it
// returns the argument vector to exec directly.
func (p *Policy) Argv(raw string) ([]string, error) {
	switch p.Mode {
	case config.ShellModeShell:
		return nil, nil
	case config.ShellModeDisabled:
		return nil, ErrShellDisabled
	}

	parser := shellwords.NewParser()
	argv, err := parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}
	if parser.Position != -1 {
		return nil, fmt.Errorf("%w: shell operators are not supported", ErrNotAllowed)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrNotAllowed)
	}

	if !p.allowed(argv[0]) {
		return nil, fmt.Errorf("%w: %s", ErrNotAllowed, argv[0])
	}
	return argv, nil
}

func (p *Policy) allowed(program string) bool {
	for _, pattern := range p.Allowlist {
		if ok, _ := doublestar.Match(pattern, program); ok {
			return true
		}
	}
	return false
}
