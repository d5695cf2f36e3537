package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
)

// runPTY runs cmd attached to a pseudo-terminal and returns everything it
// wrote, with terminal line endings normalised
func runPTY(cmd *exec.Cmd) (string, error) {
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 120})
	if err != nil {
		return "", fmt.Errorf("failed to start PTY: %w", err)
	}
	defer ptmx.Close()

	var buf bytes.Buffer
	// Linux reports EIO on the master once the child side closes
	if _, err := io.Copy(&buf, ptmx); err != nil && !errors.Is(err, syscall.EIO) {
		cmd.Wait()
		return "", fmt.Errorf("failed to read PTY: %w", err)
	}

	waitErr := cmd.Wait()
	return strings.ReplaceAll(buf.String(), "\r\n", "\n"), waitErr
}
