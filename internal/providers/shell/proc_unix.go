//go:build unix

package shell

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the command in its own group so cancellation also
// reaches the children a shell spawns
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
