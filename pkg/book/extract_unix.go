//go:build unix

package book

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// killProcessGroup runs the extractor in its own process group and kills
// the whole group on cancellation, so helpers started by a wrapper script
// die with it and release the output pipes.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
