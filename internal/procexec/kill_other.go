//go:build !unix

package procexec

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

func setProcessGroup(cmd *exec.Cmd) {}

// killTree terminates p and its descendants. On Windows taskkill walks the
// tree; elsewhere only the process itself can be killed.
func killTree(p *os.Process) error {
	if p == nil {
		return nil
	}
	if runtime.GOOS == "windows" {
		if err := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(p.Pid)).Run(); err == nil {
			return nil
		}
	}
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
