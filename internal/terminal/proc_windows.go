//go:build windows

package terminal

import (
	"os"
	"syscall"
)

func sessionAttrs() *syscall.SysProcAttr { return nil }

func hangup(p *os.Process) error { return kill(p) }

func kill(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}

func hangupGroup(int) error { return nil }

func killGroup(int) error { return nil }

func foregroundGroup(*os.File) (int, error) { return 0, nil }

func isHangup(error) bool { return false }

func defaultShell() (string, []string) {
	return "powershell.exe", []string{"-NoLogo", "-NoExit", "-NoProfile"}
}
