//go:build !windows

package terminal

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func sessionAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true, Setctty: true}
}

// hangup delivers SIGHUP to the child's process group, as the line
// discipline would on carrier loss.
func hangup(p *os.Process) error {
	return signalGroup(p, unix.SIGHUP)
}

func kill(p *os.Process) error {
	return signalGroup(p, unix.SIGKILL)
}

func signalGroup(p *os.Process, sig syscall.Signal) error {
	if p == nil {
		return nil
	}
	// The shell is started with Setsid, so its pid is also its group id.
	return signalPgid(p.Pid, sig)
}

func hangupGroup(pgid int) error { return signalPgid(pgid, unix.SIGHUP) }

func killGroup(pgid int) error { return signalPgid(pgid, unix.SIGKILL) }

func signalPgid(pgid int, sig syscall.Signal) error {
	err := unix.Kill(-pgid, sig)
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

// foregroundGroup asks the master for the slave's foreground process group.
// A shell with job control runs each command in its own group, which a
// signal to the shell's group does not reach.
func foregroundGroup(ptmx *os.File) (int, error) {
	return unix.IoctlGetInt(int(ptmx.Fd()), unix.TIOCGPGRP)
}

// isHangup reports whether a master-side read error just means the slave
// side has gone away.
func isHangup(err error) bool {
	return errors.Is(err, unix.EIO)
}

func defaultShell() (string, []string) {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell, nil
	}
	return "/bin/sh", nil
}
