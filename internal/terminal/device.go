package terminal

import (
	"errors"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

var errInvalidSize = errors.New("cols and rows must be non-zero")

// openDevice opens a pseudo-terminal pair with the given geometry. Pixel
// dimensions are left at zero.
func openDevice(cols, rows uint16) (ptmx, tty *os.File, err error) {
	if cols == 0 || rows == 0 {
		return nil, nil, errInvalidSize
	}
	ptmx, tty, err = pty.Open()
	if err != nil {
		return nil, nil, err
	}
	if err := setSize(ptmx, cols, rows); err != nil {
		_ = ptmx.Close()
		_ = tty.Close()
		return nil, nil, err
	}
	return ptmx, tty, nil
}

func setSize(ptmx *os.File, cols, rows uint16) error {
	if cols == 0 || rows == 0 {
		return errInvalidSize
	}
	return pty.Setsize(ptmx, &pty.Winsize{Cols: cols, Rows: rows})
}

// startShell runs cmd as the session leader of tty. The parent's copy of tty
// is closed whether or not the start succeeds, so the reader sees EOF once
// the child and its descendants let go of the slave side.
func startShell(cmd *exec.Cmd, tty *os.File) error {
	defer tty.Close()

	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = sessionAttrs()
	return cmd.Start()
}
