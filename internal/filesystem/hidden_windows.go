//go:build windows

package filesystem

import (
	"io/fs"
	"strings"
	"syscall"
)

func isHidden(name, _ string, fi fs.FileInfo) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if attrs, ok := fi.Sys().(*syscall.Win32FileAttributeData); ok {
		return attrs.FileAttributes&syscall.FILE_ATTRIBUTE_HIDDEN != 0
	}
	return false
}
