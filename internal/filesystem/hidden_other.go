//go:build !windows

package filesystem

import (
	"io/fs"
	"strings"
)

func isHidden(name, _ string, _ fs.FileInfo) bool {
	return strings.HasPrefix(name, ".")
}
