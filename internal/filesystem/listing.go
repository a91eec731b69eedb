package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	ErrNotFound     = errors.New("directory does not exist")
	ErrNotDirectory = errors.New("path is not a directory")
	ErrBadPattern   = errors.New("invalid name pattern")
	ErrNoHome       = errors.New("could not determine home directory")
)

// Entry describes one item of a directory listing.
type Entry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	IsDir    bool   `json:"is_dir"`
	IsHidden bool   `json:"is_hidden"`
	Size     int64  `json:"size"`
}

// ReadDirectory lists path, directories first and then by case-insensitive
// name. Entries whose metadata cannot be read are skipped.
func ReadDirectory(path string) ([]Entry, error) {
	return ReadDirectoryMatching(path, "")
}

// ReadDirectoryMatching is ReadDirectory restricted to names matching a
// doublestar pattern such as "*.go" or "{src,cmd}". An empty pattern matches
// everything.
func ReadDirectoryMatching(path, pattern string) ([]Entry, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, name); !ok {
				continue
			}
		}

		// Info follows the lstat of ReadDir; a symlink reports as itself.
		fi, err := de.Info()
		if err != nil {
			continue
		}

		full := filepath.Join(path, name)
		entry := Entry{
			Name:     name,
			Path:     full,
			IsDir:    fi.IsDir(),
			IsHidden: isHidden(name, full, fi),
		}
		if !entry.IsDir {
			entry.Size = fi.Size()
		}
		entries = append(entries, entry)
	}

	sortEntries(entries)
	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// HomeDirectory resolves the user's home from the environment, USERPROFILE
// first, then HOME. A variable set to the empty string counts as unset.
func HomeDirectory() (string, error) {
	for _, key := range []string{"USERPROFILE", "HOME"} {
		if v := os.Getenv(key); v != "" {
			return v, nil
		}
	}
	return "", ErrNoHome
}
