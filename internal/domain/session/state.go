package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// State is the working-directory cursor shared by every command handler.
// The cursor is always absolute and existed when it was last set.
type State struct {
	mu  sync.RWMutex
	dir string
}

// New creates the cursor. An empty startDir uses the process's launch
// directory; otherwise the process changes into startDir so that OS-level
// relative paths and the cursor agree from the start.
func New(startDir string) (*State, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to read working directory: %w", err)
		}
		return &State{dir: wd}, nil
	}

	s := &State{}
	if _, err := s.ChangeDir(startDir); err != nil {
		return nil, fmt.Errorf("invalid start directory: %w", err)
	}
	return s, nil
}

// Dir returns a snapshot of the cursor
func (s *State) Dir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir
}

// Resolve joins p onto the cursor. Absolute paths are only cleaned.
func (s *State) Resolve(p string) string {
	return ResolveIn(s.Dir(), p)
}

// ChangeDir moves both the process and the cursor to target. The cursor is
// re-read from the OS after the change so symlinks and ".." collapse the way
// the OS reports them. The write lock is held across chdir and re-read.
func (s *State) ChangeDir(target string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := ResolveIn(s.dir, ExpandHome(target))

	if err := os.Chdir(path); err != nil {
		return "", err
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	s.dir = wd
	return wd, nil
}

// ResolveIn joins p onto base unless p is already absolute
func ResolveIn(base, p string) string {
	if filepath.IsAbs(p) || base == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// ExpandHome replaces a leading "~" with the user's home directory. Paths
// that don't start with "~" or "~/" are returned unchanged, as is p when
// the home directory can't be determined.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
