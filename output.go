package boxpull

import (
	"fmt"
	"os"
	"path/filepath"
)

// tempDirPattern prefixes temporary output directories so they can be
// recognized (and reaped) by the operator later.
const tempDirPattern = "boxpull_*"

// OutputDir is the destination directory layer blobs are written to.
//
// It is an explicit resource handle: nothing removes the directory unless
// the owner calls Remove. Temporary directories deliberately survive
// process exit so the caller can inspect the downloaded blobs.
type OutputDir struct {
	// Temporary reports whether the directory was freshly created under
	// the system temp root rather than supplied by the user.
	Temporary bool

	// Path is the absolute path of the directory.
	Path string
}

// ResolveOutputDir canonicalizes a user-supplied output path.
//
// The path is made absolute against the working directory and resolved
// through symlinks; resolution failures (nonexistent path, broken parent)
// are returned as-is. An existing regular file is rejected with
// ErrOutputIsFile. Directories are accepted whether empty or not.
func ResolveOutputDir(path string) (OutputDir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return OutputDir{}, fmt.Errorf("resolve output path %q: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return OutputDir{}, fmt.Errorf("canonicalize output path %q: %w", path, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return OutputDir{}, fmt.Errorf("stat output path %q: %w", resolved, err)
	}
	if info.Mode().IsRegular() {
		return OutputDir{}, fmt.Errorf("%w: %s", ErrOutputIsFile, resolved)
	}

	return OutputDir{Path: resolved}, nil
}

// TempOutputDir creates a fresh uniquely named output directory under the
// system temp root. The directory is never scheduled for deletion; call
// Remove to delete it explicitly.
func TempOutputDir() (OutputDir, error) {
	dir, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return OutputDir{}, fmt.Errorf("create temporary output dir: %w", err)
	}
	return OutputDir{Temporary: true, Path: dir}, nil
}

// Remove deletes the directory and everything in it.
func (d OutputDir) Remove() error {
	return os.RemoveAll(d.Path)
}

// String returns the directory path.
func (d OutputDir) String() string {
	return d.Path
}
