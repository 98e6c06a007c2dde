// Package fs provides the os-backed implementation of the filesystem
// collaborator used for artifact verification and timestamp handling.
package fs

import (
	"os"
	"syscall"
	"time"

	"github.com/bnema/recode/internal/port"
)

type OS struct{}

func New() *OS {
	return &OS{}
}

func (*OS) Size(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Times returns modification and access times. Access time comes from
// the underlying stat when available and falls back to the modification
// time otherwise.
func (*OS) Times(path string) (mod, access time.Time, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	mod = fi.ModTime()
	access = mod
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		access = time.Unix(st.Atim.Sec, st.Atim.Nsec)
	}
	return mod, access, nil
}

func (*OS) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (*OS) Remove(path string) error {
	return os.Remove(path)
}

func (*OS) Chtimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}

func (*OS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

var _ port.FileSystem = (*OS)(nil)
