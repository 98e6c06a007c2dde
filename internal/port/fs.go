package port

import "time"

// FileSystem covers the handful of filesystem primitives the
// orchestrator needs for artifact verification, atomic replacement and
// timestamp handling. Kept narrow so tests can observe and fault them.
type FileSystem interface {
	Size(path string) (int64, error)
	// Times returns the modification and access times of path.
	Times(path string) (mod, access time.Time, err error)
	Rename(oldPath, newPath string) error
	Remove(path string) error
	Chtimes(path string, atime, mtime time.Time) error
	MkdirAll(path string) error
}
