//go:build !unix

package store

// FileLock falls back to in-process locking where flock is unavailable.
type FileLock struct {
	NopLocker
}

func NewFileLock(string) *FileLock { return &FileLock{} }
