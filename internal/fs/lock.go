package fs

import (
	"errors"
	"os"
	"sync"
)

// ErrLocked is returned when the lock file is held by another process.
var ErrLocked = errors.New("file is locked by another process")

type fileLock struct {
	once   sync.Once
	f      *os.File
	unlock func(*os.File) error
	err    error
}

func (l *fileLock) Close() error {
	l.once.Do(func() {
		uerr := l.unlock(l.f)
		cerr := l.f.Close()
		l.err = errors.Join(uerr, cerr)
	})
	return l.err
}

func lockFile(name string) (*fileLock, error) {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	if err := lockExclusive(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &fileLock{f: f, unlock: unlockFile}, nil
}
