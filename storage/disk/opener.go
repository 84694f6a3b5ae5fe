/*
This file defines opener interface and its implementations.
Opener opens storage for the heap file path. The implementations are:
- fileOpener: open and return file.
- bufferOpener: open and return byte slice. this is intended to be used in test.
opened storages are cached by path, so the same storage is returned for the same path.
*/
package disk

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// opener opens storage
type opener interface {
	open(path string) (storage, error)
	close() error
}

// fileOpener opens file
type fileOpener struct {
	mu sync.Mutex
	// cache file descriptors after open the files
	st map[string]storage
}

// newFileOpener initializes fileOpener
func newFileOpener() *fileOpener {
	return &fileOpener{
		st: make(map[string]storage),
	}
}

// open opens and returns the file. the file is created when it does not exist
func (fo *fileOpener) open(path string) (storage, error) {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	key := filepath.Clean(path)
	// when file descriptor is cached, just return it
	if st, ok := fo.st[key]; ok {
		return st, nil
	}
	fd, err := os.OpenFile(key, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, errors.Wrap(err, "os.OpenFile failed")
	}
	st := fileStorage{fd}
	fo.st[key] = st
	return st, nil
}

// close closes all cached files
func (fo *fileOpener) close() error {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	var firstErr error
	for path, st := range fo.st {
		if err := st.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "Close %s failed", path)
		}
		delete(fo.st, path)
	}
	return firstErr
}

// bufferOpener opens buffer
type bufferOpener struct {
	mu sync.Mutex
	st map[string]*bufferStorage
}

// newBufferOpener initializes bufferOpener
func newBufferOpener() *bufferOpener {
	return &bufferOpener{
		st: make(map[string]*bufferStorage),
	}
}

// open returns specified buffer
func (bo *bufferOpener) open(path string) (storage, error) {
	return bo.buffer(path), nil
}

func (bo *bufferOpener) buffer(path string) *bufferStorage {
	bo.mu.Lock()
	defer bo.mu.Unlock()
	key := filepath.Clean(path)
	buf, ok := bo.st[key]
	if !ok {
		buf = newBufferStorage()
		bo.st[key] = buf
	}
	return buf
}

// close keeps the buffers. in-memory contents live as long as the manager
func (bo *bufferOpener) close() error {
	return nil
}
