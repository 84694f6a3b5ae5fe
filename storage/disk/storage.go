/*
This file defines storage interface and its implementations.
We don't want to execute disk I/O in test, so it's better to use byte slice instead of actual file in test.
Storage is accessed only with absolute offsets (ReaderAt/WriterAt), never with Seek.
The implementations are:
- fileStorage: wrapper of os.File
- bufferStorage: byte slice
*/
package disk

import (
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// storage is storage which implements multiple operations necessary for heap file.
type storage interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
	Size() (int64, error)
	Sync() error
}

// fileStorage is file storage
type fileStorage struct {
	*os.File
}

// Size returns the storage's size
func (fs fileStorage) Size() (int64, error) {
	stat, err := fs.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "Stat failed")
	}
	return stat.Size(), nil
}

// bufferStorage is in-memory storage
type bufferStorage struct {
	mu  sync.RWMutex
	buf []byte
}

// newBufferStorage initializes empty bufferStorage
func newBufferStorage() *bufferStorage {
	return &bufferStorage{}
}

// Size returns the buffer size
func (bs *bufferStorage) Size() (int64, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return int64(len(bs.buf)), nil
}

// Sync doesn't do anything
func (bs *bufferStorage) Sync() error {
	return nil
}

// Close doesn't do anything
func (bs *bufferStorage) Close() error {
	return nil
}

// ReadAt reads buffer at off into p
// like os.File, io.EOF is returned when p cannot be fully read
func (bs *bufferStorage) ReadAt(p []byte, off int64) (int, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	if off < 0 {
		return 0, errors.Errorf("negative offset: %d", off)
	}
	if off >= int64(len(bs.buf)) {
		return 0, io.EOF
	}
	n := copy(p, bs.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt writes p into buffer at off. the buffer is extended with zero when off is beyond the end
func (bs *bufferStorage) WriteAt(p []byte, off int64) (int, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if off < 0 {
		return 0, errors.Errorf("negative offset: %d", off)
	}
	if end := off + int64(len(p)); end > int64(len(bs.buf)) {
		extended := make([]byte, end)
		copy(extended, bs.buf)
		bs.buf = extended
	}
	return copy(bs.buf[off:], p), nil
}

// truncate replaces the contents. this is used in test to simulate corrupted file
func (bs *bufferStorage) truncate(size int64) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if size < int64(len(bs.buf)) {
		bs.buf = bs.buf[:size]
		return
	}
	extended := make([]byte, size)
	copy(extended, bs.buf)
	bs.buf = extended
}
