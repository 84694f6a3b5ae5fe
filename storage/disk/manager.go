/*
Disk manager deals with heap files.
Heap file is a sequence of fixed-size pages, so page I/O is just read/write of PageSize bytes
at the computed offset page number * PageSize. Reads and writes never depend on
the previous call (no file position is tracked), so any page can be read in any order.

The file size is not cached. the number of pages is recomputed from the current file size every time,
because the file may be extended by other writer.

Disk manager is not called directly by operators. Every page access goes through the buffer manager,
and the buffer manager calls heap file (page loader) which calls this manager.
*/
package disk

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
)

var (
	// ErrPageOutOfRange is returned when the page number is at or beyond the current extent of the file
	ErrPageOutOfRange = errors.WithMessage(common.ErrStorage, "page number out of range")
	// ErrPageCorrupted is returned when fewer than PageSize bytes can be read for the page which should exist
	ErrPageCorrupted = errors.WithMessage(common.ErrStorage, "page truncated or corrupted")
)

// Manager manages disk
type Manager struct {
	opener opener
}

// NewManager initializes disk manager with file storage
func NewManager() *Manager {
	return &Manager{
		opener: newFileOpener(),
	}
}

// NewMemoryManager initializes disk manager with in-memory storage. nothing is persisted.
func NewMemoryManager() *Manager {
	return &Manager{
		opener: newBufferOpener(),
	}
}

// Size returns the byte size of the file
func (m *Manager) Size(path string) (int64, error) {
	st, err := m.opener.open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open failed")
	}
	size, err := st.Size()
	if err != nil {
		return 0, errors.Wrap(err, "Size failed")
	}
	return size, nil
}

// NumPages returns ceil(file size / PageSize)
func (m *Manager) NumPages(path string) (int, error) {
	size, err := m.Size(path)
	if err != nil {
		return 0, errors.Wrap(err, "Size failed")
	}
	return page.CalculatePageCount(size), nil
}

// ReadPage reads the page into dst
func (m *Manager) ReadPage(path string, num page.PageNumber, dst page.PagePtr) error {
	st, err := m.opener.open(path)
	if err != nil {
		return errors.Wrap(err, "open failed")
	}
	size, err := st.Size()
	if err != nil {
		return errors.Wrap(err, "Size failed")
	}
	if int(num) >= page.CalculatePageCount(size) {
		return errors.Wrapf(ErrPageOutOfRange, "page %d of %s (size %d)", num, path, size)
	}
	n, err := st.ReadAt(dst[:], page.CalculateFileOffset(num))
	if n < page.PageSize {
		// io.EOF when the last page is partial
		return errors.Wrapf(ErrPageCorrupted, "page %d of %s: read %d bytes: %v", num, path, n, err)
	}
	// ReadAt may return io.EOF with full page when the page is the last one
	return nil
}

// WritePage writes the page at its offset. the file is extended when the page is beyond the end of file.
// when sync is true, the file is fsynced after write
func (m *Manager) WritePage(path string, num page.PageNumber, src page.PagePtr, sync bool) error {
	st, err := m.opener.open(path)
	if err != nil {
		return errors.Wrap(err, "open failed")
	}
	if _, err := st.WriteAt(src[:], page.CalculateFileOffset(num)); err != nil {
		return errors.Wrap(err, "WriteAt failed")
	}
	if sync {
		if err := st.Sync(); err != nil {
			return errors.Wrap(err, "Sync failed")
		}
	}
	return nil
}

// Close closes all opened storages
func (m *Manager) Close() error {
	return errors.Wrap(m.opener.close(), "close failed")
}
