package disk

import (
	"github.com/pkg/errors"
)

// TestingNewMemoryManager initializes disk manager with buffer storage instead of file storage. This prevents unnecessary disk I/O.
func TestingNewMemoryManager() *Manager {
	return NewMemoryManager()
}

// TestingTruncate changes the size of in-memory file. this is used to simulate corrupted heap file.
func (m *Manager) TestingTruncate(path string, size int64) error {
	bo, ok := m.opener.(*bufferOpener)
	if !ok {
		return errors.New("TestingTruncate is supported only for memory manager")
	}
	bo.buffer(path).truncate(size)
	return nil
}
