/*
the implementation of free list

all buffers are in free list initially. the buffer is removed from free list when a page is loaded into it,
and the buffer returns to free list when the page is discarded or failed to be loaded.
So replacement policy is used only when free list is empty.
*/
package buffer

const (
	// this indicates the end of the free list
	freeListInvalidID BufferID = -1
)

// allocateFromFreeList returns buffer from free list.
// this removes the buffer from free list.
// if there is no buffer in free list, just return freeListInvalidID
// the caller must hold manager lock
func (m *Manager) allocateFromFreeList() BufferID {
	bufID := m.freeList
	if bufID == freeListInvalidID {
		return freeListInvalidID
	}
	// remove first buffer from free list
	m.freeList = m.descriptors[bufID].nextFreeID
	m.descriptors[bufID].nextFreeID = freeListInvalidID
	return bufID
}

// returnToFreeList pushes the buffer to the head of free list
// the caller must hold manager lock
func (m *Manager) returnToFreeList(bufID BufferID) {
	desc := m.descriptors[bufID]
	desc.reset()
	desc.nextFreeID = m.freeList
	m.freeList = bufID
}
