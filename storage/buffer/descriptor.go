/*
Buffer descriptor stores metadata about each buffer.

1. pin count (or may be called ref count)
- This is used to grasp whether the buffer is now referred by someone.
- If the buffer has been pinned, then the buffer cannot be evicted.
- So the flow is: pin the buffer (via GetPage())-> do anything with the page
- -> unpin the buffer (via ReleasePage()) after the process is completed.
- IMPORTANT: the caller is responsible for ReleasePage() and unpin the buffer

2. dirty bit
- This is used to grasp whether the page in buffer is updated and not written out to disk yet.
- When the buffer is chosen as victim and it is dirty,
- the page must be written to disk before evicted.

3. permissions
- the strongest permission each transaction has requested for the page.
- this is never downgraded while the page is resident.

The usage count for cache replacement policy is held by the replacer, not the descriptor.
Every field except contentLock is protected by the manager lock.
*/
package buffer

import (
	"sync"

	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/transaction"
	"github.com/sigma65535/simple-db-hw-2021/transaction/txid"
)

// descriptor is buffer descriptor
type descriptor struct {
	// tag is the page stored in the buffer. this is meaningful only when valid is true
	tag   page.PageID
	valid bool
	// the page content
	page page.Page
	// next free buffer id. this is free list for buffer
	nextFreeID BufferID
	refCount   int
	dirty      bool
	// dirtiedBy is the last transaction which marked the buffer dirty
	dirtiedBy txid.TxID
	grants    map[txid.TxID]transaction.Permission
	// contentLock for protecting the page content read/write
	contentLock sync.RWMutex
}

// newDescriptors initializes descriptors for manager
// all buffers are linked into free list
func newDescriptors(capacity int) []*descriptor {
	descs := make([]*descriptor, capacity)
	for i := 0; i < capacity; i++ {
		descs[i] = &descriptor{
			nextFreeID: BufferID(i + 1),
		}
	}
	descs[capacity-1].nextFreeID = freeListInvalidID
	return descs
}

func (desc *descriptor) pin() {
	desc.refCount++
}

// unpin decrements the pin count and returns whether the buffer becomes evictable
func (desc *descriptor) unpin() bool {
	desc.refCount--
	return desc.refCount == 0
}

func (desc *descriptor) isPinned() bool {
	return desc.refCount > 0
}

func (desc *descriptor) setDirty(txID txid.TxID) {
	desc.dirty = true
	desc.dirtiedBy = txID
}

func (desc *descriptor) clearDirty() {
	desc.dirty = false
	desc.dirtiedBy = txid.InvalidTxID
}

// grant records the permission for the transaction
// the stronger permission granted before is kept
func (desc *descriptor) grant(txID txid.TxID, perm transaction.Permission) {
	if desc.grants == nil {
		desc.grants = make(map[txid.TxID]transaction.Permission)
	}
	if granted, ok := desc.grants[txID]; ok {
		perm = granted.Upgrade(perm)
	}
	desc.grants[txID] = perm
}

// reset clears the descriptor for the next page. free list link is kept
func (desc *descriptor) reset() {
	desc.tag = page.PageID{}
	desc.valid = false
	desc.page = nil
	desc.refCount = 0
	desc.clearDirty()
	desc.grants = nil
}
