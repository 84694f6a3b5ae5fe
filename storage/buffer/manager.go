/*
Buffer pool manager caches pages of heap files.
Disk IO is expensive so pages should be cached on memory and buffer pool manager is responsible for this.
Buffer pool manager is the ONLY path to pages: operators and heap files never read the file directly,
they call GetPage() and the manager asks the page loader (heap file) of the relation only on cache miss.

Buffer pool manager is not global. It is constructed explicitly and passed to heap files,
so each test can have its own buffer pool.

access rules for buffers:
there are two important access rules
- pin/unpin for cache eviction policy: see /storage/buffer/descriptor.go
- content locks for read/write page within buffer

the flow when scan and get the tuples on the buffer is described below:
- pin the buffer (GetPage with READ_ONLY) -> acquire shared content lock -> scan and get the tuples
- -> release content lock -> unpin the buffer (ReleasePage)

the flow when update/insert the tuples is described below:
- pin the buffer (GetPage with READ_WRITE) -> acquire exclusive content lock -> update/insert the tuples
- -> MarkDirty -> release content lock -> unpin the buffer

---

buffer replacement
The number of buffers is bounded. The flow for finding the free(victim) buffer is described below
- if buffer exists in free list, then removes it from free list and use it
- if no buffer exists in free list, ask replacer (clock sweep by default, or LRU) for victim
  - replacer never returns pinned buffer
  - if every buffer is pinned, the fetch fails with ErrNoEvictableBuffer. pinned page is never evicted.
  - when the victim buffer is dirty, the page has to be written to disk before eviction
    (steal policy: pages dirtied by transactions in progress can be written out)

---

locks
- manager lock (cache-wide): protects buffer table, descriptors, free list, and replacer.
  it is held also while the page is loaded on miss, so two goroutines never load the same page twice.
- content lock (per buffer): protects the page content. this must not be acquired while holding manager lock
  except for the victim buffer which nobody can pin.

Permission conflicts between transactions are not checked here. lock manager is responsible for them.
*/
package buffer

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/logging"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/transaction"
	"github.com/sigma65535/simple-db-hw-2021/transaction/txid"
)

// Manager manages buffer pool
type Manager struct {
	capacity    int
	newReplacer ReplacerFactory

	// mu is cache-wide lock. see the comment at the head of this file
	mu sync.Mutex
	// table is mapping from page id to buffer id(index of descriptors)
	table map[page.PageID]BufferID
	// descriptors of each buffers
	descriptors []*descriptor
	// freeList points to the head node(free buffer) of free list
	freeList BufferID
	replacer Replacer
	// loaders is mapping from relation to its page loader (heap file)
	loaders map[common.Relation]Loader

	log *slog.Logger
}

// NewManager initializes the buffer pool manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		capacity:    DefaultCapacity,
		newReplacer: NewClockSweep,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.table = make(map[page.PageID]BufferID, m.capacity)
	m.descriptors = newDescriptors(m.capacity)
	m.freeList = FirstBufferID
	m.replacer = m.newReplacer(m.capacity)
	m.loaders = make(map[common.Relation]Loader)
	m.log = logging.WithComponent("buffer")
	return m
}

// Capacity returns the number of buffers
func (m *Manager) Capacity() int {
	return m.capacity
}

// RegisterLoader registers page loader of the relation
// registering again replaces the loader. pages already cached are kept.
func (m *Manager) RegisterLoader(rel common.Relation, loader Loader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[rel] = loader
}

/*
GetPage returns the page. the returned page has been pinned so the caller has to call ReleasePage() after completion of using the page.

when the page is already stored within a buffer, just return it.
when the page is not, then load the page with the relation's loader into buffer and return it.
the permission is recorded for the transaction. when the transaction already holds stronger permission for the page,
the stronger one is kept.
*/
func (m *Manager) GetPage(txID txid.TxID, pageID page.PageID, perm transaction.Permission) (page.Page, error) {
	if !perm.IsValid() {
		return nil, errors.Wrapf(common.ErrConfiguration, "invalid permission %d", perm)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// check whether the page already exists in the buffer table. if it exists, just return it
	if bufID, ok := m.table[pageID]; ok {
		desc := m.descriptors[bufID]
		m.pin(bufID)
		desc.grant(txID, perm)
		m.log.Debug("buffer hit", "page", pageID.String(), "buffer", bufID, "tx_id", txID)
		return desc.page, nil
	}

	loader, ok := m.loaders[pageID.Relation()]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRelation, "relation %d", pageID.Relation())
	}

	bufID, err := m.allocateBuffer()
	if err != nil {
		return nil, errors.Wrapf(err, "allocateBuffer for page %s failed", pageID)
	}

	p, err := loader.ReadPage(pageID)
	if err != nil {
		// the buffer has been emptied, so give it back
		m.returnToFreeList(bufID)
		return nil, errors.Wrap(err, "ReadPage failed")
	}

	desc := m.descriptors[bufID]
	desc.tag = pageID
	desc.valid = true
	desc.page = p
	m.table[pageID] = bufID
	m.pin(bufID)
	desc.grant(txID, perm)
	m.log.Debug("buffer miss", "page", pageID.String(), "buffer", bufID, "tx_id", txID)
	return p, nil
}

// ReleasePage unpins the page
// GetPage() returns pinned page, so caller has to unpin the page after it completes using the page.
func (m *Manager) ReleasePage(pageID page.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bufID, desc, err := m.lookup(pageID)
	if err != nil {
		return errors.Wrap(err, "lookup failed")
	}
	if !desc.isPinned() {
		return errors.Wrapf(ErrPageNotPinned, "page %s", pageID)
	}
	if desc.unpin() {
		m.replacer.Unpin(bufID)
	}
	return nil
}

// MarkDirty turns on the dirty bit of the buffer
// the caller has to hold pin and exclusive content lock
// for example, heap file has to call this function after inserting some tuples.
func (m *Manager) MarkDirty(pageID page.PageID, txID txid.TxID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, desc, err := m.lookup(pageID)
	if err != nil {
		return errors.Wrap(err, "lookup failed")
	}
	if !desc.isPinned() {
		return errors.Wrapf(ErrPageNotPinned, "page %s", pageID)
	}
	desc.setDirty(txID)
	return nil
}

// AcquireContentLock acquires buffer content lock
// content lock has to be held when read/write page. the caller must hold pin.
func (m *Manager) AcquireContentLock(pageID page.PageID, exclusive bool) error {
	desc, err := m.pinnedDescriptor(pageID)
	if err != nil {
		return errors.Wrap(err, "pinnedDescriptor failed")
	}
	// manager lock is released here. the pin prevents the descriptor from being reused
	if exclusive {
		desc.contentLock.Lock()
	} else {
		desc.contentLock.RLock()
	}
	return nil
}

// ReleaseContentLock releases buffer content lock
func (m *Manager) ReleaseContentLock(pageID page.PageID, exclusive bool) error {
	desc, err := m.pinnedDescriptor(pageID)
	if err != nil {
		return errors.Wrap(err, "pinnedDescriptor failed")
	}
	if exclusive {
		desc.contentLock.Unlock()
	} else {
		desc.contentLock.RUnlock()
	}
	return nil
}

// Permission returns the permission the transaction holds for the page
// ok is false when the page is not resident or the transaction has never fetched it
func (m *Manager) Permission(txID txid.TxID, pageID page.PageID) (perm transaction.Permission, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, desc, err := m.lookup(pageID)
	if err != nil {
		return transaction.PermReadOnly, false
	}
	perm, ok = desc.grants[txID]
	return perm, ok
}

// IsResident checks whether the page is in buffer pool
func (m *Manager) IsResident(pageID page.PageID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.table[pageID]
	return ok
}

// PinCount returns the pin count of the page. 0 when not resident
func (m *Manager) PinCount(pageID page.PageID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, desc, err := m.lookup(pageID)
	if err != nil {
		return 0
	}
	return desc.refCount
}

// DiscardPage removes the page from buffer pool without writing it back
// pinned page cannot be discarded
func (m *Manager) DiscardPage(pageID page.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bufID, ok := m.table[pageID]
	if !ok {
		// nothing to discard
		return nil
	}
	if err := m.discard(bufID); err != nil {
		return errors.Wrap(err, "discard failed")
	}
	return nil
}

// discard removes the buffer from the table and returns it to free list
// the caller must hold manager lock
func (m *Manager) discard(bufID BufferID) error {
	desc := m.descriptors[bufID]
	if desc.isPinned() {
		return errors.Wrapf(ErrPagePinned, "page %s", desc.tag)
	}
	delete(m.table, desc.tag)
	m.replacer.Remove(bufID)
	m.returnToFreeList(bufID)
	return nil
}

// allocateBuffer returns empty buffer where the page will be read into.
// the caller must hold manager lock
func (m *Manager) allocateBuffer() (BufferID, error) {
	// at first, search free list.
	if bufID := m.allocateFromFreeList(); bufID != freeListInvalidID {
		return bufID, nil
	}
	// when there is no buffer in free list, use cache replacement policy
	bufID := m.replacer.Victim()
	if bufID == InvalidBufferID {
		return InvalidBufferID, ErrNoEvictableBuffer
	}
	desc := m.descriptors[bufID]
	if desc.dirty {
		// if the buffer is dirty, it must be written out to disk before eviction
		if err := m.flushBuffer(bufID); err != nil {
			// the page stays resident and evictable
			m.replacer.Unpin(bufID)
			return InvalidBufferID, errors.Wrap(err, "flushBuffer failed")
		}
	}
	m.log.Debug("buffer evicted", "page", desc.tag.String(), "buffer", bufID)
	delete(m.table, desc.tag)
	desc.reset()
	return bufID, nil
}

// pin pins the buffer
// the caller must hold manager lock
func (m *Manager) pin(bufID BufferID) {
	m.descriptors[bufID].pin()
	m.replacer.Pin(bufID)
}

// lookup returns the buffer of the resident page
// the caller must hold manager lock
func (m *Manager) lookup(pageID page.PageID) (BufferID, *descriptor, error) {
	bufID, ok := m.table[pageID]
	if !ok {
		return InvalidBufferID, nil, errors.Wrapf(ErrPageNotResident, "page %s", pageID)
	}
	return bufID, m.descriptors[bufID], nil
}

func (m *Manager) pinnedDescriptor(pageID page.PageID) (*descriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, desc, err := m.lookup(pageID)
	if err != nil {
		return nil, errors.Wrap(err, "lookup failed")
	}
	if !desc.isPinned() {
		return nil, errors.Wrapf(ErrPageNotPinned, "page %s", pageID)
	}
	return desc, nil
}
