/*
Dirty pages are written out to disk
- when the buffer is chosen as victim (see allocateBuffer())
- when FlushPage()/FlushAllPages() is called
- when the transaction completes with commit

Pages dirtied by the transaction which aborts are discarded,
so the next GetPage() re-reads them from disk. (the change already written out by eviction is not undone.
recovery belongs to the log manager)
*/
package buffer

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/transaction/txid"
)

// flushBuffer writes the victim buffer to disk
// the caller must hold manager lock. the buffer must not be pinned,
// so nobody holds its content lock.
func (m *Manager) flushBuffer(bufID BufferID) error {
	desc := m.descriptors[bufID]
	loader, ok := m.loaders[desc.tag.Relation()]
	if !ok {
		return errors.Wrapf(ErrUnknownRelation, "relation %d", desc.tag.Relation())
	}
	if err := loader.WritePage(desc.page); err != nil {
		return errors.Wrap(err, "WritePage failed")
	}
	desc.clearDirty()
	return nil
}

// FlushPage writes the page to disk if it is resident and dirty
// the page is pinned during the write, and shared content lock is held
// so the page is not updated half way through the write.
func (m *Manager) FlushPage(pageID page.PageID) error {
	m.mu.Lock()
	bufID, ok := m.table[pageID]
	if !ok || !m.descriptors[bufID].dirty {
		m.mu.Unlock()
		return nil
	}
	desc := m.descriptors[bufID]
	loader, ok := m.loaders[pageID.Relation()]
	if !ok {
		m.mu.Unlock()
		return errors.Wrapf(ErrUnknownRelation, "relation %d", pageID.Relation())
	}
	// clear dirty bit before write. the update after this point turns it on again
	dirtiedBy := desc.dirtiedBy
	desc.clearDirty()
	m.pin(bufID)
	m.mu.Unlock()

	desc.contentLock.RLock()
	err := loader.WritePage(desc.page)
	desc.contentLock.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil && !desc.dirty {
		desc.setDirty(dirtiedBy)
	}
	if desc.unpin() {
		m.replacer.Unpin(bufID)
	}
	return errors.Wrap(err, "WritePage failed")
}

// FlushAllPages writes all dirty pages to disk
func (m *Manager) FlushAllPages() error {
	for _, pageID := range m.dirtyPages(txid.InvalidTxID) {
		if err := m.FlushPage(pageID); err != nil {
			return errors.Wrapf(err, "FlushPage %s failed", pageID)
		}
	}
	return nil
}

// TransactionComplete forgets the permissions granted to the transaction.
// on commit, the pages dirtied by the transaction are written out.
// on abort, they are discarded from buffer pool. the caller must have released them.
func (m *Manager) TransactionComplete(txID txid.TxID, commit bool) error {
	pages := m.dirtyPages(txID)
	for _, pageID := range pages {
		if commit {
			if err := m.FlushPage(pageID); err != nil {
				return errors.Wrapf(err, "FlushPage %s failed", pageID)
			}
			continue
		}
		if err := m.DiscardPage(pageID); err != nil {
			return errors.Wrapf(err, "DiscardPage %s failed", pageID)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, desc := range m.descriptors {
		delete(desc.grants, txID)
	}
	m.log.Debug("transaction complete", "tx_id", txID, "commit", commit, "dirty_pages", len(pages))
	return nil
}

// dirtyPages returns dirty pages. when txID is valid, only the pages last dirtied by the transaction
func (m *Manager) dirtyPages(txID txid.TxID) []page.PageID {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pages []page.PageID
	for _, desc := range m.descriptors {
		if !desc.valid || !desc.dirty {
			continue
		}
		if txID.IsValid() && desc.dirtiedBy != txID {
			continue
		}
		pages = append(pages, desc.tag)
	}
	return pages
}
