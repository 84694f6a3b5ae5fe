package am

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
	"github.com/sigma65535/simple-db-hw-2021/transaction"
	"github.com/sigma65535/simple-db-hw-2021/transaction/txid"
)

/*
HeapFileIterator scans every tuple of heap file in (page number, slot index) order.

pages are fetched READ_ONLY through buffer manager, one page at a time.
the current page stays pinned until the iterator moves to the next page or is closed,
so scanning never holds more than one pin of this file.
the page count is re-read whenever the iterator moves to the next page, so pages appended during the scan are visited.
returned tuples are shared with the cached page and must not be modified. Copy them before changing fields.
when Open fails, the iterator stays closed and Open can be called again.
*/
type HeapFileIterator struct {
	hf   *HeapFile
	txID txid.TxID

	open bool
	// loaded is true while the current page is pinned
	loaded  bool
	current page.PageNumber
	// next is the page number which will be fetched next
	next      page.PageNumber
	exhausted bool
	// tuples of the current page, taken under shared content lock
	tuples []*tuple.Tuple
	cursor int
}

// Iterator returns iterator over the tuples of this heap file
// the iterator must be opened before use
func (hf *HeapFile) Iterator(txID txid.TxID) *HeapFileIterator {
	return &HeapFileIterator{
		hf:   hf,
		txID: txID,
	}
}

// Open positions the iterator before the first tuple
// the first page is fetched here if the file is not empty
func (it *HeapFileIterator) Open() error {
	if it.open {
		return common.ErrAlreadyOpen
	}
	it.next = page.FirstPageNumber
	it.exhausted = false
	it.tuples = nil
	it.cursor = 0

	n, err := it.hf.NumPages()
	if err != nil {
		return errors.Wrap(err, "NumPages failed")
	}
	if n > 0 {
		if err := it.load(it.next); err != nil {
			return errors.Wrap(err, "load failed")
		}
	}
	it.open = true
	return nil
}

// HasNext reports whether another tuple exists
// this may fetch following pages. calling it repeatedly does not advance the iterator
func (it *HeapFileIterator) HasNext() (bool, error) {
	if !it.open {
		return false, common.ErrNotOpen
	}
	for {
		if it.loaded && it.cursor < len(it.tuples) {
			return true, nil
		}
		if it.loaded {
			if err := it.unload(); err != nil {
				return false, errors.Wrap(err, "unload failed")
			}
		}
		if it.exhausted {
			return false, nil
		}
		n, err := it.hf.NumPages()
		if err != nil {
			return false, errors.Wrap(err, "NumPages failed")
		}
		if int(it.next) >= n {
			it.exhausted = true
			return false, nil
		}
		if err := it.load(it.next); err != nil {
			return false, errors.Wrap(err, "load failed")
		}
	}
}

// Next returns the next tuple
func (it *HeapFileIterator) Next() (*tuple.Tuple, error) {
	ok, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrNoMoreElements
	}
	tup := it.tuples[it.cursor]
	it.cursor++
	return tup, nil
}

// Rewind restarts the scan from the first page
func (it *HeapFileIterator) Rewind() error {
	if !it.open {
		return common.ErrNotOpen
	}
	if err := it.Close(); err != nil {
		return errors.Wrap(err, "Close failed")
	}
	return it.Open()
}

// Close releases the pinned page
func (it *HeapFileIterator) Close() error {
	if !it.open {
		return common.ErrNotOpen
	}
	it.open = false
	it.tuples = nil
	if it.loaded {
		if err := it.unload(); err != nil {
			return errors.Wrap(err, "unload failed")
		}
	}
	return nil
}

// load fetches the page and takes its tuples
func (it *HeapFileIterator) load(num page.PageNumber) error {
	pageID := it.hf.pageID(num)
	p, err := it.hf.bm.GetPage(it.txID, pageID, transaction.PermReadOnly)
	if err != nil {
		return errors.Wrap(err, "bm.GetPage failed")
	}
	hp, ok := p.(*HeapPage)
	if !ok {
		_ = it.hf.bm.ReleasePage(pageID)
		return errors.Errorf("page %s is not heap page", pageID)
	}
	if err := it.hf.bm.AcquireContentLock(pageID, false); err != nil {
		_ = it.hf.bm.ReleasePage(pageID)
		return errors.Wrap(err, "bm.AcquireContentLock failed")
	}
	it.tuples = hp.Tuples()
	if err := it.hf.bm.ReleaseContentLock(pageID, false); err != nil {
		_ = it.hf.bm.ReleasePage(pageID)
		return errors.Wrap(err, "bm.ReleaseContentLock failed")
	}
	it.loaded = true
	it.current = num
	it.next = num + 1
	it.cursor = 0
	return nil
}

// unload unpins the current page
func (it *HeapFileIterator) unload() error {
	it.loaded = false
	if err := it.hf.bm.ReleasePage(it.hf.pageID(it.current)); err != nil {
		return errors.Wrap(err, "bm.ReleasePage failed")
	}
	return nil
}
