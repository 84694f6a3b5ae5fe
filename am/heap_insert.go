package am

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
	"github.com/sigma65535/simple-db-hw-2021/transaction"
	"github.com/sigma65535/simple-db-hw-2021/transaction/txid"
)

/*
InsertTuple inserts the tuple into the first page with an empty slot.
  - fetch each page READ_WRITE through buffer manager from the first page
  - with exclusive content lock, check empty slot and put the tuple
  - mark the page dirty by the transaction
  - if no page has an empty slot, extend the file with an empty page and put the tuple there

the page keeps its own copy of the tuple. the tuple's tid is set to the slot where the copy is put.
the modified page stays in buffer manager until it is flushed or evicted.
the empty page which extends the file is written straight to disk, not through buffer manager.
only the insertion into it goes through buffer manager, as any other page.
*/
func (hf *HeapFile) InsertTuple(txID txid.TxID, tup *tuple.Tuple) (tuple.Tid, error) {
	if !tup.Desc().Equals(hf.desc) {
		return tuple.Tid{}, errors.Wrapf(tuple.ErrTypeMismatch, "tuple (%s) does not match table (%s)", tup.Desc(), hf.desc)
	}
	hf.insertMu.Lock()
	defer hf.insertMu.Unlock()

	n, err := hf.NumPages()
	if err != nil {
		return tuple.Tid{}, errors.Wrap(err, "NumPages failed")
	}
	for i := 0; i < n; i++ {
		tid, ok, err := hf.insertIntoPage(txID, page.PageNumber(i), tup)
		if err != nil {
			return tuple.Tid{}, errors.Wrap(err, "insertIntoPage failed")
		}
		if ok {
			tup.SetTid(tid)
			return tid, nil
		}
	}

	// no page has room, so extend the file
	num := page.PageNumber(n)
	if err := hf.WritePage(newEmptyHeapPage(hf.pageID(num), hf.desc)); err != nil {
		return tuple.Tid{}, errors.Wrap(err, "WritePage failed")
	}
	hf.log.Debug("heap file extended", "page", num)
	tid, ok, err := hf.insertIntoPage(txID, num, tup)
	if err != nil {
		return tuple.Tid{}, errors.Wrap(err, "insertIntoPage failed")
	}
	if !ok {
		return tuple.Tid{}, errors.Errorf("new page %d has no empty slot", num)
	}
	tup.SetTid(tid)
	return tid, nil
}

// insertIntoPage puts the tuple into the page if it has an empty slot
// ok is false when the page is full
func (hf *HeapFile) insertIntoPage(txID txid.TxID, num page.PageNumber, tup *tuple.Tuple) (tid tuple.Tid, ok bool, err error) {
	pageID := hf.pageID(num)
	p, err := hf.bm.GetPage(txID, pageID, transaction.PermReadWrite)
	if err != nil {
		return tuple.Tid{}, false, errors.Wrap(err, "bm.GetPage failed")
	}
	defer func() {
		if rerr := hf.bm.ReleasePage(pageID); rerr != nil && err == nil {
			err = errors.Wrap(rerr, "bm.ReleasePage failed")
		}
	}()

	if err := hf.bm.AcquireContentLock(pageID, true); err != nil {
		return tuple.Tid{}, false, errors.Wrap(err, "bm.AcquireContentLock failed")
	}
	defer hf.bm.ReleaseContentLock(pageID, true)

	hp, ok := p.(*HeapPage)
	if !ok {
		return tuple.Tid{}, false, errors.Errorf("page %s is not heap page", pageID)
	}
	if hp.NumEmptySlots() == 0 {
		return tuple.Tid{}, false, nil
	}
	idx, err := hp.insertTuple(tup)
	if err != nil {
		return tuple.Tid{}, false, errors.Wrap(err, "insertTuple failed")
	}
	if err := hf.bm.MarkDirty(pageID, txID); err != nil {
		return tuple.Tid{}, false, errors.Wrap(err, "bm.MarkDirty failed")
	}
	return tuple.NewTid(pageID, idx), true, nil
}
