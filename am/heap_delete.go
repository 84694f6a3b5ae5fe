package am

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
	"github.com/sigma65535/simple-db-hw-2021/transaction"
	"github.com/sigma65535/simple-db-hw-2021/transaction/txid"
)

// ErrTupleNotFound is returned when the tuple to be deleted is not in this heap file
var ErrTupleNotFound = errors.WithMessage(common.ErrStorage, "tuple not found")

/*
DeleteTuple empties the slot the tuple's tid points to.
the tuple must have been read from (or inserted into) this heap file.
the slot may be reused by later insert.
*/
func (hf *HeapFile) DeleteTuple(txID txid.TxID, tup *tuple.Tuple) (err error) {
	tid, ok := tup.Tid()
	if !ok {
		return errors.Wrap(ErrTupleNotFound, "tuple has no tid")
	}
	pageID := tid.PageID()
	if pageID.Relation() != hf.rel {
		return errors.Wrapf(ErrTupleNotFound, "tid %s is not in relation %d", tid, hf.rel)
	}

	p, err := hf.bm.GetPage(txID, pageID, transaction.PermReadWrite)
	if err != nil {
		return errors.Wrap(err, "bm.GetPage failed")
	}
	defer func() {
		if rerr := hf.bm.ReleasePage(pageID); rerr != nil && err == nil {
			err = errors.Wrap(rerr, "bm.ReleasePage failed")
		}
	}()

	if err := hf.bm.AcquireContentLock(pageID, true); err != nil {
		return errors.Wrap(err, "bm.AcquireContentLock failed")
	}
	defer hf.bm.ReleaseContentLock(pageID, true)

	hp, ok := p.(*HeapPage)
	if !ok {
		return errors.Errorf("page %s is not heap page", pageID)
	}
	if err := hp.deleteTuple(tid.SlotIndex()); err != nil {
		return errors.Wrap(ErrTupleNotFound, err.Error())
	}
	if err := hf.bm.MarkDirty(pageID, txID); err != nil {
		return errors.Wrap(err, "bm.MarkDirty failed")
	}
	return nil
}
