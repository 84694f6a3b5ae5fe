package am

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// HeapPage is decoded heap page held by buffer manager
// the layout on disk is bitmap header followed by fixed-width slots, see /storage/page/header.go
type HeapPage struct {
	id        page.PageID
	desc      *tuple.Desc
	slotCount int
	// used is the set of occupied slot indexes
	used *roaring.Bitmap
	// tuples[i] is nil when slot i is empty
	tuples []*tuple.Tuple
}

// newEmptyHeapPage initializes heap page without tuples
func newEmptyHeapPage(id page.PageID, desc *tuple.Desc) *HeapPage {
	slotCount := page.CalculateSlotCount(desc.Size())
	return &HeapPage{
		id:        id,
		desc:      desc,
		slotCount: slotCount,
		used:      roaring.New(),
		tuples:    make([]*tuple.Tuple, slotCount),
	}
}

// decodeHeapPage decodes page image
// the slot whose header bit is off is skipped without looking at its bytes
func decodeHeapPage(id page.PageID, desc *tuple.Desc, p page.PagePtr) (*HeapPage, error) {
	hp := newEmptyHeapPage(id, desc)
	tupleSize := desc.Size()
	for i := 0; i < hp.slotCount; i++ {
		idx := page.SlotIndex(i)
		if !page.IsSlotUsed(p, idx) {
			continue
		}
		slot, err := page.GetSlot(p, tupleSize, idx)
		if err != nil {
			return nil, errors.Wrap(err, "page.GetSlot failed")
		}
		tup, err := tuple.Decode(desc, slot)
		if err != nil {
			return nil, errors.Wrapf(err, "tuple.Decode of slot %d failed", idx)
		}
		tup.SetTid(tuple.NewTid(id, idx))
		hp.tuples[idx] = tup
		hp.used.Add(uint32(idx))
	}
	return hp, nil
}

// ID returns page id
func (hp *HeapPage) ID() page.PageID {
	return hp.id
}

// Bytes encodes the page. empty slots and the tail of the page are zero-filled
func (hp *HeapPage) Bytes() page.PagePtr {
	p := page.NewPagePtr()
	tupleSize := hp.desc.Size()
	it := hp.used.Iterator()
	for it.HasNext() {
		idx := page.SlotIndex(it.Next())
		page.SetSlotUsed(p, idx)
		off := page.SlotOffset(hp.slotCount, tupleSize, idx)
		// the tuple always conforms to the page's descriptor, see insertTuple()
		_ = hp.tuples[idx].Encode(p[off : off+tupleSize])
	}
	return p
}

// NumSlots returns the number of slots
func (hp *HeapPage) NumSlots() int {
	return hp.slotCount
}

// NumEmptySlots returns the number of empty slots
func (hp *HeapPage) NumEmptySlots() int {
	return hp.slotCount - int(hp.used.GetCardinality())
}

// IsSlotUsed checks whether the slot is occupied
func (hp *HeapPage) IsSlotUsed(idx page.SlotIndex) bool {
	return hp.used.Contains(uint32(idx))
}

// Tuples returns the tuples in slot order
func (hp *HeapPage) Tuples() []*tuple.Tuple {
	tuples := make([]*tuple.Tuple, 0, hp.used.GetCardinality())
	it := hp.used.Iterator()
	for it.HasNext() {
		tuples = append(tuples, hp.tuples[it.Next()])
	}
	return tuples
}

// insertTuple puts a copy of the tuple into the first empty slot. the copy carries the tid
// the argument is left untouched. the caller must hold exclusive content lock
func (hp *HeapPage) insertTuple(tup *tuple.Tuple) (page.SlotIndex, error) {
	if !tup.Desc().Equals(hp.desc) {
		return 0, errors.Wrapf(tuple.ErrTypeMismatch, "tuple (%s) does not match table (%s)", tup.Desc(), hp.desc)
	}
	for i := 0; i < hp.slotCount; i++ {
		if hp.used.Contains(uint32(i)) {
			continue
		}
		idx := page.SlotIndex(i)
		stored := tup.Copy()
		stored.SetTid(tuple.NewTid(hp.id, idx))
		hp.tuples[idx] = stored
		hp.used.Add(uint32(idx))
		return idx, nil
	}
	return 0, errors.Errorf("page %s is full", hp.id)
}

// deleteTuple empties the slot
// the caller must hold exclusive content lock
func (hp *HeapPage) deleteTuple(idx page.SlotIndex) error {
	if int(idx) >= hp.slotCount || !hp.used.Contains(uint32(idx)) {
		return errors.Errorf("slot %d of page %s is empty", idx, hp.id)
	}
	hp.used.Remove(uint32(idx))
	hp.tuples[idx] = nil
	return nil
}
