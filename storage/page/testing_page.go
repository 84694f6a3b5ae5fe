package page

import (
	"github.com/pkg/errors"
)

// TestingNewPage returns heap page image whose specified slots are filled with fill byte
func TestingNewPage(tupleSize int, used []SlotIndex, fill byte) (PagePtr, error) {
	p := NewPagePtr()
	for _, idx := range used {
		slot, err := GetSlot(p, tupleSize, idx)
		if err != nil {
			return nil, errors.Wrap(err, "GetSlot failed")
		}
		for i := range slot {
			slot[i] = fill
		}
		SetSlotUsed(p, idx)
	}
	return p, nil
}
