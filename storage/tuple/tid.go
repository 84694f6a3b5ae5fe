package tuple

import (
	"fmt"

	"github.com/sigma65535/simple-db-hw-2021/storage/page"
)

// Tid consists of page id and slot index
// so, with tid, the tuple can be located
type Tid struct {
	pageID page.PageID
	slot   page.SlotIndex
}

func NewTid(pid page.PageID, slotIndex page.SlotIndex) Tid {
	return Tid{
		pageID: pid,
		slot:   slotIndex,
	}
}

// PageID returns page id
func (t Tid) PageID() page.PageID {
	return t.pageID
}

// SlotIndex returns slot index
func (t Tid) SlotIndex() page.SlotIndex {
	return t.slot
}

func (t Tid) String() string {
	return fmt.Sprintf("(%s,%d)", t.pageID, t.slot)
}
