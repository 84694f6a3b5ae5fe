package page

import "github.com/pkg/errors"

// SlotIndex is the index of slot within heap page
type SlotIndex uint16

const (
	// first slot index in page
	FirstSlotIndex SlotIndex = 0
)

// CalculateSlotCount returns how many tuples of tupleSize bytes fit in one page
// every tuple needs tupleSize*8 bits for the slot and one bit for the header,
// so floor(PageSize*8 / (tupleSize*8 + 1))
func CalculateSlotCount(tupleSize int) int {
	if tupleSize <= 0 {
		return 0
	}
	return (PageSize * 8) / (tupleSize*8 + 1)
}

// SlotOffset returns the byte offset of the slot within page
func SlotOffset(slotCount, tupleSize int, idx SlotIndex) int {
	return HeaderSize(slotCount) + int(idx)*tupleSize
}

// GetSlot returns the slot bytes within page. the returned slice shares memory with the page.
func GetSlot(p PagePtr, tupleSize int, idx SlotIndex) ([]byte, error) {
	slotCount := CalculateSlotCount(tupleSize)
	if int(idx) >= slotCount {
		return nil, errors.Errorf("slot index %d is out of range: slot count %d", idx, slotCount)
	}
	off := SlotOffset(slotCount, tupleSize, idx)
	return p[off : off+tupleSize], nil
}
