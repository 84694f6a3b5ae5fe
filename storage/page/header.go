/*
Heap page header is bitmap. one bit per slot, and the bit is on when the slot is occupied.
bits are ordered least-significant-bit-first within each header byte:
slot i is bit (i % 8) of byte (i / 8).

  - +--------------------+--------+--------+-----+--------+-----------+
  - | header (bitmap)    | slot 0 | slot 1 | ... | slot N | zero fill |
  - +--------------------+--------+--------+-----+--------+-----------+

The number of slots is not stored on the page. It is derived from page size and tuple size,
see CalculateSlotCount() in slot.go.
*/
package page

// HeaderSize returns the byte size of bitmap header which covers slotCount slots
func HeaderSize(slotCount int) int {
	return (slotCount + 7) / 8
}

// IsSlotUsed checks whether the bit of the slot is on
func IsSlotUsed(p PagePtr, idx SlotIndex) bool {
	return p[idx/8]&(1<<(idx%8)) != 0
}

// SetSlotUsed turns on the bit of the slot
func SetSlotUsed(p PagePtr, idx SlotIndex) {
	p[idx/8] |= 1 << (idx % 8)
}

// ClearSlotUsed turns off the bit of the slot
func ClearSlotUsed(p PagePtr, idx SlotIndex) {
	p[idx/8] &^= 1 << (idx % 8)
}
