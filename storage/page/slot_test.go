package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSlotCount(t *testing.T) {
	tests := []struct {
		name      string
		tupleSize int
		expected  int
	}{
		// two int columns
		{name: "8 byte tuple", tupleSize: 8, expected: 504},
		// one int column
		{name: "4 byte tuple", tupleSize: 4, expected: 992},
		// int and string column
		{name: "136 byte tuple", tupleSize: 136, expected: 30},
		{name: "invalid size", tupleSize: 0, expected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateSlotCount(tt.tupleSize)
			assert.Equal(t, tt.expected, got)
			if got > 0 {
				// header and slots must fit in one page
				assert.LessOrEqual(t, HeaderSize(got)+got*tt.tupleSize, PageSize)
			}
		})
	}
}

func TestGetSlot(t *testing.T) {
	tupleSize := 8
	p, err := TestingNewPage(tupleSize, []SlotIndex{0, 2}, 0xff)
	assert.Nil(t, err)

	slotCount := CalculateSlotCount(tupleSize)
	assert.Equal(t, HeaderSize(slotCount), SlotOffset(slotCount, tupleSize, 0))

	slot, err := GetSlot(p, tupleSize, 2)
	assert.Nil(t, err)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, slot)

	slot, err = GetSlot(p, tupleSize, 1)
	assert.Nil(t, err)
	assert.Equal(t, make([]byte, tupleSize), slot)

	_, err = GetSlot(p, tupleSize, SlotIndex(slotCount))
	assert.NotNil(t, err)
}
