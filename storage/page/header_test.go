package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderSize(t *testing.T) {
	tests := []struct {
		name      string
		slotCount int
		expected  int
	}{
		{name: "no slot", slotCount: 0, expected: 0},
		{name: "one slot", slotCount: 1, expected: 1},
		{name: "eight slots", slotCount: 8, expected: 1},
		{name: "nine slots", slotCount: 9, expected: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HeaderSize(tt.slotCount))
		})
	}
}

func TestSlotUsedBits(t *testing.T) {
	p := NewPagePtr()
	assert.False(t, IsSlotUsed(p, 0))

	SetSlotUsed(p, 0)
	SetSlotUsed(p, 9)
	// least significant bit first
	assert.Equal(t, byte(0x01), p[0])
	assert.Equal(t, byte(0x02), p[1])
	assert.True(t, IsSlotUsed(p, 0))
	assert.True(t, IsSlotUsed(p, 9))
	assert.False(t, IsSlotUsed(p, 8))

	ClearSlotUsed(p, 0)
	assert.False(t, IsSlotUsed(p, 0))
	assert.Equal(t, byte(0x00), p[0])
}
