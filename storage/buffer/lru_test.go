package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUVictim(t *testing.T) {
	tests := []struct {
		name     string
		unpinned []BufferID
		pinned   []BufferID
		expected []BufferID
	}{
		{
			name:     "least recently unpinned first",
			unpinned: []BufferID{2, 0, 1},
			expected: []BufferID{2, 0, 1, InvalidBufferID},
		},
		{
			name:     "pinned again is not victim",
			unpinned: []BufferID{2, 0, 1},
			pinned:   []BufferID{0},
			expected: []BufferID{2, 1, InvalidBufferID},
		},
		{
			name:     "unpin twice keeps the first position",
			unpinned: []BufferID{1, 2, 1},
			expected: []BufferID{1, 2, InvalidBufferID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLRU(3)
			for _, id := range tt.unpinned {
				r.Unpin(id)
			}
			for _, id := range tt.pinned {
				r.Pin(id)
			}
			for _, expected := range tt.expected {
				assert.Equal(t, expected, r.Victim())
			}
		})
	}
}
