package buffer

// Replacer is cache replacement policy. it selects victim buffer among unpinned buffers.
// Replacer is not safe for concurrent use. manager calls it with manager lock held.
type Replacer interface {
	// Pin is called when the buffer is pinned. pinned buffer must not be returned by Victim
	Pin(bufID BufferID)
	// Unpin is called when the pin count of the buffer drops to 0
	Unpin(bufID BufferID)
	// Remove is called when the buffer returns to free list
	Remove(bufID BufferID)
	// Victim returns the buffer to be evicted and forgets it
	// InvalidBufferID is returned when every buffer is pinned
	Victim() BufferID
}

// ReplacerFactory creates replacer for capacity buffers
type ReplacerFactory func(capacity int) Replacer
