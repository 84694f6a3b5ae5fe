/*
Clock sweep is the default cache replacement policy, same as postgres.
Clock sweep is approximation of LRU algorithm.
The main difference is that the clock sweep does not maintain global timestamp.
It uses approximation of timestamp, usage count.

- when the buffer is pinned, its usage count is incremented (up to maxUsageCount)
- the clock hand moves around the buffers treated as ring buffer
- if the buffer under the hand is pinned, skip it
- if the buffer under the hand has been used, decrement usage count and skip it
- otherwise the buffer is the victim

for more details, see https://github.com/postgres/postgres/blob/master/src/backend/storage/buffer/README#L155-L246
*/
package buffer

// maxUsageCount is the same as BM_MAX_USAGE_COUNT in postgres
const maxUsageCount = 5

type clockSweep struct {
	usageCount []uint8
	// evictable is true for the buffer which holds page and is not pinned
	evictable []bool
	// nextVictimBuffer is the next buffer clock sweep inspects (the clock hand)
	nextVictimBuffer BufferID
}

// NewClockSweep is ReplacerFactory of clock sweep
func NewClockSweep(capacity int) Replacer {
	return &clockSweep{
		usageCount: make([]uint8, capacity),
		evictable:  make([]bool, capacity),
	}
}

func (cs *clockSweep) Pin(bufID BufferID) {
	cs.evictable[bufID] = false
	if cs.usageCount[bufID] < maxUsageCount {
		cs.usageCount[bufID]++
	}
}

func (cs *clockSweep) Unpin(bufID BufferID) {
	cs.evictable[bufID] = true
}

func (cs *clockSweep) Remove(bufID BufferID) {
	cs.evictable[bufID] = false
	cs.usageCount[bufID] = 0
}

// clockSweepTick moves clock hand ahead and returns the buffer under the hand
func (cs *clockSweep) clockSweepTick() BufferID {
	victim := cs.nextVictimBuffer
	cs.nextVictimBuffer = (cs.nextVictimBuffer + 1) % BufferID(len(cs.evictable))
	return victim
}

// Victim decides victim buffer
// when clock hand moves around one cycle without finding any unpinned buffer, gives up.
// see: https://github.com/greenplum-db/gpdb/blob/abdcb97df1747bf7413918d1601ce0be8c1e6a49/src/backend/storage/buffer/freelist.c#L201
func (cs *clockSweep) Victim() BufferID {
	// when tryCounter is 0, it means clock sweep has inspected all buffers
	tryCounter := len(cs.evictable)
	for tryCounter > 0 {
		bufID := cs.clockSweepTick()
		if !cs.evictable[bufID] {
			tryCounter--
			continue
		}
		if cs.usageCount[bufID] != 0 {
			// this buffer was used after clock sweep had inspected previous time, so must not evict it
			cs.usageCount[bufID]--
			// reset try counter. usage counts are bounded, so this loop terminates
			tryCounter = len(cs.evictable)
			continue
		}
		cs.evictable[bufID] = false
		return bufID
	}
	return InvalidBufferID
}
