package buffer

import "container/list"

// lru evicts the buffer unpinned least recently
// the list holds only unpinned buffers. front is the most recently unpinned
type lru struct {
	list     *list.List
	elements map[BufferID]*list.Element
}

// NewLRU is ReplacerFactory of LRU
func NewLRU(capacity int) Replacer {
	return &lru{
		list:     list.New(),
		elements: make(map[BufferID]*list.Element, capacity),
	}
}

// Pin removes the buffer from the list, it cannot be evicted until Unpin
func (l *lru) Pin(bufID BufferID) {
	l.Remove(bufID)
}

func (l *lru) Unpin(bufID BufferID) {
	if _, ok := l.elements[bufID]; ok {
		return
	}
	l.elements[bufID] = l.list.PushFront(bufID)
}

func (l *lru) Remove(bufID BufferID) {
	if elem, ok := l.elements[bufID]; ok {
		l.list.Remove(elem)
		delete(l.elements, bufID)
	}
}

func (l *lru) Victim() BufferID {
	elem := l.list.Back()
	if elem == nil {
		return InvalidBufferID
	}
	bufID := elem.Value.(BufferID)
	l.list.Remove(elem)
	delete(l.elements, bufID)
	return bufID
}
