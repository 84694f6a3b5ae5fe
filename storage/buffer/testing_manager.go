package buffer

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/disk"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
)

// TestingNewManager initializes buffer manager with a few buffers
func TestingNewManager(capacity int, factory ReplacerFactory) *Manager {
	return NewManager(WithCapacity(capacity), WithReplacer(factory))
}

// TestingPage is raw page image
type TestingPage struct {
	id  page.PageID
	Ptr page.PagePtr
}

func (p *TestingPage) ID() page.PageID {
	return p.id
}

func (p *TestingPage) Bytes() page.PagePtr {
	return p.Ptr
}

// TestingLoader loads raw page images from in-memory disk manager and counts disk IO
type TestingLoader struct {
	rel  common.Relation
	path string
	dm   *disk.Manager

	mu     sync.Mutex
	Reads  int
	Writes int
}

// TestingNewLoader initializes loader with npages pages whose first byte is the page number
func TestingNewLoader(rel common.Relation, npages int) (*TestingLoader, error) {
	l := &TestingLoader{
		rel:  rel,
		path: "testing.dat",
		dm:   disk.TestingNewMemoryManager(),
	}
	for i := 0; i < npages; i++ {
		p := page.NewPagePtr()
		p[0] = byte(i)
		if err := l.dm.WritePage(l.path, page.PageNumber(i), p, false); err != nil {
			return nil, errors.Wrap(err, "WritePage failed")
		}
	}
	return l, nil
}

func (l *TestingLoader) ReadPage(pageID page.PageID) (page.Page, error) {
	l.mu.Lock()
	l.Reads++
	l.mu.Unlock()
	p := page.NewPagePtr()
	if err := l.dm.ReadPage(l.path, pageID.Number(), p); err != nil {
		return nil, errors.Wrap(err, "ReadPage failed")
	}
	return &TestingPage{id: pageID, Ptr: p}, nil
}

func (l *TestingLoader) WritePage(p page.Page) error {
	l.mu.Lock()
	l.Writes++
	l.mu.Unlock()
	return errors.Wrap(l.dm.WritePage(l.path, p.ID().Number(), p.Bytes(), false), "WritePage failed")
}

// OnDisk returns the first byte of the page on disk
func (l *TestingLoader) OnDisk(num page.PageNumber) (byte, error) {
	p := page.NewPagePtr()
	if err := l.dm.ReadPage(l.path, num, p); err != nil {
		return 0, errors.Wrap(err, "ReadPage failed")
	}
	return p[0], nil
}
