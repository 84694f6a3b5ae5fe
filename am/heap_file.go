/*
Access method
Currently only heap access method is supported. (index is not supported)

Heap file is an unordered collection of tuples of one table stored as a sequence of pages.
The page number to file offset mapping is a pure function of page size,
so no directory or free space map is necessary for heap.
The cost is that inserting has to look for a page with an empty slot from the first page.

Heap file is the page loader of its relation registered in buffer manager.
Heap file itself never reads pages for scan/insert/delete. It calls buffer manager GetPage(),
and buffer manager calls ReadPage() of the heap file on cache miss.
*/
package am

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/logging"
	"github.com/sigma65535/simple-db-hw-2021/storage/buffer"
	"github.com/sigma65535/simple-db-hw-2021/storage/disk"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// HeapFile is heap file of one table
type HeapFile struct {
	path string
	rel  common.Relation
	desc *tuple.Desc
	dm   *disk.Manager
	bm   *buffer.Manager
	// insertMu serializes inserts, so two inserts never extend the file with the same page
	insertMu sync.Mutex
	log      *slog.Logger
}

// NewHeapFile opens heap file and registers it as page loader to buffer manager
// the file is created when it does not exist
func NewHeapFile(path string, desc *tuple.Desc, dm *disk.Manager, bm *buffer.Manager) (*HeapFile, error) {
	if page.CalculateSlotCount(desc.Size()) == 0 {
		return nil, errors.Wrapf(common.ErrConfiguration, "tuple size %d does not fit in one page", desc.Size())
	}
	rel, err := common.RelationFromPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "common.RelationFromPath failed")
	}
	hf := &HeapFile{
		path: path,
		rel:  rel,
		desc: desc,
		dm:   dm,
		bm:   bm,
		log:  logging.WithTable(uint64(rel), path),
	}
	bm.RegisterLoader(rel, hf)
	hf.log.Debug("heap file registered", "tuple_size", desc.Size(), "slots_per_page", page.CalculateSlotCount(desc.Size()))
	return hf, nil
}

// ID returns the relation of this heap file
func (hf *HeapFile) ID() common.Relation {
	return hf.rel
}

// Path returns the file path
func (hf *HeapFile) Path() string {
	return hf.path
}

// Desc returns the tuple descriptor of the table
func (hf *HeapFile) Desc() *tuple.Desc {
	return hf.desc
}

// NumPages returns ceil(file size / PageSize). this is recomputed on every call
func (hf *HeapFile) NumPages() (int, error) {
	n, err := hf.dm.NumPages(hf.path)
	if err != nil {
		return 0, errors.Wrap(err, "dm.NumPages failed")
	}
	return n, nil
}

// ReadPage reads the page from disk and decodes it
// this is called only by buffer manager on cache miss
func (hf *HeapFile) ReadPage(pageID page.PageID) (page.Page, error) {
	if pageID.Relation() != hf.rel {
		return nil, errors.Errorf("page %s does not belong to relation %d", pageID, hf.rel)
	}
	p := page.NewPagePtr()
	if err := hf.dm.ReadPage(hf.path, pageID.Number(), p); err != nil {
		return nil, errors.Wrap(err, "dm.ReadPage failed")
	}
	hp, err := decodeHeapPage(pageID, hf.desc, p)
	if err != nil {
		return nil, errors.Wrap(err, "decodeHeapPage failed")
	}
	return hp, nil
}

// WritePage writes the page at its offset
func (hf *HeapFile) WritePage(p page.Page) error {
	if p.ID().Relation() != hf.rel {
		return errors.Errorf("page %s does not belong to relation %d", p.ID(), hf.rel)
	}
	if err := hf.dm.WritePage(hf.path, p.ID().Number(), p.Bytes(), false); err != nil {
		return errors.Wrap(err, "dm.WritePage failed")
	}
	return nil
}

// pageID returns page id of the page number within this file
func (hf *HeapFile) pageID(num page.PageNumber) page.PageID {
	return page.NewPageID(hf.rel, num)
}
