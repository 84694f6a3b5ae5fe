package am

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/storage/buffer"
	"github.com/sigma65535/simple-db-hw-2021/storage/disk"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// TestingNewHeapFile initializes heap file on in-memory disk with its own buffer manager
func TestingNewHeapFile(path string, desc *tuple.Desc, tuples []*tuple.Tuple) (*HeapFile, error) {
	return TestingNewHeapFileOn(disk.TestingNewMemoryManager(), buffer.NewManager(), path, desc, tuples)
}

// TestingNewHeapFileOn writes the tuples as heap file image on disk manager and opens it
// the tuples are written bypassing buffer manager.
func TestingNewHeapFileOn(dm *disk.Manager, bm *buffer.Manager, path string, desc *tuple.Desc, tuples []*tuple.Tuple) (*HeapFile, error) {
	var buf bytes.Buffer
	npages, err := Encode(&buf, desc, tuples)
	if err != nil {
		return nil, errors.Wrap(err, "Encode failed")
	}
	for i := 0; i < npages; i++ {
		p := page.NewPagePtr()
		copy(p[:], buf.Bytes()[i*page.PageSize:(i+1)*page.PageSize])
		if err := dm.WritePage(path, page.PageNumber(i), p, false); err != nil {
			return nil, errors.Wrap(err, "dm.WritePage failed")
		}
	}
	return NewHeapFile(path, desc, dm, bm)
}

// TestingBufferManager returns buffer manager the heap file is registered to
func (hf *HeapFile) TestingBufferManager() *buffer.Manager {
	return hf.bm
}

// TestingDiskManager returns disk manager of the heap file
func (hf *HeapFile) TestingDiskManager() *disk.Manager {
	return hf.dm
}

// TestingIntTuples builds n tuples of ncols int columns, (i, i+1, ...) for the i-th tuple
func TestingIntTuples(ncols, n int) []*tuple.Tuple {
	tuples := make([]*tuple.Tuple, n)
	for i := range tuples {
		values := make([]int, ncols)
		for j := range values {
			values[j] = i + j
		}
		tuples[i] = tuple.TestingNewIntTuple(values...)
	}
	return tuples
}
