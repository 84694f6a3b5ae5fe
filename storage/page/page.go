/*
Page is the unit of I/O and the unit of caching.
A heap file is organized as a sequence of fixed-size pages, and page n occupies
bytes [n*PageSize, (n+1)*PageSize) of the file. So the page number to file offset mapping is
a pure function and no page directory is necessary.

The layout of a heap page (bitmap header + fixed-width slots) is defined in header.go and slot.go.
The decoded form of the page (tuples) is defined by the access method, see /am/heap_page.go.
*/
package page

import (
	"math"
)

// PageSize is the byte size of page.
// this is process-wide constant and the same size as the heap file format expects (4KB)
const PageSize = 4096

// PageNumber is the position of page within one heap file
type PageNumber uint32

const (
	// first page number in file
	FirstPageNumber PageNumber = 0
	// invalid page number
	InvalidPageNumber PageNumber = math.MaxUint32
)

// PagePtr is pointer to page image
// page image is passed as pointer because it should not be copied in many cases
type PagePtr *[PageSize]byte

// NewPagePtr returns 0-filled page pointer
func NewPagePtr() PagePtr {
	p := &[PageSize]byte{}
	return PagePtr(p)
}

// Page is the decoded page held by buffer manager
// heap page is the only implementation currently
type Page interface {
	// ID returns page id
	ID() PageID
	// Bytes encodes the page into its on-disk image
	Bytes() PagePtr
}

// CalculateFileOffset calculates the page's offset within the file
// the page size is fixed so that it is easy to calculate the offset
func CalculateFileOffset(num PageNumber) int64 {
	// convert before multiply. uint32 * PageSize can overflow
	return int64(num) * PageSize
}

// CalculatePageCount returns ceil(size / PageSize)
// the last partial page is counted. reading it fails as corrupted page.
func CalculatePageCount(size int64) int {
	if size <= 0 {
		return 0
	}
	return int((size + PageSize - 1) / PageSize)
}
