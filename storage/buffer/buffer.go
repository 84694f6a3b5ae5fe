package buffer

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
)

// BufferID is the index of buffer (frame) within buffer pool
type BufferID int32

const (
	// first buffer id
	FirstBufferID BufferID = 0
	// invalid buffer id
	InvalidBufferID BufferID = -1
)

// DefaultCapacity is the number of buffers when WithCapacity is not specified
// 50 pages * 4KB = 200KB
const DefaultCapacity = 50

var (
	// ErrUnknownRelation is returned when no loader is registered for the page's relation
	ErrUnknownRelation = errors.WithMessage(common.ErrStorage, "no page loader registered for relation")
	// ErrNoEvictableBuffer is returned when a page has to be loaded but every buffer is pinned
	ErrNoEvictableBuffer = errors.WithMessage(common.ErrStorage, "all buffers are pinned")
	// ErrPageNotResident is returned when the page is expected to be in buffer pool but is not
	ErrPageNotResident = errors.WithMessage(common.ErrStorage, "page is not resident")
	// ErrPageNotPinned is returned when the caller releases the page it has not pinned
	ErrPageNotPinned = errors.WithMessage(common.ErrProtocol, "page is not pinned")
	// ErrPagePinned is returned when pinned page is discarded
	ErrPagePinned = errors.WithMessage(common.ErrProtocol, "page is pinned")
)

// Loader loads and stores pages of one relation
// heap file registers itself as the loader of its relation, see RegisterLoader()
type Loader interface {
	// ReadPage reads page from disk
	ReadPage(pageID page.PageID) (page.Page, error)
	// WritePage writes page to disk
	WritePage(p page.Page) error
}
