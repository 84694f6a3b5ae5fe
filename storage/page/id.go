package page

import (
	"fmt"

	"github.com/sigma65535/simple-db-hw-2021/common"
)

// PageID identifies the page among all heap files
// this is compared by value so can be used as map key (buffer table key)
type PageID struct {
	rel common.Relation
	num PageNumber
}

// NewPageID initializes page id
func NewPageID(rel common.Relation, num PageNumber) PageID {
	return PageID{
		rel: rel,
		num: num,
	}
}

// Relation returns the relation the page belongs to
func (id PageID) Relation() common.Relation {
	return id.rel
}

// Number returns page number within the relation file
func (id PageID) Number() PageNumber {
	return id.num
}

func (id PageID) String() string {
	return fmt.Sprintf("%d:%d", id.rel, id.num)
}
