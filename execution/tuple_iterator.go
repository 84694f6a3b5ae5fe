package execution

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// TupleIterator iterates over tuples on memory
type TupleIterator struct {
	operator
	desc   *tuple.Desc
	cursor *sliceCursor[*tuple.Tuple]
}

// NewTupleIterator initializes iterator over the tuples
// every tuple must conform to desc
func NewTupleIterator(desc *tuple.Desc, tuples []*tuple.Tuple) (*TupleIterator, error) {
	for i, t := range tuples {
		if !t.Desc().Equals(desc) {
			return nil, errors.Wrapf(tuple.ErrTypeMismatch, "tuple %d (%s) does not match (%s)", i, t.Desc(), desc)
		}
	}
	it := &TupleIterator{
		desc:   desc,
		cursor: newSliceCursor(tuples),
	}
	it.readNext = it.fetchNext
	return it, nil
}

func (it *TupleIterator) fetchNext() (*tuple.Tuple, error) {
	t, ok := it.cursor.next()
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (it *TupleIterator) Open() error {
	if it.opened {
		return common.ErrAlreadyOpen
	}
	it.cursor.reset()
	it.markOpened()
	return nil
}

func (it *TupleIterator) Rewind() error {
	if !it.opened {
		return common.ErrNotOpen
	}
	it.cursor.reset()
	it.resetCache()
	return nil
}

func (it *TupleIterator) Close() error {
	if !it.opened {
		return common.ErrNotOpen
	}
	it.markClosed()
	return nil
}

func (it *TupleIterator) Schema() *tuple.Desc {
	return it.desc
}
