/*
Execution
Queries run as a tree of pull-based operators. Every operator implements OpIterator,
and the root is driven by the caller: Open() -> HasNext()/Next() until exhausted -> Close().
No operator runs ahead of its consumer, except Aggregate and Join which materialize their
results on Open().

protocol:
- Schema() is available before Open(), because it is a pure function of the children's schemas and the operator's parameters.
- any method but Open() before the first Open() or after Close() fails with common.ErrNotOpen
- Open() on an open operator fails with common.ErrAlreadyOpen
- Next() after exhaustion fails with common.ErrNoMoreElements
- Rewind() resets the operator to the state right after Open(), rewinding children recursively.

operator (the shared base) caches the next tuple produced by readNext,
so HasNext() can be called any number of times without changing what Next() returns.
*/
package execution

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// OpIterator is pull-based operator
type OpIterator interface {
	Open() error
	HasNext() (bool, error)
	Next() (*tuple.Tuple, error)
	Rewind() error
	Close() error
	Schema() *tuple.Desc
}

// readNextFunc produces the next tuple. nil tuple means the operator is exhausted
type readNextFunc func() (*tuple.Tuple, error)

// operator is embedded by every operator and implements HasNext() and Next()
type operator struct {
	opened   bool
	next     *tuple.Tuple
	readNext readNextFunc
}

func (op *operator) HasNext() (bool, error) {
	if !op.opened {
		return false, common.ErrNotOpen
	}
	if op.next == nil {
		next, err := op.readNext()
		if err != nil {
			return false, err
		}
		op.next = next
	}
	return op.next != nil, nil
}

func (op *operator) Next() (*tuple.Tuple, error) {
	ok, err := op.HasNext()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrNoMoreElements
	}
	next := op.next
	op.next = nil
	return next, nil
}

// markOpened is called at the end of Open() of the operator
func (op *operator) markOpened() {
	op.opened = true
	op.next = nil
}

// markClosed is called at the end of Close() of the operator
func (op *operator) markClosed() {
	op.opened = false
	op.next = nil
}

// resetCache drops the cached tuple. this is called on Rewind()
func (op *operator) resetCache() {
	op.next = nil
}

// Collect drains the opened iterator
func Collect(it OpIterator) ([]*tuple.Tuple, error) {
	var tuples []*tuple.Tuple
	err := ForEach(it, func(t *tuple.Tuple) error {
		tuples = append(tuples, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tuples, nil
}

// ForEach calls fn for each remaining tuple of the opened iterator
// iteration stops at the first error returned by fn
func ForEach(it OpIterator, fn func(t *tuple.Tuple) error) error {
	for {
		ok, err := it.HasNext()
		if err != nil {
			return errors.Wrap(err, "HasNext failed")
		}
		if !ok {
			return nil
		}
		t, err := it.Next()
		if err != nil {
			return errors.Wrap(err, "Next failed")
		}
		if err := fn(t); err != nil {
			return err
		}
	}
}

// sliceCursor iterates over materialized results
type sliceCursor[T any] struct {
	items []T
	pos   int
}

func newSliceCursor[T any](items []T) *sliceCursor[T] {
	return &sliceCursor[T]{items: items}
}

// next returns the next item. ok is false at the end
func (c *sliceCursor[T]) next() (item T, ok bool) {
	if c == nil || c.pos >= len(c.items) {
		return item, false
	}
	item = c.items[c.pos]
	c.pos++
	return item, true
}

func (c *sliceCursor[T]) reset() {
	if c != nil {
		c.pos = 0
	}
}

func (c *sliceCursor[T]) len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}
