package execution

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// Filter passes through the tuples of child which satisfy the predicate
type Filter struct {
	operator
	pred  *Predicate
	child OpIterator
}

// NewFilter initializes filter
// the predicate's field must exist in child's schema and have the same type as the operand
func NewFilter(pred *Predicate, child OpIterator) (*Filter, error) {
	typ, err := child.Schema().FieldType(pred.field)
	if err != nil {
		return nil, errors.Wrap(err, "FieldType failed")
	}
	if typ != pred.operand.Type() {
		return nil, errors.Wrapf(tuple.ErrTypeMismatch, "column %d is %s but operand is %s", pred.field, typ, pred.operand.Type())
	}
	f := &Filter{
		pred:  pred,
		child: child,
	}
	f.readNext = f.fetchNext
	return f, nil
}

func (f *Filter) fetchNext() (*tuple.Tuple, error) {
	for {
		ok, err := f.child.HasNext()
		if err != nil {
			return nil, errors.Wrap(err, "child HasNext failed")
		}
		if !ok {
			return nil, nil
		}
		t, err := f.child.Next()
		if err != nil {
			return nil, errors.Wrap(err, "child Next failed")
		}
		pass, err := f.pred.Filter(t)
		if err != nil {
			return nil, errors.Wrap(err, "predicate Filter failed")
		}
		if pass {
			return t, nil
		}
	}
}

// Predicate returns the predicate of filter
func (f *Filter) Predicate() *Predicate {
	return f.pred
}

func (f *Filter) Open() error {
	if f.opened {
		return common.ErrAlreadyOpen
	}
	if err := f.child.Open(); err != nil {
		return errors.Wrap(err, "child Open failed")
	}
	f.markOpened()
	return nil
}

func (f *Filter) Rewind() error {
	if !f.opened {
		return common.ErrNotOpen
	}
	f.resetCache()
	return errors.Wrap(f.child.Rewind(), "child Rewind failed")
}

func (f *Filter) Close() error {
	if !f.opened {
		return common.ErrNotOpen
	}
	f.markClosed()
	return errors.Wrap(f.child.Close(), "child Close failed")
}

func (f *Filter) Schema() *tuple.Desc {
	return f.child.Schema()
}
