package execution

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/logging"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

/*
Aggregate computes one aggregate over a column, optionally grouped by another column.

Open() drains the child once and keeps only one accumulator per group.
the output is one tuple per group in the order the groups were first seen,
so an empty child produces no tuple (not a single null row).
Rewind() restarts the output from the first group without draining the child again.
*/
type Aggregate struct {
	operator
	child  OpIterator
	aField int
	gField int
	op     AggregateOp
	desc   *tuple.Desc
	cursor *sliceCursor[*tuple.Tuple]
	log    *slog.Logger
}

// NewAggregate initializes aggregate operator
// gField is NoGrouping when the tuples are not grouped
func NewAggregate(child OpIterator, aField, gField int, op AggregateOp) (*Aggregate, error) {
	if !op.isValid() {
		return nil, errors.Wrapf(ErrUnsupportedAggregate, "aggregate op %d", op)
	}
	childDesc := child.Schema()
	aName, err := childDesc.FieldName(aField)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate field is out of range")
	}

	types := []tuple.Type{tuple.IntType}
	names := []string{op.String() + "(" + aName + ")"}
	if gField != NoGrouping {
		gType, err := childDesc.FieldType(gField)
		if err != nil {
			return nil, errors.Wrap(err, "group field is out of range")
		}
		gName, err := childDesc.FieldName(gField)
		if err != nil {
			return nil, errors.Wrap(err, "group field is out of range")
		}
		types = append([]tuple.Type{gType}, types...)
		names = append([]string{gName}, names...)
	}
	desc, err := tuple.NewDesc(types, names)
	if err != nil {
		return nil, errors.Wrap(err, "tuple.NewDesc failed")
	}

	a := &Aggregate{
		child:  child,
		aField: aField,
		gField: gField,
		op:     op,
		desc:   desc,
		log:    logging.WithComponent("aggregate"),
	}
	a.readNext = a.fetchNext
	return a, nil
}

func (a *Aggregate) fetchNext() (*tuple.Tuple, error) {
	t, ok := a.cursor.next()
	if !ok {
		return nil, nil
	}
	return t, nil
}

// GroupField returns the group field index of child, or NoGrouping
func (a *Aggregate) GroupField() int {
	return a.gField
}

// AggregateField returns the aggregate field index of child
func (a *Aggregate) AggregateField() int {
	return a.aField
}

// Op returns the aggregate op
func (a *Aggregate) Op() AggregateOp {
	return a.op
}

// Open drains the child and computes the aggregate of every group
// on failure, the child is closed and the aggregate stays closed.
func (a *Aggregate) Open() error {
	if a.opened {
		return common.ErrAlreadyOpen
	}
	if err := a.child.Open(); err != nil {
		return errors.Wrap(err, "child Open failed")
	}
	agg := newAggregator(a.gField, a.aField, a.op)
	err := ForEach(a.child, agg.merge)
	if err != nil {
		_ = a.child.Close()
		return errors.Wrap(err, "aggregation failed")
	}
	results, err := agg.results(a.desc)
	if err != nil {
		_ = a.child.Close()
		return errors.Wrap(err, "results failed")
	}
	a.cursor = newSliceCursor(results)
	a.log.Debug("aggregate materialized", "op", a.op.String(), "groups", len(results))
	a.markOpened()
	return nil
}

func (a *Aggregate) Rewind() error {
	if !a.opened {
		return common.ErrNotOpen
	}
	a.resetCache()
	a.cursor.reset()
	return errors.Wrap(a.child.Rewind(), "child Rewind failed")
}

func (a *Aggregate) Close() error {
	if !a.opened {
		return common.ErrNotOpen
	}
	a.markClosed()
	a.cursor = nil
	return errors.Wrap(a.child.Close(), "child Close failed")
}

// Schema returns (group, value) or (value)
// the value column is int named "<op>(<aggregate field name>)"
func (a *Aggregate) Schema() *tuple.Desc {
	return a.desc
}
