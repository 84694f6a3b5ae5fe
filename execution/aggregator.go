package execution

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// NoGrouping is the group field index meaning all tuples belong to one group
const NoGrouping = -1

// ErrUnsupportedAggregate is returned when the aggregate is not defined for the column type
var ErrUnsupportedAggregate = errors.WithMessage(common.ErrConfiguration, "unsupported aggregate")

// AggregateOp is the kind of aggregate
type AggregateOp uint8

const (
	Sum AggregateOp = iota
	Count
	Min
	Max
	Avg
)

func (op AggregateOp) String() string {
	switch op {
	case Sum:
		return "sum"
	case Count:
		return "count"
	case Min:
		return "min"
	case Max:
		return "max"
	case Avg:
		return "avg"
	default:
		return "unknown"
	}
}

func (op AggregateOp) isValid() bool {
	return op <= Avg
}

// ParseAggregateOp parses the aggregate name, case-insensitively
func ParseAggregateOp(s string) (AggregateOp, error) {
	for op := Sum; op <= Avg; op++ {
		if strings.EqualFold(s, op.String()) {
			return op, nil
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedAggregate, "unknown aggregate %q", s)
}

// accumulator is the running state of one group
// avg is sum/count at any point, so the raw values are not kept
type accumulator struct {
	sum   int64
	count int64
	min   int32
	max   int32
}

func newAccumulator() *accumulator {
	return &accumulator{
		min: math.MaxInt32,
		max: math.MinInt32,
	}
}

func (acc *accumulator) add(v int32) {
	acc.sum += int64(v)
	acc.count++
	if v < acc.min {
		acc.min = v
	}
	if v > acc.max {
		acc.max = v
	}
}

// value returns the aggregate value. sum wraps around like int32 addition
func (acc *accumulator) value(op AggregateOp) int32 {
	switch op {
	case Sum:
		return int32(acc.sum)
	case Count:
		return int32(acc.count)
	case Min:
		return acc.min
	case Max:
		return acc.max
	case Avg:
		if acc.count == 0 {
			return 0
		}
		// integer division truncates toward zero
		return int32(acc.sum / acc.count)
	default:
		return 0
	}
}

// aggregator groups tuples and keeps accumulator per group in first-seen order
type aggregator struct {
	gField int
	aField int
	op     AggregateOp
	groups map[tuple.Field]*accumulator
	order  []tuple.Field
}

func newAggregator(gField, aField int, op AggregateOp) *aggregator {
	return &aggregator{
		gField: gField,
		aField: aField,
		op:     op,
		groups: make(map[tuple.Field]*accumulator),
	}
}

// merge adds the tuple to its group
func (agg *aggregator) merge(t *tuple.Tuple) error {
	var key tuple.Field
	if agg.gField != NoGrouping {
		f, err := t.Field(agg.gField)
		if err != nil {
			return errors.Wrap(err, "group Field failed")
		}
		key = f
	}
	f, err := t.Field(agg.aField)
	if err != nil {
		return errors.Wrap(err, "aggregate Field failed")
	}

	acc, ok := agg.groups[key]
	if !ok {
		acc = newAccumulator()
		agg.groups[key] = acc
		agg.order = append(agg.order, key)
	}
	if f.Type() != tuple.IntType {
		if agg.op != Count {
			return errors.Wrapf(ErrUnsupportedAggregate, "%s over %s column", agg.op, f.Type())
		}
		acc.count++
		return nil
	}
	v, err := f.Int()
	if err != nil {
		return errors.Wrap(err, "Int failed")
	}
	acc.add(v)
	return nil
}

// results builds one tuple per group: (group, value), or (value) without grouping
func (agg *aggregator) results(desc *tuple.Desc) ([]*tuple.Tuple, error) {
	tuples := make([]*tuple.Tuple, 0, len(agg.order))
	for _, key := range agg.order {
		t := tuple.New(desc)
		i := 0
		if agg.gField != NoGrouping {
			if err := t.SetField(0, key); err != nil {
				return nil, errors.Wrap(err, "SetField failed")
			}
			i = 1
		}
		if err := t.SetField(i, tuple.NewIntField(agg.groups[key].value(agg.op))); err != nil {
			return nil, errors.Wrap(err, "SetField failed")
		}
		tuples = append(tuples, t)
	}
	return tuples, nil
}
