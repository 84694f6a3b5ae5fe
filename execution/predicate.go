package execution

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// Predicate compares a field of tuple with constant operand
type Predicate struct {
	field   int
	op      tuple.Op
	operand tuple.Field
}

func NewPredicate(field int, op tuple.Op, operand tuple.Field) *Predicate {
	return &Predicate{
		field:   field,
		op:      op,
		operand: operand,
	}
}

// Filter evaluates `t[field] op operand`
func (p *Predicate) Filter(t *tuple.Tuple) (bool, error) {
	f, err := t.Field(p.field)
	if err != nil {
		return false, errors.Wrap(err, "Field failed")
	}
	return f.Compare(p.op, p.operand)
}

func (p *Predicate) String() string {
	return fmt.Sprintf("f%d %s %s", p.field, p.op, p.operand)
}

// JoinPredicate decides whether the pair of tuples is joined
type JoinPredicate interface {
	Matches(left, right *tuple.Tuple) (bool, error)
}

// JoinPredicateFunc adapts function to JoinPredicate
type JoinPredicateFunc func(left, right *tuple.Tuple) (bool, error)

func (fn JoinPredicateFunc) Matches(left, right *tuple.Tuple) (bool, error) {
	return fn(left, right)
}

// FieldJoinPredicate compares a field of left tuple with a field of right tuple
type FieldJoinPredicate struct {
	field1 int
	op     tuple.Op
	field2 int
}

func NewFieldJoinPredicate(field1 int, op tuple.Op, field2 int) *FieldJoinPredicate {
	return &FieldJoinPredicate{
		field1: field1,
		op:     op,
		field2: field2,
	}
}

// Matches evaluates `left[field1] op right[field2]`
func (p *FieldJoinPredicate) Matches(left, right *tuple.Tuple) (bool, error) {
	l, err := left.Field(p.field1)
	if err != nil {
		return false, errors.Wrap(err, "left Field failed")
	}
	r, err := right.Field(p.field2)
	if err != nil {
		return false, errors.Wrap(err, "right Field failed")
	}
	return l.Compare(p.op, r)
}

func (p *FieldJoinPredicate) String() string {
	return fmt.Sprintf("left.f%d %s right.f%d", p.field1, p.op, p.field2)
}
