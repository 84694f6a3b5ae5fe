package tuple

import "github.com/pkg/errors"

// TestingNewIntDesc returns descriptor of n unnamed int columns
func TestingNewIntDesc(n int) *Desc {
	types := make([]Type, n)
	for i := range types {
		types[i] = IntType
	}
	desc, err := NewDesc(types, nil)
	if err != nil {
		panic(err)
	}
	return desc
}

// TestingNewTuple builds tuple from go values. int and string are supported
func TestingNewTuple(desc *Desc, values ...any) (*Tuple, error) {
	if len(values) != desc.NumFields() {
		return nil, errors.Errorf("%d values for %d fields", len(values), desc.NumFields())
	}
	tup := New(desc)
	for i, v := range values {
		var f Field
		switch v := v.(type) {
		case int:
			f = NewIntField(int32(v))
		case int32:
			f = NewIntField(v)
		case string:
			f = NewStringField(v)
		default:
			return nil, errors.Errorf("unsupported value type %T", v)
		}
		if err := tup.SetField(i, f); err != nil {
			return nil, errors.Wrap(err, "SetField failed")
		}
	}
	return tup, nil
}

// TestingNewIntTuple builds tuple of int columns
func TestingNewIntTuple(values ...int) *Tuple {
	desc := TestingNewIntDesc(len(values))
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	tup, err := TestingNewTuple(desc, args...)
	if err != nil {
		panic(err)
	}
	return tup
}
