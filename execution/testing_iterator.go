package execution

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// TestingNewTupleIterator builds iterator from rows of go values (int or string)
func TestingNewTupleIterator(desc *tuple.Desc, rows ...[]any) (*TupleIterator, error) {
	tuples := make([]*tuple.Tuple, len(rows))
	for i, row := range rows {
		t, err := tuple.TestingNewTuple(desc, row...)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		tuples[i] = t
	}
	return NewTupleIterator(desc, tuples)
}

// TestingDesc builds descriptor from types and names
func TestingDesc(types []tuple.Type, names []string) *tuple.Desc {
	desc, err := tuple.NewDesc(types, names)
	if err != nil {
		panic(err)
	}
	return desc
}

// TestingCountingIterator counts the calls to the wrapped iterator
type TestingCountingIterator struct {
	OpIterator
	Opens   int
	Nexts   int
	Rewinds int
	Closes  int
}

func (it *TestingCountingIterator) Open() error {
	it.Opens++
	return it.OpIterator.Open()
}

func (it *TestingCountingIterator) Next() (*tuple.Tuple, error) {
	it.Nexts++
	return it.OpIterator.Next()
}

func (it *TestingCountingIterator) Rewind() error {
	it.Rewinds++
	return it.OpIterator.Rewind()
}

func (it *TestingCountingIterator) Close() error {
	it.Closes++
	return it.OpIterator.Close()
}
