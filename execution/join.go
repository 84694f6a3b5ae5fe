package execution

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/logging"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

/*
Join is nested loop join.

Open() materializes every matching pair:
for each left tuple, the right child is scanned from the beginning to the end and rewound.
the output tuple is the left fields followed by the right fields, and the results are in (left, right) order.
join columns are not deduplicated.
*/
type Join struct {
	operator
	pred   JoinPredicate
	left   OpIterator
	right  OpIterator
	desc   *tuple.Desc
	cursor *sliceCursor[*tuple.Tuple]
	log    *slog.Logger
}

func NewJoin(pred JoinPredicate, left, right OpIterator) *Join {
	j := &Join{
		pred:  pred,
		left:  left,
		right: right,
		desc:  tuple.Merge(left.Schema(), right.Schema()),
		log:   logging.WithComponent("join"),
	}
	j.readNext = j.fetchNext
	return j
}

func (j *Join) fetchNext() (*tuple.Tuple, error) {
	t, ok := j.cursor.next()
	if !ok {
		return nil, nil
	}
	return t, nil
}

// Predicate returns the join predicate
func (j *Join) Predicate() JoinPredicate {
	return j.pred
}

func (j *Join) Open() error {
	if j.opened {
		return common.ErrAlreadyOpen
	}
	if err := j.left.Open(); err != nil {
		return errors.Wrap(err, "left Open failed")
	}
	if err := j.right.Open(); err != nil {
		_ = j.left.Close()
		return errors.Wrap(err, "right Open failed")
	}
	results, err := j.materialize()
	if err != nil {
		_ = j.left.Close()
		_ = j.right.Close()
		return errors.Wrap(err, "materialize failed")
	}
	j.cursor = newSliceCursor(results)
	j.log.Debug("join materialized", "rows", len(results))
	j.markOpened()
	return nil
}

func (j *Join) materialize() ([]*tuple.Tuple, error) {
	var results []*tuple.Tuple
	err := ForEach(j.left, func(l *tuple.Tuple) error {
		err := ForEach(j.right, func(r *tuple.Tuple) error {
			ok, err := j.pred.Matches(l, r)
			if err != nil {
				return errors.Wrap(err, "Matches failed")
			}
			if !ok {
				return nil
			}
			t, err := tuple.Combine(j.desc, l, r)
			if err != nil {
				return errors.Wrap(err, "tuple.Combine failed")
			}
			results = append(results, t)
			return nil
		})
		if err != nil {
			return err
		}
		return errors.Wrap(j.right.Rewind(), "right Rewind failed")
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (j *Join) Rewind() error {
	if !j.opened {
		return common.ErrNotOpen
	}
	j.resetCache()
	j.cursor.reset()
	if err := j.left.Rewind(); err != nil {
		return errors.Wrap(err, "left Rewind failed")
	}
	return errors.Wrap(j.right.Rewind(), "right Rewind failed")
}

func (j *Join) Close() error {
	if !j.opened {
		return common.ErrNotOpen
	}
	j.markClosed()
	j.cursor = nil
	lerr := j.left.Close()
	rerr := j.right.Close()
	if lerr != nil {
		return errors.Wrap(lerr, "left Close failed")
	}
	return errors.Wrap(rerr, "right Close failed")
}

// Schema returns the left schema followed by the right schema
func (j *Join) Schema() *tuple.Desc {
	return j.desc
}
