package am

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// Encode writes the tuples as heap file image, packing pages in order
// this bypasses buffer manager, so it is used to build table files offline.
// it returns the number of pages written. zero tuples produce zero pages.
func Encode(w io.Writer, desc *tuple.Desc, tuples []*tuple.Tuple) (int, error) {
	if page.CalculateSlotCount(desc.Size()) == 0 {
		return 0, errors.Wrapf(common.ErrConfiguration, "tuple size %d does not fit in one page", desc.Size())
	}
	var (
		hp    *HeapPage
		pages int
	)
	flush := func() error {
		p := hp.Bytes()
		if _, err := w.Write(p[:]); err != nil {
			return errors.Wrap(err, "Write failed")
		}
		pages++
		hp = nil
		return nil
	}
	for _, tup := range tuples {
		if hp == nil {
			hp = newEmptyHeapPage(page.NewPageID(common.InvalidRelation, page.PageNumber(pages)), desc)
		}
		if _, err := hp.insertTuple(tup); err != nil {
			return pages, errors.Wrap(err, "insertTuple failed")
		}
		if hp.NumEmptySlots() == 0 {
			if err := flush(); err != nil {
				return pages, err
			}
		}
	}
	if hp != nil {
		if err := flush(); err != nil {
			return pages, err
		}
	}
	return pages, nil
}

// ParseCSV reads comma separated rows whose columns follow desc
// surrounding spaces of each value are trimmed. empty lines are skipped.
func ParseCSV(r io.Reader, desc *tuple.Desc) ([]*tuple.Tuple, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = desc.NumFields()
	cr.TrimLeadingSpace = true

	var tuples []*tuple.Tuple
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(common.ErrConfiguration, err.Error())
		}
		tup := tuple.New(desc)
		for i, v := range record {
			f, err := parseField(desc, i, strings.TrimSpace(v))
			if err != nil {
				return nil, errors.Wrapf(err, "row %d", len(tuples)+1)
			}
			if err := tup.SetField(i, f); err != nil {
				return nil, errors.Wrap(err, "SetField failed")
			}
		}
		tuples = append(tuples, tup)
	}
	return tuples, nil
}

func parseField(desc *tuple.Desc, i int, v string) (tuple.Field, error) {
	typ, err := desc.FieldType(i)
	if err != nil {
		return tuple.Field{}, errors.Wrap(err, "FieldType failed")
	}
	switch typ {
	case tuple.IntType:
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return tuple.Field{}, errors.Wrapf(common.ErrConfiguration, "column %d: %q is not int", i, v)
		}
		return tuple.NewIntField(int32(n)), nil
	default:
		return tuple.NewStringField(v), nil
	}
}
