package execution

import (
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/am"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
	"github.com/sigma65535/simple-db-hw-2021/transaction/txid"
)

// SeqScan scans heap file on behalf of the transaction
// the schema is the table's, with every field name prefixed by "<alias>."
// returned tuples are shared with the buffer cache. operators above must not modify them.
type SeqScan struct {
	operator
	hf    *am.HeapFile
	alias string
	desc  *tuple.Desc
	it    *am.HeapFileIterator
}

// NewSeqScan initializes sequential scan
// when alias is empty, field names are kept as they are
func NewSeqScan(txID txid.TxID, hf *am.HeapFile, alias string) (*SeqScan, error) {
	desc, err := aliasDesc(hf.Desc(), alias)
	if err != nil {
		return nil, errors.Wrap(err, "aliasDesc failed")
	}
	s := &SeqScan{
		hf:    hf,
		alias: alias,
		desc:  desc,
		it:    hf.Iterator(txID),
	}
	s.readNext = s.fetchNext
	return s, nil
}

func aliasDesc(desc *tuple.Desc, alias string) (*tuple.Desc, error) {
	if alias == "" {
		return desc, nil
	}
	items := desc.Items()
	types := make([]tuple.Type, len(items))
	names := make([]string, len(items))
	for i, item := range items {
		types[i] = item.Type
		names[i] = alias + "." + item.Name
	}
	return tuple.NewDesc(types, names)
}

func (s *SeqScan) fetchNext() (*tuple.Tuple, error) {
	ok, err := s.it.HasNext()
	if err != nil {
		return nil, errors.Wrap(err, "HasNext failed")
	}
	if !ok {
		return nil, nil
	}
	t, err := s.it.Next()
	if err != nil {
		return nil, errors.Wrap(err, "Next failed")
	}
	return t, nil
}

// Alias returns the table alias
func (s *SeqScan) Alias() string {
	return s.alias
}

func (s *SeqScan) Open() error {
	if s.opened {
		return common.ErrAlreadyOpen
	}
	if err := s.it.Open(); err != nil {
		return errors.Wrap(err, "heap file iterator Open failed")
	}
	s.markOpened()
	return nil
}

func (s *SeqScan) Rewind() error {
	if !s.opened {
		return common.ErrNotOpen
	}
	s.resetCache()
	if err := s.it.Rewind(); err != nil {
		return errors.Wrap(err, "heap file iterator Rewind failed")
	}
	return nil
}

func (s *SeqScan) Close() error {
	if !s.opened {
		return common.ErrNotOpen
	}
	s.markClosed()
	if err := s.it.Close(); err != nil {
		return errors.Wrap(err, "heap file iterator Close failed")
	}
	return nil
}

func (s *SeqScan) Schema() *tuple.Desc {
	return s.desc
}
