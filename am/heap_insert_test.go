package am

import (
	"testing"

	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/buffer"
	"github.com/sigma65535/simple-db-hw-2021/storage/disk"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
	"github.com/sigma65535/simple-db-hw-2021/transaction"
	"github.com/sigma65535/simple-db-hw-2021/transaction/txid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestInsertTuple(t *testing.T) {
	t.Run("empty file is extended", func(t *testing.T) {
		hf, err := TestingNewHeapFile("t.dat", tuple.TestingNewIntDesc(1), nil)
		require.Nil(t, err)
		tup := tuple.TestingNewIntTuple(42)
		tid, err := hf.InsertTuple(txid.FirstTxID, tup)
		require.Nil(t, err)
		assert.Equal(t, tuple.NewTid(hf.pageID(0), 0), tid)
		got, ok := tup.Tid()
		assert.True(t, ok)
		assert.Equal(t, tid, got)

		// later changes to the argument do not reach the cached page
		require.Nil(t, tup.SetField(0, tuple.NewIntField(43)))
		it := hf.Iterator(txid.FirstTxID)
		require.Nil(t, it.Open())
		scanned, err := it.Next()
		require.Nil(t, err)
		assert.True(t, scanned.Equals(tuple.TestingNewIntTuple(42)))
		require.Nil(t, it.Close())

		n, err := hf.NumPages()
		require.Nil(t, err)
		assert.Equal(t, 1, n)
		// the page is dirty in buffer and not yet flushed
		bm := hf.TestingBufferManager()
		assert.True(t, bm.IsResident(hf.pageID(0)))
		assert.Equal(t, 0, bm.PinCount(hf.pageID(0)))
		perm, ok := bm.Permission(txid.FirstTxID, hf.pageID(0))
		assert.True(t, ok)
		assert.Equal(t, transaction.PermReadWrite, perm)
	})
	t.Run("full page is skipped", func(t *testing.T) {
		hf, err := TestingNewHeapFile("t.dat", tuple.TestingNewIntDesc(2), TestingIntTuples(2, 504))
		require.Nil(t, err)
		tid, err := hf.InsertTuple(txid.FirstTxID, tuple.TestingNewIntTuple(1, 2))
		require.Nil(t, err)
		assert.Equal(t, tuple.NewTid(hf.pageID(1), 0), tid)
	})
	t.Run("room in earlier page is used first", func(t *testing.T) {
		hf, err := TestingNewHeapFile("t.dat", tuple.TestingNewIntDesc(2), TestingIntTuples(2, 504*2))
		require.Nil(t, err)
		victim := firstTuple(t, hf)
		require.Nil(t, hf.DeleteTuple(txid.FirstTxID, victim))

		tid, err := hf.InsertTuple(txid.FirstTxID, tuple.TestingNewIntTuple(-1, -1))
		require.Nil(t, err)
		assert.Equal(t, tuple.NewTid(hf.pageID(0), 0), tid)
		n, err := hf.NumPages()
		require.Nil(t, err)
		assert.Equal(t, 2, n)
	})
	t.Run("type mismatch", func(t *testing.T) {
		hf, err := TestingNewHeapFile("t.dat", tuple.TestingNewIntDesc(1), nil)
		require.Nil(t, err)
		_, err = hf.InsertTuple(txid.FirstTxID, tuple.TestingNewIntTuple(1, 2))
		assert.ErrorIs(t, err, tuple.ErrTypeMismatch)
		n, err := hf.NumPages()
		require.Nil(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestInsertTupleVisibleToScan(t *testing.T) {
	dm := disk.TestingNewMemoryManager()
	bm := buffer.NewManager(buffer.WithCapacity(2))
	hf, err := TestingNewHeapFileOn(dm, bm, "t.dat", tuple.TestingNewIntDesc(1), nil)
	require.Nil(t, err)

	// more tuples than one page holds, with fewer buffers than pages, so dirty pages are evicted
	n := 992*3 + 1
	for i := 0; i < n; i++ {
		_, err := hf.InsertTuple(txid.FirstTxID, tuple.TestingNewIntTuple(i))
		require.Nil(t, err)
	}
	it := hf.Iterator(txid.FirstTxID)
	require.Nil(t, it.Open())
	got := drain(t, it)
	require.Nil(t, it.Close())
	require.Len(t, got, n)
	for i, tup := range got {
		f, err := tup.Field(0)
		require.Nil(t, err)
		v, err := f.Int()
		require.Nil(t, err)
		assert.Equal(t, int32(i), v)
	}

	// after flush, a fresh buffer manager reads the same tuples from disk
	require.Nil(t, bm.FlushAllPages())
	reopened, err := NewHeapFile("t.dat", tuple.TestingNewIntDesc(1), dm, buffer.NewManager())
	require.Nil(t, err)
	it = reopened.Iterator(txid.FirstTxID)
	require.Nil(t, it.Open())
	assert.Len(t, drain(t, it), n)
	require.Nil(t, it.Close())
}

func TestInsertTupleConcurrently(t *testing.T) {
	hf, err := TestingNewHeapFile("t.dat", tuple.TestingNewIntDesc(1), nil)
	require.Nil(t, err)

	var eg errgroup.Group
	for w := 0; w < 4; w++ {
		w := w
		eg.Go(func() error {
			for i := 0; i < 500; i++ {
				if _, err := hf.InsertTuple(txid.TxID(w+1), tuple.TestingNewIntTuple(w*1000+i)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.Nil(t, eg.Wait())

	it := hf.Iterator(txid.FirstTxID)
	require.Nil(t, it.Open())
	got := drain(t, it)
	require.Nil(t, it.Close())
	assert.Len(t, got, 2000)
	n, err := hf.NumPages()
	require.Nil(t, err)
	assert.Equal(t, 3, n)
}

func TestDeleteTuple(t *testing.T) {
	hf, err := TestingNewHeapFile("t.dat", tuple.TestingNewIntDesc(1), TestingIntTuples(1, 3))
	require.Nil(t, err)

	t.Run("deleted tuple is not scanned", func(t *testing.T) {
		victim := firstTuple(t, hf)
		require.Nil(t, hf.DeleteTuple(txid.FirstTxID, victim))
		it := hf.Iterator(txid.FirstTxID)
		require.Nil(t, it.Open())
		got := drain(t, it)
		require.Nil(t, it.Close())
		require.Len(t, got, 2)
		assert.True(t, got[0].Equals(tuple.TestingNewIntTuple(1)))
	})
	t.Run("delete twice", func(t *testing.T) {
		tup := tuple.TestingNewIntTuple(0)
		tup.SetTid(tuple.NewTid(hf.pageID(0), 0))
		err := hf.DeleteTuple(txid.FirstTxID, tup)
		assert.ErrorIs(t, err, ErrTupleNotFound)
		assert.ErrorIs(t, err, common.ErrStorage)
	})
	t.Run("tuple without tid", func(t *testing.T) {
		err := hf.DeleteTuple(txid.FirstTxID, tuple.TestingNewIntTuple(1))
		assert.ErrorIs(t, err, ErrTupleNotFound)
	})
	t.Run("tuple of other relation", func(t *testing.T) {
		tup := tuple.TestingNewIntTuple(1)
		tup.SetTid(tuple.NewTid(page.NewPageID(hf.ID()+1, 0), 1))
		err := hf.DeleteTuple(txid.FirstTxID, tup)
		assert.ErrorIs(t, err, ErrTupleNotFound)
	})
	t.Run("abort discards delete", func(t *testing.T) {
		hf, err := TestingNewHeapFile("u.dat", tuple.TestingNewIntDesc(1), TestingIntTuples(1, 3))
		require.Nil(t, err)
		tx := txid.TxID(7)
		require.Nil(t, hf.DeleteTuple(tx, firstTuple(t, hf)))
		require.Nil(t, hf.TestingBufferManager().TransactionComplete(tx, false))

		it := hf.Iterator(txid.FirstTxID)
		require.Nil(t, it.Open())
		assert.Len(t, drain(t, it), 3)
		require.Nil(t, it.Close())
	})
}

func firstTuple(t *testing.T, hf *HeapFile) *tuple.Tuple {
	t.Helper()
	it := hf.Iterator(txid.FirstTxID)
	require.Nil(t, it.Open())
	tup, err := it.Next()
	require.Nil(t, err)
	require.Nil(t, it.Close())
	return tup
}
