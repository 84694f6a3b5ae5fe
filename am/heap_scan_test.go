package am

import (
	"bytes"
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
)

func drain(t *testing.T, it *HeapFileIterator) []*tuple.Tuple {
	t.Helper()
	var tuples []*tuple.Tuple
	for {
		ok, err := it.HasNext()
		require.Nil(t, err)
		if !ok {
			return tuples
		}
		tup, err := it.Next()
		require.Nil(t, err)
		tuples = append(tuples, tup)
	}
}

func TestHeapFileIterator(t *testing.T) {
	tests := []struct {
		name    string
		ntuples int
	}{
		{name: "empty file", ntuples: 0},
		{name: "one page", ntuples: 10},
		{name: "multiple pages", ntuples: 504*3 + 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := TestingIntTuples(2, tt.ntuples)
			hf, err := TestingNewHeapFile("t.dat", tuple.TestingNewIntDesc(2), expected)
			require.Nil(t, err)

			it := hf.Iterator(txid.FirstTxID)
			require.Nil(t, it.Open())
			got := drain(t, it)
			require.Len(t, got, len(expected))
			for i := range expected {
				assert.True(t, expected[i].Equals(got[i]), "tuple %d", i)
			}
			_, err = it.Next()
			assert.ErrorIs(t, err, common.ErrNoMoreElements)
			assert.Nil(t, it.Close())
		})
	}
}

func TestHeapFileIteratorSkipsEmptySlots(t *testing.T) {
	desc := tuple.TestingNewIntDesc(1)
	hf, err := TestingNewHeapFile("t.dat", desc, nil)
	require.Nil(t, err)

	// page 0 keeps slots 0 and 2, page 1 keeps nothing, page 2 keeps slot 5
	kept := []map[int]bool{{0: true, 2: true}, {}, {5: true}}
	for num, slots := range kept {
		hp := newEmptyHeapPage(hf.pageID(page.PageNumber(num)), desc)
		for i := 0; i <= 5; i++ {
			_, err := hp.insertTuple(tuple.TestingNewIntTuple(num*10 + i))
			require.Nil(t, err)
		}
		for i := 0; i <= 5; i++ {
			if !slots[i] {
				require.Nil(t, hp.deleteTuple(page.SlotIndex(i)))
			}
		}
		require.Nil(t, hf.WritePage(hp))
	}

	it := hf.Iterator(txid.FirstTxID)
	require.Nil(t, it.Open())
	got := drain(t, it)
	require.Len(t, got, 3)
	assert.True(t, got[0].Equals(tuple.TestingNewIntTuple(0)))
	assert.True(t, got[1].Equals(tuple.TestingNewIntTuple(2)))
	assert.True(t, got[2].Equals(tuple.TestingNewIntTuple(25)))
	assert.Nil(t, it.Close())
}

func TestHeapFileIteratorProtocol(t *testing.T) {
	hf, err := TestingNewHeapFile("t.dat", tuple.TestingNewIntDesc(1), TestingIntTuples(1, 3))
	require.Nil(t, err)

	t.Run("not open", func(t *testing.T) {
		it := hf.Iterator(txid.FirstTxID)
		_, err := it.HasNext()
		assert.ErrorIs(t, err, common.ErrNotOpen)
		_, err = it.Next()
		assert.ErrorIs(t, err, common.ErrNotOpen)
		assert.ErrorIs(t, it.Rewind(), common.ErrNotOpen)
		assert.ErrorIs(t, it.Close(), common.ErrNotOpen)
	})
	t.Run("after close", func(t *testing.T) {
		it := hf.Iterator(txid.FirstTxID)
		require.Nil(t, it.Open())
		require.Nil(t, it.Close())
		_, err := it.Next()
		assert.ErrorIs(t, err, common.ErrNotOpen)
	})
	t.Run("open twice", func(t *testing.T) {
		it := hf.Iterator(txid.FirstTxID)
		require.Nil(t, it.Open())
		assert.ErrorIs(t, it.Open(), common.ErrAlreadyOpen)
		require.Nil(t, it.Close())
	})
	t.Run("HasNext does not advance", func(t *testing.T) {
		it := hf.Iterator(txid.FirstTxID)
		require.Nil(t, it.Open())
		for i := 0; i < 3; i++ {
			ok, err := it.HasNext()
			require.Nil(t, err)
			assert.True(t, ok)
		}
		tup, err := it.Next()
		require.Nil(t, err)
		assert.True(t, tup.Equals(tuple.TestingNewIntTuple(0)))
		require.Nil(t, it.Close())
	})
	t.Run("rewind", func(t *testing.T) {
		it := hf.Iterator(txid.FirstTxID)
		require.Nil(t, it.Open())
		first := drain(t, it)
		require.Nil(t, it.Rewind())
		second := drain(t, it)
		assert.Equal(t, len(first), len(second))
		for i := range first {
			assert.True(t, first[i].Equals(second[i]))
		}
		require.Nil(t, it.Close())
	})
	t.Run("reopen after close", func(t *testing.T) {
		it := hf.Iterator(txid.FirstTxID)
		require.Nil(t, it.Open())
		first := drain(t, it)
		require.Nil(t, it.Close())
		require.Nil(t, it.Open())
		second := drain(t, it)
		assert.Equal(t, len(first), len(second))
		require.Nil(t, it.Close())
	})
}

func TestHeapFileIteratorOpenFailure(t *testing.T) {
	desc := tuple.TestingNewIntDesc(1)
	hf, err := TestingNewHeapFile("t.dat", desc, TestingIntTuples(1, 3))
	require.Nil(t, err)
	dm := hf.TestingDiskManager()
	require.Nil(t, dm.TestingTruncate(hf.Path(), 100))

	it := hf.Iterator(txid.FirstTxID)
	err = it.Open()
	assert.ErrorIs(t, err, disk.ErrPageCorrupted)
	// the failed open leaves the iterator closed and nothing pinned
	assert.ErrorIs(t, it.Close(), common.ErrNotOpen)
	_, err = it.HasNext()
	assert.ErrorIs(t, err, common.ErrNotOpen)
	assert.Equal(t, 0, hf.TestingBufferManager().PinCount(hf.pageID(0)))

	// restore page 0 and open again
	var buf bytes.Buffer
	_, err = Encode(&buf, desc, TestingIntTuples(1, 3))
	require.Nil(t, err)
	p := page.NewPagePtr()
	copy(p[:], buf.Bytes())
	require.Nil(t, dm.WritePage(hf.Path(), page.FirstPageNumber, p, false))

	require.Nil(t, it.Open())
	got := drain(t, it)
	require.Len(t, got, 3)
	for i, tup := range got {
		assert.True(t, tup.Equals(tuple.TestingNewIntTuple(i)))
	}
	require.Nil(t, it.Close())
}

func TestHeapFileIteratorPins(t *testing.T) {
	dm := disk.TestingNewMemoryManager()
	// one buffer is enough, because scan pins only the current page
	bm := buffer.NewManager(buffer.WithCapacity(1))
	hf, err := TestingNewHeapFileOn(dm, bm, "t.dat", tuple.TestingNewIntDesc(2), TestingIntTuples(2, 504*3))
	require.Nil(t, err)

	it := hf.Iterator(txid.FirstTxID)
	require.Nil(t, it.Open())
	assert.Equal(t, 1, bm.PinCount(hf.pageID(0)))
	perm, ok := bm.Permission(txid.FirstTxID, hf.pageID(0))
	assert.True(t, ok)
	assert.Equal(t, transaction.PermReadOnly, perm)

	got := drain(t, it)
	assert.Len(t, got, 504*3)
	// every page has been unpinned at the end of scan
	assert.Equal(t, 0, bm.PinCount(hf.pageID(2)))
	require.Nil(t, it.Close())

	t.Run("close in the middle unpins", func(t *testing.T) {
		it := hf.Iterator(txid.FirstTxID)
		require.Nil(t, it.Open())
		_, err := it.Next()
		require.Nil(t, err)
		require.Nil(t, it.Close())
		assert.Equal(t, 0, bm.PinCount(hf.pageID(0)))
	})
}
