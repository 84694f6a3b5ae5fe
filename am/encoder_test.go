package am

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name          string
		ntuples       int
		expectedPages int
	}{
		{name: "no tuples", ntuples: 0, expectedPages: 0},
		{name: "partial page", ntuples: 3, expectedPages: 1},
		{name: "exactly full page", ntuples: 992, expectedPages: 1},
		{name: "spill to second page", ntuples: 993, expectedPages: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := Encode(&buf, tuple.TestingNewIntDesc(1), TestingIntTuples(1, tt.ntuples))
			require.Nil(t, err)
			assert.Equal(t, tt.expectedPages, n)
			assert.Equal(t, tt.expectedPages*page.PageSize, buf.Len())
		})
	}
}

func TestEncodeLeavesTuplesUntouched(t *testing.T) {
	tuples := TestingIntTuples(2, 3)
	var buf bytes.Buffer
	_, err := Encode(&buf, tuple.TestingNewIntDesc(2), tuples)
	require.Nil(t, err)
	for i, tup := range tuples {
		_, ok := tup.Tid()
		assert.False(t, ok)
		assert.True(t, tup.Equals(tuple.TestingNewIntTuple(i, i+1)))
	}
}

func TestParseCSV(t *testing.T) {
	desc, err := tuple.NewDesc([]tuple.Type{tuple.IntType, tuple.StringType}, []string{"id", "name"})
	require.Nil(t, err)

	t.Run("rows", func(t *testing.T) {
		tuples, err := ParseCSV(strings.NewReader("1, alice\n\n2,bob\n"), desc)
		require.Nil(t, err)
		require.Len(t, tuples, 2)
		expected, err := tuple.TestingNewTuple(desc, 1, "alice")
		require.Nil(t, err)
		assert.True(t, expected.Equals(tuples[0]))
	})
	t.Run("not int", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("x,alice\n"), desc)
		assert.ErrorIs(t, err, common.ErrConfiguration)
	})
	t.Run("wrong number of columns", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("1,alice,extra\n"), desc)
		assert.ErrorIs(t, err, common.ErrConfiguration)
	})
}
