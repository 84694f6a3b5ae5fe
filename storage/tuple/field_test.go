package tuple

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
	"github.com/stretchr/testify/assert"
)

func TestFieldCompare(t *testing.T) {
	tests := []struct {
		name     string
		left     Field
		op       Op
		right    Field
		expected bool
	}{
		{name: "int equals", left: NewIntField(1), op: Equals, right: NewIntField(1), expected: true},
		{name: "int not equals", left: NewIntField(1), op: NotEquals, right: NewIntField(1), expected: false},
		{name: "int greater than", left: NewIntField(2), op: GreaterThan, right: NewIntField(1), expected: true},
		{name: "int less than or equal", left: NewIntField(1), op: LessThanOrEq, right: NewIntField(1), expected: true},
		{name: "negative int less than", left: NewIntField(-5), op: LessThan, right: NewIntField(3), expected: true},
		{name: "int like is equality", left: NewIntField(4), op: Like, right: NewIntField(4), expected: true},
		{name: "string equals", left: NewStringField("x"), op: Equals, right: NewStringField("x"), expected: true},
		{name: "string greater or equal", left: NewStringField("b"), op: GreaterThanOrEq, right: NewStringField("a"), expected: true},
		{name: "string like substring", left: NewStringField("hello"), op: Like, right: NewStringField("ell"), expected: true},
		{name: "string like mismatch", left: NewStringField("hello"), op: Like, right: NewStringField("xyz"), expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.left.Compare(tt.op, tt.right)
			assert.Nil(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFieldCompareTypeMismatch(t *testing.T) {
	_, err := NewIntField(1).Compare(Equals, NewStringField("1"))
	assert.True(t, errors.Is(err, ErrTypeMismatch))
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestFieldAccessors(t *testing.T) {
	i := NewIntField(42)
	v, err := i.Int()
	assert.Nil(t, err)
	assert.Equal(t, int32(42), v)
	_, err = i.Str()
	assert.NotNil(t, err)

	s := NewStringField("abc")
	str, err := s.Str()
	assert.Nil(t, err)
	assert.Equal(t, "abc", str)
	_, err = s.Int()
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestStringFieldTruncated(t *testing.T) {
	long := strings.Repeat("a", StringLength+10)
	f := NewStringField(long)
	str, err := f.Str()
	assert.Nil(t, err)
	assert.Equal(t, StringLength, len(str))
}

func TestFieldEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		field Field
	}{
		{name: "positive int", field: NewIntField(12345)},
		{name: "negative int", field: NewIntField(-7)},
		{name: "empty string", field: NewStringField("")},
		{name: "string", field: NewStringField("simpledb")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.field.Type().Len())
			tt.field.encode(buf)
			got, err := decodeField(tt.field.Type(), buf)
			assert.Nil(t, err)
			assert.Equal(t, tt.field, got)
		})
	}
}

func TestIntFieldBigEndian(t *testing.T) {
	buf := make([]byte, 4)
	NewIntField(1).encode(buf)
	assert.Equal(t, []byte{0, 0, 0, 1}, buf)
}

func TestDecodeFieldInvalidStringLength(t *testing.T) {
	buf := make([]byte, StringType.Len())
	buf[3] = StringLength + 1
	_, err := decodeField(StringType, buf)
	assert.NotNil(t, err)
}
