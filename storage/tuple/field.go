package tuple

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/common"
)

// ErrTypeMismatch is returned when the field variant does not match the expected type
var ErrTypeMismatch = errors.WithMessage(common.ErrConfiguration, "field type mismatch")

// Field is field value. this is closed union of int and string.
// only the value of the variant which typ indicates is meaningful.
// Field is comparable so it can be used as map key (group by key)
type Field struct {
	typ Type
	i   int32
	s   string
}

// NewIntField returns int field
func NewIntField(v int32) Field {
	return Field{typ: IntType, i: v}
}

// NewStringField returns string field. the value longer than StringLength bytes is truncated
func NewStringField(v string) Field {
	if len(v) > StringLength {
		v = v[:StringLength]
	}
	return Field{typ: StringType, s: v}
}

// zeroField returns zero value field of the type
func zeroField(t Type) Field {
	return Field{typ: t}
}

// Type returns field type
func (f Field) Type() Type {
	return f.typ
}

// Int returns the int value
func (f Field) Int() (int32, error) {
	if f.typ != IntType {
		return 0, errors.Wrapf(ErrTypeMismatch, "expected int, got %s", f.typ)
	}
	return f.i, nil
}

// Str returns the string value
func (f Field) Str() (string, error) {
	if f.typ != StringType {
		return "", errors.Wrapf(ErrTypeMismatch, "expected string, got %s", f.typ)
	}
	return f.s, nil
}

func (f Field) String() string {
	switch f.typ {
	case IntType:
		return strconv.Itoa(int(f.i))
	case StringType:
		return f.s
	}
	return fmt.Sprintf("<invalid field %d>", f.typ)
}

// Op is comparison operator
type Op int

const (
	Equals Op = iota
	GreaterThan
	LessThan
	LessThanOrEq
	GreaterThanOrEq
	Like
	NotEquals
)

func (op Op) String() string {
	switch op {
	case Equals:
		return "="
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case LessThanOrEq:
		return "<="
	case GreaterThanOrEq:
		return ">="
	case Like:
		return "LIKE"
	case NotEquals:
		return "<>"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Compare evaluates `f op other`
// comparing fields of different types is an error.
// for int, LIKE is the same as equality. for string, LIKE is substring match.
func (f Field) Compare(op Op, other Field) (bool, error) {
	if f.typ != other.typ {
		return false, errors.Wrapf(ErrTypeMismatch, "cannot compare %s with %s", f.typ, other.typ)
	}
	var c int
	switch f.typ {
	case IntType:
		if op == Like {
			return f.i == other.i, nil
		}
		switch {
		case f.i < other.i:
			c = -1
		case f.i > other.i:
			c = 1
		}
	case StringType:
		if op == Like {
			return strings.Contains(f.s, other.s), nil
		}
		c = strings.Compare(f.s, other.s)
	default:
		return false, errors.Errorf("unknown field type: %d", f.typ)
	}

	switch op {
	case Equals:
		return c == 0, nil
	case NotEquals:
		return c != 0, nil
	case GreaterThan:
		return c > 0, nil
	case GreaterThanOrEq:
		return c >= 0, nil
	case LessThan:
		return c < 0, nil
	case LessThanOrEq:
		return c <= 0, nil
	}
	return false, errors.Errorf("unknown operator: %d", int(op))
}

// encode writes the field into dst. dst must be at least f.typ.Len() bytes
func (f Field) encode(dst []byte) {
	switch f.typ {
	case IntType:
		binary.BigEndian.PutUint32(dst[0:4], uint32(f.i))
	case StringType:
		binary.BigEndian.PutUint32(dst[0:4], uint32(len(f.s)))
		n := copy(dst[4:4+StringLength], f.s)
		// zero padding
		for i := 4 + n; i < 4+StringLength; i++ {
			dst[i] = 0
		}
	}
}

// decodeField reads the field of type t from src
func decodeField(t Type, src []byte) (Field, error) {
	if len(src) < t.Len() {
		return Field{}, errors.Errorf("short buffer for %s: %d bytes", t, len(src))
	}
	switch t {
	case IntType:
		return NewIntField(int32(binary.BigEndian.Uint32(src[0:4]))), nil
	case StringType:
		n := binary.BigEndian.Uint32(src[0:4])
		if n > StringLength {
			return Field{}, errors.Errorf("string length %d exceeds %d", n, StringLength)
		}
		return NewStringField(string(src[4 : 4+n])), nil
	}
	return Field{}, errors.Errorf("unknown field type: %d", t)
}
