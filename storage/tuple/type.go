/*
Tuple is one record of a table. Tuple in this package is in-memory representation,
and the on-disk representation is fixed-width slot within heap page (see /storage/page/slot.go).

Every field type has fixed byte length, so tuple size is the sum of its field types' lengths and
the slot of any tuple of one table has the same width.
- int: 4 bytes, big endian signed integer
- string: 4 bytes big endian length followed by StringLength bytes payload padded with zero

Desc (tuple descriptor) is the schema of tuple and is immutable once constructed.
Tuple is mutable at the field level but its arity and types are fixed by the Desc.
The operator which produced the tuple owns it, and the operator must not mutate it after returning it.
*/
package tuple

import (
	"fmt"

	"github.com/pkg/errors"
)

// Type is field type
type Type uint8

const (
	// IntType is 32 bit signed integer
	IntType Type = iota
	// StringType is fixed capacity string
	StringType
)

// StringLength is the max byte length of string field
// longer string is truncated when the field is constructed
const StringLength = 128

// Len returns the byte length of the encoded field of this type
func (t Type) Len() int {
	switch t {
	case IntType:
		return 4
	case StringType:
		return 4 + StringLength
	}
	panic(fmt.Sprintf("unknown type: %d", t))
}

func (t Type) String() string {
	switch t {
	case IntType:
		return "int"
	case StringType:
		return "string"
	}
	return fmt.Sprintf("Type(%d)", t)
}

// ParseType parses type name, which is the same as String()
func ParseType(s string) (Type, error) {
	switch s {
	case "int":
		return IntType, nil
	case "string":
		return StringType, nil
	}
	return 0, errors.Errorf("unknown type name: %q", s)
}
