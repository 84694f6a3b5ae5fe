package tuple

import (
	"strings"

	"github.com/pkg/errors"
)

// Tuple is in-memory structure for tuple
type Tuple struct {
	desc   *Desc
	fields []Field
	// tid is the location on disk. this is set only when the tuple is read from a heap page
	tid    Tid
	hasTid bool
}

// New initializes tuple whose fields are zero values of the descriptor's types
func New(desc *Desc) *Tuple {
	fields := make([]Field, len(desc.items))
	for i, it := range desc.items {
		fields[i] = zeroField(it.Type)
	}
	return &Tuple{
		desc:   desc,
		fields: fields,
	}
}

// Copy returns a tuple with the same descriptor and fields. the tid is not carried over
func (t *Tuple) Copy() *Tuple {
	fields := make([]Field, len(t.fields))
	copy(fields, t.fields)
	return &Tuple{
		desc:   t.desc,
		fields: fields,
	}
}

// Desc returns the tuple descriptor
func (t *Tuple) Desc() *Desc {
	return t.desc
}

// Field returns i-th field
func (t *Tuple) Field(i int) (Field, error) {
	if i < 0 || i >= len(t.fields) {
		return Field{}, errors.Errorf("field index %d is out of range: %d fields", i, len(t.fields))
	}
	return t.fields[i], nil
}

// SetField sets i-th field. the field type must match the descriptor
func (t *Tuple) SetField(i int, f Field) error {
	if i < 0 || i >= len(t.fields) {
		return errors.Errorf("field index %d is out of range: %d fields", i, len(t.fields))
	}
	if expected := t.desc.items[i].Type; f.typ != expected {
		return errors.Wrapf(ErrTypeMismatch, "field %d expects %s, got %s", i, expected, f.typ)
	}
	t.fields[i] = f
	return nil
}

// Tid returns the location on disk. ok is false when the tuple was not read from disk
func (t *Tuple) Tid() (tid Tid, ok bool) {
	return t.tid, t.hasTid
}

// SetTid sets the location on disk
func (t *Tuple) SetTid(tid Tid) {
	t.tid = tid
	t.hasTid = true
}

// Combine returns new tuple whose fields are left's fields followed by right's fields
// desc must be Merge(left.Desc(), right.Desc()), which is passed to avoid merging per tuple
func Combine(desc *Desc, left, right *Tuple) (*Tuple, error) {
	if len(desc.items) != len(left.fields)+len(right.fields) {
		return nil, errors.Errorf("descriptor has %d fields, but tuples have %d and %d fields",
			len(desc.items), len(left.fields), len(right.fields))
	}
	tup := &Tuple{
		desc:   desc,
		fields: make([]Field, 0, len(desc.items)),
	}
	tup.fields = append(tup.fields, left.fields...)
	tup.fields = append(tup.fields, right.fields...)
	for i, f := range tup.fields {
		if f.typ != desc.items[i].Type {
			return nil, errors.Wrapf(ErrTypeMismatch, "field %d expects %s, got %s", i, desc.items[i].Type, f.typ)
		}
	}
	return tup, nil
}

// Equals compares fields one by one. tid is ignored.
func (t *Tuple) Equals(other *Tuple) bool {
	if other == nil || len(t.fields) != len(other.fields) {
		return false
	}
	for i := range t.fields {
		if t.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

// String returns tab separated fields
func (t *Tuple) String() string {
	parts := make([]string, len(t.fields))
	for i, f := range t.fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, "\t")
}

// Encode writes the tuple into dst. dst must be at least Desc().Size() bytes
func (t *Tuple) Encode(dst []byte) error {
	if len(dst) < t.desc.size {
		return errors.Errorf("short buffer: %d bytes, tuple size %d", len(dst), t.desc.size)
	}
	off := 0
	for _, f := range t.fields {
		f.encode(dst[off:])
		off += f.typ.Len()
	}
	return nil
}

// Decode reads tuple of the descriptor from src
func Decode(desc *Desc, src []byte) (*Tuple, error) {
	if len(src) < desc.size {
		return nil, errors.Errorf("short buffer: %d bytes, tuple size %d", len(src), desc.size)
	}
	tup := &Tuple{
		desc:   desc,
		fields: make([]Field, len(desc.items)),
	}
	off := 0
	for i, it := range desc.items {
		f, err := decodeField(it.Type, src[off:])
		if err != nil {
			return nil, errors.Wrap(err, "decodeField failed")
		}
		tup.fields[i] = f
		off += it.Type.Len()
	}
	return tup, nil
}
