package tuple

import (
	"strings"

	"github.com/pkg/errors"
)

// Item is one column of Desc
type Item struct {
	Type Type
	// Name can be empty
	Name string
}

// Desc is tuple descriptor (schema)
// this is immutable after constructed, so can be shared between operators
type Desc struct {
	items []Item
	// size is the byte size of the encoded tuple
	size int
}

// NewDesc initializes tuple descriptor
// names can be nil, then all columns are unnamed.
func NewDesc(types []Type, names []string) (*Desc, error) {
	if len(types) == 0 {
		return nil, errors.New("descriptor must have at least one field")
	}
	if names != nil && len(names) != len(types) {
		return nil, errors.Errorf("the number of names %d does not match the number of types %d", len(names), len(types))
	}
	items := make([]Item, len(types))
	for i, typ := range types {
		items[i].Type = typ
		if names != nil {
			items[i].Name = names[i]
		}
	}
	return newDescFromItems(items), nil
}

func newDescFromItems(items []Item) *Desc {
	size := 0
	for _, it := range items {
		size += it.Type.Len()
	}
	return &Desc{
		items: items,
		size:  size,
	}
}

// Merge returns new descriptor whose fields are a's fields followed by b's fields
func Merge(a, b *Desc) *Desc {
	items := make([]Item, 0, len(a.items)+len(b.items))
	items = append(items, a.items...)
	items = append(items, b.items...)
	return newDescFromItems(items)
}

// NumFields returns the number of fields
func (d *Desc) NumFields() int {
	return len(d.items)
}

// FieldType returns the type of i-th field
func (d *Desc) FieldType(i int) (Type, error) {
	if i < 0 || i >= len(d.items) {
		return 0, errors.Errorf("field index %d is out of range: %d fields", i, len(d.items))
	}
	return d.items[i].Type, nil
}

// FieldName returns the name of i-th field
func (d *Desc) FieldName(i int) (string, error) {
	if i < 0 || i >= len(d.items) {
		return "", errors.Errorf("field index %d is out of range: %d fields", i, len(d.items))
	}
	return d.items[i].Name, nil
}

// IndexOf returns the index of the first field with the name
func (d *Desc) IndexOf(name string) (int, error) {
	for i, it := range d.items {
		if it.Name != "" && it.Name == name {
			return i, nil
		}
	}
	return -1, errors.Errorf("no field named %q", name)
}

// Size returns the byte size of the encoded tuple
func (d *Desc) Size() int {
	return d.size
}

// Items returns copy of the columns
func (d *Desc) Items() []Item {
	items := make([]Item, len(d.items))
	copy(items, d.items)
	return items
}

// Equals checks whether two descriptors have the same types in the same order. names are ignored.
func (d *Desc) Equals(other *Desc) bool {
	if other == nil || len(d.items) != len(other.items) {
		return false
	}
	for i := range d.items {
		if d.items[i].Type != other.items[i].Type {
			return false
		}
	}
	return true
}

func (d *Desc) String() string {
	parts := make([]string, len(d.items))
	for i, it := range d.items {
		parts[i] = it.Type.String() + "(" + it.Name + ")"
	}
	return strings.Join(parts, ", ")
}
