package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
)

// parseSchema parses comma separated columns. each column is "type" or "name:type"
// e.g. "int,string" or "id:int,name:string"
func parseSchema(s string) (*tuple.Desc, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("schema is empty")
	}
	cols := strings.Split(s, ",")
	types := make([]tuple.Type, len(cols))
	names := make([]string, len(cols))
	for i, col := range cols {
		name, typ, found := strings.Cut(strings.TrimSpace(col), ":")
		if !found {
			name, typ = "", name
		}
		t, err := tuple.ParseType(strings.TrimSpace(typ))
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", i)
		}
		types[i] = t
		names[i] = strings.TrimSpace(name)
	}
	return tuple.NewDesc(types, names)
}
