package common

import (
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// Relation is table identifier
// there is no system catalog here, so the identifier has to be derivable from the table file itself.
// the same file must map to the same relation across process restarts,
// so it is the hash of the canonical absolute path of the heap file.
type Relation uint64

// InvalidRelation is never returned by RelationFromPath for a non-empty path (probably)
const InvalidRelation Relation = 0

// RelationFromPath derives the relation from the heap file path
// symbolic links are resolved so that two paths to the same file share one relation.
// the result does not change when the file is created after this is called.
func RelationFromPath(path string) (Relation, error) {
	if path == "" {
		return InvalidRelation, errors.New("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return InvalidRelation, errors.Wrap(err, "filepath.Abs failed")
	}
	return Relation(xxhash.Sum64String(resolvePath(abs))), nil
}

// resolvePath resolves symbolic links of the absolute path.
// EvalSymlinks fails when the file does not exist yet. the parent directory is resolved then,
// which gives the same result as resolving the whole path once a regular file is created there.
func resolvePath(abs string) string {
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(dir, filepath.Base(abs))
	}
	return filepath.Clean(abs)
}
