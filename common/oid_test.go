package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRelationFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.dat")
	err := os.WriteFile(path, nil, 0600)
	assert.Nil(t, err)

	t.Run("same path twice", func(t *testing.T) {
		rel1, err := RelationFromPath(path)
		assert.Nil(t, err)
		rel2, err := RelationFromPath(path)
		assert.Nil(t, err)
		assert.Equal(t, rel1, rel2)
		assert.NotEqual(t, InvalidRelation, rel1)
	})
	t.Run("relative and absolute path", func(t *testing.T) {
		wd, err := os.Getwd()
		assert.Nil(t, err)
		rel, err := filepath.Rel(wd, path)
		if err != nil {
			t.Skip("no relative path to temp dir")
		}
		got, err := RelationFromPath(rel)
		assert.Nil(t, err)
		expected, err := RelationFromPath(path)
		assert.Nil(t, err)
		assert.Equal(t, expected, got)
	})
	t.Run("symbolic link", func(t *testing.T) {
		link := filepath.Join(dir, "link.dat")
		if err := os.Symlink(path, link); err != nil {
			t.Skip("symlink is not supported")
		}
		got, err := RelationFromPath(link)
		assert.Nil(t, err)
		expected, err := RelationFromPath(path)
		assert.Nil(t, err)
		assert.Equal(t, expected, got)
	})
	t.Run("file created under symbolic link directory", func(t *testing.T) {
		real := filepath.Join(dir, "real")
		assert.Nil(t, os.Mkdir(real, 0700))
		linkDir := filepath.Join(dir, "linkdir")
		if err := os.Symlink(real, linkDir); err != nil {
			t.Skip("symlink is not supported")
		}
		newPath := filepath.Join(linkDir, "new.dat")
		before, err := RelationFromPath(newPath)
		assert.Nil(t, err)
		assert.Nil(t, os.WriteFile(newPath, nil, 0600))
		after, err := RelationFromPath(newPath)
		assert.Nil(t, err)
		assert.Equal(t, before, after)
		direct, err := RelationFromPath(filepath.Join(real, "new.dat"))
		assert.Nil(t, err)
		assert.Equal(t, after, direct)
	})
	t.Run("different files", func(t *testing.T) {
		rel1, err := RelationFromPath(path)
		assert.Nil(t, err)
		rel2, err := RelationFromPath(filepath.Join(dir, "other.dat"))
		assert.Nil(t, err)
		assert.NotEqual(t, rel1, rel2)
	})
	t.Run("empty path", func(t *testing.T) {
		_, err := RelationFromPath("")
		assert.NotNil(t, err)
	})
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "not open", err: ErrNotOpen, kind: ErrProtocol},
		{name: "already open", err: ErrAlreadyOpen, kind: ErrProtocol},
		{name: "no more elements", err: ErrNoMoreElements, kind: ErrProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := errors.Wrap(tt.err, "Next failed")
			assert.True(t, errors.Is(wrapped, tt.err))
			assert.True(t, errors.Is(wrapped, tt.kind))
			assert.False(t, errors.Is(wrapped, ErrStorage))
		})
	}
}
