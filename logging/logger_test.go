package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	t.Run("json with debug level", func(t *testing.T) {
		var buf bytes.Buffer
		err := Init(Config{Level: LevelDebug, Format: "json", Writer: &buf})
		assert.Nil(t, err)
		defer Close()

		WithComponent("buffer").Debug("page loaded", "page", 3)

		var got map[string]any
		err = json.Unmarshal(buf.Bytes(), &got)
		assert.Nil(t, err)
		assert.Equal(t, "page loaded", got["msg"])
		assert.Equal(t, "buffer", got["component"])
		assert.Equal(t, float64(3), got["page"])
	})
	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		err := Init(Config{Level: LevelWarn, Writer: &buf})
		assert.Nil(t, err)
		defer Close()

		Info("ignored")
		assert.Equal(t, 0, buf.Len())
		Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})
	t.Run("double init", func(t *testing.T) {
		err := Init(Config{Writer: &bytes.Buffer{}})
		assert.Nil(t, err)
		defer Close()
		err = Init(Config{Writer: &bytes.Buffer{}})
		assert.NotNil(t, err)
	})
	t.Run("output file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log", "db.log")
		err := Init(Config{OutputPath: path})
		assert.Nil(t, err)
		Info("to file")
		assert.Nil(t, Close())
		assert.FileExists(t, path)
	})
}

func TestGetLoggerLazyInit(t *testing.T) {
	assert.Nil(t, Close())
	assert.NotNil(t, GetLogger())
	assert.Nil(t, Close())
}
