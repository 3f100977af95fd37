package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shiroyk/cookiecat/cache"
	"github.com/stretchr/testify/assert"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookiecat", "config.yml")

	config, err := ReadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.FileExists(t, path)

	config, err = ReadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestReadPartialConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yml")
	assert.NoError(t, os.WriteFile(path, []byte(`
document:
  url: https://example.com/docs/
cache:
  driver: memory
api:
  token: secret
  timeout: 30s
`), 0o600))

	config, err := ReadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/docs/", config.Document.URL)
	assert.Equal(t, cache.DriverMemory, config.Cache.Driver)
	assert.Equal(t, DefaultCachePath, config.Cache.Path)
	assert.Equal(t, "secret", config.API.Token)
	assert.Equal(t, 30*time.Second, config.API.Timeout)
	assert.Equal(t, "info", config.Log.Level)
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yml")
	assert.NoError(t, WriteConfig(path))
	assert.ErrorIs(t, WriteConfig(path), ErrConfigExists)
}

func TestContext(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultConfig(), FromContext(context.Background()))

	config := &Config{Log: Log{Level: "debug"}}
	assert.Same(t, config, FromContext(NewContext(context.Background(), config)))
}

func TestReadJSConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yml")
	assert.NoError(t, os.WriteFile(path, []byte(`
js:
  max-vms: 4
  use-strict: true
  module-path:
    - ./scripts
`), 0o600))

	config, err := ReadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 4, config.JS.MaxVMs)
	assert.Equal(t, 1, config.JS.InitialVMs)
	assert.True(t, config.JS.UseStrict)
	assert.Equal(t, []string{"./scripts"}, config.JS.ModulePath)
	assert.Equal(t, DefaultConfig().JS.MaxTimeToWaitGetVM, config.JS.MaxTimeToWaitGetVM)
}
