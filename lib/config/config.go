// Package config the cookiecat configuration
package config

import (
	"context"
	"errors"
	"os"

	"github.com/shiroyk/cookiecat/api"
	"github.com/shiroyk/cookiecat/cache"
	"github.com/shiroyk/cookiecat/document"
	"github.com/shiroyk/cookiecat/js"
	"github.com/shiroyk/cookiecat/lib/utils"
)

// DefaultPath the default configuration file
const DefaultPath = "~/.config/cookiecat/config.yml"

// DefaultCachePath the default bolt database directory
const DefaultCachePath = "~/.cache/cookiecat"

type configKey struct{}

// NewContext returns a context that contains the given Config.
func NewContext(ctx context.Context, config *Config) context.Context {
	return context.WithValue(ctx, configKey{}, config)
}

// FromContext returns the Config stored in ctx by NewContext, or the default
// Config if there is none.
func FromContext(ctx context.Context) *Config {
	if config, ok := ctx.Value(configKey{}).(*Config); ok {
		return config
	}
	return DefaultConfig()
}

// Config The cookiecat configuration
type Config struct {
	// Document the document the cookies belong to
	Document Document `yaml:"document"`

	// Cache the cookie jar
	Cache cache.Options `yaml:"cache"`

	// API the api server
	API api.Options `yaml:"api"`

	// JS the script VM pool
	JS js.SchedulerOptions `yaml:"js"`

	// Log the logger
	Log Log `yaml:"log"`
}

// Document the document configuration
type Document struct {
	// URL the document url, the cookies are read and written for it
	URL string `yaml:"url"`
}

// Log the logger configuration
type Log struct {
	// Level debug, info, warn or error
	Level string `yaml:"level"`
}

// DefaultConfig The default configuration
func DefaultConfig() *Config {
	return &Config{
		Document: Document{
			URL: document.DefaultURL,
		},
		Cache: cache.Options{
			Driver: cache.DriverBolt,
			Path:   DefaultCachePath,
		},
		API: api.Options{
			Timeout: api.DefaultTimeout,
			Address: api.DefaultAddress,
		},
		JS: js.DefaultSchedulerOptions(),
		Log: Log{
			Level: "info",
		},
	}
}

// ReadConfig read configuration from the file.
// If the configuration file is not existing then create it with default configuration.
func ReadConfig(path string) (*Config, error) {
	file, err := utils.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(file); errors.Is(err, os.ErrNotExist) {
		config := DefaultConfig()
		if err = utils.WriteYaml(file, config); err != nil {
			return nil, err
		}
		return config, nil
	}

	config, err := utils.ReadYaml[Config](file)
	if err != nil {
		return nil, err
	}
	config.fill()
	return config, nil
}

// WriteConfig writes the default configuration to the file,
// it fails if the file already exists.
func WriteConfig(path string) error {
	file, err := utils.ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err = os.Stat(file); err == nil {
		return ErrConfigExists
	}
	return utils.WriteYaml(file, DefaultConfig())
}

// ErrConfigExists the configuration file already exists
var ErrConfigExists = errors.New("configuration file is already exists")

// fill sets the missing values to the default.
func (c *Config) fill() {
	def := DefaultConfig()
	c.Document.URL = utils.ZeroOr(c.Document.URL, def.Document.URL)
	c.Cache.Driver = utils.ZeroOr(c.Cache.Driver, def.Cache.Driver)
	c.Cache.Path = utils.ZeroOr(c.Cache.Path, def.Cache.Path)
	c.API.Address = utils.ZeroOr(c.API.Address, def.API.Address)
	c.API.Timeout = utils.ZeroOr(c.API.Timeout, def.API.Timeout)
	c.JS.InitialVMs = utils.ZeroOr(c.JS.InitialVMs, def.JS.InitialVMs)
	c.JS.MaxVMs = utils.ZeroOr(c.JS.MaxVMs, def.JS.MaxVMs)
	c.JS.MaxRetriesGetVM = utils.ZeroOr(c.JS.MaxRetriesGetVM, def.JS.MaxRetriesGetVM)
	c.JS.MaxTimeToWaitGetVM = utils.ZeroOr(c.JS.MaxTimeToWaitGetVM, def.JS.MaxTimeToWaitGetVM)
	c.Log.Level = utils.ZeroOr(c.Log.Level, def.Log.Level)
}
