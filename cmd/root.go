package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/shiroyk/cookiecat/cache"
	"github.com/shiroyk/cookiecat/cache/bolt"
	"github.com/shiroyk/cookiecat/cache/leveldb"
	"github.com/shiroyk/cookiecat/cache/memory"
	"github.com/shiroyk/cookiecat/cookie"
	"github.com/shiroyk/cookiecat/document"
	"github.com/shiroyk/cookiecat/lib/config"
	"github.com/shiroyk/cookiecat/lib/utils"
	"github.com/shiroyk/cookiecat/logger"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	configArg string
	urlArg    string
	debugArg  bool
)

// env the state shared by the commands of a run
type env struct {
	config *config.Config
	doc    *document.Document
	store  *cookie.Store
	logger *slog.Logger
	closer io.Closer
}

var current *env

var rootCmd = &cobra.Command{
	Use:           "cookiecat",
	Short:         "cookiecat reads and writes the cookies of a document.",
	SilenceErrors: true,
	SilenceUsage:  true,
	Annotations:   map[string]string{"skip-env": "true"},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations["skip-env"] != "" {
			return nil
		}
		e, err := newEnv(configArg, urlArg, debugArg)
		if err != nil {
			return err
		}
		current = e
		cmd.SetContext(config.NewContext(cmd.Context(), e.config))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configArg, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&urlArg, "url", "", "document url, overrides the config")
	rootCmd.PersistentFlags().BoolVar(&debugArg, "debug", false, "output the debug log")
	rootCmd.SetContext(context.Background())
}

// newEnv reads the configuration and opens the cookie jar of the document.
func newEnv(configPath, rawURL string, debug bool) (*env, error) {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if debug {
		level = slog.LevelDebug
	}
	log := logger.Setup(level)
	cfg.API.Logger = log

	jar, closer, err := openJar(cfg.Cache)
	if err != nil {
		return nil, err
	}

	doc, err := document.Parse(utils.ZeroOr(rawURL, cfg.Document.URL), jar)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	return &env{
		config: cfg,
		doc:    doc,
		store:  cookie.New(doc, cookie.WithLogger(log)),
		logger: log,
		closer: closer,
	}, nil
}

// closeEnv closes the cookie jar of the run.
func closeEnv() {
	e := current
	current = nil
	if e == nil || e.closer == nil {
		return
	}
	if err := e.closer.Close(); err != nil {
		e.logger.Error("close cookie jar", "error", err)
	}
}

// openJar opens the cookie jar of the cache driver.
func openJar(opt cache.Options) (cache.Cookie, io.Closer, error) {
	switch opt.Driver {
	case cache.DriverMemory:
		return memory.NewCookie(), nil, nil
	case cache.DriverBolt, cache.DriverLevelDB, "":
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", opt.Driver)
	}

	path, err := utils.ExpandPath(opt.Path)
	if err != nil {
		return nil, nil, err
	}
	opt.Path = path

	var jar interface {
		cache.Cookie
		io.Closer
	}
	if opt.Driver == cache.DriverLevelDB {
		jar, err = leveldb.NewCookie(opt)
	} else {
		jar, err = bolt.NewCookie(opt)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open cookie jar: %w", err)
	}
	return jar, jar, nil
}
