// Package api the HTTP control surface of the document cookie
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	v1 "github.com/shiroyk/cookiecat/api/v1"
	"github.com/shiroyk/cookiecat/cookie"
	"github.com/shiroyk/cookiecat/js"
	"golang.org/x/exp/slog"
)

const (
	// DefaultTimeout the default timeout
	DefaultTimeout = time.Minute
	// DefaultAddress the api default address
	DefaultAddress = "localhost:8080"
)

// Options the api server configuration
type Options struct {
	Logger    *slog.Logger  `yaml:"-"`
	// Scheduler the VMs running the scripts, a default pool on the jar when nil
	Scheduler js.Scheduler  `yaml:"-"`
	Token     string        `yaml:"token"`
	Address   string        `yaml:"address"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Server the api service on the document cookie
func Server(opt Options, jar cookie.CookieJar) *echo.Echo {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	m := newMetrics()

	e := echo.New()
	e.HTTPErrorHandler = errorHandler(opt.Logger)
	e.HideBanner = true
	e.HidePort = true
	e.Use(loggerMiddleware(opt), authMiddleware(opt))
	e.Any("/ping", ping)
	e.Any("", ping)
	e.GET("/metrics", m.handler())
	v1.Route(e.Group("/v1"), v1.Options{
		Jar:       jar,
		Logger:    opt.Logger,
		Timeout:   opt.Timeout,
		Scheduler: opt.Scheduler,
		Observe:   m.observe,
	})
	return e
}

func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
		if code >= http.StatusInternalServerError {
			logger.Error("request error", "error", err, "uri", c.Request().RequestURI)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, v1.Msg{Msg: msg})
		}
		if err != nil {
			logger.Error("write response error", "error", err)
		}
	}
}

func ping(ctx echo.Context) error {
	return ctx.NoContent(http.StatusOK)
}
