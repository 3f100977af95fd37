// Package v1 the v1 routes of the cookie api
package v1

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/cookiecat/cookie"
	"github.com/shiroyk/cookiecat/js"
	"golang.org/x/exp/slog"
)

// Msg the message struct
type Msg struct {
	Msg string `json:"msg"`
}

// Options the routes options
type Options struct {
	Jar       cookie.CookieJar
	Logger    *slog.Logger
	Timeout   time.Duration
	// Scheduler the VMs running the scripts, optional.
	Scheduler js.Scheduler
	// Observe counts the operations, optional.
	Observe   func(op, result string)
}

type handler struct {
	jar       cookie.CookieJar
	store     *cookie.Store
	logger    *slog.Logger
	timeout   time.Duration
	scheduler js.Scheduler
	observe   func(op, result string)
}

// Route registers the v1 routes on the group
func Route(g *echo.Group, opt Options) {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Timeout <= 0 {
		opt.Timeout = time.Minute
	}
	if opt.Scheduler == nil {
		so := js.DefaultSchedulerOptions()
		so.Jar, so.Logger = opt.Jar, opt.Logger
		opt.Scheduler = js.NewScheduler(so)
	}
	if opt.Observe == nil {
		opt.Observe = func(string, string) {}
	}
	h := &handler{
		jar:       opt.Jar,
		store:     cookie.New(opt.Jar, cookie.WithLogger(opt.Logger)),
		logger:    opt.Logger,
		timeout:   opt.Timeout,
		scheduler: opt.Scheduler,
		observe:   opt.Observe,
	}

	g.GET("/cookie", h.cookieString)
	g.DELETE("/cookie", h.clear)
	g.GET("/cookies", h.list)
	g.GET("/cookie/:name", h.get)
	g.HEAD("/cookie/:name", h.has)
	g.PUT("/cookie/:name", h.set)
	g.DELETE("/cookie/:name", h.remove)
	g.GET("/type", h.classify)
	g.POST("/run", h.run)
}

func result(ok bool) string {
	if ok {
		return "true"
	}
	return "false"
}
