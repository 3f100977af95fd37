package v1

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/cookiecat/js"
	_ "github.com/shiroyk/cookiecat/js/modules" // register the native modules
)

// maxScriptSize the max size of a script body
const maxScriptSize = 1 << 20

// Result the script result
type Result struct {
	Result any `json:"result"`
}

func (h *handler) run(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxScriptSize))
	if err != nil {
		h.observe("run", "error")
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	vm, err := h.scheduler.Get()
	if err != nil {
		h.observe("run", "error")
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	defer h.scheduler.Release(vm)

	value, err := vm.RunString(ctx, string(body))
	if err != nil {
		h.observe("run", "error")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ret, err := js.Unwrap(value)
	if err != nil {
		h.observe("run", "error")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.observe("run", "true")
	return c.JSON(http.StatusOK, Result{ret})
}
