package v1

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/cookiecat/types"
)

// Type the classify response, Type is null when the tag is not known.
type Type struct {
	Type *string `json:"type"`
	Tag  string  `json:"tag"`
}

func (h *handler) classify(c echo.Context) error {
	var value any
	if err := json.Unmarshal([]byte(c.QueryParam("value")), &value); err != nil {
		h.observe("type", "error")
		return echo.NewHTTPError(http.StatusBadRequest, "value is not a JSON value: "+err.Error())
	}

	// JSON null is the only value decoded to nil
	if value == nil {
		h.observe("type", result(false))
		return c.JSON(http.StatusOK, Type{Tag: "[object Null]"})
	}
	ret := Type{Tag: types.TagOf(value)}
	tag, ok := types.Lookup(value)
	if ok {
		ret.Type = &tag
	}
	h.observe("type", result(ok))
	return c.JSON(http.StatusOK, ret)
}
