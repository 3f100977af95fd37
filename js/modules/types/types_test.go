package types

import (
	"context"
	"testing"

	"github.com/dop251/goja"
	"github.com/shiroyk/cookiecat/js/modulestest"
	"github.com/stretchr/testify/assert"
)

func TestGetType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	vm := modulestest.New(t)

	run := func(script string) (goja.Value, error) {
		return vm.RunString(ctx, `const { getType, tag } = require("cookiecat/type");`+script)
	}

	testCases := []struct {
		script, want string
	}{
		{`42`, "number"},
		{`1.5`, "number"},
		{`"s"`, "string"},
		{`true`, "boolean"},
		{`undefined`, "undefined"},
		{`Symbol("s")`, "symbol"},
		{`() => {}`, "function"},
		{`({})`, "object"},
		{`[1, 2]`, "array"},
		{`new Date()`, "date"},
		{`new Error("e")`, "error"},
		{`new TypeError("e")`, "error"},
		{`/x/`, "regexp"},
	}

	for _, c := range testCases {
		t.Run(c.script, func(t *testing.T) {
			v, err := run(`getType(` + c.script + `)`)
			if assert.NoError(t, err) {
				assert.Equal(t, c.want, v.String())
			}
		})
	}

	for _, script := range []string{`null`, `new Map()`, `new Set()`} {
		v, err := run(`getType(` + script + `) === undefined`)
		if assert.NoError(t, err) {
			assert.True(t, v.ToBoolean(), script)
		}
	}

	v, err := run(`tag([])`)
	assert.NoError(t, err)
	assert.Equal(t, "[object Array]", v.String())
}
