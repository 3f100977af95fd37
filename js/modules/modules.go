// Package modules registers the native js modules
package modules

import (
	_ "github.com/shiroyk/cookiecat/js/modules/cookie" // cookiecat/cookie
	_ "github.com/shiroyk/cookiecat/js/modules/types"  // cookiecat/type
)
