package cookie

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseExpire converts a textual expire to the value Set expects:
// "Infinity" and numbers become float64 seconds, "1h30m" a time.Duration,
// anything else is kept as an HTTP-date string. An empty string is no expire.
func ParseExpire(s string) any {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return nil
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return s
}
