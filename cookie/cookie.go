// Package cookie reads, writes, checks and deletes cookies through a
// document cookie string, the way a page script uses document.cookie.
//
// The cookie string itself is owned by a CookieJar. Merging, overwriting and
// expiring cookies are left to the jar, the Store only builds and inspects
// cookie strings.
package cookie

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/shiroyk/cookiecat/types"
	"github.com/spf13/cast"
	"golang.org/x/exp/slog"
)

const (
	// InfinityDate is written for an expire of positive infinity.
	InfinityDate = "Fri, 31 Dec 9999 23:59:59 GMT"
	// EpochDate is written when removing a cookie.
	EpochDate = "Thu, 01 Jan 1970 00:00:00 GMT"
)

var (
	// ErrEmptyName the cookie name is empty
	ErrEmptyName = errors.New("cookie name is empty")
	// ErrReservedName the cookie name is a cookie attribute
	ErrReservedName = errors.New("cookie name is a reserved attribute name")
)

// reserved attribute names that can not be used as a cookie name.
var reserved = []string{"expires", "max-age", "path", "domain", "secure"}

// CookieJar is the document cookie string.
// Read returns all visible cookies joined by "; ",
// Write receives a single "name=value[;attr=val...]" cookie string.
type CookieJar interface {
	Read() string
	Write(cookie string)
}

// Options the cookie to write.
type Options struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	// Expire is a number of seconds (math.Inf(1) for never), a time.Duration,
	// an HTTP-date string or a time.Time.
	Expire any    `json:"expire,omitempty" yaml:"expire,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Secure bool   `json:"secure,omitempty" yaml:"secure,omitempty"`
}

// RemoveOptions the cookie to remove. Domain and Path must match the ones the
// cookie was written with.
type RemoveOptions struct {
	Name   string `json:"name" yaml:"name"`
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Store reads and writes cookies on a CookieJar.
type Store struct {
	jar      CookieJar
	logger   *slog.Logger
	patterns *patterns
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger, defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPatternCacheSize sets how many compiled name patterns are kept.
// Zero means no limit.
func WithPatternCacheSize(size int) Option {
	return func(s *Store) {
		s.patterns = newPatterns(size)
	}
}

// New returns a Store on the given jar.
func New(jar CookieJar, opts ...Option) *Store {
	s := &Store{
		jar:      jar,
		logger:   slog.Default(),
		patterns: newPatterns(defaultPatternCacheSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the decoded value of the named cookie, or an empty string if
// the cookie does not exist.
//
//	store.Get("key") // "value"
func (s *Store) Get(name string) string {
	re, err := s.patterns.getOrCompile("get:"+name,
		`(?:(?:^|.*;)\s*`+escapeName(name)+`\s*\=\s*([^;]*).*$)|^.*$`)
	if err != nil {
		s.logger.Debug("cookie name pattern", "name", name, "error", err)
		return ""
	}
	raw, err := re.Replace(s.jar.Read(), "$1", -1, 1)
	if err != nil {
		s.logger.Debug("cookie read", "name", name, "error", err)
		return ""
	}
	value, err := Decode(raw)
	if err != nil {
		return raw
	}
	return value
}

// Set writes the cookie and reports whether it was written.
// The cookie is rejected when the name is empty or one of the reserved
// attribute names.
//
//	store.Set(cookie.Options{Name: "test", Value: "smith"}) // true
func (s *Store) Set(opt Options) bool {
	if err := Validate(opt.Name); err != nil {
		s.logger.Debug("cookie rejected", "name", opt.Name, "error", err)
		return false
	}

	var b strings.Builder
	b.WriteString(Encode(opt.Name))
	b.WriteByte('=')
	b.WriteString(Encode(opt.Value))
	b.WriteString(s.expires(opt.Expire))
	if opt.Domain != "" {
		b.WriteString(";domain=")
		b.WriteString(opt.Domain)
	}
	if opt.Path != "" {
		b.WriteString(";path=")
		b.WriteString(opt.Path)
	}
	if opt.Secure {
		b.WriteString(";secure")
	}

	s.jar.Write(b.String())
	return true
}

// Has reports whether the named cookie exists.
func (s *Store) Has(name string) bool {
	re, err := s.patterns.getOrCompile("has:"+name, `(?:^|;\s*)`+escapeName(name)+`\s*\=`)
	if err != nil {
		s.logger.Debug("cookie name pattern", "name", name, "error", err)
		return false
	}
	ok, err := re.MatchString(s.jar.Read())
	return err == nil && ok
}

// Remove expires the named cookie and reports whether it existed.
func (s *Store) Remove(opt RemoveOptions) bool {
	if opt.Name == "" || !s.Has(opt.Name) {
		return false
	}

	var b strings.Builder
	b.WriteString(Encode(opt.Name))
	b.WriteString("=;expires=")
	b.WriteString(EpochDate)
	if opt.Domain != "" {
		b.WriteString(";domain=")
		b.WriteString(opt.Domain)
	}
	if opt.Path != "" {
		b.WriteString(";path=")
		b.WriteString(opt.Path)
	}

	s.jar.Write(b.String())
	return true
}

// Validate returns an error if the name can not be used as a cookie name.
func Validate(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	for _, attr := range reserved {
		if strings.EqualFold(name, attr) {
			return fmt.Errorf("%w: %s", ErrReservedName, name)
		}
	}
	return nil
}

// expires returns the expiration clause for the expire value.
func (s *Store) expires(expire any) string {
	if !truthy(expire) {
		return ""
	}
	switch types.Of(expire) {
	case types.Number:
		return numberExpires(expire)
	case types.String:
		return ";expires=" + toString(expire)
	case types.Date:
		return ";expires=" + toTime(expire).UTC().Format(http.TimeFormat)
	default:
		s.logger.Debug("cookie expire coerced to max-age", "type", types.TagOf(expire))
		return numberExpires(expire)
	}
}

func numberExpires(expire any) string {
	if f, ok := expire.(float64); ok && math.IsInf(f, 1) {
		return ";expires=" + InfinityDate
	}
	if f, ok := expire.(float32); ok && math.IsInf(float64(f), 1) {
		return ";expires=" + InfinityDate
	}
	return ";max-age=" + formatNumber(expire)
}

// formatNumber formats the value as a JavaScript template literal would.
func formatNumber(v any) string {
	if types.IsDuration(v) {
		return strconv.FormatInt(int64(v.(time.Duration)/time.Second), 10)
	}
	switch n := v.(type) {
	case float64:
		return formatFloat(n)
	case float32:
		return formatFloat(float64(n))
	}
	return toString(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	case math.Abs(f) >= 1e21:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// truthy reports whether the value is truthy in JavaScript terms.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case time.Time:
		return true
	case *time.Time:
		return x != nil
	}
	switch types.Of(v) {
	case types.Number:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return toString(v) != "0"
		}
		return f != 0 && !math.IsNaN(f)
	case types.String:
		return toString(v) != ""
	case types.Unknown:
		// typed nil pointers are null
		return types.TagOf(v) != "[object Null]"
	}
	return true
}

func toString(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		return *t
	}
	return cast.ToTime(v)
}

// escapeName returns the encoded name escaped for a regular expression.
func escapeName(name string) string {
	return regexp2.Escape(Encode(name))
}
