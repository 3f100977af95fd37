package bolt

import (
	"errors"
	"time"

	"github.com/shiroyk/cookiecat/cache"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	cookieBucket = "cookie"
	maxLifetime  = 100 * 365 * 24 * time.Hour
)

// Store is an implementation of cache.Store that keeps the cookie entries
// in bolt.DB, msgpack encoded per domain.
type Store struct {
	db *DB
}

// Load reads the entries of the domain.
func (s *Store) Load(domain string) ([]cache.Entry, error) {
	value, err := s.db.Get([]byte(domain))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var entries []cache.Entry
	if err = msgpack.Unmarshal(value, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Save writes the entries of the domain. When every entry is persistent
// the key expires with the last of them.
func (s *Store) Save(domain string, entries []cache.Entry) error {
	if len(entries) == 0 {
		return s.db.Delete([]byte(domain))
	}
	value, err := msgpack.Marshal(entries)
	if err != nil {
		return err
	}
	return s.db.PutWithTimeout([]byte(domain), value, lifetime(entries, time.Now()))
}

// lifetime returns the time until the last entry expires, or zero if any
// entry is a session cookie.
func lifetime(entries []cache.Entry, now time.Time) time.Duration {
	var last time.Time
	for _, e := range entries {
		if !e.Persistent {
			return 0
		}
		if e.Expires.After(last) {
			last = e.Expires
		}
	}
	d := last.Sub(now)
	if d <= 0 || d > maxLifetime {
		return 0
	}
	// the deadline is stored with seconds precision
	return d + time.Second
}

// Cookie is an implementation of cache.Cookie that stores cookies in bolt.DB.
type Cookie struct {
	cache.Cookie
	db *DB
}

// Close closes the underlying database.
func (c *Cookie) Close() error {
	return c.db.Close()
}

// NewCookie returns a new Cookie that will store cookies in bolt.DB.
func NewCookie(opt cache.Options) (*Cookie, error) {
	db, err := NewDB(opt.Path, cookieBucket, opt.Interval)
	if err != nil {
		return nil, err
	}
	return &Cookie{Cookie: cache.NewCookie(&Store{db}), db: db}, nil
}
