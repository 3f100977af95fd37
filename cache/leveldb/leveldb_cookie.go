// Package leveldb the goleveldb cookie storage
package leveldb

import (
	"errors"
	"path/filepath"

	"github.com/shiroyk/cookiecat/cache"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/vmihailenco/msgpack/v5"
)

const dbName = "cookie.ldb"

// Store is an implementation of cache.Store that keeps the cookie entries
// in leveldb.DB, msgpack encoded per domain.
type Store struct {
	db *leveldb.DB
}

// Load reads the entries of the domain.
func (s *Store) Load(domain string) ([]cache.Entry, error) {
	value, err := s.db.Get([]byte(domain), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
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

// Save writes the entries of the domain.
func (s *Store) Save(domain string, entries []cache.Entry) error {
	if len(entries) == 0 {
		return s.db.Delete([]byte(domain), nil)
	}
	value, err := msgpack.Marshal(entries)
	if err != nil {
		return err
	}
	return s.db.Put([]byte(domain), value, nil)
}

// Cookie is an implementation of cache.Cookie that stores cookies in leveldb.DB.
// Expired entries are dropped when their domain is written again.
type Cookie struct {
	cache.Cookie
	db *leveldb.DB
}

// Close closes the underlying database.
func (c *Cookie) Close() error {
	return c.db.Close()
}

// NewCookie returns a new Cookie that will store cookies in leveldb.DB
// under the path directory.
func NewCookie(opt cache.Options) (*Cookie, error) {
	db, err := leveldb.OpenFile(filepath.Join(opt.Path, dbName), nil)
	if err != nil {
		return nil, err
	}
	return &Cookie{Cookie: cache.NewCookie(&Store{db}), db: db}, nil
}
