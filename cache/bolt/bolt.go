// Package bolt the bbolt cookie storage
package bolt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/shiroyk/cookiecat/logger"
	"go.etcd.io/bbolt"
)

const (
	defaultBatchSize = 100000
	// DefaultPath the default database directory
	DefaultPath      = "cache"
	defaultKeysClean = 64
	fillPercent      = 0.9
)

var (
	expireBucketName = []byte("expire")
	// ErrKeyNotFound not found the key
	ErrKeyNotFound = errors.New("key not found")
)

// DB a bbolt.DB instance
type DB struct {
	bucketName []byte
	db         *bbolt.DB
	interval   time.Duration
	closedC    chan struct{}
}

// NewDB creates a new DB instance in the path directory with the name.
// If interval is above 0, expired keys are cleaned at that interval.
func NewDB(path, name string, interval time.Duration) (*DB, error) {
	if path == "" {
		path = DefaultPath
	}
	err := os.MkdirAll(path, 0o700)
	if err != nil {
		return nil, err
	}
	db, err := bbolt.Open(filepath.Join(path, name), 0o600, &bbolt.Options{
		Timeout:         1 * time.Second,
		InitialMmapSize: 1024,
	})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err = tx.CreateBucketIfNotExists([]byte(name)); err != nil {
			return err
		}
		if _, err = tx.CreateBucketIfNotExists(expireBucketName); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	c := &DB{
		bucketName: []byte(name),
		interval:   interval,
		db:         db,
		closedC:    make(chan struct{}),
	}
	go c.expire()
	return c, nil
}

// Put method writes kv according to the bucket.
func (db *DB) Put(key, value []byte) (err error) {
	return db.PutWithTimeout(key, value, 0)
}

// PutWithTimeout method writes kv with timeout according to the bucket.
// A timeout of zero or below keeps the key until it is deleted.
func (db *DB) PutWithTimeout(key, value []byte, timeout time.Duration) error {
	return db.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(db.bucketName).Put(key, value); err != nil {
			return err
		}
		expireBucket := tx.Bucket(expireBucketName)
		if timeout <= 0 {
			return expireBucket.Delete(key)
		}
		buf := new(bytes.Buffer)
		if err := binary.Write(buf, binary.BigEndian, time.Now().Add(timeout).Unix()); err != nil {
			return err
		}
		return expireBucket.Put(key, buf.Bytes())
	})
}

// Get reads the value from the bucket with key.
func (db *DB) Get(key []byte) (value []byte, err error) {
	err = db.db.View(func(tx *bbolt.Tx) error {
		if ddl := tx.Bucket(expireBucketName).Get(key); ddl != nil {
			// scan deadline of the key
			if time.Now().Unix() > int64(binary.BigEndian.Uint64(ddl)) {
				return ErrKeyNotFound
			}
		}
		v := tx.Bucket(db.bucketName).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		// the value is only valid during the transaction
		value = bytes.Clone(v)
		return nil
	})
	return
}

// Delete a specified key from DB.
func (db *DB) Delete(key []byte) error {
	return db.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(expireBucketName).Delete(key); err != nil {
			return err
		}
		return tx.Bucket(db.bucketName).Delete(key)
	})
}

// DeleteBatch delete data in batch.
func (db *DB) DeleteBatch(keys [][]byte) error {
	for offset := 0; offset < len(keys); offset += defaultBatchSize {
		end := min(offset+defaultBatchSize, len(keys))
		err := db.db.Update(func(tx *bbolt.Tx) error {
			bucket := tx.Bucket(db.bucketName)
			bucket.FillPercent = fillPercent
			expireBucket := tx.Bucket(expireBucketName)
			for _, key := range keys[offset:end] {
				if err := bucket.Delete(key); err != nil {
					return err
				}
				if err := expireBucket.Delete(key); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (db *DB) Close() error {
	close(db.closedC)
	if err := db.db.Sync(); err != nil {
		return err
	}
	return db.db.Close()
}

// expire timing scan the expired keys and delete them.
func (db *DB) expire() {
	if db.interval <= 0 {
		return
	}
	ticker := time.NewTicker(db.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := db.cleanExpired(); err != nil {
				logger.Errorf("error cleaning expired keys %s", err)
			}
		case <-db.closedC:
			return
		}
	}
}

// cleanExpired deletes the keys whose deadline has passed.
func (db *DB) cleanExpired() error {
	now := time.Now().Unix()
	var deletedKeys [][]byte
	err := db.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(expireBucketName)
		if bucket.Stats().KeyN < defaultKeysClean {
			return nil
		}
		cursor := bucket.Cursor()
		for realKey, ddl := cursor.First(); realKey != nil; realKey, ddl = cursor.Next() {
			if now > int64(binary.BigEndian.Uint64(ddl)) {
				deletedKeys = append(deletedKeys, bytes.Clone(realKey))
			}
		}
		return nil
	})
	if err != nil || len(deletedKeys) == 0 {
		return err
	}
	return db.DeleteBatch(deletedKeys)
}
