// Package cache persists extraction results between runs. Git blobs are
// immutable, so a (blob id, function name) key never goes stale.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/extract"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "extractions"

// ExtractionCache is a bbolt-backed store of extracted functions.
type ExtractionCache struct {
	db     *bolt.DB
	logger logrus.FieldLogger

	hits   atomic.Int64
	misses atomic.Int64
}

// Open opens or creates the cache file at path.
func Open(path string, logger logrus.FieldLogger) (*ExtractionCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.FileSystemErrorf(err, "failed to create cache directory")
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "failed to open cache %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.DatabaseErrorf(err, "failed to create cache bucket")
	}

	return &ExtractionCache{db: db, logger: logger}, nil
}

func key(blobID, name string) []byte {
	return []byte(blobID + "\x00" + name)
}

// Get returns a cached extraction.
func (c *ExtractionCache) Get(blobID, name string) (extract.ExtractedFunction, bool) {
	var fn extract.ExtractedFunction
	found := false
	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get(key(blobID, name))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &fn)
	})
	if err != nil {
		c.logger.WithError(err).WithField("blob", blobID).Warn("discarding unreadable cache entry")
		found = false
	}

	if found {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return fn, found
}

// Put stores an extraction.
func (c *ExtractionCache) Put(blobID, name string, fn extract.ExtractedFunction) error {
	data, err := json.Marshal(fn)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put(key(blobID, name), data)
	})
}

// Stats returns hit and miss counts since Open.
func (c *ExtractionCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached entries.
func (c *ExtractionCache) Len() (int, error) {
	n := 0
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketName)).Stats().KeyN
		return nil
	})
	return n, err
}

// Close closes the underlying database.
func (c *ExtractionCache) Close() error {
	return c.db.Close()
}
