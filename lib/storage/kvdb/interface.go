package kvdb

import (
	"github.com/pkg/errors"
)

// ErrKeyNotFound is returned by Database.Get for absent keys, whatever the engine
var ErrKeyNotFound = errors.New("kvdb: key not found")

// ErrNotFound reports whether err means the key is absent
func ErrNotFound(err error) bool {
	return errors.Cause(err) == ErrKeyNotFound
}

// Database is the ordered kv storage used by the state layer
type Database interface {
	Open(path string, options map[string]interface{}) error
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Delete(key []byte) error
	Close() error
	NewBatch() Batch
	NewIteratorWithRange(start []byte, limit []byte) Iterator
	NewIteratorWithPrefix(prefix []byte) Iterator
}

// Batch collects writes and applies them atomically on Write
type Batch interface {
	ValueSize() int
	Write() error
	Reset()
	Put(key []byte, value []byte) error
	Delete(key []byte) error
}

// Iterator walks keys in ascending order and must be released after use
type Iterator interface {
	Key() []byte
	Value() []byte
	Next() bool
	First() bool
	Error() error
	Release()
}
