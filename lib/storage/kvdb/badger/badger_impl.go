package badger

import (
	"bytes"
	"os"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

// BadgerDatabase define data structure of storage
type BadgerDatabase struct {
	path string
	db   *badger.DB
}

func init() {
	kvdb.Register(kvdb.KVEngineTypeBadger, NewKVDBInstance)
}

// NewKVDBInstance opens a badger database on param.DBPath, an empty path opens it in memory
func NewKVDBInstance(param *kvdb.KVParameter) (kvdb.Database, error) {
	baseDB := new(BadgerDatabase)
	err := baseDB.Open(param.GetDBPath(), map[string]interface{}{
		"cache": param.GetMemCacheSize(),
	})
	if err != nil {
		return nil, err
	}
	return baseDB, nil
}

// Open opens badger at path with options
func (bdb *BadgerDatabase) Open(path string, options map[string]interface{}) error {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0700); err != nil {
			return errors.Wrapf(err, "create badger dir failed, path: %s", path)
		}
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)
	if cache, ok := options["cache"].(int); ok && cache > 0 {
		opts = opts.WithBlockCacheSize(int64(cache) << 20)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return errors.Wrapf(err, "open badger failed, path: %s", path)
	}
	bdb.path = path
	bdb.db = db
	return nil
}

// Path returns the path to the database directory.
func (bdb *BadgerDatabase) Path() string {
	return bdb.path
}

func (bdb *BadgerDatabase) Put(key []byte, value []byte) error {
	return bdb.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (bdb *BadgerDatabase) Get(key []byte) ([]byte, error) {
	var val []byte
	err := bdb.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, kvdb.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (bdb *BadgerDatabase) Has(key []byte) (bool, error) {
	_, err := bdb.Get(key)
	if kvdb.ErrNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (bdb *BadgerDatabase) Delete(key []byte) error {
	return bdb.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (bdb *BadgerDatabase) Close() error {
	return bdb.db.Close()
}

// NewBatch collects writes and commits them in a single transaction
func (bdb *BadgerDatabase) NewBatch() kvdb.Batch {
	return &BadgerBatch{db: bdb.db}
}

func (bdb *BadgerDatabase) NewIteratorWithRange(start []byte, limit []byte) kvdb.Iterator {
	return newIterator(bdb.db, start, func(key []byte) bool {
		return len(limit) == 0 || bytes.Compare(key, limit) < 0
	}, nil)
}

func (bdb *BadgerDatabase) NewIteratorWithPrefix(prefix []byte) kvdb.Iterator {
	return newIterator(bdb.db, prefix, func(key []byte) bool {
		return bytes.HasPrefix(key, prefix)
	}, prefix)
}

type batchOp struct {
	key   []byte
	value []byte
	del   bool
}

// BadgerBatch define batch data structure
type BadgerBatch struct {
	db   *badger.DB
	ops  []batchOp
	size int
}

func (b *BadgerBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: copyBytes(key), value: copyBytes(value)})
	b.size += len(value)
	return nil
}

func (b *BadgerBatch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: copyBytes(key), del: true})
	b.size += len(key)
	return nil
}

// Write commit batch into database atomically
func (b *BadgerBatch) Write() error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, op := range b.ops {
			var err error
			if op.del {
				err = txn.Delete(op.key)
			} else {
				err = txn.Set(op.key, op.value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BadgerBatch) ValueSize() int {
	return b.size
}

func (b *BadgerBatch) Reset() {
	b.ops = nil
	b.size = 0
}

// badgerIterator adapts badger's seek style iterator to Next() style
type badgerIterator struct {
	txn     *badger.Txn
	it      *badger.Iterator
	start   []byte
	inRange func([]byte) bool
	started bool
	key     []byte
	value   []byte
	err     error
}

func newIterator(db *badger.DB, start []byte, inRange func([]byte) bool, prefix []byte) *badgerIterator {
	txn := db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	return &badgerIterator{
		txn:     txn,
		it:      txn.NewIterator(opts),
		start:   start,
		inRange: inRange,
	}
}

func (bi *badgerIterator) load() bool {
	if !bi.it.Valid() {
		bi.key, bi.value = nil, nil
		return false
	}
	item := bi.it.Item()
	key := item.KeyCopy(nil)
	if !bi.inRange(key) {
		bi.key, bi.value = nil, nil
		return false
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		bi.err = err
		return false
	}
	bi.key, bi.value = key, val
	return true
}

func (bi *badgerIterator) First() bool {
	bi.started = true
	bi.it.Seek(bi.start)
	return bi.load()
}

func (bi *badgerIterator) Next() bool {
	if bi.err != nil {
		return false
	}
	if !bi.started {
		return bi.First()
	}
	bi.it.Next()
	return bi.load()
}

func (bi *badgerIterator) Key() []byte {
	return bi.key
}

func (bi *badgerIterator) Value() []byte {
	return bi.value
}

func (bi *badgerIterator) Error() error {
	return bi.err
}

func (bi *badgerIterator) Release() {
	bi.it.Close()
	bi.txn.Discard()
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
