package kvdb

// Table is a Database view whose keys all carry a fixed prefix
type Table struct {
	db     Database
	prefix string
}

// NewTable returns a Database wrapper that prefixes all keys with prefix
func NewTable(db Database, prefix string) Database {
	return &Table{
		db:     db,
		prefix: prefix,
	}
}

func (t *Table) pk(key []byte) []byte {
	k := make([]byte, 0, len(t.prefix)+len(key))
	k = append(k, t.prefix...)
	return append(k, key...)
}

// Open is a no-op, the underlying database is already open
func (t *Table) Open(path string, options map[string]interface{}) error {
	return nil
}

func (t *Table) Put(key []byte, value []byte) error {
	return t.db.Put(t.pk(key), value)
}

func (t *Table) Has(key []byte) (bool, error) {
	return t.db.Has(t.pk(key))
}

func (t *Table) Get(key []byte) ([]byte, error) {
	return t.db.Get(t.pk(key))
}

func (t *Table) Delete(key []byte) error {
	return t.db.Delete(t.pk(key))
}

// Close does not close the underlying database
func (t *Table) Close() error {
	return nil
}

func (t *Table) NewIteratorWithRange(start []byte, limit []byte) Iterator {
	var rawLimit []byte
	if len(limit) == 0 {
		// 无上界时扫描到前缀结束
		rawLimit = prefixEnd([]byte(t.prefix))
	} else {
		rawLimit = t.pk(limit)
	}
	return &tableIterator{
		Iterator: t.db.NewIteratorWithRange(t.pk(start), rawLimit),
		prefix:   len(t.prefix),
	}
}

func (t *Table) NewIteratorWithPrefix(prefix []byte) Iterator {
	return &tableIterator{
		Iterator: t.db.NewIteratorWithPrefix(t.pk(prefix)),
		prefix:   len(t.prefix),
	}
}

func (t *Table) NewBatch() Batch {
	return &tableBatch{batch: t.db.NewBatch(), table: t}
}

// WrapBatch makes writes to batch go through the table prefix, so that
// several tables can share one atomic batch
func (t *Table) WrapBatch(batch Batch) Batch {
	return &tableBatch{batch: batch, table: t}
}

type tableBatch struct {
	batch Batch
	table *Table
}

func (tb *tableBatch) Put(key, value []byte) error {
	return tb.batch.Put(tb.table.pk(key), value)
}

func (tb *tableBatch) Delete(key []byte) error {
	return tb.batch.Delete(tb.table.pk(key))
}

func (tb *tableBatch) Write() error {
	return tb.batch.Write()
}

func (tb *tableBatch) ValueSize() int {
	return tb.batch.ValueSize()
}

func (tb *tableBatch) Reset() {
	tb.batch.Reset()
}

type tableIterator struct {
	Iterator
	prefix int
}

// Key strips the table prefix
func (ti *tableIterator) Key() []byte {
	key := ti.Iterator.Key()
	if len(key) < ti.prefix {
		return nil
	}
	return key[ti.prefix:]
}

// prefixEnd returns the smallest key greater than all keys with prefix
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
