package sandbox

import (
	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/xuperchain/xcampaign/kernel/ledger"
)

var (
	_ ledger.XMReader = (*MemXModel)(nil)
)

// MemXModel is an ordered in-memory XMReader, keyed by bucket/key
type MemXModel struct {
	tree *redblacktree.Tree
}

// XMReaderFromRWSet rebuilds a reader holding exactly the read set
func XMReaderFromRWSet(rset []*ledger.VersionedData) ledger.XMReader {
	m := NewMemXModel()
	for _, r := range rset {
		m.Put(r.GetPureData().GetBucket(), r.GetPureData().GetKey(), r)
	}
	return m
}

func NewMemXModel() *MemXModel {
	return &MemXModel{
		tree: redblacktree.NewWithStringComparator(),
	}
}

// Get 读取一个key的值，返回的value就是有版本的data
func (m *MemXModel) Get(bucket string, key []byte) (*ledger.VersionedData, error) {
	buKey := makeRawKey(bucket, key)
	v, ok := m.tree.Get(string(buKey))
	if !ok {
		return nil, ErrNotFound
	}
	return v.(*ledger.VersionedData), nil
}

func (m *MemXModel) Put(bucket string, key []byte, value *ledger.VersionedData) error {
	buKey := makeRawKey(bucket, key)
	m.tree.Put(string(buKey), value)
	return nil
}

// Select 扫描一个bucket中所有的kv, 调用者可以设置key区间[startKey, endKey), endKey为空时扫描到bucket结尾
func (m *MemXModel) Select(bucket string, startKey []byte, endKey []byte) (ledger.XMIterator, error) {
	rawStartKey := makeRawKey(bucket, startKey)
	rawEndKey := bucketEnd(bucket)
	if len(endKey) > 0 {
		rawEndKey = makeRawKey(bucket, endKey)
	}
	return m.rangeIterator(string(rawStartKey), string(rawEndKey)), nil
}

// NewIterator iterates over all entries of all buckets
func (m *MemXModel) NewIterator() ledger.XMIterator {
	return m.rangeIterator("", "")
}

// Len returns the number of entries
func (m *MemXModel) Len() int {
	return m.tree.Size()
}

// rangeIterator snapshots [start, end) of the tree, an empty end means no upper bound
func (m *MemXModel) rangeIterator(start, end string) ledger.XMIterator {
	values := make([]*ledger.VersionedData, 0)
	it := m.tree.Iterator()
	for it.Next() {
		k := it.Key().(string)
		if k < start {
			continue
		}
		if end != "" && k >= end {
			break
		}
		values = append(values, it.Value().(*ledger.VersionedData))
	}
	return &sliceIterator{values: values, idx: -1}
}

// sliceIterator 把有序数组转换成XMIterator
type sliceIterator struct {
	values []*ledger.VersionedData
	idx    int
}

func (s *sliceIterator) Next() bool {
	if s.idx+1 >= len(s.values) {
		s.idx = len(s.values)
		return false
	}
	s.idx++
	return true
}

func (s *sliceIterator) Key() []byte {
	v := s.Value()
	if v == nil {
		return nil
	}
	return v.GetPureData().GetKey()
}

func (s *sliceIterator) Value() *ledger.VersionedData {
	if s.idx < 0 || s.idx >= len(s.values) {
		return nil
	}
	return s.values[s.idx]
}

func (s *sliceIterator) Error() error {
	return nil
}

func (s *sliceIterator) Close() {
	s.values = nil
}
