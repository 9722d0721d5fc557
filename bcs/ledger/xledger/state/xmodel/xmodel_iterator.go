package xmodel

import (
	kledger "github.com/xuperchain/xcampaign/kernel/ledger"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

// XMIterator data structure for XModel Iterator
type XMIterator struct {
	bucket string
	iter   kvdb.Iterator
	value  *kledger.VersionedData
	err    error
}

// Value get data pointer to VersionedData for XMIterator
func (di *XMIterator) Value() *kledger.VersionedData {
	return di.value
}

// Next check if next element exist
func (di *XMIterator) Next() bool {
	if di.err != nil {
		return false
	}
	ok := di.iter.Next()
	if !ok {
		return false
	}
	verData, err := decodeVersionedData(di.iter.Value())
	if err != nil {
		di.err = err
		return false
	}
	if verData.PureData.Bucket == "" {
		bucket, key := splitRawKey(di.iter.Key())
		verData.PureData.Bucket = bucket
		verData.PureData.Key = append([]byte(nil), key...)
	}
	di.value = verData
	return true
}

// Key get key for XMIterator
func (di *XMIterator) Key() []byte {
	v := di.Value()
	if v == nil {
		return nil
	}
	return v.GetPureData().GetKey()
}

// Error return error info for XMIterator
func (di *XMIterator) Error() error {
	kverr := di.iter.Error()
	if kverr != nil {
		return kverr
	}
	return di.err
}

// Close release XMIterator
func (di *XMIterator) Close() {
	di.iter.Release()
	di.value = nil
}
