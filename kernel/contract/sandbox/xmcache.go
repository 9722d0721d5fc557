package sandbox

import (
	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/ledger"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

var (
	// ErrHasDel is returned when key was marked as del
	ErrHasDel = errors.New("Key has been mark as del")
	// ErrNotFound is returned when key is not found
	ErrNotFound = kvdb.ErrKeyNotFound
	// ErrReadOnly is returned when a read only cache is written
	ErrReadOnly = errors.New("sandbox is read only")
)

var (
	_ contract.StateSandbox = (*XMCache)(nil)
)

// XMCache data structure for XModel Cache
type XMCache struct {
	// Key: bucket_key; Value: VersionedData
	inputsCache *MemXModel // bucket -> {k1:v1, k2:v2}
	// Key: bucket_key; Value: PureData
	outputsCache *MemXModel

	model    ledger.XMReader
	readOnly bool

	events []*contract.Event
}

// NewXModelCache new an instance of XModel Cache
func NewXModelCache(model ledger.XMReader) *XMCache {
	return &XMCache{
		model:        model,
		inputsCache:  NewMemXModel(),
		outputsCache: NewMemXModel(),
	}
}

// NewReadOnlyCache returns a cache whose Put, Del and AddEvent fail or are dropped
func NewReadOnlyCache(model ledger.XMReader) *XMCache {
	xc := NewXModelCache(model)
	xc.readOnly = true
	return xc
}

// Get 读取一个key的值
func (xc *XMCache) Get(bucket string, key []byte) ([]byte, error) {
	// Level1: get from outputsCache
	data, err := xc.getFromOuputsCache(bucket, key)
	if err != nil && err != ErrNotFound {
		return nil, err
	}

	if err == nil {
		return data.PureData.Value, nil
	}

	// Level2: get and set from inputsCache
	verData, err := xc.getAndSetFromInputsCache(bucket, key)
	if err != nil {
		return nil, err
	}
	if IsEmptyVersionedData(verData) {
		return nil, ErrNotFound
	}
	if IsDelFlag(verData.GetPureData().GetValue()) {
		return nil, ErrHasDel
	}
	return verData.GetPureData().GetValue(), nil
}

// Level1 读取，从outputsCache中读取
func (xc *XMCache) getFromOuputsCache(bucket string, key []byte) (*ledger.VersionedData, error) {
	data, err := xc.outputsCache.Get(bucket, key)
	if err != nil {
		return nil, err
	}

	if IsDelFlag(data.PureData.Value) {
		return nil, ErrHasDel
	}
	return data, nil
}

// Level2 读取，从inputsCache中读取, 读取不到的情况下从model里读取，并且会将内容填充到读集中
func (xc *XMCache) getAndSetFromInputsCache(bucket string, key []byte) (*ledger.VersionedData, error) {
	data, err := xc.inputsCache.Get(bucket, key)
	if err == nil {
		return data, nil
	}

	data, err = xc.model.Get(bucket, key)
	if err == ErrNotFound {
		data = &ledger.VersionedData{PureData: &ledger.PureData{Bucket: bucket, Key: key}}
	} else if err != nil {
		return nil, err
	}
	xc.inputsCache.Put(bucket, key, data)
	return data, nil
}

// Put put a pair of <key, value> into XModel Cache
func (xc *XMCache) Put(bucket string, key []byte, value []byte) error {
	if xc.readOnly {
		return ErrReadOnly
	}
	val := &ledger.VersionedData{
		PureData: &ledger.PureData{
			Key:    key,
			Value:  value,
			Bucket: bucket,
		},
	}
	// put 前先强制get一下，保证读集包含被覆盖的版本
	if _, err := xc.Get(bucket, key); err != nil && err != ErrNotFound && err != ErrHasDel {
		return err
	}
	return xc.outputsCache.Put(bucket, key, val)
}

// Del delete one key from outPutCache, marked its value as `DelFlag`
func (xc *XMCache) Del(bucket string, key []byte) error {
	return xc.Put(bucket, key, []byte(DelFlag))
}

// Select select all kv from a bucket, can set key range, left closed, right opend
func (xc *XMCache) Select(bucket string, startKey []byte, endKey []byte) (contract.Iterator, error) {
	outputIter, err := xc.outputsCache.Select(bucket, startKey, endKey)
	if err != nil {
		return nil, err
	}

	backendIter, err := xc.model.Select(bucket, startKey, endKey)
	if err != nil {
		return nil, err
	}
	backendIter = newRsetIterator(bucket, backendIter, xc)

	// outputIter优先，同一个key以写集为准，最后剔除删除标记
	multiIter := newStripDelIterator(newMultiIterator(outputIter, backendIter))
	return newContractIterator(multiIter), nil
}

// RWSet get read/write sets
func (xc *XMCache) RWSet() *contract.RWSet {
	return &contract.RWSet{
		RSet: xc.getReadSets(),
		WSet: xc.getWriteSets(),
	}
}

func (xc *XMCache) getReadSets() []*ledger.VersionedData {
	var readSets []*ledger.VersionedData
	iter := xc.inputsCache.NewIterator()
	defer iter.Close()
	for iter.Next() {
		readSets = append(readSets, iter.Value())
	}
	return readSets
}

func (xc *XMCache) getWriteSets() []*ledger.PureData {
	var writeSets []*ledger.PureData
	iter := xc.outputsCache.NewIterator()
	defer iter.Close()
	for iter.Next() {
		writeSets = append(writeSets, iter.Value().PureData)
	}
	return writeSets
}

// AddEvent add contract event to xmodel cache
func (xc *XMCache) AddEvent(events ...*contract.Event) {
	if xc.readOnly {
		return
	}
	xc.events = append(xc.events, events...)
}

// Events returns events added so far
func (xc *XMCache) Events() []*contract.Event {
	return xc.events
}
