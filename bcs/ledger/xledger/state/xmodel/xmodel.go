package xmodel

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	kledger "github.com/xuperchain/xcampaign/kernel/ledger"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

const (
	stateCacheSize = 4096
)

// XModel keeps the latest versioned value of every bucket/key.
// Writes go through DoTx into a caller owned batch, reads see the last written batch.
type XModel struct {
	stateDB    kvdb.Database
	stateTable *kvdb.Table
	logger     logs.Logger
	// rawKey -> *VersionedData
	cache *lru.Cache
}

// NewXModel new an instance of XModel
func NewXModel(stateDB kvdb.Database, logger logs.Logger) (*XModel, error) {
	if stateDB == nil || logger == nil {
		return nil, fmt.Errorf("new xmodel failed because some param are missing")
	}
	cache, err := lru.New(stateCacheSize)
	if err != nil {
		return nil, err
	}

	return &XModel{
		stateDB:    stateDB,
		stateTable: kvdb.NewTable(stateDB, StateTablePrefix).(*kvdb.Table),
		logger:     logger,
		cache:      cache,
	}, nil
}

// DoTx writes the write set of txid into batch, the i-th entry gets version txid_i.
// The batch must be written by the caller before the next read.
func (s *XModel) DoTx(txid []byte, wset []*kledger.PureData, batch kvdb.Batch) error {
	tb := s.stateTable.WrapBatch(batch)
	for offset, pd := range wset {
		if pd == nil {
			continue
		}
		rawKey := makeRawKey(pd.Bucket, pd.Key)
		s.cache.Remove(string(rawKey))
		if isDelFlag(pd.Value) {
			if err := tb.Delete(rawKey); err != nil {
				return err
			}
			s.logger.Trace("    xmodel del", "delkey", string(rawKey))
			continue
		}

		buf, err := encodeVersionedData(&kledger.VersionedData{
			RefTxid:   txid,
			RefOffset: int32(offset),
			PureData: &kledger.PureData{
				Bucket: pd.Bucket,
				Key:    pd.Key,
				Value:  pd.Value,
			},
		})
		if err != nil {
			return err
		}
		if err := tb.Put(rawKey, buf); err != nil {
			return err
		}
		s.logger.Trace("    xmodel put", "putkey", string(rawKey),
			"version", MakeVersion(txid, int32(offset)))
	}
	return nil
}

// Get get value for specific key, return value with version.
// A missing key yields an empty VersionedData, never an error.
func (s *XModel) Get(bucket string, key []byte) (*kledger.VersionedData, error) {
	rawKey := makeRawKey(bucket, key)
	if v, ok := s.cache.Get(string(rawKey)); ok {
		return v.(*kledger.VersionedData), nil
	}

	buf, err := s.stateTable.Get(rawKey)
	if err != nil {
		if kvdb.ErrNotFound(err) {
			return makeEmptyVersionedData(bucket, key), nil
		}
		return nil, err
	}
	vd, err := decodeVersionedData(buf)
	if err != nil {
		return nil, err
	}
	s.cache.Add(string(rawKey), vd)
	return vd, nil
}

// Select select all kv from a bucket, can set key range, left closed, right opend.
// An empty endKey scans to the end of the bucket.
func (s *XModel) Select(bucket string, startKey []byte, endKey []byte) (kledger.XMIterator, error) {
	rawStartKey := makeRawKey(bucket, startKey)
	var iter kvdb.Iterator
	if len(endKey) == 0 {
		iter = s.stateTable.NewIteratorWithRange(rawStartKey, bucketEnd(bucket))
	} else {
		iter = s.stateTable.NewIteratorWithRange(rawStartKey, makeRawKey(bucket, endKey))
	}
	return &XMIterator{
		bucket: bucket,
		iter:   iter,
	}, nil
}

// Close releases the state database
func (s *XModel) Close() error {
	s.cache.Purge()
	return s.stateDB.Close()
}

func bucketEnd(bucket string) []byte {
	end := []byte(bucket + BucketSeperator)
	end[len(end)-1]++
	return end
}
