// Package ledger 定义合约沙盒与状态存储之间共享的数据结构
package ledger

import (
	"fmt"
)

// XMReader 状态只读接口，引擎的已提交状态和测试用的内存状态都实现它
type XMReader interface {
	// Get 返回带版本的值，key不存在时返回空版本而不是错误
	Get(bucket string, key []byte) (*VersionedData, error)
	// Select 扫描bucket内[startKey, endKey)区间
	Select(bucket string, startKey []byte, endKey []byte) (XMIterator, error)
}

// XMIterator walks versioned values in key order. Close must be called.
type XMIterator interface {
	Key() []byte
	Value() *VersionedData
	Next() bool
	Error() error
	Close()
}

// PureData 一条写集记录
type PureData struct {
	Bucket string `json:"bucket"`
	Key    []byte `json:"key"`
	Value  []byte `json:"value,omitempty"`
}

func (t *PureData) GetBucket() string {
	if t == nil {
		return ""
	}
	return t.Bucket
}

func (t *PureData) GetKey() []byte {
	if t == nil {
		return nil
	}
	return t.Key
}

func (t *PureData) GetValue() []byte {
	if t == nil {
		return nil
	}
	return t.Value
}

// VersionedData 记录值以及写入它的交易，RefOffset是该值在交易写集中的下标
type VersionedData struct {
	PureData  *PureData `json:"data"`
	RefTxid   []byte    `json:"txid,omitempty"`
	RefOffset int32     `json:"offset,omitempty"`
}

func (t *VersionedData) GetPureData() *PureData {
	if t == nil {
		return nil
	}
	return t.PureData
}

func (t *VersionedData) GetRefTxid() []byte {
	if t == nil {
		return nil
	}
	return t.RefTxid
}

// Version returns "txid_offset", or "" for a value no transaction has written
func (t *VersionedData) Version() string {
	if t.GetRefTxid() == nil {
		return ""
	}
	return fmt.Sprintf("%x_%d", t.RefTxid, t.RefOffset)
}
