package sandbox

import (
	"bytes"

	"github.com/xuperchain/xcampaign/kernel/ledger"
)

// BucketSeperator separator between bucket and raw key
const BucketSeperator = "/"

// DelFlag delete flag
const DelFlag = "\x00"

func makeRawKey(bucket string, key []byte) []byte {
	k := append([]byte(bucket), []byte(BucketSeperator)...)
	return append(k, key...)
}

// bucketEnd is the smallest raw key after every key of bucket
func bucketEnd(bucket string) []byte {
	end := []byte(bucket + BucketSeperator)
	end[len(end)-1]++
	return end
}

// IsEmptyVersionedData check if VersionedData is empty
func IsEmptyVersionedData(vd *ledger.VersionedData) bool {
	return vd.RefTxid == nil && vd.RefOffset == 0
}

func IsDelFlag(value []byte) bool {
	return bytes.Equal([]byte(DelFlag), value)
}

func compareBytes(k1, k2 []byte) int {
	if len(k1) == 0 && len(k2) == 0 {
		return 0
	}
	if len(k1) == 0 {
		return 1
	}
	if len(k2) == 0 {
		return -1
	}
	return bytes.Compare(k1, k2)
}
