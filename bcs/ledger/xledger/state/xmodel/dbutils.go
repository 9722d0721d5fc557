package xmodel

import (
	"bytes"
)

// BucketSeperator separator between bucket and raw key
const BucketSeperator = "/"

// DelFlag delete flag
const DelFlag = "\x00"

// StateTablePrefix prefix of the current state table
const StateTablePrefix = "S"

func isDelFlag(value []byte) bool {
	return bytes.Equal([]byte(DelFlag), value)
}

// MakeRawKey make key with bucket and raw key
func MakeRawKey(bucket string, key []byte) []byte {
	return makeRawKey(bucket, key)
}

func makeRawKey(bucket string, key []byte) []byte {
	k := append([]byte(bucket), []byte(BucketSeperator)...)
	return append(k, key...)
}

// splitRawKey is the inverse of makeRawKey
func splitRawKey(rawKey []byte) (string, []byte) {
	idx := bytes.Index(rawKey, []byte(BucketSeperator))
	if idx < 0 {
		return "", rawKey
	}
	return string(rawKey[:idx]), rawKey[idx+1:]
}
