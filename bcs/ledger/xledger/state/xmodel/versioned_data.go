package xmodel

import (
	"encoding/json"
	"fmt"

	kledger "github.com/xuperchain/xcampaign/kernel/ledger"
)

func parseVersion(version string) ([]byte, int, error) {
	txid := []byte{}
	offset := 0
	okNum, err := fmt.Sscanf(version, "%x_%d", &txid, &offset)
	if okNum != 2 && err != nil {
		return nil, 0, fmt.Errorf("parseVersion failed, invalid version: %s", version)
	}
	return txid, offset, nil
}

// GetTxidFromVersion parse version and fetch txid from version string
func GetTxidFromVersion(version string) []byte {
	txid, _, err := parseVersion(version)
	if err != nil {
		return []byte("")
	}
	return txid
}

// MakeVersion generate a version by txid and offset, version = txid_offset
func MakeVersion(txid []byte, offset int32) string {
	return fmt.Sprintf("%x_%d", txid, offset)
}

// GetVersion get VersionedData's version, if refTxid is nil, return ""
func GetVersion(vd *kledger.VersionedData) string {
	return vd.Version()
}

// IsEmptyVersionedData check if VersionedData is empty
func IsEmptyVersionedData(vd *kledger.VersionedData) bool {
	return vd.RefTxid == nil && vd.RefOffset == 0
}

func makeEmptyVersionedData(bucket string, key []byte) *kledger.VersionedData {
	verData := &kledger.VersionedData{PureData: &kledger.PureData{}}
	verData.PureData.Bucket = bucket
	verData.PureData.Key = key
	return verData
}

func encodeVersionedData(vd *kledger.VersionedData) ([]byte, error) {
	return json.Marshal(vd)
}

func decodeVersionedData(buf []byte) (*kledger.VersionedData, error) {
	vd := &kledger.VersionedData{}
	if err := json.Unmarshal(buf, vd); err != nil {
		return nil, fmt.Errorf("decode versioned data failed: %v", err)
	}
	if vd.PureData == nil {
		vd.PureData = &kledger.PureData{}
	}
	return vd, nil
}
