package sandbox

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/ledger"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

// helper for test
func putVersionedData(state *MemXModel, bucket string, key []byte, value []byte) {
	state.Put(bucket, key, &ledger.VersionedData{
		RefTxid: []byte("txid"),
		PureData: &ledger.PureData{
			Bucket: bucket,
			Key:    key,
			Value:  value,
		},
	})
}

func newBackend() *MemXModel {
	state := NewMemXModel()
	for i := 0; i < 6; i++ {
		putVersionedData(state, "test", []byte(fmt.Sprintf("key_%d", i)), []byte(fmt.Sprintf("value_%d", i)))
	}
	putVersionedData(state, "other", []byte("key_0"), []byte("other"))
	return state
}

func TestXMCacheGetPut(t *testing.T) {
	xc := NewXModelCache(newBackend())

	value, err := xc.Get("test", []byte("key_1"))
	if err != nil || string(value) != "value_1" {
		t.Fatalf("unexpected value %s, err %v", value, err)
	}
	if _, err := xc.Get("test", []byte("missing")); !kvdb.ErrNotFound(err) {
		t.Fatalf("expect not found, got %v", err)
	}

	xc.Put("test", []byte("key_1"), []byte("new"))
	value, _ = xc.Get("test", []byte("key_1"))
	if string(value) != "new" {
		t.Fatal("expect value from write set")
	}

	xc.Del("test", []byte("key_2"))
	if _, err := xc.Get("test", []byte("key_2")); !errors.Is(err, ErrHasDel) {
		t.Fatalf("expect has del, got %v", err)
	}

	rwset := xc.RWSet()
	if len(rwset.WSet) != 2 {
		t.Fatalf("expect 2 writes, got %d", len(rwset.WSet))
	}
	// key_1 key_2 and missing were read
	if len(rwset.RSet) != 3 {
		t.Fatalf("expect 3 reads, got %d", len(rwset.RSet))
	}
	if !IsDelFlag(rwset.WSet[1].Value) {
		t.Fatal("expect del flag in write set")
	}
}

func TestXMCacheSelect(t *testing.T) {
	xc := NewXModelCache(newBackend())
	xc.Put("test", []byte("key_1"), []byte("new"))
	xc.Put("test", []byte("key_10"), []byte("inserted"))
	xc.Del("test", []byte("key_3"))

	iter, err := xc.Select("test", []byte("key_0"), []byte("key_5"))
	if err != nil {
		t.Fatal(err)
	}
	defer iter.Close()

	var got []string
	for iter.Next() {
		got = append(got, fmt.Sprintf("%s=%s", iter.Key(), iter.Value()))
	}
	if iter.Error() != nil {
		t.Fatal(iter.Error())
	}
	expect := []string{"key_0=value_0", "key_1=new", "key_10=inserted", "key_2=value_2", "key_4=value_4"}
	if fmt.Sprint(got) != fmt.Sprint(expect) {
		t.Fatalf("expect %v, got %v", expect, got)
	}

	iter2, _ := xc.Select("test", nil, nil)
	cnt := 0
	for iter2.Next() {
		cnt++
	}
	iter2.Close()
	if cnt != 6 {
		t.Fatalf("expect 6 live keys, got %d", cnt)
	}
}

func TestReadOnlyCache(t *testing.T) {
	xc := NewReadOnlyCache(newBackend())
	if err := xc.Put("test", []byte("key_1"), []byte("x")); err != ErrReadOnly {
		t.Fatalf("expect read only error, got %v", err)
	}
	if len(xc.RWSet().WSet) != 0 {
		t.Fatal("read only cache must not have writes")
	}
}

func TestXMReaderFromRWSet(t *testing.T) {
	xc := NewXModelCache(newBackend())
	xc.Get("test", []byte("key_4"))

	reader := XMReaderFromRWSet(xc.RWSet().RSet)
	vd, err := reader.Get("test", []byte("key_4"))
	if err != nil || string(vd.GetPureData().GetValue()) != "value_4" {
		t.Fatalf("unexpected %v %v", vd, err)
	}
	if _, err := reader.Get("test", []byte("key_5")); err != ErrNotFound {
		t.Fatal("reader must only contain read set")
	}
}
