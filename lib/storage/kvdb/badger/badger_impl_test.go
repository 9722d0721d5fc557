package badger

import (
	"fmt"
	"testing"

	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

func TestBadgerBasic(t *testing.T) {
	for _, path := range []string{"", t.TempDir()} {
		db, err := kvdb.CreateKVInstance(&kvdb.KVParameter{
			DBPath:       path,
			KVEngineType: kvdb.KVEngineTypeBadger,
			MemCacheSize: 16,
		})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := db.Get([]byte("missing")); !kvdb.ErrNotFound(err) {
			t.Fatalf("expect not found, got %v", err)
		}

		batch := db.NewBatch()
		for i := 0; i < 4; i++ {
			batch.Put([]byte(fmt.Sprintf("a/%d", i)), []byte(fmt.Sprintf("v%d", i)))
		}
		batch.Put([]byte("b/0"), []byte("x"))
		batch.Delete([]byte("a/3"))
		if err := batch.Write(); err != nil {
			t.Fatal(err)
		}

		val, err := db.Get([]byte("a/2"))
		if err != nil || string(val) != "v2" {
			t.Fatalf("unexpected value %s, err %v", val, err)
		}
		if ok, _ := db.Has([]byte("a/3")); ok {
			t.Fatal("a/3 must be deleted in batch")
		}

		iter := db.NewIteratorWithPrefix([]byte("a/"))
		var keys []string
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
		}
		iter.Release()
		if len(keys) != 3 || keys[0] != "a/0" || keys[2] != "a/2" {
			t.Fatalf("unexpected prefix keys %v", keys)
		}

		iter = db.NewIteratorWithRange([]byte("a/1"), []byte("b/0"))
		keys = keys[:0]
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
		}
		iter.Release()
		if len(keys) != 2 {
			t.Fatalf("unexpected range keys %v", keys)
		}

		db.Close()
	}
}
