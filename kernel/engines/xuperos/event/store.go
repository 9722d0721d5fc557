package event

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/gammazero/deque"
	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/lib/metrics"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

const (
	seqKey = "event_seq"
)

// Store persists events in the same batch as the state they belong to,
// and keeps the latest ones in memory for subscribers.
// Write and Commit must be called by the single writer.
type Store struct {
	table *kvdb.Table
	index *kvdb.Table
	meta  *kvdb.Table
	log   logs.Logger

	mutex   sync.RWMutex
	nextSeq uint64
	recent  deque.Deque
	bufSize int
}

func NewStore(db kvdb.Database, bufSize int, log logs.Logger) (*Store, error) {
	if db == nil || log == nil || bufSize <= 0 {
		return nil, fmt.Errorf("new event store failed because param error")
	}
	s := &Store{
		table:   kvdb.NewTable(db, common.EventTablePrefix).(*kvdb.Table),
		index:   kvdb.NewTable(db, common.EventIndexPrefix).(*kvdb.Table),
		meta:    kvdb.NewTable(db, common.MetaTablePrefix).(*kvdb.Table),
		log:     log,
		bufSize: bufSize,
	}

	value, err := s.meta.Get([]byte(seqKey))
	if err != nil && !kvdb.ErrNotFound(err) {
		return nil, errors.Wrap(err, "load event seq failed")
	}
	if len(value) > 0 {
		s.nextSeq, err = strconv.ParseUint(string(value), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad event seq %q", value)
		}
	}
	if err := s.loadRecent(); err != nil {
		return nil, err
	}
	return s, nil
}

func keyOfRecord(seq uint64) []byte {
	return []byte(fmt.Sprintf("%020d", seq))
}

func keyOfIndex(campaign string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s/%020d", campaign, seq))
}

// Write puts the events of one tx into batch, sequence numbers become visible after Commit
func (s *Store) Write(batch kvdb.Batch, txHash string, events []*contract.Event, timestamp int64) ([]*Record, error) {
	tb := s.table.WrapBatch(batch)
	ib := s.index.WrapBatch(batch)
	seq := s.nextSeq

	records := make([]*Record, 0, len(events))
	for _, ev := range events {
		r := &Record{
			Seq:       seq,
			TxHash:    txHash,
			Contract:  ev.Contract,
			Name:      ev.Name,
			Campaign:  campaignOf(ev),
			Body:      ev.Body,
			Timestamp: timestamp,
		}
		buf, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		if err := tb.Put(keyOfRecord(seq), buf); err != nil {
			return nil, err
		}
		if r.Campaign != "" {
			if err := ib.Put(keyOfIndex(r.Campaign, seq), keyOfRecord(seq)); err != nil {
				return nil, err
			}
		}
		records = append(records, r)
		seq++
	}
	if len(records) > 0 {
		mb := s.meta.WrapBatch(batch)
		if err := mb.Put([]byte(seqKey), []byte(strconv.FormatUint(seq, 10))); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Commit makes records written by the last successful batch visible
func (s *Store) Commit(records []*Record) {
	if len(records) == 0 {
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.nextSeq = records[len(records)-1].Seq + 1
	for _, r := range records {
		s.push(r)
		metrics.LedgerEventCounter.WithLabelValues(r.Contract).Inc()
	}
}

func (s *Store) push(r *Record) {
	s.recent.PushBack(r)
	for s.recent.Len() > s.bufSize {
		s.recent.PopFront()
	}
}

// Recent returns up to n latest records matching filter, oldest first
func (s *Store) Recent(filter *Filter, n int) []*Record {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	all := make([]*Record, 0, s.recent.Len())
	for i := 0; i < s.recent.Len(); i++ {
		if rec := s.recent.At(i).(*Record); filter.Match(rec) {
			all = append(all, rec)
		}
	}
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// List pages through the persisted events of a campaign in emission order
func (s *Store) List(campaign string, offset, limit int) ([]*Record, error) {
	if offset < 0 || limit <= 0 {
		return nil, common.ErrParameter.More("offset %d limit %d", offset, limit)
	}
	iter := s.index.NewIteratorWithPrefix([]byte(campaign + "/"))
	defer iter.Release()

	records := make([]*Record, 0)
	for skipped := 0; iter.Next(); {
		if skipped < offset {
			skipped++
			continue
		}
		r, err := s.get(iter.Value())
		if err != nil {
			return nil, err
		}
		records = append(records, r)
		if len(records) >= limit {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate event index failed")
	}
	return records, nil
}

// NextSeq is the sequence number the next event will get
func (s *Store) NextSeq() uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.nextSeq
}

func (s *Store) get(key []byte) (*Record, error) {
	buf, err := s.table.Get(key)
	if err != nil {
		return nil, errors.Wrapf(err, "get event %s failed", key)
	}
	r := new(Record)
	if err := json.Unmarshal(buf, r); err != nil {
		return nil, errors.Wrap(err, "event unmarshal failed")
	}
	return r, nil
}

// loadRecent refills the buffer from the tail of the log after restart
func (s *Store) loadRecent() error {
	if s.nextSeq == 0 {
		return nil
	}
	var start uint64
	if s.nextSeq > uint64(s.bufSize) {
		start = s.nextSeq - uint64(s.bufSize)
	}
	iter := s.table.NewIteratorWithRange(keyOfRecord(start), nil)
	defer iter.Release()
	for iter.Next() {
		r := new(Record)
		if err := json.Unmarshal(iter.Value(), r); err != nil {
			return errors.Wrap(err, "event unmarshal failed")
		}
		s.push(r)
	}
	s.log.Trace("load recent events", "count", s.recent.Len(), "nextSeq", s.nextSeq)
	return iter.Error()
}
