package sandbox

import (
	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/ledger"
)

// multiIterator 按照归并排序合并两个XMIterator
// 如果两个XMIterator在某次迭代返回同样的Key，选取front的Value
type multiIterator struct {
	front ledger.XMIterator
	back  ledger.XMIterator

	started  bool
	frontOk  bool
	backOk   bool
	advFront bool
	advBack  bool

	value *ledger.VersionedData
}

func newMultiIterator(front, back ledger.XMIterator) ledger.XMIterator {
	return &multiIterator{
		front: front,
		back:  back,
	}
}

func (m *multiIterator) Next() bool {
	if !m.started {
		m.started = true
		m.frontOk = m.front.Next()
		m.backOk = m.back.Next()
	} else {
		if m.advFront {
			m.frontOk = m.front.Next()
		}
		if m.advBack {
			m.backOk = m.back.Next()
		}
	}
	m.advFront, m.advBack = false, false

	switch {
	case !m.frontOk && !m.backOk:
		m.value = nil
		return false
	case !m.backOk:
		m.value = m.front.Value()
		m.advFront = true
	case !m.frontOk:
		m.value = m.back.Value()
		m.advBack = true
	default:
		ret := compareBytes(m.front.Key(), m.back.Key())
		if ret <= 0 {
			m.value = m.front.Value()
			m.advFront = true
			// 相同key时丢弃back的值
			m.advBack = ret == 0
		} else {
			m.value = m.back.Value()
			m.advBack = true
		}
	}
	return true
}

func (m *multiIterator) Key() []byte {
	return m.value.GetPureData().GetKey()
}

func (m *multiIterator) Value() *ledger.VersionedData {
	return m.value
}

func (m *multiIterator) Error() error {
	if err := m.front.Error(); err != nil {
		return err
	}
	return m.back.Error()
}

func (m *multiIterator) Close() {
	m.front.Close()
	m.back.Close()
}

// rsetIterator 把迭代到的backend数据记录到读集
type rsetIterator struct {
	ledger.XMIterator
	bucket string
	mc     *XMCache
}

func newRsetIterator(bucket string, iter ledger.XMIterator, mc *XMCache) ledger.XMIterator {
	return &rsetIterator{
		XMIterator: iter,
		bucket:     bucket,
		mc:         mc,
	}
}

func (r *rsetIterator) Next() bool {
	if !r.XMIterator.Next() {
		return false
	}
	key := r.XMIterator.Key()
	if _, err := r.mc.inputsCache.Get(r.bucket, key); err == ErrNotFound {
		r.mc.inputsCache.Put(r.bucket, key, r.XMIterator.Value())
	}
	return true
}

// stripDelIterator 跳过被标记删除的key
type stripDelIterator struct {
	ledger.XMIterator
}

func newStripDelIterator(iter ledger.XMIterator) ledger.XMIterator {
	return &stripDelIterator{iter}
}

func (s *stripDelIterator) Next() bool {
	for s.XMIterator.Next() {
		if IsDelFlag(s.XMIterator.Value().GetPureData().GetValue()) {
			continue
		}
		return true
	}
	return false
}

// contractIterator 把XMIterator转换成合约使用的Iterator
type contractIterator struct {
	ledger.XMIterator
}

func newContractIterator(iter ledger.XMIterator) contract.Iterator {
	return &contractIterator{iter}
}

func (c *contractIterator) Value() []byte {
	return c.XMIterator.Value().GetPureData().GetValue()
}
