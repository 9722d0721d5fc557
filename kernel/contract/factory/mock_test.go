package factory

import (
	"fmt"
	"math/big"

	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/sandbox"
	"github.com/xuperchain/xcampaign/kernel/ledger"
)

type FakeKContext struct {
	*sandbox.XMCache

	args      map[string][]byte
	initiator string
}

func NewFakeKContext(state ledger.XMReader, initiator string, args map[string][]byte) *FakeKContext {
	return &FakeKContext{
		XMCache:   sandbox.NewXModelCache(state),
		args:      args,
		initiator: initiator,
	}
}

func (c *FakeKContext) Args() map[string][]byte {
	return c.args
}

func (c *FakeKContext) Initiator() string {
	return c.initiator
}

func (c *FakeKContext) ContractName() string {
	return FactoryContract
}

func (c *FakeKContext) Method() string {
	return ""
}

func (c *FakeKContext) TransferAmount() *big.Int {
	return new(big.Int)
}

func (c *FakeKContext) Transfer(from string, to string, amount *big.Int) error {
	return fmt.Errorf("transfer not supported")
}

func (c *FakeKContext) Balance(addr string) (*big.Int, error) {
	return new(big.Int), nil
}

func commit(state *sandbox.MemXModel, ctx *FakeKContext, txid string) {
	for i, w := range ctx.RWSet().WSet {
		state.Put(w.Bucket, w.Key, &ledger.VersionedData{PureData: w, RefTxid: []byte(txid), RefOffset: int32(i)})
	}
}

type fakeManager struct {
	registry *contract.MethodRegistry
}

func (m *fakeManager) NewContext(cfg *contract.ContextConfig) (contract.KContext, error) {
	return nil, fmt.Errorf("not supported")
}

func (m *fakeManager) NewStateSandbox(cfg *contract.SandboxConfig) (contract.StateSandbox, error) {
	return sandbox.NewXModelCache(cfg.XMReader), nil
}

func (m *fakeManager) GetKernRegistry() contract.KernRegistry {
	return m.registry
}
