package manager

import (
	"fmt"
	"math/big"

	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/sandbox"
	"github.com/xuperchain/xcampaign/kernel/ledger"
	"github.com/xuperchain/xcampaign/lib/logs"
)

type managerImpl struct {
	xmreader  ledger.XMReader
	kregistry *contract.MethodRegistry
	log       logs.Logger
}

func newManagerImpl(cfg *contract.ManagerConfig) (contract.Manager, error) {
	if cfg == nil || cfg.XLog == nil {
		return nil, fmt.Errorf("contract manager config error")
	}
	m := &managerImpl{
		xmreader:  cfg.XMReader,
		kregistry: contract.NewKernRegistry(),
		log:       cfg.XLog,
	}
	return m, nil
}

func (m *managerImpl) NewContext(cfg *contract.ContextConfig) (contract.KContext, error) {
	if cfg == nil || cfg.State == nil || cfg.Funds == nil {
		return nil, fmt.Errorf("context config error, state and funds are required")
	}
	amount := new(big.Int)
	if cfg.TransferAmount != "" {
		var ok bool
		amount, ok = new(big.Int).SetString(cfg.TransferAmount, 10)
		if !ok || amount.Sign() < 0 {
			return nil, fmt.Errorf("invalid transfer amount %q", cfg.TransferAmount)
		}
	}
	return newKContext(cfg, amount), nil
}

func (m *managerImpl) NewStateSandbox(cfg *contract.SandboxConfig) (contract.StateSandbox, error) {
	reader := m.xmreader
	if cfg != nil && cfg.XMReader != nil {
		reader = cfg.XMReader
	}
	if reader == nil {
		return nil, fmt.Errorf("sandbox needs a xmodel reader")
	}
	if cfg != nil && cfg.ReadOnly {
		return sandbox.NewReadOnlyCache(reader), nil
	}
	return sandbox.NewXModelCache(reader), nil
}

func (m *managerImpl) GetKernRegistry() contract.KernRegistry {
	return m.kregistry
}

func init() {
	contract.Register("default", newManagerImpl)
}
