package manager

import (
	"math/big"

	"github.com/xuperchain/xcampaign/kernel/contract"
)

type kcontextImpl struct {
	cfg    *contract.ContextConfig
	amount *big.Int
	contract.StateSandbox
	contract.FundsLedger
}

func newKContext(cfg *contract.ContextConfig, amount *big.Int) *kcontextImpl {
	return &kcontextImpl{
		cfg:          cfg,
		amount:       amount,
		StateSandbox: cfg.State,
		FundsLedger:  cfg.Funds,
	}
}

// 交易相关数据
func (k *kcontextImpl) Args() map[string][]byte {
	return k.cfg.Args
}

func (k *kcontextImpl) Initiator() string {
	return k.cfg.Initiator
}

func (k *kcontextImpl) ContractName() string {
	return k.cfg.ContractName
}

func (k *kcontextImpl) Method() string {
	return k.cfg.Method
}

func (k *kcontextImpl) TransferAmount() *big.Int {
	return new(big.Int).Set(k.amount)
}
