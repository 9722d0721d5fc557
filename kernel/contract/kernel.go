package contract

import (
	"math/big"
)

type KernRegistry interface {
	RegisterKernMethod(contract, method string, handler KernMethod)
	GetKernMethod(contract, method string) (KernMethod, error)
}

type KernMethod func(ctx KContext) (*Response, error)

// FundsLedger moves native value between accounts
type FundsLedger interface {
	Transfer(from, to string, amount *big.Int) error
	Balance(addr string) (*big.Int, error)
}

type KContext interface {
	// 交易相关数据
	Args() map[string][]byte
	Initiator() string
	ContractName() string
	Method() string
	// value attached to the call, never nil
	TransferAmount() *big.Int

	// 状态修改接口
	StateSandbox
	FundsLedger
}
