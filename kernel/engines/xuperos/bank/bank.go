// 账户余额保存在状态沙盒里，转账和合约状态修改在同一个读写集中提交
package bank

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/sandbox"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

const (
	// AccountBucket 余额所在的bucket，合约名不能以$开头
	AccountBucket = "$account"
)

var (
	_ contract.FundsLedger = (*Bank)(nil)
)

type Bank struct {
	state     contract.XMState
	rejecting map[string]bool
}

// NewBank returns a funds ledger over state, transfers to rejecting accounts fail
func NewBank(state contract.XMState, rejecting map[string]bool) *Bank {
	return &Bank{
		state:     state,
		rejecting: rejecting,
	}
}

func (b *Bank) Balance(addr string) (*big.Int, error) {
	addr, err := xaddress.Normalize(addr)
	if err != nil {
		return nil, common.ErrParameter.More("%v", err)
	}
	value, err := b.state.Get(AccountBucket, []byte(addr))
	if err != nil && !kvdb.ErrNotFound(err) && !errors.Is(err, sandbox.ErrHasDel) {
		return nil, errors.Wrapf(err, "get balance failed, address: %s", addr)
	}
	if len(value) == 0 {
		return new(big.Int), nil
	}
	balance, ok := new(big.Int).SetString(string(value), 10)
	if !ok {
		return nil, common.ErrInternal.More("bad balance of %s: %q", addr, value)
	}
	return balance, nil
}

func (b *Bank) Transfer(from, to string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return common.ErrParameter.More("invalid amount")
	}
	from, err := xaddress.Normalize(from)
	if err != nil {
		return common.ErrParameter.More("from: %v", err)
	}
	to, err = xaddress.Normalize(to)
	if err != nil {
		return common.ErrParameter.More("to: %v", err)
	}
	if b.rejecting[to] {
		return common.ErrRecipientRejected.More("%s", to)
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}

	fromBalance, err := b.Balance(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return common.ErrInsufficientFunds.More("%s has %s, need %s", from, fromBalance, amount)
	}
	toBalance, err := b.Balance(to)
	if err != nil {
		return err
	}

	if err := b.put(from, fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}
	return b.put(to, toBalance.Add(toBalance, amount))
}

// Mint credits addr out of thin air, used for genesis allocations only
func (b *Bank) Mint(addr string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return common.ErrParameter.More("invalid amount")
	}
	addr, err := xaddress.Normalize(addr)
	if err != nil {
		return common.ErrParameter.More("%v", err)
	}
	balance, err := b.Balance(addr)
	if err != nil {
		return err
	}
	return b.put(addr, balance.Add(balance, amount))
}

func (b *Bank) put(addr string, balance *big.Int) error {
	return b.state.Put(AccountBucket, []byte(addr), []byte(balance.String()))
}
