package bank

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract/sandbox"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
)

const (
	alice = "0x0000000000000000000000000000000000000010"
	bob   = "0x0000000000000000000000000000000000000020"
	carol = "0x0000000000000000000000000000000000000030"
)

func newBankForTest(t *testing.T) (*Bank, *sandbox.XMCache) {
	state := sandbox.NewXModelCache(sandbox.NewMemXModel())
	b := NewBank(state, map[string]bool{carol: true})
	if err := b.Mint(alice, big.NewInt(100)); err != nil {
		t.Fatal("mint failed", err)
	}
	return b, state
}

func TestTransfer(t *testing.T) {
	b, state := newBankForTest(t)
	if err := b.Transfer(alice, bob, big.NewInt(30)); err != nil {
		t.Fatal("transfer failed", err)
	}
	ab, _ := b.Balance(alice)
	bb, _ := b.Balance(bob)
	if ab.Int64() != 70 || bb.Int64() != 30 {
		t.Fatal("balance assert failed", ab, bb)
	}
	if len(state.RWSet().WSet) != 2 {
		t.Fatal("transfer should write both accounts", len(state.RWSet().WSet))
	}

	// 零金额和转给自己不修改状态
	if err := b.Transfer(alice, alice, big.NewInt(10)); err != nil {
		t.Fatal(err)
	}
	if err := b.Transfer(bob, alice, big.NewInt(0)); err != nil {
		t.Fatal(err)
	}
	if ab, _ = b.Balance(alice); ab.Int64() != 70 {
		t.Fatal("self transfer should not change balance", ab)
	}
}

func TestTransferErrors(t *testing.T) {
	b, _ := newBankForTest(t)
	cases := []struct {
		from, to string
		amount   *big.Int
		want     *common.Error
	}{
		{alice, bob, big.NewInt(101), common.ErrInsufficientFunds},
		{alice, carol, big.NewInt(1), common.ErrRecipientRejected},
		{alice, "bob", big.NewInt(1), common.ErrParameter},
		{"alice", bob, big.NewInt(1), common.ErrParameter},
		{alice, bob, big.NewInt(-1), common.ErrParameter},
		{alice, bob, nil, common.ErrParameter},
	}
	for _, c := range cases {
		err := b.Transfer(c.from, c.to, c.amount)
		var got *common.Error
		if !errors.As(err, &got) || !got.Equal(c.want) {
			t.Errorf("transfer %s -> %s %v: want %v, got %v", c.from, c.to, c.amount, c.want, err)
		}
	}
	if ab, _ := b.Balance(alice); ab.Int64() != 100 {
		t.Fatal("failed transfers should not change balance", ab)
	}
}

func TestBalanceOfUnknown(t *testing.T) {
	b, _ := newBankForTest(t)
	balance, err := b.Balance(bob)
	if err != nil || balance.Sign() != 0 {
		t.Fatal("unknown account should have zero balance", balance, err)
	}
	if _, err := b.Balance("nobody"); err == nil {
		t.Fatal("bad address should fail")
	}
	// 地址大小写不影响余额
	balance, _ = b.Balance("0x0000000000000000000000000000000000000010")
	if balance.Int64() != 100 {
		t.Fatal("normalized balance assert failed", balance)
	}
}
