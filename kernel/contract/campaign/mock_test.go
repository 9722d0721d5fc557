package campaign

import (
	"fmt"
	"math/big"

	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/sandbox"
	"github.com/xuperchain/xcampaign/kernel/ledger"
	"github.com/xuperchain/xcampaign/lib/logs"
)

const (
	testCampaign = "0x0000000000000000000000000000000000000900"
	testManager  = "0x0000000000000000000000000000000000000010"
	testRecv     = "0x0000000000000000000000000000000000000020"
)

// contributor i, distinct from manager and recipient, i < 10 keeps the address digits only
func testAddr(i int) string {
	return fmt.Sprintf("0x%040x", 0x100+i)
}

// fakeChain commits a call only when it succeeds, like the engine does
type fakeChain struct {
	state     *sandbox.MemXModel
	balances  map[string]*big.Int
	rejecting map[string]bool
	events    []*contract.Event
	height    int

	contract *Contract
}

func newFakeChain() *fakeChain {
	log, _ := logs.NewLogger("", CampaignContract)
	ctx := &Context{}
	ctx.XLog = log
	return &fakeChain{
		state:     sandbox.NewMemXModel(),
		balances:  make(map[string]*big.Int),
		rejecting: make(map[string]bool),
		contract:  NewContract(ctx),
	}
}

func (f *fakeChain) fund(addr string, amount int64) {
	f.balances[addr] = big.NewInt(amount)
}

func (f *fakeChain) balance(addr string) *big.Int {
	if b, ok := f.balances[addr]; ok {
		return b
	}
	return new(big.Int)
}

func (f *fakeChain) deploy(minimum int64) error {
	ctx := f.newCtx(testManager, nil, 0)
	if _, err := Deploy(ctx, testCampaign, testManager, big.NewInt(minimum)); err != nil {
		return err
	}
	f.commit(ctx)
	return nil
}

func (f *fakeChain) newCtx(initiator string, args map[string][]byte, value int64) *FakeKContext {
	balances := make(map[string]*big.Int, len(f.balances))
	for k, v := range f.balances {
		balances[k] = new(big.Int).Set(v)
	}
	return &FakeKContext{
		XMCache:   sandbox.NewXModelCache(f.state),
		args:      args,
		initiator: initiator,
		amount:    big.NewInt(value),
		balances:  balances,
		rejecting: f.rejecting,
	}
}

func (f *fakeChain) commit(ctx *FakeKContext) {
	f.height++
	txid := []byte(fmt.Sprintf("tx%d", f.height))
	for i, w := range ctx.RWSet().WSet {
		f.state.Put(w.Bucket, w.Key, &ledger.VersionedData{PureData: w, RefTxid: txid, RefOffset: int32(i)})
	}
	f.balances = ctx.balances
	f.events = append(f.events, ctx.Events()...)
}

// call runs one method of the campaign contract and commits on success
func (f *fakeChain) call(method contract.KernMethod, initiator string, args map[string]string, value int64) (*contract.Response, error) {
	bargs := map[string][]byte{ArgCampaign: []byte(testCampaign)}
	for k, v := range args {
		bargs[k] = []byte(v)
	}
	ctx := f.newCtx(initiator, bargs, value)
	resp, err := method(ctx)
	if err != nil {
		return nil, err
	}
	f.commit(ctx)
	return resp, nil
}

func (f *fakeChain) load() *Campaign {
	camp, err := Load(sandbox.NewReadOnlyCache(f.state), testCampaign)
	if err != nil {
		panic(err)
	}
	return camp
}

type FakeKContext struct {
	*sandbox.XMCache

	args      map[string][]byte
	initiator string
	amount    *big.Int
	balances  map[string]*big.Int
	rejecting map[string]bool
}

func (c *FakeKContext) Args() map[string][]byte {
	return c.args
}

func (c *FakeKContext) Initiator() string {
	return c.initiator
}

func (c *FakeKContext) ContractName() string {
	return CampaignContract
}

func (c *FakeKContext) Method() string {
	return ""
}

func (c *FakeKContext) TransferAmount() *big.Int {
	return c.amount
}

func (c *FakeKContext) Transfer(from string, to string, amount *big.Int) error {
	if c.rejecting[to] {
		return fmt.Errorf("account %s rejects transfers", to)
	}
	fromBalance := c.balanceOf(from)
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf("account %s balance %s not enough", from, fromBalance)
	}
	c.balances[from] = new(big.Int).Sub(fromBalance, amount)
	c.balances[to] = new(big.Int).Add(c.balanceOf(to), amount)
	return nil
}

func (c *FakeKContext) Balance(addr string) (*big.Int, error) {
	return c.balanceOf(addr), nil
}

func (c *FakeKContext) balanceOf(addr string) *big.Int {
	if b, ok := c.balances[addr]; ok {
		return b
	}
	return new(big.Int)
}

func body(resp *contract.Response, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}
