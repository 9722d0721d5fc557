package xuperos

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	xconf "github.com/xuperchain/xcampaign/kernel/common/xconfig"
	xctx "github.com/xuperchain/xcampaign/kernel/common/xcontext"
	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
	"github.com/xuperchain/xcampaign/kernel/contract/factory"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
	engconf "github.com/xuperchain/xcampaign/kernel/engines/xuperos/config"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/def"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/event"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/tx"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
	"github.com/xuperchain/xcampaign/lib/timer"
)

type testAccount struct {
	key  *ecdsa.PrivateKey
	addr string
}

func newAccount(t *testing.T) *testAccount {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return &testAccount{key: key, addr: crypto.PubkeyToAddress(key.PublicKey).Hex()}
}

type testEnv struct {
	root    string
	manager *testAccount
	alice   *testAccount
	bob     *testAccount
	vendor  *testAccount
	// 拒收转账
	sink *testAccount
}

func newTestEnv(t *testing.T) *testEnv {
	return &testEnv{
		root:    t.TempDir(),
		manager: newAccount(t),
		alice:   newAccount(t),
		bob:     newAccount(t),
		vendor:  newAccount(t),
		sink:    newAccount(t),
	}
}

func (e *testEnv) engConf(kvType string) *engconf.EngineConf {
	cfg := engconf.GetDefEngineConf()
	cfg.Storage.KVEngineType = kvType
	cfg.Genesis = []engconf.Allocation{
		{Address: e.alice.addr, Amount: "1000"},
		{Address: e.bob.addr, Amount: "1000"},
	}
	cfg.RejectingAccounts = []string{e.sink.addr}
	return cfg
}

func (e *testEnv) newEngine(t *testing.T, kvType string) *XuperOSEngine {
	return e.newEngineWithConf(t, e.engConf(kvType))
}

func (e *testEnv) newEngineWithConf(t *testing.T, cfg *engconf.EngineConf) *XuperOSEngine {
	envCfg := xconf.GetDefEnvConf()
	envCfg.RootPath = e.root

	engine := NewXuperOSEngine().(*XuperOSEngine)
	if err := engine.InitWithConf(envCfg, cfg); err != nil {
		t.Fatal("init engine failed", err)
	}
	return engine
}

func newXCtx() xctx.XContext {
	log, _ := logs.NewLogger("", "test")
	return &xctx.BaseCtx{XLog: log, Timer: timer.NewXTimer()}
}

func submit(t *testing.T, engine *XuperOSEngine, from *testAccount, contractName, method string,
	args map[string]string, value string) (*def.Receipt, error) {
	transaction := tx.New("", contractName, method, args, value)
	if err := transaction.Sign(from.key); err != nil {
		t.Fatal(err)
	}
	return engine.SubmitTx(newXCtx(), transaction)
}

func mustSubmit(t *testing.T, engine *XuperOSEngine, from *testAccount, contractName, method string,
	args map[string]string, value string) *def.Receipt {
	receipt, err := submit(t, engine, from, contractName, method, args, value)
	if err != nil {
		t.Fatalf("%s.%s failed: %v", contractName, method, err)
	}
	return receipt
}

func assertErr(t *testing.T, err error, want *common.Error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expect %s, got nil", want.Msg)
	}
	if !common.CastError(err).Equal(want) {
		t.Fatalf("expect %s, got %v", want.Msg, err)
	}
}

func balanceOf(t *testing.T, engine *XuperOSEngine, addr string) int64 {
	t.Helper()
	balance, err := engine.GetBalance(addr)
	if err != nil {
		t.Fatal(err)
	}
	return balance.Int64()
}

func createCampaign(t *testing.T, engine *XuperOSEngine, manager *testAccount, minimum string) string {
	receipt := mustSubmit(t, engine, manager, factory.FactoryContract, factory.CreateCampaignContract,
		map[string]string{factory.ArgMinimum: minimum}, "")
	return string(receipt.Body)
}

func TestEngineConvert(t *testing.T) {
	if _, err := EngineConvert(nil); err == nil {
		t.Fatal("expect error for nil engine")
	}
	engine, err := EngineConvert(NewXuperOSEngine())
	if err != nil || engine == nil {
		t.Fatal("convert engine failed", err)
	}
}

func TestCampaignLifecycle(t *testing.T) {
	env := newTestEnv(t)
	engine := env.newEngine(t, kvdb.KVEngineTypeMemory)
	defer engine.Exit()

	camp := createCampaign(t, engine, env.manager, "100")
	if addrs, err := engine.ListCampaigns(); err != nil || len(addrs) != 1 || addrs[0] != camp {
		t.Fatal("list campaigns assert failed", addrs, err)
	}

	mustSubmit(t, engine, env.alice, campaign.CampaignContract, campaign.Contribute,
		map[string]string{campaign.ArgCampaign: camp}, "200")
	mustSubmit(t, engine, env.bob, campaign.CampaignContract, campaign.Contribute,
		map[string]string{campaign.ArgCampaign: camp}, "300")
	if balanceOf(t, engine, env.alice.addr) != 800 || balanceOf(t, engine, camp) != 500 {
		t.Fatal("balance after contribute assert failed")
	}

	receipt := mustSubmit(t, engine, env.manager, campaign.CampaignContract, campaign.CreateRequest,
		map[string]string{
			campaign.ArgCampaign:    camp,
			campaign.ArgDescription: "buy parts",
			campaign.ArgValue:       "250",
			campaign.ArgRecipient:   env.vendor.addr,
		}, "")
	if string(receipt.Body) != "0" {
		t.Fatal("request index assert failed", string(receipt.Body))
	}

	reqArgs := map[string]string{campaign.ArgCampaign: camp, campaign.ArgIndex: "0"}
	mustSubmit(t, engine, env.alice, campaign.CampaignContract, campaign.ApproveRequest, reqArgs, "")

	// 1 of 2 is not a strict majority
	_, err := submit(t, engine, env.manager, campaign.CampaignContract, campaign.FinalizeRequest, reqArgs, "")
	assertErr(t, err, common.ErrCampaignInsufficientApprovals)

	mustSubmit(t, engine, env.bob, campaign.CampaignContract, campaign.ApproveRequest, reqArgs, "")
	receipt = mustSubmit(t, engine, env.manager, campaign.CampaignContract, campaign.FinalizeRequest, reqArgs, "")
	if len(receipt.Events) != 1 || receipt.Events[0].Name != campaign.EventRequestFinalized {
		t.Fatal("finalize receipt assert failed", receipt.Events)
	}
	if balanceOf(t, engine, env.vendor.addr) != 250 || balanceOf(t, engine, camp) != 250 {
		t.Fatal("balance after finalize assert failed")
	}

	resp, err := engine.Query(newXCtx(), &def.QueryRequest{
		Contract: campaign.CampaignContract,
		Method:   campaign.GetSummary,
		Args:     map[string]string{campaign.ArgCampaign: camp},
	})
	if err != nil {
		t.Fatal(err)
	}
	summary := new(campaign.Summary)
	if err := json.Unmarshal(resp.Body, summary); err != nil {
		t.Fatal(err)
	}
	if summary.ApproversCount != 2 || summary.RequestsCount != 1 || summary.Balance.Int64() != 250 {
		t.Fatal("summary assert failed", string(resp.Body))
	}
	if summary.Manager != env.manager.addr || summary.MinimumContribution.Int64() != 100 {
		t.Fatal("summary assert failed", string(resp.Body))
	}

	info, err := engine.GetCampaign(camp)
	if err != nil || info.ApproversCount != 2 || info.RequestsCount != 1 {
		t.Fatal("get campaign assert failed", info, err)
	}

	// CampaignCreated, 2 x Contribution, RequestCreated, 2 x RequestApproved, RequestFinalized
	records, err := engine.ListEvents(camp, 0, 100)
	if err != nil || len(records) != 7 {
		t.Fatal("list events assert failed", len(records), err)
	}
	if records[0].Name != factory.EventCampaignCreated || records[6].Name != campaign.EventRequestFinalized {
		t.Fatal("event order assert failed", records[0].Name, records[6].Name)
	}
	for i := 1; i < len(records); i++ {
		if records[i].Seq <= records[i-1].Seq {
			t.Fatal("event seq not increasing")
		}
	}
	recent := engine.RecentEvents(&event.Filter{Campaign: camp, Name: campaign.EventRequestApproved}, 10)
	if len(recent) != 2 {
		t.Fatal("recent events assert failed", len(recent))
	}

	got, err := engine.GetReceipt(receipt.TxHash)
	if err != nil || got.Method != campaign.FinalizeRequest {
		t.Fatal("get receipt assert failed", got, err)
	}
	_, err = engine.GetReceipt("not-exist")
	assertErr(t, err, common.ErrTxNotExist)
}

func TestSubmitTxReplay(t *testing.T) {
	env := newTestEnv(t)
	engine := env.newEngine(t, kvdb.KVEngineTypeMemory)
	defer engine.Exit()

	camp := createCampaign(t, engine, env.manager, "0")
	transaction := tx.New("", campaign.CampaignContract, campaign.Contribute,
		map[string]string{campaign.ArgCampaign: camp}, "10")
	if err := transaction.Sign(env.alice.key); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.SubmitTx(newXCtx(), transaction); err != nil {
		t.Fatal(err)
	}
	_, err := engine.SubmitTx(newXCtx(), transaction)
	assertErr(t, err, common.ErrTxAlreadyExist)

	// 内存去重过期后仍由持久化回执拒绝
	engine.handledTx.Flush()
	_, err = engine.SubmitTx(newXCtx(), transaction)
	assertErr(t, err, common.ErrTxAlreadyExist)

	if balanceOf(t, engine, camp) != 10 {
		t.Fatal("replayed tx changed balance")
	}
}

func TestSubmitTxVerify(t *testing.T) {
	env := newTestEnv(t)
	engine := env.newEngine(t, kvdb.KVEngineTypeMemory)
	defer engine.Exit()

	camp := createCampaign(t, engine, env.manager, "0")
	transaction := tx.New("", campaign.CampaignContract, campaign.Contribute,
		map[string]string{campaign.ArgCampaign: camp}, "10")
	if err := transaction.Sign(env.alice.key); err != nil {
		t.Fatal(err)
	}
	transaction.Value = "900"
	_, err := engine.SubmitTx(newXCtx(), transaction)
	assertErr(t, err, common.ErrTxVerifyFailed)

	unsigned := tx.New(env.alice.addr, campaign.CampaignContract, campaign.Contribute,
		map[string]string{campaign.ArgCampaign: camp}, "10")
	_, err = engine.SubmitTx(newXCtx(), unsigned)
	assertErr(t, err, common.ErrTxVerifyFailed)

	_, err = submit(t, engine, env.alice, campaign.CampaignContract, "NoSuchMethod", nil, "")
	assertErr(t, err, common.ErrContractNotExist)
}

func TestFailedTxLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	engine := env.newEngine(t, kvdb.KVEngineTypeMemory)
	defer engine.Exit()

	camp := createCampaign(t, engine, env.manager, "100")
	nextSeq := engine.events.NextSeq()

	_, err := submit(t, engine, env.alice, campaign.CampaignContract, campaign.Contribute,
		map[string]string{campaign.ArgCampaign: camp}, "5000")
	assertErr(t, err, common.ErrInsufficientFunds)

	_, err = submit(t, engine, env.alice, campaign.CampaignContract, campaign.Contribute,
		map[string]string{campaign.ArgCampaign: camp}, "50")
	assertErr(t, err, common.ErrCampaignInsufficientContribution)

	if balanceOf(t, engine, env.alice.addr) != 1000 || balanceOf(t, engine, camp) != 0 {
		t.Fatal("failed contribute changed balances")
	}
	if engine.events.NextSeq() != nextSeq {
		t.Fatal("failed tx emitted events")
	}
	info, err := engine.GetCampaign(camp)
	if err != nil || info.ApproversCount != 0 {
		t.Fatal("failed contribute registered approver", info, err)
	}
}

func TestRejectedTxCannotReplay(t *testing.T) {
	env := newTestEnv(t)
	engine := env.newEngine(t, kvdb.KVEngineTypeMemory)
	defer engine.Exit()

	camp := createCampaign(t, engine, env.manager, "0")
	mustSubmit(t, engine, env.alice, campaign.CampaignContract, campaign.Contribute,
		map[string]string{campaign.ArgCampaign: camp}, "100")
	mustSubmit(t, engine, env.manager, campaign.CampaignContract, campaign.CreateRequest,
		map[string]string{
			campaign.ArgCampaign:    camp,
			campaign.ArgDescription: "buy parts",
			campaign.ArgValue:       "60",
			campaign.ArgRecipient:   env.vendor.addr,
		}, "")
	reqArgs := map[string]string{campaign.ArgCampaign: camp, campaign.ArgIndex: "0"}

	finalize := tx.New("", campaign.CampaignContract, campaign.FinalizeRequest, reqArgs, "")
	if err := finalize.Sign(env.manager.key); err != nil {
		t.Fatal(err)
	}
	txHash, err := finalize.HashHex()
	if err != nil {
		t.Fatal(err)
	}
	nextSeq := engine.events.NextSeq()
	_, err = engine.SubmitTx(newXCtx(), finalize)
	assertErr(t, err, common.ErrCampaignInsufficientApprovals)

	// 被拒绝的交易留下回执，但没有事件
	receipt, err := engine.GetReceipt(txHash)
	if err != nil {
		t.Fatal("rejected tx should have receipt", err)
	}
	if receipt.Status != common.ErrStatusRefused || receipt.Code != common.ErrCampaignInsufficientApprovals.Code ||
		len(receipt.Events) != 0 {
		t.Fatal("rejected receipt assert failed", receipt)
	}
	if engine.events.NextSeq() != nextSeq {
		t.Fatal("rejected tx emitted events")
	}

	// 条件满足后，原签名交易也不能再执行
	mustSubmit(t, engine, env.alice, campaign.CampaignContract, campaign.ApproveRequest, reqArgs, "")
	_, err = engine.SubmitTx(newXCtx(), finalize)
	assertErr(t, err, common.ErrTxAlreadyExist)
	engine.handledTx.Flush()
	engine.receiptCache.Purge()
	_, err = engine.SubmitTx(newXCtx(), finalize)
	assertErr(t, err, common.ErrTxAlreadyExist)
	if balanceOf(t, engine, env.vendor.addr) != 0 {
		t.Fatal("replayed finalize paid out")
	}

	// 重新签名的交易可以执行
	mustSubmit(t, engine, env.manager, campaign.CampaignContract, campaign.FinalizeRequest, reqArgs, "")
	if balanceOf(t, engine, env.vendor.addr) != 60 {
		t.Fatal("finalize after approval failed")
	}
}

func TestConcurrentSubmitAndRead(t *testing.T) {
	const contributors = 30
	const readers = 10

	env := newTestEnv(t)
	cfg := env.engConf(kvdb.KVEngineTypeMemory)
	accounts := make([]*testAccount, contributors)
	for i := range accounts {
		accounts[i] = newAccount(t)
		cfg.Genesis = append(cfg.Genesis, engconf.Allocation{Address: accounts[i].addr, Amount: "100"})
	}
	engine := env.newEngineWithConf(t, cfg)
	defer engine.Exit()

	camp := createCampaign(t, engine, env.manager, "10")
	contributeFilter := &event.Filter{Campaign: camp, Name: campaign.EventContribution}

	errCh := make(chan error, contributors+readers)
	done := make(chan struct{})
	var writers, watchers sync.WaitGroup

	for _, account := range accounts {
		writers.Add(1)
		go func(account *testAccount) {
			defer writers.Done()
			transaction := tx.New("", campaign.CampaignContract, campaign.Contribute,
				map[string]string{campaign.ArgCampaign: camp}, "10")
			if err := transaction.Sign(account.key); err != nil {
				errCh <- err
				return
			}
			if _, err := engine.SubmitTx(newXCtx(), transaction); err != nil {
				errCh <- fmt.Errorf("contribute from %s failed: %v", account.addr, err)
			}
		}(account)
	}

	// 读请求只能看到已提交的状态，贡献人数单调不减
	for i := 0; i < readers; i++ {
		watchers.Add(1)
		go func() {
			defer watchers.Done()
			var last uint64
			for {
				select {
				case <-done:
					return
				default:
				}
				info, err := engine.GetCampaign(camp)
				if err != nil {
					errCh <- err
					return
				}
				if info.ApproversCount < last || info.ApproversCount > contributors {
					errCh <- fmt.Errorf("approvers count %d after %d", info.ApproversCount, last)
					return
				}
				last = info.ApproversCount
				if n := len(engine.RecentEvents(contributeFilter, 0)); n > contributors {
					errCh <- fmt.Errorf("recent contributions %d", n)
					return
				}
			}
		}()
	}

	writers.Wait()
	close(done)
	watchers.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatal(err)
	}

	info, err := engine.GetCampaign(camp)
	if err != nil || info.ApproversCount != contributors {
		t.Fatal("approvers count assert failed", info, err)
	}
	if balanceOf(t, engine, camp) != 10*contributors {
		t.Fatal("campaign balance assert failed", balanceOf(t, engine, camp))
	}
	records, err := engine.ListEvents(camp, 0, 100)
	if err != nil || len(records) != contributors+1 {
		t.Fatal("event count assert failed", len(records), err)
	}
	for i := 1; i < len(records); i++ {
		if records[i].Seq != records[i-1].Seq+1 {
			t.Fatal("event seq not contiguous", records[i-1].Seq, records[i].Seq)
		}
	}
	if n := len(engine.RecentEvents(contributeFilter, 0)); n != contributors {
		t.Fatal("recent contributions assert failed", n)
	}
}

func TestFinalizeRejectedRecipient(t *testing.T) {
	env := newTestEnv(t)
	engine := env.newEngine(t, kvdb.KVEngineTypeMemory)
	defer engine.Exit()

	camp := createCampaign(t, engine, env.manager, "0")
	mustSubmit(t, engine, env.alice, campaign.CampaignContract, campaign.Contribute,
		map[string]string{campaign.ArgCampaign: camp}, "100")
	mustSubmit(t, engine, env.manager, campaign.CampaignContract, campaign.CreateRequest,
		map[string]string{
			campaign.ArgCampaign:    camp,
			campaign.ArgDescription: "pay sink",
			campaign.ArgValue:       "60",
			campaign.ArgRecipient:   env.sink.addr,
		}, "")
	reqArgs := map[string]string{campaign.ArgCampaign: camp, campaign.ArgIndex: "0"}
	mustSubmit(t, engine, env.alice, campaign.CampaignContract, campaign.ApproveRequest, reqArgs, "")

	_, err := submit(t, engine, env.manager, campaign.CampaignContract, campaign.FinalizeRequest, reqArgs, "")
	assertErr(t, err, common.ErrCampaignTransferFailed)

	if balanceOf(t, engine, camp) != 100 || balanceOf(t, engine, env.sink.addr) != 0 {
		t.Fatal("failed finalize moved funds")
	}
	resp, err := engine.Query(newXCtx(), &def.QueryRequest{
		Contract: campaign.CampaignContract,
		Method:   campaign.GetRequest,
		Args:     reqArgs,
	})
	if err != nil {
		t.Fatal(err)
	}
	req := new(campaign.Request)
	if err := json.Unmarshal(resp.Body, req); err != nil {
		t.Fatal(err)
	}
	if req.Complete || req.ApprovalCount != 1 {
		t.Fatal("request should stay pending", string(resp.Body))
	}
}

func TestQueryIsReadOnly(t *testing.T) {
	env := newTestEnv(t)
	engine := env.newEngine(t, kvdb.KVEngineTypeMemory)
	defer engine.Exit()

	camp := createCampaign(t, engine, env.manager, "0")
	_, err := engine.Query(newXCtx(), &def.QueryRequest{
		Contract:  campaign.CampaignContract,
		Method:    campaign.Contribute,
		Args:      map[string]string{campaign.ArgCampaign: camp},
		Initiator: env.alice.addr,
	})
	if err == nil {
		t.Fatal("expect write in query to fail")
	}
	info, err := engine.GetCampaign(camp)
	if err != nil || info.ApproversCount != 0 {
		t.Fatal("query changed state", info, err)
	}

	resp, err := engine.Query(newXCtx(), &def.QueryRequest{
		Contract: factory.FactoryContract,
		Method:   factory.GetDeployedCampaignsCount,
	})
	if err != nil || string(resp.Body) != "1" {
		t.Fatal("query deployed count failed", resp, err)
	}
}

func TestEngineRestart(t *testing.T) {
	env := newTestEnv(t)
	engine := env.newEngine(t, kvdb.KVEngineTypeLDB)

	camp := createCampaign(t, engine, env.manager, "10")
	mustSubmit(t, engine, env.alice, campaign.CampaignContract, campaign.Contribute,
		map[string]string{campaign.ArgCampaign: camp}, "40")
	engine.Exit()
	engine.Exit()

	_, err := engine.GetBalance(env.alice.addr)
	assertErr(t, err, common.ErrEngineStopped)

	engine = env.newEngine(t, kvdb.KVEngineTypeLDB)
	defer engine.Exit()

	// 创世分配只写入一次
	if balanceOf(t, engine, env.alice.addr) != 960 || balanceOf(t, engine, camp) != 40 {
		t.Fatal("balances after restart assert failed")
	}
	if addrs, err := engine.ListCampaigns(); err != nil || len(addrs) != 1 {
		t.Fatal("campaigns after restart assert failed", addrs, err)
	}
	if recent := engine.RecentEvents(nil, 0); len(recent) != 2 {
		t.Fatal("recent events after restart assert failed", len(recent))
	}

	// 重启后地址推导继续使用持久化的nonce
	second := createCampaign(t, engine, env.manager, "10")
	if second == camp {
		t.Fatal("campaign address reused after restart")
	}
	if engine.events.NextSeq() != 3 {
		t.Fatal("event seq after restart assert failed", engine.events.NextSeq())
	}
}

func TestGetBalanceBadAddress(t *testing.T) {
	env := newTestEnv(t)
	engine := env.newEngine(t, kvdb.KVEngineTypeMemory)
	defer engine.Exit()

	if _, err := engine.GetBalance("not-an-address"); err == nil {
		t.Fatal("expect error for bad address")
	}
	if balance, err := engine.GetBalance(env.vendor.addr); err != nil || balance.Cmp(big.NewInt(0)) != 0 {
		t.Fatal("unknown account should have zero balance", balance, err)
	}
}
