package xuperos

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
	xctx "github.com/xuperchain/xcampaign/kernel/common/xcontext"
	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
	"github.com/xuperchain/xcampaign/kernel/contract/factory"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/bank"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/def"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/tx"
	"github.com/xuperchain/xcampaign/lib/metrics"
)

const (
	lockSubmit = "submit"
	lockQuery  = "query"
)

// SubmitTx 验签后串行执行交易，失败的交易不留下任何状态、余额和事件
// 被拒绝的交易只记录回执，同一笔签名交易不能再次执行
func (t *XuperOSEngine) SubmitTx(ctx xctx.XContext, transaction *tx.Transaction) (*def.Receipt, error) {
	if ctx == nil || transaction == nil {
		return nil, common.ErrParameter
	}
	log := ctx.GetLog()

	if err := transaction.Verify(); err != nil {
		log.Warn("verify tx failed", "err", err)
		return nil, common.ErrTxVerifyFailed.More("%v", err)
	}
	txHash, err := transaction.HashHex()
	if err != nil {
		return nil, common.ErrTxVerifyFailed.More("%v", err)
	}
	if _, exist := t.handledTx.Get(txHash); exist {
		return nil, common.ErrTxAlreadyExist.More("tx %s", txHash)
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()
	metrics.LockCounter.WithLabelValues(lockSubmit).Inc()
	ctx.GetTimer().Mark("lock")

	if t.stopped {
		return nil, common.ErrEngineStopped
	}
	if exist, err := t.receipts.Has([]byte(txHash)); err != nil {
		return nil, common.ErrSubmitTxFailed.More("%v", err)
	} else if exist {
		t.handledTx.SetDefault(txHash, true)
		return nil, common.ErrTxAlreadyExist.More("tx %s", txHash)
	}

	state, resp, err := t.execute(transaction)
	ctx.GetTimer().Mark("execute")
	if err != nil {
		log.Info("tx execute failed", "txHash", txHash, "contract", transaction.Contract,
			"method", transaction.Method, "err", err)
		cerr := common.CastError(err)
		if cerr.Status != common.ErrStatusRefused {
			// 内部错误不记录，允许重新提交
			return nil, err
		}
		if rerr := t.commitRejected(newReceipt(txHash, transaction), cerr); rerr != nil {
			log.Error("commit rejected tx failed", "txHash", txHash, "err", rerr)
		}
		return nil, err
	}

	receipt := newReceipt(txHash, transaction)
	receipt.Status = resp.Status
	receipt.Message = resp.Message
	receipt.Body = resp.Body
	if err := t.commit(txHash, state, receipt); err != nil {
		log.Error("commit tx failed", "txHash", txHash, "err", err)
		return nil, err
	}
	ctx.GetTimer().Mark("commit")

	log.Info("tx confirmed", "txHash", txHash, "contract", transaction.Contract,
		"method", transaction.Method, "events", len(receipt.Events), "timer", ctx.GetTimer().Print())
	return receipt, nil
}

func newReceipt(txHash string, transaction *tx.Transaction) *def.Receipt {
	return &def.Receipt{
		TxHash:    txHash,
		Contract:  transaction.Contract,
		Method:    transaction.Method,
		Initiator: transaction.Initiator,
		Value:     transaction.Value,
		Timestamp: time.Now().Unix(),
	}
}

// execute runs the kernel method in a fresh sandbox
func (t *XuperOSEngine) execute(transaction *tx.Transaction) (contract.StateSandbox, *contract.Response, error) {
	method, err := t.contract.GetKernRegistry().GetKernMethod(transaction.Contract, transaction.Method)
	if err != nil {
		return nil, nil, common.ErrContractNotExist.More("%s.%s", transaction.Contract, transaction.Method)
	}
	initiator, err := xaddress.Normalize(transaction.Initiator)
	if err != nil {
		return nil, nil, common.ErrParameter.More("%v", err)
	}

	state, err := t.contract.NewStateSandbox(&contract.SandboxConfig{XMReader: t.xmodel})
	if err != nil {
		return nil, nil, common.ErrContractNewCtxFailed.More("%v", err)
	}
	kctx, err := t.contract.NewContext(&contract.ContextConfig{
		State:          state,
		Initiator:      initiator,
		ContractName:   transaction.Contract,
		Method:         transaction.Method,
		Args:           transaction.ArgBytes(),
		TransferAmount: transaction.Value,
		Funds:          bank.NewBank(state, t.rejecting),
	})
	if err != nil {
		return nil, nil, common.ErrParameter.More("%v", err)
	}

	resp, err := invoke(kctx, method)
	if err != nil {
		return nil, nil, err
	}
	return state, resp, nil
}

// invoke calls method and records invoke metrics, a failed response is turned into an error
func invoke(kctx contract.KContext, method contract.KernMethod) (*contract.Response, error) {
	begin := time.Now()
	resp, err := method(kctx)
	if err == nil && resp == nil {
		err = common.ErrContractInvokeFailed.More("empty response")
	}
	if err == nil && resp.Status >= contract.StatusErrorThreshold {
		err = common.ErrContractInvokeFailed.More(resp.Message)
	}

	code := strconv.Itoa(common.ErrStatusSucc)
	var cerr *common.Error
	if err != nil {
		cerr = common.CastContractError(err)
		code = strconv.Itoa(cerr.Code)
	}
	metrics.ContractInvokeCounter.WithLabelValues(kctx.ContractName(), kctx.Method(), code).Inc()
	metrics.ContractInvokeHistogram.WithLabelValues(kctx.ContractName(), kctx.Method()).
		Observe(time.Since(begin).Seconds())

	if cerr != nil {
		return nil, cerr
	}
	return resp, nil
}

// commit 状态、事件和回执写入同一个batch
func (t *XuperOSEngine) commit(txHash string, state contract.StateSandbox, receipt *def.Receipt) error {
	rwSet := state.RWSet()
	batch := t.db.NewBatch()

	if err := t.xmodel.DoTx([]byte(txHash), rwSet.WSet, batch); err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}
	records, err := t.events.Write(batch, txHash, state.Events(), receipt.Timestamp)
	if err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}
	receipt.Events = records

	buf, err := json.Marshal(receipt)
	if err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}
	if err := t.receipts.WrapBatch(batch).Put([]byte(txHash), buf); err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}
	if err := batch.Write(); err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}

	t.events.Commit(records)
	t.handledTx.SetDefault(txHash, true)
	t.receiptCache.Add(txHash, receipt)
	for _, pd := range rwSet.WSet {
		if addr, ok := campaignOfKey(pd.Bucket, pd.Key); ok {
			t.campaignCache.Remove(addr)
		}
	}
	for _, r := range records {
		if r.Contract == factory.FactoryContract && r.Name == factory.EventCampaignCreated {
			metrics.LedgerCampaignGauge.Inc()
		}
	}
	metrics.LedgerConfirmTxCounter.Inc()
	return nil
}

// commitRejected 只写回执，沙盒里的写集和事件全部丢弃
func (t *XuperOSEngine) commitRejected(receipt *def.Receipt, cerr *common.Error) error {
	receipt.Status = cerr.Status
	receipt.Code = cerr.Code
	receipt.Message = cerr.Msg

	buf, err := json.Marshal(receipt)
	if err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}
	batch := t.db.NewBatch()
	if err := t.receipts.WrapBatch(batch).Put([]byte(receipt.TxHash), buf); err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}
	if err := batch.Write(); err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}

	t.handledTx.SetDefault(receipt.TxHash, true)
	t.receiptCache.Add(receipt.TxHash, receipt)
	metrics.LedgerRejectTxCounter.WithLabelValues(strconv.Itoa(cerr.Code)).Inc()
	return nil
}

// campaignOfKey returns the campaign a state key belongs to
func campaignOfKey(bucket string, key []byte) (string, bool) {
	if bucket != campaign.CampaignContract {
		return "", false
	}
	k := strings.TrimPrefix(string(key), campaign.KeyOfCampaign(""))
	if k == string(key) {
		return "", false
	}
	if idx := strings.Index(k, "_"); idx >= 0 {
		k = k[:idx]
	}
	return k, true
}

// Query 只读调用，使用只读沙盒，不产生状态修改
func (t *XuperOSEngine) Query(ctx xctx.XContext, req *def.QueryRequest) (*contract.Response, error) {
	if ctx == nil || req == nil {
		return nil, common.ErrParameter
	}

	t.mutex.RLock()
	defer t.mutex.RUnlock()
	metrics.LockCounter.WithLabelValues(lockQuery).Inc()

	if t.stopped {
		return nil, common.ErrEngineStopped
	}
	method, err := t.contract.GetKernRegistry().GetKernMethod(req.Contract, req.Method)
	if err != nil {
		return nil, common.ErrContractNotExist.More("%s.%s", req.Contract, req.Method)
	}
	initiator := req.Initiator
	if initiator != "" {
		if initiator, err = xaddress.Normalize(initiator); err != nil {
			return nil, common.ErrParameter.More("%v", err)
		}
	}

	state, err := t.contract.NewStateSandbox(&contract.SandboxConfig{XMReader: t.xmodel, ReadOnly: true})
	if err != nil {
		return nil, common.ErrContractNewCtxFailed.More("%v", err)
	}
	args := make(map[string][]byte, len(req.Args))
	for k, v := range req.Args {
		args[k] = []byte(v)
	}
	kctx, err := t.contract.NewContext(&contract.ContextConfig{
		State:        state,
		Initiator:    initiator,
		ContractName: req.Contract,
		Method:       req.Method,
		Args:         args,
		Funds:        bank.NewBank(state, t.rejecting),
	})
	if err != nil {
		return nil, common.ErrParameter.More("%v", err)
	}

	resp, err := invoke(kctx, method)
	if err != nil {
		ctx.GetLog().Debug("query failed", "contract", req.Contract, "method", req.Method, "err", err)
		return nil, err
	}
	return resp, nil
}
