package xuperos

import (
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
	"github.com/xuperchain/xcampaign/kernel/contract/factory"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/bank"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
	engconf "github.com/xuperchain/xcampaign/kernel/engines/xuperos/config"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/def"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/event"
	"github.com/xuperchain/xcampaign/lib/metrics"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

// 以下读接口只读取已提交状态

func (t *XuperOSEngine) readOnlyState() (contract.StateSandbox, error) {
	if t.stopped {
		return nil, common.ErrEngineStopped
	}
	state, err := t.contract.NewStateSandbox(&contract.SandboxConfig{XMReader: t.xmodel, ReadOnly: true})
	if err != nil {
		return nil, common.ErrContractNewCtxFailed.More("%v", err)
	}
	return state, nil
}

func (t *XuperOSEngine) GetReceipt(txHash string) (*def.Receipt, error) {
	if v, ok := t.receiptCache.Get(txHash); ok {
		return v.(*def.Receipt), nil
	}

	t.mutex.RLock()
	defer t.mutex.RUnlock()
	if t.stopped {
		return nil, common.ErrEngineStopped
	}
	buf, err := t.receipts.Get([]byte(txHash))
	if err != nil {
		if kvdb.ErrNotFound(err) {
			return nil, common.ErrTxNotExist.More("tx %s", txHash)
		}
		return nil, common.ErrInternal.More("%v", err)
	}
	receipt := new(def.Receipt)
	if err := json.Unmarshal(buf, receipt); err != nil {
		return nil, common.ErrInternal.More("%v", err)
	}
	t.receiptCache.Add(txHash, receipt)
	return receipt, nil
}

func (t *XuperOSEngine) GetBalance(addr string) (*big.Int, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	state, err := t.readOnlyState()
	if err != nil {
		return nil, err
	}
	return bank.NewBank(state, t.rejecting).Balance(addr)
}

// GetCampaign returns a copy of the committed campaign record
func (t *XuperOSEngine) GetCampaign(addr string) (*campaign.Campaign, error) {
	addr, err := xaddress.Normalize(addr)
	if err != nil {
		return nil, common.ErrParameter.More("%v", err)
	}

	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if v, ok := t.campaignCache.Get(addr); ok {
		return copyCampaign(v.(*campaign.Campaign)), nil
	}
	state, err := t.readOnlyState()
	if err != nil {
		return nil, err
	}
	camp, err := campaign.Load(state, addr)
	if err != nil {
		return nil, common.CastContractError(err)
	}
	t.campaignCache.Add(addr, camp)
	return copyCampaign(camp), nil
}

func copyCampaign(camp *campaign.Campaign) *campaign.Campaign {
	c := *camp
	if camp.MinimumContribution != nil {
		c.MinimumContribution = new(big.Int).Set(camp.MinimumContribution)
	}
	return &c
}

// ListCampaigns returns the factory deployed campaigns in creation order
func (t *XuperOSEngine) ListCampaigns() ([]string, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	state, err := t.readOnlyState()
	if err != nil {
		return nil, err
	}
	addrs, err := factory.ListDeployed(state)
	if err != nil {
		return nil, common.ErrInternal.More("%v", err)
	}
	return addrs, nil
}

func (t *XuperOSEngine) ListEvents(campaignAddr string, offset, limit int) ([]*event.Record, error) {
	addr, err := xaddress.Normalize(campaignAddr)
	if err != nil {
		return nil, common.ErrParameter.More("%v", err)
	}

	t.mutex.RLock()
	defer t.mutex.RUnlock()
	if t.stopped {
		return nil, common.ErrEngineStopped
	}
	return t.events.List(addr, offset, limit)
}

// RecentEvents 从内存缓冲中按条件取最近的事件
func (t *XuperOSEngine) RecentEvents(filter *event.Filter, n int) []*event.Record {
	if filter != nil && filter.Campaign != "" {
		if addr, err := xaddress.Normalize(filter.Campaign); err == nil {
			f := *filter
			f.Campaign = addr
			filter = &f
		}
	}
	return t.events.Recent(filter, n)
}

var genesisKey = []byte("genesis")

// loadGenesis 空库首次启动时写入创世分配，之后启动只加载统计
func (t *XuperOSEngine) loadGenesis(engCfg *engconf.EngineConf) error {
	_, err := t.meta.Get(genesisKey)
	if err == nil {
		return t.loadCampaignGauge()
	}
	if !kvdb.ErrNotFound(err) {
		return common.ErrOpenStorageFailed.More("%v", err)
	}

	state, err := t.contract.NewStateSandbox(&contract.SandboxConfig{XMReader: t.xmodel})
	if err != nil {
		return common.ErrContractNewCtxFailed.More("%v", err)
	}
	funds := bank.NewBank(state, nil)
	for _, alloc := range engCfg.Genesis {
		amount, err := campaign.ParseAmount(alloc.Amount)
		if err != nil {
			return common.ErrLoadEngConfFailed.More("genesis %s: %v", alloc.Address, err)
		}
		if err := funds.Mint(alloc.Address, amount); err != nil {
			return common.ErrLoadEngConfFailed.More("genesis %s: %v", alloc.Address, err)
		}
	}

	batch := t.db.NewBatch()
	if err := t.xmodel.DoTx(genesisKey, state.RWSet().WSet, batch); err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}
	if err := t.meta.WrapBatch(batch).Put(genesisKey, []byte("1")); err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}
	if err := batch.Write(); err != nil {
		return common.ErrCommitStateFailed.More("%v", err)
	}
	t.log.Info("genesis allocated", "accounts", len(engCfg.Genesis))
	return nil
}

func (t *XuperOSEngine) loadCampaignGauge() error {
	state, err := t.contract.NewStateSandbox(&contract.SandboxConfig{XMReader: t.xmodel, ReadOnly: true})
	if err != nil {
		return common.ErrContractNewCtxFailed.More("%v", err)
	}
	addrs, err := factory.ListDeployed(state)
	if err != nil {
		return errors.Wrap(err, "load deployed campaigns failed")
	}
	metrics.LedgerCampaignGauge.Set(float64(len(addrs)))
	return nil
}
