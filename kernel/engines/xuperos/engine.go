package xuperos

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/patrickmn/go-cache"

	"github.com/xuperchain/xcampaign/bcs/ledger/xledger/state/xmodel"
	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
	xconf "github.com/xuperchain/xcampaign/kernel/common/xconfig"
	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
	"github.com/xuperchain/xcampaign/kernel/contract/factory"
	_ "github.com/xuperchain/xcampaign/kernel/contract/manager"
	"github.com/xuperchain/xcampaign/kernel/engines"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
	engconf "github.com/xuperchain/xcampaign/kernel/engines/xuperos/config"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/def"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/event"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
	_ "github.com/xuperchain/xcampaign/lib/storage/kvdb/badger"
	_ "github.com/xuperchain/xcampaign/lib/storage/kvdb/leveldb"
)

// xuperos执行引擎，单写者串行执行合约交易
// 每笔交易在独立沙盒里执行，成功后状态、事件和回执在一个批量写中提交
type XuperOSEngine struct {
	// 引擎运行上下文
	engCtx *common.EngineCtx
	// 日志
	log logs.Logger

	// 写者互斥，查询持读锁
	mutex    sync.RWMutex
	db       kvdb.Database
	xmodel   *xmodel.XModel
	contract contract.Manager
	events   *event.Store
	receipts *kvdb.Table
	meta     *kvdb.Table

	// 近期已处理交易，避免每次查库
	handledTx *cache.Cache
	// txHash -> *def.Receipt
	receiptCache *lru.Cache
	// campaign address -> *campaign.Campaign
	campaignCache *lru.Cache
	rejecting     map[string]bool
	factoryAddr   string

	exitOnce sync.Once
	exitCh   chan struct{}
	stopped  bool
}

func NewXuperOSEngine() engines.BCEngine {
	return &XuperOSEngine{}
}

// 向工厂注册自己的创建方法
func init() {
	engines.Register(common.BCEngineName, NewXuperOSEngine)
}

// 转换引擎句柄类型
// 对外提供类型转义方法，以接口形式对外暴露
func EngineConvert(engine engines.BCEngine) (def.Engine, error) {
	if engine == nil {
		return nil, common.ErrParameter
	}

	if v, ok := engine.(def.Engine); ok {
		return v, nil
	}

	return nil, common.ErrNotEngineType
}

// 初始化执行引擎环境上下文
func (t *XuperOSEngine) Init(envCfg *xconf.EnvConf) error {
	if envCfg == nil {
		return common.ErrParameter
	}
	engCfg, err := engconf.LoadEngineConf(envCfg.GenConfFilePath(envCfg.EngineConf))
	if err != nil {
		return common.ErrLoadEngConfFailed.More("%v", err)
	}
	return t.InitWithConf(envCfg, engCfg)
}

// InitWithConf 使用已加载的引擎配置初始化，便于测试
func (t *XuperOSEngine) InitWithConf(envCfg *xconf.EnvConf, engCfg *engconf.EngineConf) error {
	engCtx, err := common.NewEngineCtx(envCfg, engCfg)
	if err != nil {
		return common.ErrNewEngineCtxFailed.More("%v", err)
	}
	t.engCtx = engCtx
	t.log = engCtx.XLog
	t.exitCh = make(chan struct{})

	if err := t.initCaches(engCfg); err != nil {
		return err
	}
	if err := t.openStorage(envCfg, engCfg); err != nil {
		return err
	}
	t.log.Trace("init storage succ", "kvEngine", engCfg.Storage.KVEngineType)

	if err := t.initContracts(engCfg); err != nil {
		t.closeStorage()
		return err
	}
	t.log.Trace("init contracts succ", "factory", t.factoryAddr)

	if err := t.loadGenesis(engCfg); err != nil {
		t.closeStorage()
		return err
	}
	t.log.Trace("init engine succ")
	return nil
}

func (t *XuperOSEngine) initCaches(engCfg *engconf.EngineConf) error {
	var err error
	t.handledTx = cache.New(engCfg.TxCacheExpiredTime, engCfg.TxCacheExpiredTime*2)
	if t.receiptCache, err = lru.New(engCfg.ReceiptCacheSize); err != nil {
		return common.ErrNewEngineCtxFailed.More("receipt cache: %v", err)
	}
	if t.campaignCache, err = lru.New(engCfg.CampaignCacheSize); err != nil {
		return common.ErrNewEngineCtxFailed.More("campaign cache: %v", err)
	}

	t.rejecting = make(map[string]bool, len(engCfg.RejectingAccounts))
	for _, addr := range engCfg.RejectingAccounts {
		norm, err := xaddress.Normalize(addr)
		if err != nil {
			return common.ErrLoadEngConfFailed.More("rejecting account: %v", err)
		}
		t.rejecting[norm] = true
	}
	return nil
}

func (t *XuperOSEngine) openStorage(envCfg *xconf.EnvConf, engCfg *engconf.EngineConf) error {
	param := &kvdb.KVParameter{
		DBPath:                envCfg.GenDataAbsPath(envCfg.StateDir),
		KVEngineType:          engCfg.Storage.KVEngineType,
		MemCacheSize:          engCfg.Storage.MemCacheSize.MB(),
		FileHandlersCacheSize: engCfg.Storage.FileHandlersCacheSize,
	}
	db, err := kvdb.CreateKVInstance(param)
	if err != nil {
		return common.ErrOpenStorageFailed.More("%v", err)
	}
	xm, err := xmodel.NewXModel(db, t.log)
	if err != nil {
		db.Close()
		return common.ErrOpenStorageFailed.More("%v", err)
	}
	events, err := event.NewStore(db, engCfg.EventBufferSize, t.log)
	if err != nil {
		db.Close()
		return common.ErrOpenStorageFailed.More("%v", err)
	}

	t.db = db
	t.xmodel = xm
	t.events = events
	t.receipts = kvdb.NewTable(db, common.ReceiptTablePrefix).(*kvdb.Table)
	t.meta = kvdb.NewTable(db, common.MetaTablePrefix).(*kvdb.Table)
	return nil
}

// 创建合约管理器并注册内核合约
func (t *XuperOSEngine) initContracts(engCfg *engconf.EngineConf) error {
	mgr, err := contract.CreateManager(common.ContractManagerName, &contract.ManagerConfig{
		EnvConf:  t.engCtx.EnvCfg,
		XMReader: t.xmodel,
		XLog:     t.log,
	})
	if err != nil {
		return common.ErrContractNewCtxFailed.More("%v", err)
	}

	campCtx, err := campaign.NewCampaignCtx(mgr)
	if err != nil {
		return common.ErrContractNewCtxFailed.More("%v", err)
	}
	if _, err := campaign.NewManager(campCtx); err != nil {
		return common.ErrContractNewCtxFailed.More("%v", err)
	}

	factoryCtx, err := factory.NewFactoryCtx(engCfg.FactoryAddress, mgr)
	if err != nil {
		return common.ErrContractNewCtxFailed.More("%v", err)
	}
	factoryMgr, err := factory.NewManager(factoryCtx)
	if err != nil {
		return common.ErrContractNewCtxFailed.More("%v", err)
	}

	t.contract = mgr
	t.factoryAddr = factoryMgr.Contract.Address
	return nil
}

// 启动执行引擎，阻塞等待退出
func (t *XuperOSEngine) Run() {
	t.log.Trace("engine running")
	<-t.exitCh
	t.log.Trace("engine exit")
}

// 关闭执行引擎，需要幂等
func (t *XuperOSEngine) Exit() {
	t.exitOnce.Do(func() {
		t.mutex.Lock()
		defer t.mutex.Unlock()

		t.stopped = true
		t.closeStorage()
		close(t.exitCh)
	})
}

func (t *XuperOSEngine) closeStorage() {
	if t.xmodel != nil {
		if err := t.xmodel.Close(); err != nil {
			t.log.Warn("close state db failed", "err", err)
		}
		return
	}
	if t.db != nil {
		t.db.Close()
	}
}

// 获取执行引擎环境
func (t *XuperOSEngine) Context() *common.EngineCtx {
	return t.engCtx
}

// FactoryAddress returns the address new campaigns are derived from
func (t *XuperOSEngine) FactoryAddress() string {
	return t.factoryAddr
}

func (t *XuperOSEngine) String() string {
	return fmt.Sprintf("%s engine, factory %s", common.BCEngineName, t.factoryAddr)
}
