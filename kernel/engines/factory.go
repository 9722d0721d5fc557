package engines

import (
	"sync"

	"github.com/pkg/errors"

	xconf "github.com/xuperchain/xcampaign/kernel/common/xconfig"
	"github.com/xuperchain/xcampaign/lib/logs"
)

// BCEngine 账本执行引擎的生命周期接口
// 业务接口由具体引擎自行暴露，调用方通过引擎提供的转换函数拿到
type BCEngine interface {
	// 加载配置，打开存储，部署内核合约
	Init(*xconf.EnvConf) error
	// 阻塞直到Exit被调用
	Run()
	// 幂等
	Exit()
}

type NewBCEngineFunc func() BCEngine

var (
	ErrEngineNotExist = errors.New("bc engine not exist")
	ErrParamUnset     = errors.New("bc engine param unset")
)

var (
	engineMu sync.RWMutex
	engines  = make(map[string]NewBCEngineFunc)
)

// Register 由引擎包在init中调用
func Register(name string, f NewBCEngineFunc) {
	engineMu.Lock()
	defer engineMu.Unlock()

	if f == nil {
		panic("engines: Register new func is nil")
	}
	if _, dup := engines[name]; dup {
		panic("engines: Register called twice for " + name)
	}
	engines[name] = f
}

func lookup(name string) (NewBCEngineFunc, bool) {
	engineMu.RLock()
	defer engineMu.RUnlock()
	f, ok := engines[name]
	return f, ok
}

// CreateBCEngine 初始化日志后创建并初始化指定引擎
func CreateBCEngine(egName string, envCfg *xconf.EnvConf) (BCEngine, error) {
	if egName == "" || envCfg == nil {
		return nil, ErrParamUnset
	}

	// 日志初始化是幂等的
	err := logs.InitLog(envCfg.GenConfFilePath(envCfg.LogConf), envCfg.GenDirAbsPath(envCfg.LogDir))
	if err != nil {
		return nil, errors.Wrap(err, "init log failed")
	}

	newFunc, ok := lookup(egName)
	if !ok {
		return nil, errors.Wrapf(ErrEngineNotExist, "name:%s", egName)
	}
	engine := newFunc()
	if err := engine.Init(envCfg); err != nil {
		return nil, errors.Wrapf(err, "init engine %s failed", egName)
	}
	return engine, nil
}
