package contract

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/common/xconfig"
	"github.com/xuperchain/xcampaign/kernel/ledger"
	"github.com/xuperchain/xcampaign/lib/logs"
)

// ErrManagerNotExist is returned by CreateManager for an unregistered name
var ErrManagerNotExist = errors.New("contract manager not exist")

var (
	managerMutex sync.Mutex
	managers     = make(map[string]NewManagerFunc)
)

type NewManagerFunc func(cfg *ManagerConfig) (Manager, error)

// Manager 持有内核方法注册表，为每次调用构造沙盒和KContext
type Manager interface {
	NewContext(cfg *ContextConfig) (KContext, error)
	NewStateSandbox(cfg *SandboxConfig) (StateSandbox, error)
	GetKernRegistry() KernRegistry
}

// ManagerConfig XMReader是沙盒默认读取的已提交状态
type ManagerConfig struct {
	EnvConf  *xconfig.EnvConf
	XMReader ledger.XMReader
	XLog     logs.Logger
}

func Register(name string, f NewManagerFunc) {
	managerMutex.Lock()
	defer managerMutex.Unlock()

	if _, exists := managers[name]; exists {
		panic("contract manager registered twice: " + name)
	}
	managers[name] = f
}

func CreateManager(name string, cfg *ManagerConfig) (Manager, error) {
	managerMutex.Lock()
	newFunc, ok := managers[name]
	managerMutex.Unlock()
	if !ok {
		return nil, errors.Wrapf(ErrManagerNotExist, "name:%s", name)
	}
	return newFunc(cfg)
}
