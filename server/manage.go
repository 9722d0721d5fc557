package server

import (
	"fmt"

	"github.com/xuperchain/xcampaign/kernel/engines"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/server/common"
	sconf "github.com/xuperchain/xcampaign/server/config"
	"github.com/xuperchain/xcampaign/server/rpc"
)

// 由于需要同时启动多个服务组件，采用注册机制管理
type ServCom interface {
	Run() error
	Exit()
}

// 各server组件运行控制
type ServMG struct {
	scfg    *sconf.ServConf
	log     logs.Logger
	servers []ServCom
}

func NewServMG(scfg *sconf.ServConf, engine engines.BCEngine) (*ServMG, error) {
	if scfg == nil || engine == nil {
		return nil, fmt.Errorf("param error")
	}

	log, _ := logs.NewLogger("", common.SubModName)
	obj := &ServMG{
		scfg:    scfg,
		log:     log,
		servers: make([]ServCom, 0),
	}

	// 实例化rpc服务
	rpcServ, err := rpc.NewRpcServMG(scfg, engine)
	if err != nil {
		return nil, err
	}
	obj.servers = append(obj.servers, rpcServ)

	return obj, nil
}

// 启动各服务，阻塞直到全部退出，返回第一个异常退出的错误
func (t *ServMG) Run() error {
	ch := make(chan error, len(t.servers))

	for _, serv := range t.servers {
		go func(s ServCom) {
			ch <- s.Run()
		}(serv)
	}

	var firstErr error
	for i := 0; i < len(t.servers); i++ {
		if err := <-ch; err != nil && firstErr == nil {
			firstErr = err
			// 一个服务异常退出时通知其他服务退出
			t.Exit()
		}
	}

	t.log.Trace("all servers exit")
	return firstErr
}

// 退出各服务，释放相关资源，需要幂等
func (t *ServMG) Exit() {
	for _, serv := range t.servers {
		go func(s ServCom) {
			s.Exit()
		}(serv)
	}
}
