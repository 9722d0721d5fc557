package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/xuperchain/xcampaign/kernel/engines"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/server/common"
	sconf "github.com/xuperchain/xcampaign/server/config"
)

// rpc server启停控制管理
type RpcServMG struct {
	scfg     *sconf.ServConf
	log      logs.Logger
	rpcServ  *RpcServ
	servHD   *http.Server
	isInit   bool
	exitOnce *sync.Once
}

func NewRpcServMG(scfg *sconf.ServConf, engine engines.BCEngine) (*RpcServMG, error) {
	if scfg == nil || engine == nil {
		return nil, fmt.Errorf("param error")
	}
	xosEngine, err := xuperos.EngineConvert(engine)
	if err != nil {
		return nil, fmt.Errorf("not xuperos engine")
	}

	log, _ := logs.NewLogger("", common.SubModName)
	rpcServ := NewRpcServ(scfg, xosEngine, log)
	obj := &RpcServMG{
		scfg:    scfg,
		log:     log,
		rpcServ: rpcServ,
		servHD: &http.Server{
			Addr:              scfg.HttpAddr,
			Handler:           rpcServ.Handler(),
			ReadTimeout:       scfg.ReadTimeout,
			ReadHeaderTimeout: scfg.ReadHeaderTimeout,
			WriteTimeout:      scfg.WriteTimeout,
			IdleTimeout:       scfg.IdleTimeout,
		},
		isInit:   true,
		exitOnce: &sync.Once{},
	}

	return obj, nil
}

// 启动rpc服务，阻塞直到退出
func (t *RpcServMG) Run() error {
	if !t.isInit {
		return errors.New("RpcServMG not init")
	}

	t.log.Trace("run http server", "addr", t.scfg.HttpAddr)
	err := t.servHD.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.log.Error("http server abnormal exit", "err", err)
		return err
	}

	t.log.Trace("http server exit")
	return nil
}

// 退出rpc服务，释放相关资源，需要幂等
func (t *RpcServMG) Exit() {
	if !t.isInit {
		return
	}

	t.exitOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.scfg.ShutdownTimeout)
		defer cancel()
		// 优雅关闭，等待处理中的请求完成
		if err := t.servHD.Shutdown(ctx); err != nil {
			t.log.Warn("http server shutdown failed", "err", err)
		}
	})
}
