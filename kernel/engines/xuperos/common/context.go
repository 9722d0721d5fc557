// 统一管理引擎运行上下文
package common

import (
	xconf "github.com/xuperchain/xcampaign/kernel/common/xconfig"
	xctx "github.com/xuperchain/xcampaign/kernel/common/xcontext"
	engconf "github.com/xuperchain/xcampaign/kernel/engines/xuperos/config"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/lib/timer"
)

// 引擎运行上下文环境
type EngineCtx struct {
	// 基础上下文
	xctx.BaseCtx
	// 运行环境配置
	EnvCfg *xconf.EnvConf
	// 引擎配置
	EngCfg *engconf.EngineConf
}

func NewEngineCtx(envCfg *xconf.EnvConf, engCfg *engconf.EngineConf) (*EngineCtx, error) {
	if envCfg == nil || engCfg == nil {
		return nil, ErrParameter
	}

	log, err := logs.NewLogger("", BCEngineName)
	if err != nil {
		return nil, ErrNewLogFailed.More("%v", err)
	}

	ctx := new(EngineCtx)
	ctx.XLog = log
	ctx.Timer = timer.NewXTimer()
	ctx.EnvCfg = envCfg
	ctx.EngCfg = engCfg

	return ctx, nil
}
