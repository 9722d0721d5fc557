package factory

import (
	"fmt"

	"github.com/xuperchain/xcampaign/kernel/common/xcontext"
	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/lib/timer"
)

type Context struct {
	// 基础上下文
	xcontext.BaseCtx

	// 工厂合约地址，新建campaign地址由它和nonce推导
	Address  string
	Contract contract.Manager
}

func NewFactoryCtx(address string, mgr contract.Manager) (*Context, error) {
	if mgr == nil || address == "" {
		return nil, fmt.Errorf("new factory ctx failed because param error")
	}

	log, err := logs.NewLogger("", FactoryContract)
	if err != nil {
		return nil, fmt.Errorf("new factory ctx failed because new logger error. err:%v", err)
	}

	ctx := new(Context)
	ctx.XLog = log
	ctx.Timer = timer.NewXTimer()
	ctx.Address = address
	ctx.Contract = mgr

	return ctx, nil
}
