package campaign

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

	Contract contract.Manager
}

func NewCampaignCtx(mgr contract.Manager) (*Context, error) {
	if mgr == nil {
		return nil, fmt.Errorf("new campaign ctx failed because param error")
	}

	log, err := logs.NewLogger("", CampaignContract)
	if err != nil {
		return nil, fmt.Errorf("new campaign ctx failed because new logger error. err:%v", err)
	}

	ctx := new(Context)
	ctx.XLog = log
	ctx.Timer = timer.NewXTimer()
	ctx.Contract = mgr

	return ctx, nil
}
