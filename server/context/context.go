package context

import (
	"context"
	"fmt"

	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/def"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/lib/timer"
	"github.com/xuperchain/xcampaign/server/common"
)

// 请求级别上下文
type ReqCtx interface {
	GetEngine() def.Engine
	GetLog() logs.Logger
	GetTimer() *timer.XTimer
	GetClientIp() string
	GetReqId() string
}

type ReqCtxImpl struct {
	engine   def.Engine
	log      logs.Logger
	timer    *timer.XTimer
	clientIp string
	reqId    string
}

func NewReqCtx(engine def.Engine, reqId, clientIp string) (ReqCtx, error) {
	if engine == nil {
		return nil, fmt.Errorf("new request context failed because engine is nil")
	}

	log, err := logs.NewLogger(reqId, common.SubModName)
	if err != nil {
		return nil, fmt.Errorf("new request context failed because new logger failed.err:%s", err)
	}

	ctx := &ReqCtxImpl{
		engine:   engine,
		log:      log,
		timer:    timer.NewXTimer(),
		clientIp: clientIp,
		reqId:    reqId,
	}

	return ctx, nil
}

func (t *ReqCtxImpl) GetEngine() def.Engine {
	return t.engine
}

func (t *ReqCtxImpl) GetLog() logs.Logger {
	return t.log
}

func (t *ReqCtxImpl) GetTimer() *timer.XTimer {
	return t.timer
}

func (t *ReqCtxImpl) GetClientIp() string {
	return t.clientIp
}

func (t *ReqCtxImpl) GetReqId() string {
	return t.reqId
}

type reqCtxKey struct{}

func WithReqCtx(ctx context.Context, rctx ReqCtx) context.Context {
	return context.WithValue(ctx, reqCtxKey{}, rctx)
}

// ValueReqCtx returns nil if ctx carries no request context
func ValueReqCtx(ctx context.Context) ReqCtx {
	if rctx, ok := ctx.Value(reqCtxKey{}).(ReqCtx); ok {
		return rctx
	}
	return nil
}
