// 定义公共上下文结构，明确定义上下文结构，方便代码阅读
package xcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/lib/timer"
)

type XContext interface {
	context.Context
	GetLog() logs.Logger
	GetTimer() *timer.XTimer
}

// 先实现空context.Context接口，同时携带日志和计时器等公共成员
type BaseCtx struct {
	XLog  logs.Logger
	Timer *timer.XTimer
}

func (t *BaseCtx) GetLog() logs.Logger {
	return t.XLog
}

func (t *BaseCtx) GetTimer() *timer.XTimer {
	return t.Timer
}

func (t *BaseCtx) Deadline() (deadline time.Time, ok bool) {
	return
}

func (t *BaseCtx) Done() <-chan struct{} {
	return nil
}

func (t *BaseCtx) Err() error {
	return nil
}

func (t *BaseCtx) Value(key interface{}) interface{} {
	return nil
}

// 通用操作级上下文，不需要扩展的场景直接选用
type ComOpCtx struct {
	BaseCtx
}

func CreateComOpCtx(xlog logs.Logger, tmr *timer.XTimer) (*ComOpCtx, error) {
	if xlog == nil || tmr == nil {
		return nil, fmt.Errorf("create operate context failed because some param are missing")
	}

	ctx := new(ComOpCtx)
	ctx.XLog = xlog
	ctx.Timer = tmr

	return ctx, nil
}

func (t *ComOpCtx) IsVaild() bool {
	if t.XLog == nil || t.Timer == nil {
		return false
	}

	return true
}
