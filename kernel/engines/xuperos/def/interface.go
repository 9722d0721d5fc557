package def

import (
	"math/big"

	xctx "github.com/xuperchain/xcampaign/kernel/common/xcontext"
	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
	"github.com/xuperchain/xcampaign/kernel/engines"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/event"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/tx"
)

// 定义xuperos引擎对外暴露接口
// 依赖接口而不是依赖具体实现
type Engine interface {
	engines.BCEngine
	Context() *common.EngineCtx
	// 提交交易，串行执行，成功则原子提交状态、事件和回执
	SubmitTx(xctx.XContext, *tx.Transaction) (*Receipt, error)
	// 只读调用，读取已提交状态
	Query(xctx.XContext, *QueryRequest) (*contract.Response, error)
	GetReceipt(txHash string) (*Receipt, error)
	GetBalance(addr string) (*big.Int, error)
	GetCampaign(addr string) (*campaign.Campaign, error)
	ListCampaigns() ([]string, error)
	ListEvents(campaign string, offset, limit int) ([]*event.Record, error)
	RecentEvents(filter *event.Filter, n int) []*event.Record
}

type QueryRequest struct {
	Contract  string            `json:"contract"`
	Method    string            `json:"method"`
	Args      map[string]string `json:"args,omitempty"`
	Initiator string            `json:"initiator,omitempty"`
}

// Receipt 交易执行结果
// 被拒绝的交易也有回执，Status为拒绝类状态，Code为错误码，没有事件
type Receipt struct {
	TxHash    string          `json:"txHash"`
	Contract  string          `json:"contract"`
	Method    string          `json:"method"`
	Initiator string          `json:"initiator"`
	Value     string          `json:"value,omitempty"`
	Status    int             `json:"status"`
	Code      int             `json:"code,omitempty"`
	Message   string          `json:"message,omitempty"`
	Body      []byte          `json:"body,omitempty"`
	Events    []*event.Record `json:"events,omitempty"`
	Timestamp int64           `json:"timestamp"`
}
