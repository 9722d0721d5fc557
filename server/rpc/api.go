package rpc

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
	ecom "github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/def"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/event"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/tx"
	"github.com/xuperchain/xcampaign/server/common"
	sctx "github.com/xuperchain/xcampaign/server/context"
)

const (
	defEventLimit = 20
	maxEventLimit = 100
)

// 探活接口
func (t *RpcServ) CheckAlive(w http.ResponseWriter, r *http.Request) {
	rctx := sctx.ValueReqCtx(r.Context())
	rctx.GetLog().Debug("check alive succ")
	t.reply(w, rctx, map[string]string{"status": "running"})
}

// 提交签名交易，成功时返回回执
func (t *RpcServ) SubmitTx(w http.ResponseWriter, r *http.Request) {
	rctx := sctx.ValueReqCtx(r.Context())

	transaction := new(tx.Transaction)
	if err := t.decodeBody(w, r, transaction); err != nil {
		t.fail(w, rctx, ecom.ErrParameter.More("decode tx failed: %v", err))
		return
	}
	receipt, err := rctx.GetEngine().SubmitTx(genXctx(rctx), transaction)
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	t.reply(w, rctx, receipt)
}

// 查询交易回执
func (t *RpcServ) QueryTx(w http.ResponseWriter, r *http.Request) {
	rctx := sctx.ValueReqCtx(r.Context())
	receipt, err := rctx.GetEngine().GetReceipt(chi.URLParam(r, "txHash"))
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	t.reply(w, rctx, receipt)
}

// 通用只读合约调用
func (t *RpcServ) Query(w http.ResponseWriter, r *http.Request) {
	rctx := sctx.ValueReqCtx(r.Context())

	req := new(def.QueryRequest)
	if err := t.decodeBody(w, r, req); err != nil {
		t.fail(w, rctx, ecom.ErrParameter.More("decode query failed: %v", err))
		return
	}
	resp, err := rctx.GetEngine().Query(genXctx(rctx), req)
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	t.reply(w, rctx, &common.QueryResp{
		Status:  resp.Status,
		Message: resp.Message,
		Body:    string(resp.Body),
	})
}

func (t *RpcServ) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	rctx := sctx.ValueReqCtx(r.Context())
	addrs, err := rctx.GetEngine().ListCampaigns()
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	t.reply(w, rctx, addrs)
}

func (t *RpcServ) GetCampaign(w http.ResponseWriter, r *http.Request) {
	rctx := sctx.ValueReqCtx(r.Context())
	camp, err := rctx.GetEngine().GetCampaign(chi.URLParam(r, "campaign"))
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	t.reply(w, rctx, camp)
}

func (t *RpcServ) GetSummary(w http.ResponseWriter, r *http.Request) {
	t.queryCampaign(w, r, campaign.GetSummary, nil, rawJSON)
}

func (t *RpcServ) GetRequest(w http.ResponseWriter, r *http.Request) {
	args := map[string]string{campaign.ArgIndex: chi.URLParam(r, "index")}
	t.queryCampaign(w, r, campaign.GetRequest, args, rawJSON)
}

func (t *RpcServ) GetApprovalStatus(w http.ResponseWriter, r *http.Request) {
	args := map[string]string{
		campaign.ArgIndex:   chi.URLParam(r, "index"),
		campaign.ArgAddress: chi.URLParam(r, "address"),
	}
	t.queryCampaign(w, r, campaign.GetApprovalStatusOfApprover, args, boolField("approved"))
}

func (t *RpcServ) CheckContributor(w http.ResponseWriter, r *http.Request) {
	args := map[string]string{campaign.ArgAddress: chi.URLParam(r, "address")}
	t.queryCampaign(w, r, campaign.CheckIfContributorDonatedMoney, args, boolField("contributor"))
}

// queryCampaign 调用campaign合约的只读方法，由render转换结果
func (t *RpcServ) queryCampaign(w http.ResponseWriter, r *http.Request, method string,
	args map[string]string, render func([]byte) (interface{}, error)) {
	rctx := sctx.ValueReqCtx(r.Context())

	if args == nil {
		args = make(map[string]string)
	}
	args[campaign.ArgCampaign] = chi.URLParam(r, "campaign")
	resp, err := rctx.GetEngine().Query(genXctx(rctx), &def.QueryRequest{
		Contract: campaign.CampaignContract,
		Method:   method,
		Args:     args,
	})
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	data, err := render(resp.Body)
	if err != nil {
		t.fail(w, rctx, ecom.ErrInternal.More("%v", err))
		return
	}
	t.reply(w, rctx, data)
}

func rawJSON(body []byte) (interface{}, error) {
	return json.RawMessage(body), nil
}

func boolField(name string) func([]byte) (interface{}, error) {
	return func(body []byte) (interface{}, error) {
		v, err := strconv.ParseBool(string(body))
		if err != nil {
			return nil, err
		}
		return map[string]bool{name: v}, nil
	}
}

// 分页列出campaign的持久化事件
func (t *RpcServ) ListEvents(w http.ResponseWriter, r *http.Request) {
	rctx := sctx.ValueReqCtx(r.Context())

	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	limit, err := intQuery(r, "limit", defEventLimit)
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	records, err := rctx.GetEngine().ListEvents(chi.URLParam(r, "campaign"), offset, limit)
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	t.reply(w, rctx, records)
}

// 最近事件，支持按campaign、合约和事件名过滤
func (t *RpcServ) RecentEvents(w http.ResponseWriter, r *http.Request) {
	rctx := sctx.ValueReqCtx(r.Context())

	n, err := intQuery(r, "n", defEventLimit)
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	filter := &event.Filter{
		Campaign: r.URL.Query().Get("campaign"),
		Contract: r.URL.Query().Get("contract"),
		Name:     r.URL.Query().Get("name"),
	}
	t.reply(w, rctx, rctx.GetEngine().RecentEvents(filter, n))
}

func (t *RpcServ) GetBalance(w http.ResponseWriter, r *http.Request) {
	rctx := sctx.ValueReqCtx(r.Context())
	addr := chi.URLParam(r, "address")
	balance, err := rctx.GetEngine().GetBalance(addr)
	if err != nil {
		t.fail(w, rctx, err)
		return
	}
	t.reply(w, rctx, &common.BalanceResp{Address: addr, Balance: balance.String()})
}

func (t *RpcServ) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, t.scfg.MaxBodySize)
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

func intQuery(r *http.Request, name string, defValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, ecom.ErrParameter.More("bad %s: %q", name, raw)
	}
	return v, nil
}
