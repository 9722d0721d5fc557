package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/def"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/event"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/tx"
	"github.com/xuperchain/xcampaign/lib/utils"
	"github.com/xuperchain/xcampaign/server/common"
)

type XCampaignClient struct {
	host string
	hc   *http.Client
}

func NewXCampaignClient(host string) (*XCampaignClient, error) {
	if host == "" {
		return nil, fmt.Errorf("host is empty")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return &XCampaignClient{
		host: strings.TrimRight(host, "/"),
		hc:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (t *XCampaignClient) SubmitTx(transaction *tx.Transaction) (*def.Receipt, error) {
	receipt := new(def.Receipt)
	if err := t.do(http.MethodPost, "/v1/tx", transaction, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (t *XCampaignClient) QueryTx(txHash string) (*def.Receipt, error) {
	receipt := new(def.Receipt)
	if err := t.do(http.MethodGet, "/v1/tx/"+url.PathEscape(txHash), nil, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (t *XCampaignClient) Query(req *def.QueryRequest) (*common.QueryResp, error) {
	resp := new(common.QueryResp)
	if err := t.do(http.MethodPost, "/v1/query", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *XCampaignClient) ListCampaigns() ([]string, error) {
	var addrs []string
	if err := t.do(http.MethodGet, "/v1/campaigns", nil, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

// Summary returns the raw summary json of a campaign
func (t *XCampaignClient) Summary(campaign string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := t.do(http.MethodGet, "/v1/campaigns/"+campaign+"/summary", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (t *XCampaignClient) Request(campaign string, index uint64) (json.RawMessage, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/v1/campaigns/%s/requests/%d", campaign, index)
	if err := t.do(http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (t *XCampaignClient) ApprovalStatus(campaign string, index uint64, approver string) (bool, error) {
	status := make(map[string]bool)
	path := fmt.Sprintf("/v1/campaigns/%s/requests/%d/approvals/%s", campaign, index, approver)
	if err := t.do(http.MethodGet, path, nil, &status); err != nil {
		return false, err
	}
	return status["approved"], nil
}

func (t *XCampaignClient) Events(campaign string, offset, limit int) ([]*event.Record, error) {
	var records []*event.Record
	path := fmt.Sprintf("/v1/campaigns/%s/events?offset=%d&limit=%d", campaign, offset, limit)
	if err := t.do(http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (t *XCampaignClient) Balance(addr string) (string, error) {
	resp := new(common.BalanceResp)
	if err := t.do(http.MethodGet, "/v1/accounts/"+addr+"/balance", nil, resp); err != nil {
		return "", err
	}
	return resp.Balance, nil
}

func (t *XCampaignClient) do(method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, t.host+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.HeaderRequestId, utils.GenLogId())

	resp, err := t.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	baseResp := &common.BaseResp{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(baseResp); err != nil {
		return fmt.Errorf("decode response failed.HttpCode:%d Err:%v", resp.StatusCode, err)
	}
	header := baseResp.Header
	if header == nil {
		return fmt.Errorf("response without header.HttpCode:%d", resp.StatusCode)
	}
	if header.Error != 0 {
		return fmt.Errorf("ErrCode:%d ErrMsg:%s LogId:%s TraceId:%s", header.Error,
			header.Msg, header.LogId, header.TraceId)
	}
	return nil
}
