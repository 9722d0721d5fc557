package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/def"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/tx"
	"github.com/xuperchain/xcampaign/server/common"
)

func newFakeNode(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/campaigns", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&common.BaseResp{
			Header: &common.RespHeader{LogId: r.Header.Get(common.HeaderRequestId)},
			Data:   []string{"0x0000000000000000000000000000000000000900"},
		})
	})
	mux.HandleFunc("/v1/tx", func(w http.ResponseWriter, r *http.Request) {
		transaction := new(tx.Transaction)
		if err := json.NewDecoder(r.Body).Decode(transaction); err != nil {
			t.Error("decode tx failed", err)
		}
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(&common.BaseResp{
			Header: &common.RespHeader{Error: 40101, Msg: "Unauthorized"},
		})
	})
	mux.HandleFunc("/v1/accounts/0x0000000000000000000000000000000000000010/balance",
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(&common.BaseResp{
				Header: &common.RespHeader{},
				Data:   &common.BalanceResp{Balance: "42"},
			})
		})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient(t *testing.T) {
	ts := newFakeNode(t)
	xcli, err := NewXCampaignClient(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}

	addrs, err := xcli.ListCampaigns()
	if err != nil || len(addrs) != 1 {
		t.Fatal("list campaigns assert failed", addrs, err)
	}
	balance, err := xcli.Balance("0x0000000000000000000000000000000000000010")
	if err != nil || balance != "42" {
		t.Fatal("balance assert failed", balance, err)
	}

	if _, err := xcli.SubmitTx(tx.New("", "Campaign", "CreateRequest", nil, "")); err == nil {
		t.Fatal("expect error from refused tx")
	}
	if _, err := xcli.Query(&def.QueryRequest{Contract: "Campaign", Method: "GetManager"}); err == nil {
		t.Fatal("expect error for unknown route")
	}
}

func TestNewClient(t *testing.T) {
	if _, err := NewXCampaignClient(""); err == nil {
		t.Fatal("expect error for empty host")
	}
	xcli, err := NewXCampaignClient("127.0.0.1:38101")
	if err != nil || xcli.host != "http://127.0.0.1:38101" {
		t.Fatal("host assert failed", err)
	}
}
