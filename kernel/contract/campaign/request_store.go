package campaign

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract"
)

// ---------- 申请存储，只追加不删除，按下标寻址 ----------

func getRequest(ctx contract.XMState, camp *Campaign, index uint64) (*Request, error) {
	if index >= camp.RequestsCount {
		return nil, errors.Wrapf(ErrRequestNotFound, "index %d, count %d", index, camp.RequestsCount)
	}
	value, err := getState(ctx, KeyOfRequest(camp.Address, index))
	if err != nil {
		return nil, err
	}
	if len(value) == 0 {
		return nil, errors.Wrapf(ErrRequestNotFound, "index %d", index)
	}
	req := new(Request)
	if err := json.Unmarshal(value, req); err != nil {
		return nil, errors.Wrap(err, "request unmarshal failed")
	}
	return req, nil
}

func putRequest(ctx contract.XMState, camp *Campaign, req *Request) error {
	return putJSON(ctx, KeyOfRequest(camp.Address, req.Index), req)
}

// appendRequest stores req at the next index, the caller saves camp
func appendRequest(ctx contract.XMState, camp *Campaign, req *Request) error {
	req.Index = camp.RequestsCount
	req.Complete = false
	req.ApprovalCount = 0
	if err := putRequest(ctx, camp, req); err != nil {
		return errors.Wrap(err, "save request failed")
	}
	camp.RequestsCount++
	return nil
}

func hasApproved(ctx contract.XMState, camp *Campaign, index uint64, addr string) (bool, error) {
	value, err := getState(ctx, KeyOfRequestApproval(camp.Address, index, addr))
	if err != nil {
		return false, err
	}
	return len(value) != 0, nil
}

// addApproval records one vote and keeps ApprovalCount equal to the number of votes
func addApproval(ctx contract.XMState, camp *Campaign, req *Request, addr string) error {
	err := ctx.Put(CampaignContract, []byte(KeyOfRequestApproval(camp.Address, req.Index, addr)), []byte("1"))
	if err != nil {
		return errors.Wrap(err, "save approval failed")
	}
	req.ApprovalCount++
	return putRequest(ctx, camp, req)
}

func markFinalized(ctx contract.XMState, camp *Campaign, req *Request) error {
	req.Complete = true
	return putRequest(ctx, camp, req)
}
