package campaign

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract"
)

// ---------- 权限与阈值检查 ----------

func requireManager(camp *Campaign, caller string) error {
	if caller != camp.Manager {
		return errors.Wrapf(ErrUnauthorized, "%s is not the manager", caller)
	}
	return nil
}

// manager may never vote, even after contributing
func requireNotManager(camp *Campaign, caller string) error {
	if caller == camp.Manager {
		return errors.Wrap(ErrUnauthorized, "manager can not approve")
	}
	return nil
}

func requireContributor(ctx contract.XMState, camp *Campaign, caller string) error {
	ok, err := isApprover(ctx, camp, caller)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrNotAContributor, "%s", caller)
	}
	return nil
}

func requirePending(req *Request) error {
	if req.Complete {
		return errors.Wrapf(ErrAlreadyFinalized, "index %d", req.Index)
	}
	return nil
}

func requireNotVoted(ctx contract.XMState, camp *Campaign, req *Request, caller string) error {
	voted, err := hasApproved(ctx, camp, req.Index, caller)
	if err != nil {
		return err
	}
	if voted {
		return errors.Wrapf(ErrAlreadyVoted, "%s on index %d", caller, req.Index)
	}
	return nil
}

// HasMajority 严格过半，分母为当前出资人数，整数除法
func HasMajority(approvalCount, approversCount uint64) bool {
	return approvalCount > approversCount/2
}

func requireMajority(camp *Campaign, req *Request) error {
	if !HasMajority(req.ApprovalCount, camp.ApproversCount) {
		return errors.Wrapf(ErrInsufficientApprovals, "approvals %d, approvers %d",
			req.ApprovalCount, camp.ApproversCount)
	}
	return nil
}

func requireBalance(ctx contract.KContext, camp *Campaign, value *big.Int) error {
	balance, err := ctx.Balance(camp.Address)
	if err != nil {
		return errors.Wrap(err, "get campaign balance failed")
	}
	if balance.Cmp(value) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "balance %s, need %s", balance, value)
	}
	return nil
}
