package campaign

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract"
)

// ---------- 出资人登记 ----------

func isApprover(ctx contract.XMState, camp *Campaign, addr string) (bool, error) {
	value, err := getState(ctx, KeyOfApprover(camp.Address, addr))
	if err != nil {
		return false, err
	}
	return len(value) != 0, nil
}

// register records caller as an approver on its first contribution of at least the minimum.
// Known approvers are never registered twice, whatever the amount.
func register(ctx contract.XMState, camp *Campaign, caller string, amount *big.Int) (bool, error) {
	known, err := isApprover(ctx, camp, caller)
	if err != nil {
		return false, err
	}
	if known {
		return false, nil
	}
	if amount.Cmp(camp.MinimumContribution) < 0 {
		return false, errors.Wrapf(ErrInsufficientContribution, "amount %s below minimum %s",
			amount, camp.MinimumContribution)
	}

	if err := ctx.Put(CampaignContract, []byte(KeyOfApprover(camp.Address, caller)), []byte("1")); err != nil {
		return false, errors.Wrap(err, "save approver failed")
	}
	camp.ApproversCount++
	return true, nil
}
