package campaign

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract"
)

// transferOut pays value from the campaign to recipient.
// Any failure of the funds ledger is reported as ErrTransferFailed.
func transferOut(ctx contract.KContext, camp *Campaign, recipient string, value *big.Int) error {
	if err := ctx.Transfer(camp.Address, recipient, value); err != nil {
		return errors.Wrapf(ErrTransferFailed, "pay %s to %s: %v", value, recipient, err)
	}
	return nil
}

// collect moves the value attached to the call from caller into the campaign
func collect(ctx contract.KContext, camp *Campaign, caller string, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := ctx.Transfer(caller, camp.Address, amount); err != nil {
		return errors.Wrap(err, "collect contribution failed")
	}
	return nil
}
