package common

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
)

func TestCastError(t *testing.T) {
	if CastError(nil) != nil {
		t.Fatal("nil error should cast to nil")
	}
	if err := CastError(ErrTxAlreadyExist); !err.Equal(ErrTxAlreadyExist) {
		t.Fatal("engine error should cast to itself", err)
	}
	err := CastError(fmt.Errorf("disk full"))
	if !err.Equal(ErrUnknown) || err.Msg != "unknown error+disk full" {
		t.Fatal("plain error should cast to unknown", err)
	}
	err = CastErrorDefault(fmt.Errorf("bad"), ErrParameter)
	if !err.Equal(ErrParameter) || err.Status != ErrStatusRefused {
		t.Fatal("cast with default assert failed", err)
	}
}

func TestCastContractError(t *testing.T) {
	cases := []struct {
		err  error
		want *Error
	}{
		{errors.Wrap(campaign.ErrAlreadyVoted, "0x10"), ErrCampaignAlreadyVoted},
		{campaign.ErrRequestNotFound, ErrCampaignInvalidParameters},
		{errors.Wrapf(campaign.ErrTransferFailed, "pay"), ErrCampaignTransferFailed},
		{ErrRecipientRejected, ErrRecipientRejected},
		{errors.Wrap(ErrInsufficientFunds, "collect contribution failed"), ErrInsufficientFunds},
		{fmt.Errorf("boom"), ErrContractInvokeFailed},
	}
	for _, c := range cases {
		got := CastContractError(c.err)
		if !got.Equal(c.want) {
			t.Errorf("cast %v: want %v, got %v", c.err, c.want, got)
		}
	}
	if CastContractError(nil) != nil {
		t.Fatal("nil error should cast to nil")
	}
}
