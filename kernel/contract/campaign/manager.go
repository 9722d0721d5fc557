package campaign

import (
	"errors"

	"github.com/xuperchain/xcampaign/kernel/contract"
)

type Manager struct {
	Ctx      *Context
	Contract *Contract
}

// NewManager registers the campaign kernel methods on the contract manager
func NewManager(ctx *Context) (*Manager, error) {
	if ctx == nil || ctx.Contract == nil {
		return nil, errors.New("campaign contract ctx set error")
	}

	c := NewContract(ctx)

	register := ctx.Contract.GetKernRegistry()
	kMethods := map[string]contract.KernMethod{
		Contribute:      c.Contribute,
		CreateRequest:   NonPayable(c.CreateRequest),
		ApproveRequest:  NonPayable(c.ApproveRequest),
		FinalizeRequest: NonPayable(c.FinalizeRequest),

		GetSummary:                     NonPayable(c.GetSummary),
		GetRequest:                     NonPayable(c.GetRequest),
		GetApprovalStatusOfApprover:    NonPayable(c.GetApprovalStatusOfApprover),
		CheckIfContributorDonatedMoney: NonPayable(c.CheckIfContributorDonatedMoney),
		GetManager:                     NonPayable(c.GetManager),
		GetMinimumContribution:         NonPayable(c.GetMinimumContribution),
		GetApproversCount:              NonPayable(c.GetApproversCount),
		GetRequestsCount:               NonPayable(c.GetRequestsCount),
		GetContractAddress:             NonPayable(c.GetContractAddress),
	}

	for method, f := range kMethods {
		if _, err := register.GetKernMethod(CampaignContract, method); err != nil {
			register.RegisterKernMethod(CampaignContract, method, f)
		}
	}
	return &Manager{Ctx: ctx, Contract: c}, nil
}

// NonPayable rejects calls that carry value
func NonPayable(f contract.KernMethod) contract.KernMethod {
	return func(ctx contract.KContext) (*contract.Response, error) {
		if amount := ctx.TransferAmount(); amount != nil && amount.Sign() != 0 {
			return nil, ErrValueAttached
		}
		return f(ctx)
	}
}
