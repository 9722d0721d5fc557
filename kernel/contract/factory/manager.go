package factory

import (
	"errors"

	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
)

type Manager struct {
	Ctx      *Context
	Contract *Contract
}

// NewManager registers the factory kernel methods on the contract manager
func NewManager(ctx *Context) (*Manager, error) {
	if ctx == nil || ctx.Contract == nil {
		return nil, errors.New("factory contract ctx set error")
	}
	addr, err := xaddress.Normalize(ctx.Address)
	if err != nil {
		return nil, err
	}

	c := NewContract(addr, ctx)

	register := ctx.Contract.GetKernRegistry()
	kMethods := map[string]contract.KernMethod{
		CreateCampaignContract:          campaign.NonPayable(c.CreateCampaignContract),
		GetDeployedCampaigns:            campaign.NonPayable(c.GetDeployedCampaigns),
		ListOfDeployedCampaignContracts: campaign.NonPayable(c.ListOfDeployedCampaignContracts),
		GetDeployedCampaignsCount:       campaign.NonPayable(c.GetDeployedCampaignsCount),
	}

	for method, f := range kMethods {
		if _, err := register.GetKernMethod(FactoryContract, method); err != nil {
			register.RegisterKernMethod(FactoryContract, method, f)
		}
	}
	return &Manager{Ctx: ctx, Contract: c}, nil
}
