package factory

import (
	"fmt"
	"math/big"
)

const (
	FactoryContract = "CampaignFactory"

	CreateCampaignContract          = "CreateCampaignContract"
	GetDeployedCampaigns            = "GetDeployedCampaigns"
	ListOfDeployedCampaignContracts = "ListOfDeployedCampaignContracts"
	GetDeployedCampaignsCount       = "GetDeployedCampaignsCount"

	EventCampaignCreated = "CampaignCreated"

	ArgMinimum = "minimum"
	ArgIndex   = "index"

	Success = 200

	nonceKey       = "nonce"
	deployedPrefix = "deployed_"
)

type CampaignCreatedEvent struct {
	Index               uint64   `json:"index"`
	Campaign            string   `json:"campaign"`
	Manager             string   `json:"manager"`
	MinimumContribution *big.Int `json:"minimumContribution"`
}

func KeyOfDeployed(index uint64) string {
	return fmt.Sprintf("%s%020d", deployedPrefix, index)
}
