package campaign

import (
	"fmt"
	"math/big"
)

const (
	CampaignContract = "Campaign"

	Contribute                     = "Contribute"
	CreateRequest                  = "CreateRequest"
	ApproveRequest                 = "ApproveRequest"
	FinalizeRequest                = "FinalizeRequest"
	GetSummary                     = "GetSummary"
	GetRequest                     = "GetRequest"
	GetApprovalStatusOfApprover    = "GetApprovalStatusOfApprover"
	CheckIfContributorDonatedMoney = "CheckIfContributorDonatedMoney"
	GetManager                     = "GetManager"
	GetMinimumContribution         = "GetMinimumContribution"
	GetApproversCount              = "GetApproversCount"
	GetRequestsCount               = "GetRequestsCount"
	GetContractAddress             = "GetContractAddress"

	EventContribution     = "Contribution"
	EventRequestCreated   = "RequestCreated"
	EventRequestApproved  = "RequestApproved"
	EventRequestFinalized = "RequestFinalized"

	ArgCampaign    = "campaign"
	ArgDescription = "description"
	ArgValue       = "value"
	ArgRecipient   = "recipient"
	ArgIndex       = "index"
	ArgAddress     = "address"

	//Success 成功
	Success = 200
)

// Campaign 合约实例，Manager和MinimumContribution创建后不可修改
type Campaign struct {
	Address             string   `json:"address"`
	Manager             string   `json:"manager"`
	MinimumContribution *big.Int `json:"minimumContribution"`
	ApproversCount      uint64   `json:"approversCount"`
	RequestsCount       uint64   `json:"requestsCount"`
}

// Request 资金使用申请，Complete置为true后不再修改
type Request struct {
	Index         uint64   `json:"index"`
	Description   string   `json:"description"`
	Value         *big.Int `json:"value"`
	Recipient     string   `json:"recipient"`
	Complete      bool     `json:"complete"`
	ApprovalCount uint64   `json:"approvalCount"`
}

type Summary struct {
	MinimumContribution *big.Int `json:"minimumContribution"`
	Balance             *big.Int `json:"balance"`
	RequestsCount       uint64   `json:"requestsCount"`
	ApproversCount      uint64   `json:"approversCount"`
	Manager             string   `json:"manager"`
}

type ContributionEvent struct {
	Campaign    string   `json:"campaign"`
	Contributor string   `json:"contributor"`
	Amount      *big.Int `json:"amount"`
}

type RequestCreatedEvent struct {
	Campaign string `json:"campaign"`
	Index    uint64 `json:"index"`
}

type RequestApprovedEvent struct {
	Campaign string `json:"campaign"`
	Index    uint64 `json:"index"`
	Approver string `json:"approver"`
}

type RequestFinalizedEvent struct {
	Campaign  string   `json:"campaign"`
	Index     uint64   `json:"index"`
	Recipient string   `json:"recipient"`
	Value     *big.Int `json:"value"`
}

func KeyOfCampaign(address string) string {
	return "C_" + address
}

func KeyOfApprover(address, approver string) string {
	return "C_" + address + "_approver_" + approver
}

// 定长序号保证按key扫描时与下标顺序一致
func KeyOfRequest(address string, index uint64) string {
	return fmt.Sprintf("C_%s_request_%020d", address, index)
}

func KeyOfRequestApproval(address string, index uint64, approver string) string {
	return fmt.Sprintf("C_%s_approval_%020d_%s", address, index, approver)
}
