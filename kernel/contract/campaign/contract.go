package campaign

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
	"github.com/xuperchain/xcampaign/kernel/contract"
)

// IMPORTANT 金额在参数和返回值里一律使用十进制字符串

type Contract struct {
	contractCtx *Context
}

func NewContract(ctx *Context) *Contract {
	return &Contract{
		contractCtx: ctx,
	}
}

// ---------- 写操作 ----------

// Contribute is payable, the attached value always lands in the campaign account
func (c *Contract) Contribute(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	amount := ctx.TransferAmount()

	registered, err := register(ctx, camp, caller, amount)
	if err != nil {
		return nil, err
	}
	if err := collect(ctx, camp, caller, amount); err != nil {
		return nil, err
	}
	if registered {
		if err := saveCampaign(ctx, camp); err != nil {
			return nil, err
		}
	}

	err = c.addEvent(ctx, EventContribution, &ContributionEvent{
		Campaign:    camp.Address,
		Contributor: caller,
		Amount:      amount,
	})
	if err != nil {
		return nil, err
	}
	c.contractCtx.XLog.Info("campaign contribute", "campaign", camp.Address, "contributor", caller,
		"amount", amount.String(), "registered", registered)

	return &contract.Response{
		Status: Success,
	}, nil
}

func (c *Contract) CreateRequest(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	// 1、只有manager可以发起申请
	if err := requireManager(camp, caller); err != nil {
		return nil, err
	}
	// 2、收款人不能是manager
	recipient, err := addressArg(ctx, ArgRecipient)
	if err != nil {
		return nil, err
	}
	if recipient == camp.Manager {
		return nil, errors.Wrapf(ErrInvalidRecipient, "recipient %s is the manager", recipient)
	}
	// 3、参数检查
	description := string(ctx.Args()[ArgDescription])
	if len(description) == 0 {
		return nil, errors.Wrap(ErrInvalidParameters, "description can not be empty")
	}
	value, err := ParseAmount(string(ctx.Args()[ArgValue]))
	if err != nil {
		return nil, err
	}
	// 4、余额需要覆盖申请金额
	if err := requireBalance(ctx, camp, value); err != nil {
		return nil, err
	}

	req := &Request{
		Description: description,
		Value:       value,
		Recipient:   recipient,
	}
	if err := appendRequest(ctx, camp, req); err != nil {
		return nil, err
	}
	if err := saveCampaign(ctx, camp); err != nil {
		return nil, err
	}

	err = c.addEvent(ctx, EventRequestCreated, &RequestCreatedEvent{
		Campaign: camp.Address,
		Index:    req.Index,
	})
	if err != nil {
		return nil, err
	}
	c.contractCtx.XLog.Info("campaign create request", "campaign", camp.Address, "index", req.Index,
		"value", value.String(), "recipient", recipient)

	return &contract.Response{
		Status: Success,
		Body:   []byte(strconv.FormatUint(req.Index, 10)),
	}, nil
}

func (c *Contract) ApproveRequest(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	index, err := indexArg(ctx)
	if err != nil {
		return nil, err
	}
	req, err := getRequest(ctx, camp, index)
	if err != nil {
		return nil, err
	}

	if err := requirePending(req); err != nil {
		return nil, err
	}
	if err := requireNotManager(camp, caller); err != nil {
		return nil, err
	}
	if err := requireContributor(ctx, camp, caller); err != nil {
		return nil, err
	}
	if err := requireNotVoted(ctx, camp, req, caller); err != nil {
		return nil, err
	}

	if err := addApproval(ctx, camp, req, caller); err != nil {
		return nil, err
	}

	err = c.addEvent(ctx, EventRequestApproved, &RequestApprovedEvent{
		Campaign: camp.Address,
		Index:    req.Index,
		Approver: caller,
	})
	if err != nil {
		return nil, err
	}
	c.contractCtx.XLog.Info("campaign approve request", "campaign", camp.Address, "index", req.Index,
		"approver", caller, "approvalCount", req.ApprovalCount)

	return &contract.Response{
		Status: Success,
	}, nil
}

// FinalizeRequest pays the request out and marks it complete, both or neither
func (c *Contract) FinalizeRequest(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	caller, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireManager(camp, caller); err != nil {
		return nil, err
	}
	index, err := indexArg(ctx)
	if err != nil {
		return nil, err
	}
	req, err := getRequest(ctx, camp, index)
	if err != nil {
		return nil, err
	}

	if err := requirePending(req); err != nil {
		return nil, err
	}
	if err := requireMajority(camp, req); err != nil {
		return nil, err
	}
	if err := requireBalance(ctx, camp, req.Value); err != nil {
		return nil, err
	}

	// 先转账，成功后再修改申请状态
	if err := transferOut(ctx, camp, req.Recipient, req.Value); err != nil {
		return nil, err
	}
	if err := markFinalized(ctx, camp, req); err != nil {
		return nil, err
	}

	err = c.addEvent(ctx, EventRequestFinalized, &RequestFinalizedEvent{
		Campaign:  camp.Address,
		Index:     req.Index,
		Recipient: req.Recipient,
		Value:     req.Value,
	})
	if err != nil {
		return nil, err
	}
	c.contractCtx.XLog.Info("campaign finalize request", "campaign", camp.Address, "index", req.Index,
		"recipient", req.Recipient, "value", req.Value.String())

	return &contract.Response{
		Status: Success,
	}, nil
}

// ---------- 查询 ----------

func (c *Contract) GetSummary(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := ctx.Balance(camp.Address)
	if err != nil {
		return nil, errors.Wrap(err, "get campaign balance failed")
	}
	summary := &Summary{
		MinimumContribution: camp.MinimumContribution,
		Balance:             balance,
		RequestsCount:       camp.RequestsCount,
		ApproversCount:      camp.ApproversCount,
		Manager:             camp.Manager,
	}
	return jsonResponse(summary)
}

func (c *Contract) GetRequest(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	index, err := indexArg(ctx)
	if err != nil {
		return nil, err
	}
	req, err := getRequest(ctx, camp, index)
	if err != nil {
		return nil, err
	}
	return jsonResponse(req)
}

func (c *Contract) GetApprovalStatusOfApprover(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	index, err := indexArg(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := addressArg(ctx, ArgAddress)
	if err != nil {
		return nil, err
	}
	if _, err := getRequest(ctx, camp, index); err != nil {
		return nil, err
	}
	voted, err := hasApproved(ctx, camp, index, addr)
	if err != nil {
		return nil, err
	}
	return boolResponse(voted), nil
}

func (c *Contract) CheckIfContributorDonatedMoney(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := addressArg(ctx, ArgAddress)
	if err != nil {
		return nil, err
	}
	ok, err := isApprover(ctx, camp, addr)
	if err != nil {
		return nil, err
	}
	return boolResponse(ok), nil
}

func (c *Contract) GetManager(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	return &contract.Response{Status: Success, Body: []byte(camp.Manager)}, nil
}

func (c *Contract) GetMinimumContribution(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	return &contract.Response{Status: Success, Body: []byte(camp.MinimumContribution.String())}, nil
}

func (c *Contract) GetApproversCount(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	return &contract.Response{Status: Success, Body: []byte(strconv.FormatUint(camp.ApproversCount, 10))}, nil
}

func (c *Contract) GetRequestsCount(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	return &contract.Response{Status: Success, Body: []byte(strconv.FormatUint(camp.RequestsCount, 10))}, nil
}

func (c *Contract) GetContractAddress(ctx contract.KContext) (*contract.Response, error) {
	camp, err := campaignArg(ctx)
	if err != nil {
		return nil, err
	}
	return &contract.Response{Status: Success, Body: []byte(camp.Address)}, nil
}

// Load returns the stored campaign at address, used by callers outside a kernel method
func Load(ctx contract.XMState, address string) (*Campaign, error) {
	addr, err := xaddress.Normalize(address)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidParameters, err.Error())
	}
	return loadCampaign(ctx, addr)
}

func (c *Contract) addEvent(ctx contract.KContext, name string, body interface{}) error {
	event, err := contract.NewEvent(CampaignContract, name, body)
	if err != nil {
		return errors.Wrap(err, "new event failed")
	}
	ctx.AddEvent(event)
	return nil
}

func jsonResponse(v interface{}) (*contract.Response, error) {
	value, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &contract.Response{
		Status: Success,
		Body:   value,
	}, nil
}

func boolResponse(ok bool) *contract.Response {
	return &contract.Response{
		Status: Success,
		Body:   []byte(strconv.FormatBool(ok)),
	}
}
