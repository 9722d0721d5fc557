package factory

import (
	"encoding/json"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
	"github.com/xuperchain/xcampaign/kernel/contract/sandbox"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

type Contract struct {
	// checksum形式的工厂地址
	Address string

	contractCtx *Context
}

func NewContract(address string, ctx *Context) *Contract {
	return &Contract{
		Address:     address,
		contractCtx: ctx,
	}
}

// CreateCampaignContract deploys a campaign managed by the caller, the body is the new address
func (c *Contract) CreateCampaignContract(ctx contract.KContext) (*contract.Response, error) {
	minimum, err := campaign.ParseAmount(string(ctx.Args()[ArgMinimum]))
	if err != nil {
		return nil, err
	}
	nonce, err := c.nonce(ctx)
	if err != nil {
		return nil, err
	}

	// 与EVM CREATE一致，地址由工厂地址和nonce推导
	address := crypto.CreateAddress(common.HexToAddress(c.Address), nonce).Hex()
	camp, err := campaign.Deploy(ctx, address, ctx.Initiator(), minimum)
	if err != nil {
		return nil, err
	}

	if err := ctx.Put(FactoryContract, []byte(KeyOfDeployed(nonce)), []byte(camp.Address)); err != nil {
		return nil, errors.Wrap(err, "save deployed campaign failed")
	}
	nonceValue := []byte(strconv.FormatUint(nonce+1, 10))
	if err := ctx.Put(FactoryContract, []byte(nonceKey), nonceValue); err != nil {
		return nil, errors.Wrap(err, "save factory nonce failed")
	}

	event, err := contract.NewEvent(FactoryContract, EventCampaignCreated, &CampaignCreatedEvent{
		Index:               nonce,
		Campaign:            camp.Address,
		Manager:             camp.Manager,
		MinimumContribution: camp.MinimumContribution,
	})
	if err != nil {
		return nil, err
	}
	ctx.AddEvent(event)
	c.contractCtx.XLog.Info("factory create campaign", "campaign", camp.Address, "manager", camp.Manager,
		"minimum", minimum.String(), "index", nonce)

	return &contract.Response{
		Status: Success,
		Body:   []byte(camp.Address),
	}, nil
}

// GetDeployedCampaigns returns the json array of campaign addresses in creation order
func (c *Contract) GetDeployedCampaigns(ctx contract.KContext) (*contract.Response, error) {
	addrs, err := ListDeployed(ctx)
	if err != nil {
		return nil, err
	}
	value, err := json.Marshal(addrs)
	if err != nil {
		return nil, err
	}
	return &contract.Response{
		Status: Success,
		Body:   value,
	}, nil
}

func (c *Contract) ListOfDeployedCampaignContracts(ctx contract.KContext) (*contract.Response, error) {
	index, err := strconv.ParseUint(string(ctx.Args()[ArgIndex]), 10, 64)
	if err != nil {
		return nil, errors.Wrapf(campaign.ErrInvalidParameters, "index: %v", err)
	}
	value, err := getState(ctx, KeyOfDeployed(index))
	if err != nil {
		return nil, err
	}
	if len(value) == 0 {
		return nil, errors.Wrapf(campaign.ErrInvalidParameters, "no campaign at index %d", index)
	}
	return &contract.Response{
		Status: Success,
		Body:   value,
	}, nil
}

func (c *Contract) GetDeployedCampaignsCount(ctx contract.KContext) (*contract.Response, error) {
	nonce, err := c.nonce(ctx)
	if err != nil {
		return nil, err
	}
	return &contract.Response{
		Status: Success,
		Body:   []byte(strconv.FormatUint(nonce, 10)),
	}, nil
}

// ListDeployed scans the deployed list of the factory
func ListDeployed(ctx contract.XMState) ([]string, error) {
	iter, err := ctx.Select(FactoryContract, []byte(deployedPrefix), []byte(deployedPrefix+"~"))
	if err != nil {
		return nil, errors.Wrap(err, "select deployed campaigns failed")
	}
	defer iter.Close()

	addrs := make([]string, 0)
	for iter.Next() {
		addrs = append(addrs, string(iter.Value()))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return addrs, nil
}

func (c *Contract) nonce(ctx contract.XMState) (uint64, error) {
	value, err := getState(ctx, nonceKey)
	if err != nil {
		return 0, err
	}
	if len(value) == 0 {
		return 0, nil
	}
	nonce, err := strconv.ParseUint(string(value), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad factory nonce %q", value)
	}
	return nonce, nil
}

func getState(ctx contract.XMState, key string) ([]byte, error) {
	value, err := ctx.Get(FactoryContract, []byte(key))
	if err != nil && !kvdb.ErrNotFound(err) && !errors.Is(err, sandbox.ErrHasDel) {
		return nil, errors.Wrapf(err, "get state failed, key: %s", key)
	}
	return value, nil
}
