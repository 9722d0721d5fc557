package campaign

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
	"github.com/xuperchain/xcampaign/kernel/contract"
	"github.com/xuperchain/xcampaign/kernel/contract/sandbox"
	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
)

// getState returns nil without error for absent keys
func getState(ctx contract.XMState, key string) ([]byte, error) {
	value, err := ctx.Get(CampaignContract, []byte(key))
	if err != nil && !kvdb.ErrNotFound(err) && !errors.Is(err, sandbox.ErrHasDel) {
		return nil, errors.Wrapf(err, "get state failed, key: %s", key)
	}
	return value, nil
}

func putJSON(ctx contract.XMState, key string, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ctx.Put(CampaignContract, []byte(key), value)
}

func loadCampaign(ctx contract.XMState, address string) (*Campaign, error) {
	value, err := getState(ctx, KeyOfCampaign(address))
	if err != nil {
		return nil, err
	}
	if len(value) == 0 {
		return nil, errors.Wrapf(ErrCampaignNotFound, "address: %s", address)
	}
	camp := new(Campaign)
	if err := json.Unmarshal(value, camp); err != nil {
		return nil, errors.Wrap(err, "campaign unmarshal failed")
	}
	return camp, nil
}

func saveCampaign(ctx contract.XMState, camp *Campaign) error {
	return putJSON(ctx, KeyOfCampaign(camp.Address), camp)
}

// Deploy creates a campaign at address, manager and minimum are fixed from here on
func Deploy(ctx contract.KContext, address, manager string, minimum *big.Int) (*Campaign, error) {
	addr, err := xaddress.Normalize(address)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidParameters, err.Error())
	}
	mgr, err := xaddress.Normalize(manager)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidParameters, err.Error())
	}
	if minimum == nil || minimum.Sign() < 0 {
		return nil, errors.Wrap(ErrInvalidParameters, "minimum contribution must be a non-negative integer")
	}

	value, err := getState(ctx, KeyOfCampaign(addr))
	if err != nil {
		return nil, err
	}
	if len(value) != 0 {
		return nil, errors.Wrapf(ErrCampaignExist, "address: %s", addr)
	}

	camp := &Campaign{
		Address:             addr,
		Manager:             mgr,
		MinimumContribution: new(big.Int).Set(minimum),
	}
	if err := saveCampaign(ctx, camp); err != nil {
		return nil, err
	}
	return camp, nil
}

// ---------- 参数解析 ----------

func campaignArg(ctx contract.KContext) (*Campaign, error) {
	raw, ok := ctx.Args()[ArgCampaign]
	if !ok {
		return nil, errors.Wrap(ErrInvalidParameters, "campaign required")
	}
	addr, err := xaddress.Normalize(string(raw))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidParameters, err.Error())
	}
	return loadCampaign(ctx, addr)
}

func callerOf(ctx contract.KContext) (string, error) {
	caller, err := xaddress.Normalize(ctx.Initiator())
	if err != nil {
		return "", errors.Wrap(ErrInvalidParameters, "initiator: "+err.Error())
	}
	return caller, nil
}

func addressArg(ctx contract.KContext, name string) (string, error) {
	raw, ok := ctx.Args()[name]
	if !ok {
		return "", errors.Wrapf(ErrInvalidParameters, "%s required", name)
	}
	addr, err := xaddress.Normalize(string(raw))
	if err != nil {
		return "", errors.Wrapf(ErrInvalidParameters, "%s: %v", name, err)
	}
	return addr, nil
}

func indexArg(ctx contract.KContext) (uint64, error) {
	raw, ok := ctx.Args()[ArgIndex]
	if !ok {
		return 0, errors.Wrap(ErrInvalidParameters, "index required")
	}
	index, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidParameters, "index: %v", err)
	}
	return index, nil
}

// ParseAmount parses a non-negative decimal integer
func ParseAmount(raw string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 {
		return nil, errors.Wrapf(ErrInvalidParameters, "invalid amount: %q", raw)
	}
	return amount, nil
}
