package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/xuperchain/xcampaign/cmd/client/client"
	"github.com/xuperchain/xcampaign/cmd/client/common/global"
	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/tx"
)

func newClient() (*client.XCampaignClient, error) {
	xcli, err := client.NewXCampaignClient(global.GFlagHost)
	if err != nil {
		return nil, fmt.Errorf("new client failed.err:%v", err)
	}
	return xcli, nil
}

// signAndSubmit 使用本地账户签名并提交交易，输出回执
func signAndSubmit(contractName, method string, args map[string]string, value string) error {
	addr, err := xaddress.LoadAddrInfo(global.GFlagKeys)
	if err != nil {
		return fmt.Errorf("load account info failed.KeyPath:%s Err:%v", global.GFlagKeys, err)
	}
	xcli, err := newClient()
	if err != nil {
		return err
	}

	transaction := tx.New(addr.Address, contractName, method, args, value)
	if err := transaction.Sign(addr.PrivateKey); err != nil {
		return fmt.Errorf("sign tx failed.err:%v", err)
	}
	receipt, err := xcli.SubmitTx(transaction)
	if err != nil {
		return fmt.Errorf("submit tx failed.err:%v", err)
	}
	return printJSON(receipt)
}

func printJSON(v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}
