package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xuperchain/xcampaign/cmd/client/common/global"
	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
)

type AccountCmd struct {
	global.BaseCmd
}

func GetAccountCmd() *AccountCmd {
	accountCmdIns := new(AccountCmd)

	accountCmdIns.Cmd = &cobra.Command{
		Use:           "account",
		Short:         "Account operation.",
		Example:       global.CmdLineName + " account new",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	accountCmdIns.Cmd.AddCommand(&cobra.Command{
		Use:     "new",
		Short:   "Generate a key pair into the key directory.",
		Example: global.CmdLineName + " account new --keys ./data/keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := xaddress.Generate()
			if err != nil {
				return err
			}
			if err := xaddress.Save(global.GFlagKeys, addr); err != nil {
				return err
			}
			fmt.Println(addr.Address)
			return nil
		},
	})

	accountCmdIns.Cmd.AddCommand(&cobra.Command{
		Use:     "balance [address]",
		Short:   "Query the balance of an address, default the local account.",
		Example: global.CmdLineName + " account balance",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr string
			if len(args) > 0 {
				addr = args[0]
			} else {
				local, err := xaddress.LoadAddress(global.GFlagKeys)
				if err != nil {
					return err
				}
				addr = local
			}
			xcli, err := newClient()
			if err != nil {
				return err
			}
			balance, err := xcli.Balance(addr)
			if err != nil {
				return err
			}
			fmt.Println(balance)
			return nil
		},
	})

	return accountCmdIns
}
