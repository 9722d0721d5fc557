package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xuperchain/xcampaign/cmd/client/common/global"
)

type TxCmd struct {
	global.BaseCmd
}

func GetTxCmd() *TxCmd {
	txCmdIns := new(TxCmd)

	txCmdIns.Cmd = &cobra.Command{
		Use:           "tx",
		Short:         "Transaction query operation.",
		Example:       global.CmdLineName + " tx query [txHash]",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	txCmdIns.Cmd.AddCommand(&cobra.Command{
		Use:     "query [txHash]",
		Short:   "Query the receipt of a confirmed transaction.",
		Example: global.CmdLineName + " tx query [txHash]",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xcli, err := newClient()
			if err != nil {
				return err
			}
			receipt, err := xcli.QueryTx(args[0])
			if err != nil {
				return err
			}
			return printJSON(receipt)
		},
	})

	return txCmdIns
}
