package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/xuperchain/xcampaign/cmd/client/cmd"
	"github.com/xuperchain/xcampaign/cmd/client/common/global"
)

func main() {
	rootCmd, err := NewClientCommand()
	if err != nil {
		log.Fatalf("new client command failed.err:%v", err)
	}

	if err = rootCmd.Execute(); err != nil {
		log.Fatalf("command exec failed.err:%v", err)
	}
}

func NewClientCommand() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:           global.CmdLineName + " <command> [arguments]",
		Short:         global.CmdLineName + " is a campaign ledger terminal client.",
		Long:          global.CmdLineName + " is a campaign ledger terminal client.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example:       global.CmdLineName + " campaign summary [address]",
	}
	rootCmd.PersistentFlags().StringVarP(&global.GFlagHost, "host", "H", "http://127.0.0.1:38101", "node http address")
	rootCmd.PersistentFlags().StringVarP(&global.GFlagKeys, "keys", "k", "./data/keys", "account key directory")

	// cmd version
	rootCmd.AddCommand(cmd.GetVersionCmd().GetCmd())
	// account client
	rootCmd.AddCommand(cmd.GetAccountCmd().GetCmd())
	// campaign client
	rootCmd.AddCommand(cmd.GetCampaignCmd().GetCmd())
	rootCmd.AddCommand(cmd.GetContributeCmd().GetCmd())
	// request client
	rootCmd.AddCommand(cmd.GetRequestCmd().GetCmd())
	// tx client
	rootCmd.AddCommand(cmd.GetTxCmd().GetCmd())

	return rootCmd, nil
}
