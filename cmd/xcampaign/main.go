package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/xuperchain/xcampaign/cmd/xcampaign/cmd"
)

func main() {
	rootCmd, err := NewServiceCommand()
	if err != nil {
		log.Fatalf("start service failed.err:%v", err)
	}

	if err = rootCmd.Execute(); err != nil {
		log.Fatalf("start service failed.err:%v", err)
	}
}

func NewServiceCommand() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:           "xcampaign <command> [arguments]",
		Short:         "xcampaign runs the crowdfunding campaign ledger node.",
		Long:          "xcampaign runs the crowdfunding campaign ledger node.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example:       "xcampaign startup --conf /home/rd/xcampaign/conf/env.yaml",
	}

	// cmd version
	rootCmd.AddCommand(cmd.GetVersionCmd().GetCmd())
	// cmd service
	rootCmd.AddCommand(cmd.GetStartupCmd().GetCmd())
	return rootCmd, nil
}
