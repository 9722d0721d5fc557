package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xuperchain/xcampaign/cmd/client/common/global"
	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
	"github.com/xuperchain/xcampaign/kernel/contract/factory"
)

type CampaignCmd struct {
	global.BaseCmd
	Minimum string
	Offset  int
	Limit   int
}

func GetCampaignCmd() *CampaignCmd {
	campCmdIns := new(CampaignCmd)

	campCmdIns.Cmd = &cobra.Command{
		Use:           "campaign",
		Short:         "Campaign operation.",
		Example:       global.CmdLineName + " campaign create --minimum 100",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a campaign managed by the local account.",
		Example: global.CmdLineName + " campaign create --minimum 100",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signAndSubmit(factory.FactoryContract, factory.CreateCampaignContract,
				map[string]string{factory.ArgMinimum: campCmdIns.Minimum}, "")
		},
	}
	createCmd.Flags().StringVarP(&campCmdIns.Minimum, "minimum", "m", "0", "minimum contribution")
	campCmdIns.Cmd.AddCommand(createCmd)

	campCmdIns.Cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Short:   "List deployed campaigns.",
		Example: global.CmdLineName + " campaign list",
		RunE: func(cmd *cobra.Command, args []string) error {
			xcli, err := newClient()
			if err != nil {
				return err
			}
			addrs, err := xcli.ListCampaigns()
			if err != nil {
				return err
			}
			for _, addr := range addrs {
				fmt.Println(addr)
			}
			return nil
		},
	})

	campCmdIns.Cmd.AddCommand(&cobra.Command{
		Use:     "summary [campaign]",
		Short:   "Show the summary of a campaign.",
		Example: global.CmdLineName + " campaign summary 0x...",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xcli, err := newClient()
			if err != nil {
				return err
			}
			summary, err := xcli.Summary(args[0])
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
	})

	eventsCmd := &cobra.Command{
		Use:     "events [campaign]",
		Short:   "List events of a campaign.",
		Example: global.CmdLineName + " campaign events 0x... --limit 20",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xcli, err := newClient()
			if err != nil {
				return err
			}
			records, err := xcli.Events(args[0], campCmdIns.Offset, campCmdIns.Limit)
			if err != nil {
				return err
			}
			return printJSON(records)
		},
	}
	eventsCmd.Flags().IntVar(&campCmdIns.Offset, "offset", 0, "events to skip")
	eventsCmd.Flags().IntVar(&campCmdIns.Limit, "limit", 20, "max events to list")
	campCmdIns.Cmd.AddCommand(eventsCmd)

	return campCmdIns
}

type ContributeCmd struct {
	global.BaseCmd
	Amount string
}

func GetContributeCmd() *ContributeCmd {
	contribCmdIns := new(ContributeCmd)

	contribCmdIns.Cmd = &cobra.Command{
		Use:           "contribute [campaign]",
		Short:         "Contribute to a campaign from the local account.",
		Example:       global.CmdLineName + " contribute 0x... --amount 100",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return signAndSubmit(campaign.CampaignContract, campaign.Contribute,
				map[string]string{campaign.ArgCampaign: args[0]}, contribCmdIns.Amount)
		},
	}
	contribCmdIns.Cmd.Flags().StringVarP(&contribCmdIns.Amount, "amount", "a", "", "contribution amount")

	return contribCmdIns
}
