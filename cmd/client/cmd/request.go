package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xuperchain/xcampaign/cmd/client/common/global"
	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
)

type RequestCmd struct {
	global.BaseCmd
	Description string
	Value       string
	Recipient   string
	Approver    string
}

func GetRequestCmd() *RequestCmd {
	reqCmdIns := new(RequestCmd)

	reqCmdIns.Cmd = &cobra.Command{
		Use:           "request",
		Short:         "Spending request operation.",
		Example:       global.CmdLineName + " request approve [campaign] [index]",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	createCmd := &cobra.Command{
		Use:     "create [campaign]",
		Short:   "Create a spending request, manager only.",
		Example: global.CmdLineName + " request create 0x... -d parts -v 100 -r 0x...",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return signAndSubmit(campaign.CampaignContract, campaign.CreateRequest, map[string]string{
				campaign.ArgCampaign:    args[0],
				campaign.ArgDescription: reqCmdIns.Description,
				campaign.ArgValue:       reqCmdIns.Value,
				campaign.ArgRecipient:   reqCmdIns.Recipient,
			}, "")
		},
	}
	createCmd.Flags().StringVarP(&reqCmdIns.Description, "desc", "d", "", "request description")
	createCmd.Flags().StringVarP(&reqCmdIns.Value, "value", "v", "", "value to pay")
	createCmd.Flags().StringVarP(&reqCmdIns.Recipient, "recipient", "r", "", "recipient address")
	reqCmdIns.Cmd.AddCommand(createCmd)

	reqCmdIns.Cmd.AddCommand(indexCmd("approve", "Approve a request as a contributor.", campaign.ApproveRequest))
	reqCmdIns.Cmd.AddCommand(indexCmd("finalize", "Finalize an approved request, manager only.",
		campaign.FinalizeRequest))

	reqCmdIns.Cmd.AddCommand(&cobra.Command{
		Use:     "get [campaign] [index]",
		Short:   "Show a request.",
		Example: global.CmdLineName + " request get 0x... 0",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("bad request index %q", args[1])
			}
			xcli, err := newClient()
			if err != nil {
				return err
			}
			req, err := xcli.Request(args[0], index)
			if err != nil {
				return err
			}
			return printJSON(req)
		},
	})

	statusCmd := &cobra.Command{
		Use:     "status [campaign] [index]",
		Short:   "Show whether an address approved a request, default the local account.",
		Example: global.CmdLineName + " request status 0x... 0 --approver 0x...",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("bad request index %q", args[1])
			}
			approver := reqCmdIns.Approver
			if approver == "" {
				if approver, err = xaddress.LoadAddress(global.GFlagKeys); err != nil {
					return err
				}
			}
			xcli, err := newClient()
			if err != nil {
				return err
			}
			approved, err := xcli.ApprovalStatus(args[0], index, approver)
			if err != nil {
				return err
			}
			fmt.Println(approved)
			return nil
		},
	}
	statusCmd.Flags().StringVar(&reqCmdIns.Approver, "approver", "", "approver address")
	reqCmdIns.Cmd.AddCommand(statusCmd)

	return reqCmdIns
}

// indexCmd 构造只需要campaign和申请序号的交易命令
func indexCmd(use, short, method string) *cobra.Command {
	return &cobra.Command{
		Use:     use + " [campaign] [index]",
		Short:   short,
		Example: global.CmdLineName + " request " + use + " 0x... 0",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return signAndSubmit(campaign.CampaignContract, method, map[string]string{
				campaign.ArgCampaign: args[0],
				campaign.ArgIndex:    args[1],
			}, "")
		},
	}
}
