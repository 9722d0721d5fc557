package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xuperchain/xcampaign/cmd/client/common/global"
)

// 编译时通过-ldflags注入
var (
	buildVersion = ""
	commitHash   = ""
	buildDate    = ""
)

type VersionCmd struct {
	global.BaseCmd
}

func GetVersionCmd() *VersionCmd {
	versionCmdIns := new(VersionCmd)

	versionCmdIns.Cmd = &cobra.Command{
		Use:     "version",
		Short:   "View client version information.",
		Example: global.CmdLineName + " version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s-%s %s\n", buildVersion, commitHash, buildDate)
		},
	}

	return versionCmdIns
}
