package global

import (
	"github.com/spf13/cobra"
)

const (
	CmdLineName = "xcampaign-cli"
)

// 全局命令行参数
var (
	// 节点http地址
	GFlagHost string
	// 账户密钥目录
	GFlagKeys string
)

type BaseCmd struct {
	// cobra command
	Cmd *cobra.Command
}

func (t *BaseCmd) SetCmd(cmd *cobra.Command) {
	t.Cmd = cmd
}

func (t *BaseCmd) GetCmd() *cobra.Command {
	return t.Cmd
}
