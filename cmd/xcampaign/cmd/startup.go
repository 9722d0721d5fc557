package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	xconf "github.com/xuperchain/xcampaign/kernel/common/xconfig"
	"github.com/xuperchain/xcampaign/kernel/engines"
	"github.com/xuperchain/xcampaign/kernel/engines/xuperos/common"
	"github.com/xuperchain/xcampaign/lib/logs"
	"github.com/xuperchain/xcampaign/lib/metrics"
	"github.com/xuperchain/xcampaign/server"
	sconf "github.com/xuperchain/xcampaign/server/config"

	// import要使用的领域组件驱动
	_ "github.com/xuperchain/xcampaign/kernel/engines/xuperos"
)

type StartupCmd struct {
	BaseCmd
}

func GetStartupCmd() *StartupCmd {
	startupCmdIns := new(StartupCmd)

	// 定义命令行参数变量
	var envCfgPath string

	startupCmdIns.cmd = &cobra.Command{
		Use:           "startup",
		Short:         "Start up the campaign ledger node.",
		Example:       "xcampaign startup --conf /home/rd/xcampaign/conf/env.yaml",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return StartupXCampaign(envCfgPath)
		},
	}

	// 设置命令行参数并绑定变量
	startupCmdIns.cmd.Flags().StringVarP(&envCfgPath, "conf", "c", "./conf/env.yaml",
		"engine environment config file path")

	return startupCmdIns
}

// 启动节点
func StartupXCampaign(envCfgPath string) error {
	// 加载基础配置
	envConf, servConf, err := loadConf(envCfgPath)
	if err != nil {
		return err
	}
	if envConf.MetricSwitch {
		metrics.RegisterMetrics()
	} else {
		servConf.MetricPath = ""
	}

	// 实例化执行引擎，日志在创建引擎时初始化
	engine, err := engines.CreateBCEngine(common.BCEngineName, envConf)
	if err != nil {
		return err
	}
	log, _ := logs.NewLogger("", "startup")

	// 实例化服务
	servMG, err := server.NewServMG(servConf, engine)
	if err != nil {
		engine.Exit()
		return err
	}

	// 任一组件退出或收到退出信号时，触发所有组件退出，退出调用幂等
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		engine.Run()
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return servMG.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("stopping", "signal", sigCtx.Err() != nil)
		servMG.Exit()
		engine.Exit()
		return nil
	})

	// 等待异步任务全部退出
	err = g.Wait()
	log.Info("xcampaign exit", "err", err)
	return err
}

func loadConf(envCfgPath string) (*xconf.EnvConf, *sconf.ServConf, error) {
	// 加载环境配置
	envConf, err := xconf.LoadEnvConf(envCfgPath)
	if err != nil {
		return nil, nil, err
	}

	// 加载服务配置
	servConf, err := sconf.LoadServConf(envConf.GenConfFilePath(envConf.ServConf))
	if err != nil {
		return nil, nil, err
	}

	return envConf, servConf, nil
}
