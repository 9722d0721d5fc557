package xconfig

import (
	"os"

	"github.com/xuperchain/xcampaign/lib/utils"
)

func lookupRootEnv() string {
	rt := os.Getenv(utils.RootPathEnv)
	if rt != "" && utils.FileIsExist(rt) {
		return rt
	}
	return ""
}
