package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/docker/go-units"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/xuperchain/xcampaign/lib/storage/kvdb"
	"github.com/xuperchain/xcampaign/lib/utils"
)

const (
	DefaultKVEngineType          = kvdb.KVEngineTypeLDB
	DefaultMemCacheSize          = 128 * units.MiB
	DefaultFileHandlersCacheSize = 1024
	DefaultTxCacheExpiredTime    = 10 * time.Minute
	DefaultReceiptCacheSize      = 1024
	DefaultCampaignCacheSize     = 256
	DefaultEventBufferSize       = 1024
	// 工厂合约地址，新campaign地址由它推导
	DefaultFactoryAddress = "0x000000000000000000000000000000000000fac7"
)

// ByteSize 支持"64MB"这种带单位的写法
type ByteSize int64

func (b ByteSize) MB() int {
	return int(int64(b) / units.MiB)
}

type EngineConf struct {
	Storage StorageConf `mapstructure:"storage"`
	// 已处理交易在内存中的去重时间，持久化的回执仍会拒绝重放
	TxCacheExpiredTime time.Duration `mapstructure:"txCacheExpiredTime"`
	ReceiptCacheSize   int           `mapstructure:"receiptCacheSize"`
	CampaignCacheSize  int           `mapstructure:"campaignCacheSize"`
	EventBufferSize    int           `mapstructure:"eventBufferSize"`
	FactoryAddress     string        `mapstructure:"factoryAddress"`
	// 创世分配，仅在空库首次启动时写入
	Genesis []Allocation `mapstructure:"genesis"`
	// 拒收转账的账户，用于模拟收款方拒绝
	RejectingAccounts []string `mapstructure:"rejectingAccounts"`
}

type StorageConf struct {
	KVEngineType          string   `mapstructure:"kvEngineType"`
	MemCacheSize          ByteSize `mapstructure:"memCacheSize"`
	FileHandlersCacheSize int      `mapstructure:"fileHandlersCacheSize"`
}

type Allocation struct {
	Address string `mapstructure:"address"`
	Amount  string `mapstructure:"amount"`
}

func LoadEngineConf(cfgFile string) (*EngineConf, error) {
	cfg := GetDefEngineConf()
	err := cfg.loadConf(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load engine config failed.err:%s", err)
	}

	return cfg, nil
}

func GetDefEngineConf() *EngineConf {
	return &EngineConf{
		Storage: StorageConf{
			KVEngineType:          DefaultKVEngineType,
			MemCacheSize:          DefaultMemCacheSize,
			FileHandlersCacheSize: DefaultFileHandlersCacheSize,
		},
		TxCacheExpiredTime: DefaultTxCacheExpiredTime,
		ReceiptCacheSize:   DefaultReceiptCacheSize,
		CampaignCacheSize:  DefaultCampaignCacheSize,
		EventBufferSize:    DefaultEventBufferSize,
		FactoryAddress:     DefaultFactoryAddress,
	}
}

func (t *EngineConf) loadConf(cfgFile string) error {
	if cfgFile == "" || !utils.FileIsExist(cfgFile) {
		return fmt.Errorf("config file set error.path:%s", cfgFile)
	}

	viperObj := viper.New()
	viperObj.SetConfigFile(cfgFile)
	err := viperObj.ReadInConfig()
	if err != nil {
		return fmt.Errorf("read config failed.path:%s,err:%v", cfgFile, err)
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToByteSizeHookFunc(),
	))
	if err = viperObj.Unmarshal(t, hook); err != nil {
		return fmt.Errorf("unmatshal config failed.path:%s,err:%v", cfgFile, err)
	}

	return t.check()
}

func (t *EngineConf) check() error {
	switch t.Storage.KVEngineType {
	case kvdb.KVEngineTypeLDB, kvdb.KVEngineTypeBadger, kvdb.KVEngineTypeMemory:
	default:
		return fmt.Errorf("unsupported kv engine type: %s", t.Storage.KVEngineType)
	}
	if t.ReceiptCacheSize <= 0 || t.CampaignCacheSize <= 0 || t.EventBufferSize <= 0 {
		return fmt.Errorf("cache sizes must be positive")
	}
	return nil
}

func stringToByteSizeHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(ByteSize(0)) || f.Kind() != reflect.String {
			return data, nil
		}
		size, err := units.RAMInBytes(data.(string))
		if err != nil {
			return nil, err
		}
		return ByteSize(size), nil
	}
}
