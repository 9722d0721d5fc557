package common

// 引擎常量配置
const (
	// 引擎名
	BCEngineName = "xuperos"
	// 合约管理器类型
	ContractManagerName = "default"
)

// 引擎内部使用的存储表前缀，状态数据使用xmodel的前缀
const (
	ReceiptTablePrefix = "R"
	EventTablePrefix   = "E"
	EventIndexPrefix   = "I"
	MetaTablePrefix    = "M"
)
