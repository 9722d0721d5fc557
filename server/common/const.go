package common

const (
	// 日志子模块名
	SubModName = "server"

	// 请求id的http头，客户端未设置时由服务端生成
	HeaderRequestId = "X-Request-ID"
)
