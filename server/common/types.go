package common

// 所有接口统一的响应结构，通过Header.Error标识错误
type RespHeader struct {
	LogId string `json:"logId"`
	// 0为成功，否则为引擎错误码
	Error   int    `json:"error"`
	Msg     string `json:"msg,omitempty"`
	TraceId string `json:"traceId"`
}

type BaseResp struct {
	Header *RespHeader `json:"header"`
	// 解码时可预先放入目标指针
	Data interface{} `json:"data,omitempty"`
}

// 通用只读调用结果
type QueryResp struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Body    string `json:"body"`
}

type BalanceResp struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}
