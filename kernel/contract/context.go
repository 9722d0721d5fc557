package contract

import (
	"encoding/json"
)

const (
	// StatusOK is used when contract successfully ends.
	StatusOK = 200
	// StatusErrorThreshold is the status dividing line for the normal operation of the contract
	StatusErrorThreshold = 400
	// StatusError is used when contract fails.
	StatusError = 500
)

// Response is the result of the contract run
type Response struct {
	// Status 用于反映合约的运行结果的错误码
	Status int `json:"status"`
	// Message 用于携带一些有用的debug信息
	Message string `json:"message"`
	// Body 字段用于存储合约执行的结果
	Body []byte `json:"body"`
}

// Event is emitted by a contract method and persisted only if the method succeeds
type Event struct {
	Contract string          `json:"contract"`
	Name     string          `json:"name"`
	Body     json.RawMessage `json:"body"`
}

// NewEvent json encodes body into an event
func NewEvent(contractName, name string, body interface{}) (*Event, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return &Event{
		Contract: contractName,
		Name:     name,
		Body:     buf,
	}, nil
}

// ContextConfig define the config of context
type ContextConfig struct {
	State StateSandbox

	Initiator    string
	ContractName string
	Method       string
	Args         map[string][]byte

	// The amount transfer to contract, decimal string
	TransferAmount string

	// Funds moves value between accounts inside the same sandbox
	Funds FundsLedger
}
