package common

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/xuperchain/xcampaign/kernel/contract/campaign"
)

const (
	// 处理成功类
	ErrStatusSucc = 200
	// 拒绝处理类错误状态
	ErrStatusRefused = 400
	// 内部错误类错误状态
	ErrStatusInternalErr = 500
)

type Error struct {
	// 用于统计和监控的错误分类（类似http的2xx、4xx、5xx）
	Status int
	// 用于标识具体错误的详细错误码
	Code int
	// 用于说明具体错误的说明信息
	Msg string
}

func CastError(err error) *Error {
	return CastErrorDefault(err, ErrUnknown)
}

func CastErrorDefault(err error, defaultErr *Error) *Error {
	if err == nil {
		return nil
	}
	if defErr, ok := err.(*Error); ok {
		return defErr
	}

	return defaultErr.More(err.Error())
}

// CastContractError maps a failed kernel method to the engine error of its kind
func CastContractError(err error) *Error {
	if err == nil {
		return nil
	}
	if kindErr, ok := contractErrors[campaign.ErrorKind(err)]; ok {
		return kindErr.More(err.Error())
	}
	// 引擎自身的错误可能被合约包装过
	if defErr, ok := errors.Cause(err).(*Error); ok {
		return defErr
	}
	return ErrContractInvokeFailed.More(err.Error())
}

func (t *Error) Error() string {
	return fmt.Sprintf("Err:%d-%d-%s", t.Status, t.Code, t.Msg)
}

func (t *Error) More(format string, args ...interface{}) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	return &Error{t.Status, t.Code, t.Msg + "+" + msg}
}

func (t *Error) Equal(rhs *Error) bool {
	if rhs == nil {
		return false
	}

	return t.Code == rhs.Code
}

// define std error
// 预留xxx9xx的错误码给上层业务扩展用，这里不要使用xxx9xx的错误码
var (
	ErrSuccess      = &Error{ErrStatusSucc, 0, "success"}
	ErrInternal     = &Error{ErrStatusInternalErr, 50000, "internal error"}
	ErrUnknown      = &Error{ErrStatusInternalErr, 50001, "unknown error"}
	ErrForbidden    = &Error{ErrStatusRefused, 40300, "forbidden"}
	ErrUnauthorized = &Error{ErrStatusRefused, 40100, "unauthorized"}
	ErrParameter    = &Error{ErrStatusRefused, 40001, "param error"}

	// engine
	ErrNewEngineCtxFailed = &Error{ErrStatusInternalErr, 50003, "create engine context failed"}
	ErrNotEngineType      = &Error{ErrStatusRefused, 40010, "transfer engine type failed"}
	ErrLoadEngConfFailed  = &Error{ErrStatusInternalErr, 50006, "load engine config failed"}
	ErrNewLogFailed       = &Error{ErrStatusInternalErr, 50007, "new logger failed"}
	ErrOpenStorageFailed  = &Error{ErrStatusInternalErr, 50008, "open storage failed"}
	ErrEngineStopped      = &Error{ErrStatusInternalErr, 50009, "engine stopped"}

	ErrContractNewCtxFailed = &Error{ErrStatusInternalErr, 50020, "contract new context failed"}
	ErrContractInvokeFailed = &Error{ErrStatusInternalErr, 50021, "contract invoke failed"}
	ErrContractNotExist     = &Error{ErrStatusRefused, 40020, "contract method not exist"}

	// tx
	ErrTxVerifyFailed    = &Error{ErrStatusRefused, 40011, "verify tx failed"}
	ErrTxAlreadyExist    = &Error{ErrStatusRefused, 40013, "tx already exist"}
	ErrTxNotExist        = &Error{ErrStatusRefused, 40014, "tx not exist"}
	ErrSubmitTxFailed    = &Error{ErrStatusInternalErr, 50013, "submit tx failed"}
	ErrCommitStateFailed = &Error{ErrStatusInternalErr, 50014, "commit state failed"}

	// funds
	ErrInsufficientFunds = &Error{ErrStatusRefused, 40030, "insufficient funds"}
	ErrRecipientRejected = &Error{ErrStatusRefused, 40031, "recipient rejects funds"}

	// campaign
	ErrCampaignUnauthorized             = &Error{ErrStatusRefused, 40101, "Unauthorized"}
	ErrCampaignInsufficientContribution = &Error{ErrStatusRefused, 40040, "InsufficientContribution"}
	ErrCampaignInvalidRecipient         = &Error{ErrStatusRefused, 40041, "InvalidRecipient"}
	ErrCampaignInvalidParameters        = &Error{ErrStatusRefused, 40042, "InvalidParameters"}
	ErrCampaignInsufficientBalance      = &Error{ErrStatusRefused, 40043, "InsufficientBalance"}
	ErrCampaignAlreadyFinalized         = &Error{ErrStatusRefused, 40044, "AlreadyFinalized"}
	ErrCampaignNotAContributor          = &Error{ErrStatusRefused, 40045, "NotAContributor"}
	ErrCampaignAlreadyVoted             = &Error{ErrStatusRefused, 40046, "AlreadyVoted"}
	ErrCampaignInsufficientApprovals    = &Error{ErrStatusRefused, 40047, "InsufficientApprovals"}
	ErrCampaignTransferFailed           = &Error{ErrStatusRefused, 40048, "TransferFailed"}
)

var contractErrors = map[string]*Error{
	"Unauthorized":             ErrCampaignUnauthorized,
	"InsufficientContribution": ErrCampaignInsufficientContribution,
	"InvalidRecipient":         ErrCampaignInvalidRecipient,
	"InvalidParameters":        ErrCampaignInvalidParameters,
	"InsufficientBalance":      ErrCampaignInsufficientBalance,
	"AlreadyFinalized":         ErrCampaignAlreadyFinalized,
	"NotAContributor":          ErrCampaignNotAContributor,
	"AlreadyVoted":             ErrCampaignAlreadyVoted,
	"InsufficientApprovals":    ErrCampaignInsufficientApprovals,
	"TransferFailed":           ErrCampaignTransferFailed,
}
