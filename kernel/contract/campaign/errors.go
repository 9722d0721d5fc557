package campaign

import (
	"github.com/pkg/errors"
)

// 错误分类，调用方通过errors.Is判断
var (
	ErrUnauthorized             = errors.New("unauthorized")
	ErrInsufficientContribution = errors.New("insufficient contribution")
	ErrInvalidRecipient         = errors.New("invalid recipient")
	ErrInvalidParameters        = errors.New("invalid parameters")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrAlreadyFinalized         = errors.New("request already finalized")
	ErrNotAContributor          = errors.New("not a contributor")
	ErrAlreadyVoted             = errors.New("already voted")
	ErrInsufficientApprovals    = errors.New("insufficient approvals")
	ErrTransferFailed           = errors.New("transfer failed")
)

var (
	ErrRequestNotFound  = errors.WithMessage(ErrInvalidParameters, "request not found")
	ErrCampaignNotFound = errors.WithMessage(ErrInvalidParameters, "campaign not found")
	ErrCampaignExist    = errors.WithMessage(ErrInvalidParameters, "campaign already exists")
	ErrValueAttached    = errors.WithMessage(ErrInvalidParameters, "method is not payable")
)

var errorKinds = []struct {
	err  error
	name string
}{
	{ErrUnauthorized, "Unauthorized"},
	{ErrInsufficientContribution, "InsufficientContribution"},
	{ErrInvalidRecipient, "InvalidRecipient"},
	{ErrInvalidParameters, "InvalidParameters"},
	{ErrInsufficientBalance, "InsufficientBalance"},
	{ErrAlreadyFinalized, "AlreadyFinalized"},
	{ErrNotAContributor, "NotAContributor"},
	{ErrAlreadyVoted, "AlreadyVoted"},
	{ErrInsufficientApprovals, "InsufficientApprovals"},
	{ErrTransferFailed, "TransferFailed"},
}

// ErrorKind returns the kind name of a campaign failure, or "" for other errors
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
