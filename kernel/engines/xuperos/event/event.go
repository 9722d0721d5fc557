package event

import (
	"encoding/json"

	"github.com/xuperchain/xcampaign/kernel/contract"
)

// Record is a committed contract event
type Record struct {
	Seq       uint64          `json:"seq"`
	TxHash    string          `json:"txHash"`
	Contract  string          `json:"contract"`
	Name      string          `json:"name"`
	Campaign  string          `json:"campaign,omitempty"`
	Body      json.RawMessage `json:"body"`
	Timestamp int64           `json:"timestamp"`
}

// Filter selects records, empty fields match everything
type Filter struct {
	Campaign string
	Contract string
	Name     string
}

func (f *Filter) Match(r *Record) bool {
	if f == nil {
		return true
	}
	if f.Campaign != "" && f.Campaign != r.Campaign {
		return false
	}
	if f.Contract != "" && f.Contract != r.Contract {
		return false
	}
	if f.Name != "" && f.Name != r.Name {
		return false
	}
	return true
}

// campaignOf reads the campaign address every campaign event body carries
func campaignOf(ev *contract.Event) string {
	var body struct {
		Campaign string `json:"campaign"`
	}
	if err := json.Unmarshal(ev.Body, &body); err != nil {
		return ""
	}
	return body.Campaign
}
