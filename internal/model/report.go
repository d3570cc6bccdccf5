package model

import "time"

// 批处理条目的结果分类。
const (
	ItemOutcomeCreated = "created"
	ItemOutcomeSkipped = "skipped"
	ItemOutcomeFailed  = "failed"
)

// 条目被跳过或失败的原因。
const (
	ReasonNoRfpSubject     = "no-rfp-subject"
	ReasonRfpNotFound      = "rfp-not-found"
	ReasonRfpNotSent       = "rfp-not-sent"
	ReasonVendorUnresolved = "vendor-unresolved"
	ReasonAIFormat         = "ai-format"
)

// HarvestItem 记录收件批次中单封邮件的处理结果。
type HarvestItem struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	RfpID   string `json:"rfpId,omitempty"`
}

// HarvestReport 是一次收件批次的完整报告。
// 单封邮件的失败只降级该条目，不会中断整个批次。
type HarvestReport struct {
	StartedAt time.Time     `json:"startedAt"`
	Total     int           `json:"total"`
	Created   int           `json:"created"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Items     []HarvestItem `json:"items"`
}

// SendFailure 记录向单个供应商发送失败的信息。
type SendFailure struct {
	VendorID uint   `json:"vendorId"`
	Error    string `json:"error"`
}

// SendSummary 是一次 RFP 群发的结果汇总。
// 无论个别发送成败，状态迁移 created→sent 恰好发生一次。
type SendSummary struct {
	RfpID   string        `json:"rfpId"`
	Sent    []uint        `json:"sent"`
	Failed  []SendFailure `json:"failed"`
	Message string        `json:"message"`
}
