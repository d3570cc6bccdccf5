// Package service 包含了应用的业务逻辑层。
package service

import "errors"

// 业务错误分类。handler 层据此映射 HTTP 状态码，
// 批处理循环据此把条目归入 skipped / failed。
var (
	// ErrAIFormat 表示补全服务返回了非 JSON 或不符合 schema 的文本。
	ErrAIFormat = errors.New("AI returned invalid JSON")
	// ErrRfpNotSent 表示提案指向的 RFP 还未进入 sent 状态。
	ErrRfpNotSent = errors.New("rfp has not been sent to vendors")
	// ErrVendorUnresolved 表示没有供应商记录匹配来件的发件人地址。
	// 此时提案必须被丢弃，而不是挂一个悬空的供应商引用。
	ErrVendorUnresolved = errors.New("no vendor matches sender address")
)
