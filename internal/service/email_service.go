package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"rfp-ai-go/internal/model"
	"rfp-ai-go/internal/repository"
	"rfp-ai-go/pkg/kafka"
	"rfp-ai-go/pkg/log"
	"rfp-ai-go/pkg/mail"
	"strings"
	"time"

	"gorm.io/gorm"
)

// EmailService 接口定义了 RFP 出站群发与收件批处理的业务操作。
type EmailService interface {
	// SendRfp 把一个 RFP 逐个发给选中的供应商。
	// 单个供应商发送失败不阻断其余发送；无论个别成败，
	// 状态迁移 created→sent、供应商集合与时间戳恰好写入一次。
	SendRfp(ctx context.Context, rfpID string, vendorIDs []uint) (*model.SendSummary, error)
	// HarvestInbox 执行一次按需的收件批次：取未读邮件、按主题匹配 RFP、
	// 逐封委托提案抽取，并把逐条结果汇总成报告。
	HarvestInbox(ctx context.Context) (*model.HarvestReport, error)
}

// emailService 是 EmailService 接口的实现。
type emailService struct {
	rfpRepo    repository.RfpRepository
	vendorRepo repository.VendorRepository
	reportRepo repository.ReportRepository
	sender     mail.Sender
	inbox      mail.Inbox
	extractor  ProposalService
}

// NewEmailService 创建一个新的 EmailService 实例。
func NewEmailService(
	rfpRepo repository.RfpRepository,
	vendorRepo repository.VendorRepository,
	reportRepo repository.ReportRepository,
	sender mail.Sender,
	inbox mail.Inbox,
	extractor ProposalService,
) EmailService {
	return &emailService{
		rfpRepo:    rfpRepo,
		vendorRepo: vendorRepo,
		reportRepo: reportRepo,
		sender:     sender,
		inbox:      inbox,
		extractor:  extractor,
	}
}

// rfpEmailTemplate 是发给供应商的固定纯文本模板。
// 指令列表要求供应商在回件里回应的字段与提案抽取的 schema 对应。
const rfpEmailTemplate = `Dear %s,

We are requesting proposals for the following requirements:

%s

Please reply to this email with your proposal including:
- Total price
- Delivery timeline (in days)
- Warranty terms
- Payment terms

Thank you,
RFP Management System
`

// rfpSubjectPattern 匹配收件主题中内嵌的 RFP 标识。
var rfpSubjectPattern = regexp.MustCompile(`(?i)RFP Request - ([a-f0-9]{24})`)

// SendRfp 逐个供应商顺序发送（尊重限速的邮件网关），按调用方给出的顺序。
func (s *emailService) SendRfp(ctx context.Context, rfpID string, vendorIDs []uint) (*model.SendSummary, error) {
	rfp, err := s.rfpRepo.FindByID(rfpID)
	if err != nil {
		return nil, fmt.Errorf("查找 RFP 失败: %w", err)
	}

	vendors, err := s.vendorRepo.FindByIDs(vendorIDs)
	if err != nil {
		return nil, fmt.Errorf("查找供应商失败: %w", err)
	}

	structuredBytes, err := json.MarshalIndent(rfp.Structured, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化 RFP 结构化需求失败: %w", err)
	}

	subject := fmt.Sprintf("RFP Request - %s", rfp.ID)
	summary := &model.SendSummary{
		RfpID:   rfp.ID,
		Message: "Emails sent to selected vendors",
	}

	for _, vendor := range vendors {
		body := fmt.Sprintf(rfpEmailTemplate, vendor.Name, structuredBytes)
		if err := s.sender.Send(vendor.Email, subject, body); err != nil {
			// 单个失败只降级该条目，批次继续
			log.Errorf("[EmailService] 发送 RFP 给供应商失败, vendorId=%d, err=%v", vendor.ID, err)
			summary.Failed = append(summary.Failed, model.SendFailure{
				VendorID: vendor.ID,
				Error:    err.Error(),
			})
			continue
		}
		summary.Sent = append(summary.Sent, vendor.ID)
	}

	// 所有发送尝试完成后，状态迁移只执行这一次
	now := time.Now()
	rfp.Status = model.RfpStatusSent
	rfp.SelectedVendors = model.UintSlice(vendorIDs)
	rfp.SentAt = &now
	if err := s.rfpRepo.Update(rfp); err != nil {
		return nil, fmt.Errorf("更新 RFP 状态失败: %w", err)
	}

	if err := s.reportRepo.SaveSendSummary(ctx, summary); err != nil {
		log.Warnf("[EmailService] 保存群发汇总失败: %v", err)
	}

	kafka.PublishEvent(ctx, kafka.Event{
		Type:  kafka.EventRfpSent,
		RfpID: rfp.ID,
	})

	log.Infof("[EmailService] RFP 群发完成, rfpId=%s, sent=%d, failed=%d",
		rfp.ID, len(summary.Sent), len(summary.Failed))
	return summary, nil
}

// HarvestInbox 逐封处理未读邮件。邮箱连接层面的失败让整个请求失败；
// 单封邮件的失败只降级该条目。
func (s *emailService) HarvestInbox(ctx context.Context) (*model.HarvestReport, error) {
	messages, err := s.inbox.FetchUnseen()
	if err != nil {
		return nil, fmt.Errorf("读取收件箱失败: %w", err)
	}

	report := &model.HarvestReport{
		StartedAt: time.Now(),
		Total:     len(messages),
	}

	for _, msg := range messages {
		item := model.HarvestItem{From: msg.From, Subject: msg.Subject}

		match := rfpSubjectPattern.FindStringSubmatch(msg.Subject)
		if match == nil {
			// 主题不含 RFP 标识的邮件不是提案，跳过
			item.Outcome = model.ItemOutcomeSkipped
			item.Reason = model.ReasonNoRfpSubject
			report.Skipped++
			report.Items = append(report.Items, item)
			continue
		}

		rfpID := strings.ToLower(match[1])
		item.RfpID = rfpID

		_, err := s.extractor.ExtractFromEmail(ctx, rfpID, msg.From, msg.Body)
		switch {
		case err == nil:
			item.Outcome = model.ItemOutcomeCreated
			report.Created++
		case errors.Is(err, ErrVendorUnresolved):
			item.Outcome = model.ItemOutcomeSkipped
			item.Reason = model.ReasonVendorUnresolved
			report.Skipped++
		case errors.Is(err, gorm.ErrRecordNotFound):
			item.Outcome = model.ItemOutcomeSkipped
			item.Reason = model.ReasonRfpNotFound
			report.Skipped++
		case errors.Is(err, ErrRfpNotSent):
			item.Outcome = model.ItemOutcomeSkipped
			item.Reason = model.ReasonRfpNotSent
			report.Skipped++
		case errors.Is(err, ErrAIFormat):
			item.Outcome = model.ItemOutcomeFailed
			item.Reason = model.ReasonAIFormat
			report.Failed++
		default:
			log.Errorf("[EmailService] 处理来件失败, from=%s, err=%v", msg.From, err)
			item.Outcome = model.ItemOutcomeFailed
			item.Reason = err.Error()
			report.Failed++
		}
		report.Items = append(report.Items, item)
	}

	if err := s.reportRepo.SaveHarvestReport(ctx, report); err != nil {
		log.Warnf("[EmailService] 保存收件报告失败: %v", err)
	}

	log.Infof("[EmailService] 收件批次完成, total=%d, created=%d, skipped=%d, failed=%d",
		report.Total, report.Created, report.Skipped, report.Failed)
	return report, nil
}
