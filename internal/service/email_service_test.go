package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rfp-ai-go/internal/model"
	"rfp-ai-go/pkg/mail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSentRfp(repo *fakeRfpRepo) *model.Rfp {
	now := time.Now()
	rfp := &model.Rfp{
		ID:         model.NewRfpID(),
		RawText:    "Need 5 chairs",
		Structured: model.JSONMap{"budget": "1000"},
		Status:     model.RfpStatusSent,
		SentAt:     &now,
	}
	repo.rfps[rfp.ID] = rfp
	return rfp
}

func seedCreatedRfp(repo *fakeRfpRepo) *model.Rfp {
	rfp := &model.Rfp{
		ID:         model.NewRfpID(),
		RawText:    "Need 5 chairs",
		Structured: model.JSONMap{"budget": "1000"},
		Status:     model.RfpStatusCreated,
	}
	repo.rfps[rfp.ID] = rfp
	return rfp
}

func TestEmailService_SendRfp_PartialFailure(t *testing.T) {
	rfpRepo := newFakeRfpRepo()
	rfp := seedCreatedRfp(rfpRepo)

	vendorRepo := &fakeVendorRepo{vendors: []model.Vendor{
		{ID: 1, Name: "Acme", Email: "acme@example.com", Company: "Acme Inc"},
		{ID: 2, Name: "Globex", Email: "globex@example.com", Company: "Globex Corp"},
	}}
	sender := &fakeSender{failTo: map[string]error{
		"acme@example.com": errors.New("smtp: connection reset"),
	}}
	reportRepo := newFakeReportRepo()

	svc := NewEmailService(rfpRepo, vendorRepo, reportRepo, sender, &fakeInbox{}, nil)

	summary, err := svc.SendRfp(context.Background(), rfp.ID, []uint{1, 2})
	require.NoError(t, err)

	// 第一个供应商失败不阻断第二个
	assert.Equal(t, []uint{2}, summary.Sent)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, uint(1), summary.Failed[0].VendorID)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "globex@example.com", sender.sent[0].To)

	// 无论个别成败，状态迁移恰好一次，供应商集合按请求原样落库
	updated, err := rfpRepo.FindByID(rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RfpStatusSent, updated.Status)
	assert.Equal(t, model.UintSlice([]uint{1, 2}), updated.SelectedVendors)
	require.NotNil(t, updated.SentAt)
	assert.Equal(t, 1, rfpRepo.updates)
}

func TestEmailService_SendRfp_SubjectAndBody(t *testing.T) {
	rfpRepo := newFakeRfpRepo()
	rfp := seedCreatedRfp(rfpRepo)
	vendorRepo := &fakeVendorRepo{vendors: []model.Vendor{
		{ID: 1, Name: "Acme", Email: "acme@example.com"},
	}}
	sender := &fakeSender{}

	svc := NewEmailService(rfpRepo, vendorRepo, newFakeReportRepo(), sender, &fakeInbox{}, nil)
	_, err := svc.SendRfp(context.Background(), rfp.ID, []uint{1})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, fmt.Sprintf("RFP Request - %s", rfp.ID), sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Body, "Dear Acme")
	assert.Contains(t, sender.sent[0].Body, `"budget": "1000"`)
	assert.Contains(t, sender.sent[0].Body, "Total price")
	assert.Contains(t, sender.sent[0].Body, "Payment terms")
}

func TestEmailService_SendRfp_RfpNotFound(t *testing.T) {
	svc := NewEmailService(newFakeRfpRepo(), &fakeVendorRepo{}, newFakeReportRepo(), &fakeSender{}, &fakeInbox{}, nil)

	_, err := svc.SendRfp(context.Background(), "ffffffffffffffffffffffff", []uint{1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

// newHarvestPipeline 组装出走真实抽取逻辑的 EmailService。
func newHarvestPipeline(rfpRepo *fakeRfpRepo, vendorRepo *fakeVendorRepo, proposalRepo *fakeProposalRepo, llmClient *fakeLLM, inbox *fakeInbox) (EmailService, *fakeReportRepo) {
	extractor := NewProposalService(proposalRepo, vendorRepo, rfpRepo, llmClient, "rfp_proposals")
	reportRepo := newFakeReportRepo()
	return NewEmailService(rfpRepo, vendorRepo, reportRepo, &fakeSender{}, inbox, extractor), reportRepo
}

func TestEmailService_HarvestInbox_Classification(t *testing.T) {
	rfpRepo := newFakeRfpRepo()
	rfp := seedSentRfp(rfpRepo)

	vendorRepo := &fakeVendorRepo{vendors: []model.Vendor{
		{ID: 1, Name: "Acme", Email: "acme@example.com", Company: "Acme Inc"},
	}}
	proposalRepo := &fakeProposalRepo{}
	// 抽取先走补全再解析供应商，所以三封匹配主题的邮件各消耗一次补全：
	// 陌生发件人（解析成功但供应商未命中）、坏响应、好响应
	llmClient := &fakeLLM{responses: []string{
		`{"totalPrice":"800"}`,
		"not json at all",
		`{"totalPrice":"900","deliveryDays":9,"warranty":"1 year","paymentTerms":"net 30"}`,
	}}

	subject := fmt.Sprintf("RFP Request - %s", rfp.ID)
	inbox := &fakeInbox{messages: []mail.Message{
		{From: "spam@example.com", Subject: "Buy cheap watches", Body: "spam"},
		{From: "stranger@example.com", Subject: subject, Body: "We offer 800"},
		{From: "acme@example.com", Subject: subject, Body: "garbage reply"},
		{From: "acme@example.com", Subject: subject, Body: "We offer 900, 9 days, 1 year warranty, net 30"},
	}}

	svc, reportRepo := newHarvestPipeline(rfpRepo, vendorRepo, proposalRepo, llmClient, inbox)

	report, err := svc.HarvestInbox(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Items, 4)

	assert.Equal(t, model.ReasonNoRfpSubject, report.Items[0].Reason)
	assert.Equal(t, model.ReasonVendorUnresolved, report.Items[1].Reason)
	assert.Equal(t, model.ReasonAIFormat, report.Items[2].Reason)
	assert.Equal(t, model.ItemOutcomeCreated, report.Items[3].Outcome)

	// 只有主题匹配且发件人可解析的邮件才产出提案
	require.Len(t, proposalRepo.proposals, 1)
	created := proposalRepo.proposals[0]
	assert.Equal(t, rfp.ID, created.RfpID)
	assert.Equal(t, uint(1), created.VendorID)
	assert.Equal(t, "900", created.Extracted["totalPrice"])

	// 报告被持久化
	saved, err := reportRepo.LastHarvestReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, report.Created, saved.Created)
}

func TestEmailService_HarvestInbox_SubjectCaseInsensitive(t *testing.T) {
	rfpRepo := newFakeRfpRepo()
	rfp := seedSentRfp(rfpRepo)
	vendorRepo := &fakeVendorRepo{vendors: []model.Vendor{
		{ID: 1, Name: "Acme", Email: "acme@example.com"},
	}}
	proposalRepo := &fakeProposalRepo{}
	llmClient := &fakeLLM{responses: []string{`{"totalPrice":"500"}`}}

	inbox := &fakeInbox{messages: []mail.Message{
		{From: "acme@example.com", Subject: fmt.Sprintf("Re: rfp request - %s", rfp.ID), Body: "offer"},
	}}

	svc, _ := newHarvestPipeline(rfpRepo, vendorRepo, proposalRepo, llmClient, inbox)
	report, err := svc.HarvestInbox(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Len(t, proposalRepo.proposals, 1)
}

func TestEmailService_HarvestInbox_UnknownRfpSkipped(t *testing.T) {
	rfpRepo := newFakeRfpRepo()
	vendorRepo := &fakeVendorRepo{vendors: []model.Vendor{
		{ID: 1, Name: "Acme", Email: "acme@example.com"},
	}}
	proposalRepo := &fakeProposalRepo{}
	llmClient := &fakeLLM{}

	inbox := &fakeInbox{messages: []mail.Message{
		{From: "acme@example.com", Subject: "RFP Request - ffffffffffffffffffffffff", Body: "offer"},
	}}

	svc, _ := newHarvestPipeline(rfpRepo, vendorRepo, proposalRepo, llmClient, inbox)
	report, err := svc.HarvestInbox(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, model.ReasonRfpNotFound, report.Items[0].Reason)
	assert.Empty(t, proposalRepo.proposals)
	// 标识不存在时不浪费一次补全调用
	assert.Empty(t, llmClient.prompts)
}

func TestEmailService_HarvestInbox_FetchError(t *testing.T) {
	svc := NewEmailService(newFakeRfpRepo(), &fakeVendorRepo{}, newFakeReportRepo(), &fakeSender{}, &fakeInbox{err: errors.New("imap: connection refused")}, nil)

	_, err := svc.HarvestInbox(context.Background())
	require.Error(t, err)
}

// TestPipeline_EndToEnd 走一遍完整链路：
// 归一化 → 群发 → 收件抽取 → 比较推荐。
func TestPipeline_EndToEnd(t *testing.T) {
	rfpRepo := newFakeRfpRepo()
	vendorRepo := &fakeVendorRepo{}
	proposalRepo := &fakeProposalRepo{}
	llmClient := &fakeLLM{responses: []string{
		`{"items":[{"name":"chair","specifications":""}],"quantities":[5],"budget":"1000","delivery_days":10,"warranty":"1 year","payment_terms":"net 30"}`,
		`{"totalPrice":"900","deliveryDays":9,"warranty":"1 year","paymentTerms":"net 30"}`,
		`{"recommendedVendor":"Acme","reason":"Best price within budget","score":9.1}`,
	}}
	sender := &fakeSender{}

	rfpService := NewRfpService(rfpRepo, llmClient)
	proposalService := NewProposalService(proposalRepo, vendorRepo, rfpRepo, llmClient, "rfp_proposals")
	emailService := NewEmailService(rfpRepo, vendorRepo, newFakeReportRepo(), sender, &fakeInbox{}, proposalService)

	ctx := context.Background()

	// 1. 归一化
	rfp, err := rfpService.CreateFromText(ctx, "Need 5 chairs")
	require.NoError(t, err)
	assert.Equal(t, model.RfpStatusCreated, rfp.Status)
	assert.Equal(t, "1000", rfp.Structured["budget"])

	// 2. 建供应商并群发
	vendor := &model.Vendor{Name: "Acme", Email: "acme@example.com", Company: "Acme Inc"}
	require.NoError(t, vendorRepo.Create(vendor))

	summary, err := emailService.SendRfp(ctx, rfp.ID, []uint{vendor.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{vendor.ID}, summary.Sent)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, rfp.ID)

	sent, err := rfpRepo.FindByID(rfp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RfpStatusSent, sent.Status)
	assert.Equal(t, model.UintSlice([]uint{vendor.ID}), sent.SelectedVendors)

	// 3. 收件抽取
	emailService2 := NewEmailService(rfpRepo, vendorRepo, newFakeReportRepo(), sender, &fakeInbox{messages: []mail.Message{
		{From: "acme@example.com", Subject: sender.sent[0].Subject, Body: "We offer 900 total, 9 days"},
	}}, proposalService)

	report, err := emailService2.HarvestInbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	require.Len(t, proposalRepo.proposals, 1)
	assert.Equal(t, rfp.ID, proposalRepo.proposals[0].RfpID)
	assert.Equal(t, vendor.ID, proposalRepo.proposals[0].VendorID)

	// 4. 比较推荐
	// fakeProposalRepo 不会自动联带供应商，这里补上
	proposalRepo.proposals[0].Vendor = vendor

	rec, err := proposalService.Compare(ctx, rfp.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Acme", rec.RecommendedVendor)
	assert.InDelta(t, 9.1, rec.Score, 0.001)
}
