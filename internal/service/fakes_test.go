package service

import (
	"context"
	"fmt"
	"rfp-ai-go/internal/model"
	"rfp-ai-go/pkg/mail"

	"gorm.io/gorm"
)

// 内存版测试替身，覆盖 repository 与外部传输接口。

type fakeRfpRepo struct {
	rfps    map[string]*model.Rfp
	updates int
}

func newFakeRfpRepo() *fakeRfpRepo {
	return &fakeRfpRepo{rfps: make(map[string]*model.Rfp)}
}

func (f *fakeRfpRepo) Create(rfp *model.Rfp) error {
	f.rfps[rfp.ID] = rfp
	return nil
}

func (f *fakeRfpRepo) FindAll() ([]model.Rfp, error) {
	var out []model.Rfp
	for _, r := range f.rfps {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRfpRepo) FindByID(rfpID string) (*model.Rfp, error) {
	if r, ok := f.rfps[rfpID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRfpRepo) Update(rfp *model.Rfp) error {
	f.updates++
	f.rfps[rfp.ID] = rfp
	return nil
}

type fakeVendorRepo struct {
	vendors []model.Vendor
}

func (f *fakeVendorRepo) Create(vendor *model.Vendor) error {
	vendor.ID = uint(len(f.vendors) + 1)
	f.vendors = append(f.vendors, *vendor)
	return nil
}

func (f *fakeVendorRepo) FindAll() ([]model.Vendor, error) {
	return f.vendors, nil
}

func (f *fakeVendorRepo) FindByID(vendorID uint) (*model.Vendor, error) {
	for _, v := range f.vendors {
		if v.ID == vendorID {
			vendor := v
			return &vendor, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVendorRepo) FindByIDs(vendorIDs []uint) ([]model.Vendor, error) {
	var out []model.Vendor
	for _, id := range vendorIDs {
		for _, v := range f.vendors {
			if v.ID == id {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func (f *fakeVendorRepo) FindByEmail(email string) (*model.Vendor, error) {
	for _, v := range f.vendors {
		if v.Email == email {
			vendor := v
			return &vendor, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeProposalRepo struct {
	proposals []model.Proposal
}

func (f *fakeProposalRepo) Create(proposal *model.Proposal) error {
	proposal.ID = uint(len(f.proposals) + 1)
	f.proposals = append(f.proposals, *proposal)
	return nil
}

func (f *fakeProposalRepo) FindAll() ([]model.Proposal, error) {
	return f.proposals, nil
}

func (f *fakeProposalRepo) FindByRfpID(rfpID string) ([]model.Proposal, error) {
	var out []model.Proposal
	for _, p := range f.proposals {
		if p.RfpID == rfpID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeReportRepo struct {
	harvest   *model.HarvestReport
	summaries map[string]*model.SendSummary
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{summaries: make(map[string]*model.SendSummary)}
}

func (f *fakeReportRepo) SaveHarvestReport(ctx context.Context, report *model.HarvestReport) error {
	f.harvest = report
	return nil
}

func (f *fakeReportRepo) LastHarvestReport(ctx context.Context) (*model.HarvestReport, error) {
	return f.harvest, nil
}

func (f *fakeReportRepo) SaveSendSummary(ctx context.Context, summary *model.SendSummary) error {
	f.summaries[summary.RfpID] = summary
	return nil
}

func (f *fakeReportRepo) LastSendSummary(ctx context.Context, rfpID string) (*model.SendSummary, error) {
	return f.summaries[rfpID], nil
}

// fakeLLM 按队列弹出预置响应，并记录收到的提示词。
type fakeLLM struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("fakeLLM: no responses queued")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// fakeSender 记录每次发送，可按收件人预置失败。
type fakeSender struct {
	sent   []sentMail
	failTo map[string]error
}

func (f *fakeSender) Send(to, subject, body string) error {
	if err, ok := f.failTo[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// fakeInbox 返回预置的未读邮件。
type fakeInbox struct {
	messages []mail.Message
	err      error
}

func (f *fakeInbox) FetchUnseen() ([]mail.Message, error) {
	return f.messages, f.err
}
