package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"rfp-ai-go/internal/model"
	"rfp-ai-go/internal/repository"
	"rfp-ai-go/pkg/es"
	"rfp-ai-go/pkg/kafka"
	"rfp-ai-go/pkg/llm"
	"rfp-ai-go/pkg/log"

	"gorm.io/gorm"
)

// ProposalService 接口定义了提案抽取、查询与比较推荐的业务操作。
type ProposalService interface {
	// ExtractFromEmail 从一封供应商回件中抽取结构化提案并落库。
	// 供应商无法解析时返回 ErrVendorUnresolved，记录被丢弃。
	ExtractFromEmail(ctx context.Context, rfpID, fromEmail, emailText string) (*model.Proposal, error)
	ListProposals(ctx context.Context) ([]model.Proposal, error)
	ListByRfp(ctx context.Context, rfpID string) ([]model.Proposal, error)
	// Compare 对一个 RFP 下的全部提案做比较推荐。
	// 没有提案时返回 (nil, nil)，由调用方渲染空推荐。
	Compare(ctx context.Context, rfpID string) (*model.Recommendation, error)
}

// proposalService 是 ProposalService 接口的实现。
type proposalService struct {
	proposalRepo repository.ProposalRepository
	vendorRepo   repository.VendorRepository
	rfpRepo      repository.RfpRepository
	llmClient    llm.Client
	esIndexName  string
}

// NewProposalService 创建一个新的 ProposalService 实例。
func NewProposalService(
	proposalRepo repository.ProposalRepository,
	vendorRepo repository.VendorRepository,
	rfpRepo repository.RfpRepository,
	llmClient llm.Client,
	esIndexName string,
) ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		vendorRepo:   vendorRepo,
		rfpRepo:      rfpRepo,
		llmClient:    llmClient,
		esIndexName:  esIndexName,
	}
}

const extractionPrompt = `
Extract proposal information from this vendor email and return ONLY valid JSON with these exact fields:
- totalPrice (string)
- deliveryDays (number)
- warranty (string)
- paymentTerms (string)

Email content:
%s

Return ONLY the JSON object, no explanations or markdown.
`

// ExtractFromEmail 执行单封邮件的提案抽取。
func (s *proposalService) ExtractFromEmail(ctx context.Context, rfpID, fromEmail, emailText string) (*model.Proposal, error) {
	// 提案只能挂在已发送的 RFP 上
	rfp, err := s.rfpRepo.FindByID(rfpID)
	if err != nil {
		return nil, fmt.Errorf("查找 RFP 失败: %w", err)
	}
	if rfp.Status != model.RfpStatusSent {
		return nil, ErrRfpNotSent
	}

	raw, err := s.llmClient.Complete(ctx, fmt.Sprintf(extractionPrompt, emailText))
	if err != nil {
		return nil, fmt.Errorf("补全服务调用失败: %w", err)
	}

	cleaned := llm.StripFences(raw)
	var extracted model.JSONMap
	if err := json.Unmarshal([]byte(cleaned), &extracted); err != nil {
		log.Warnf("[ProposalService] 模型返回的提案抽取结果不是合法 JSON: %s", raw)
		return nil, ErrAIFormat
	}

	// 按发件人地址解析供应商；解析不到时绝不落库，
	// 避免产生下游比较环节无法消解的悬空引用。
	vendor, err := s.vendorRepo.FindByEmail(fromEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorUnresolved
		}
		return nil, fmt.Errorf("查找供应商失败: %w", err)
	}

	proposal := &model.Proposal{
		RfpID:        rfpID,
		VendorID:     vendor.ID,
		RawEmailText: emailText,
		Extracted:    extracted,
	}
	if err := s.proposalRepo.Create(proposal); err != nil {
		return nil, fmt.Errorf("创建提案记录失败: %w", err)
	}

	// 索引到 ES 供全文检索；失败只记日志，不影响提案创建
	if err := es.IndexProposal(ctx, s.esIndexName, model.EsProposalDoc{
		ProposalID:   proposal.ID,
		RfpID:        rfpID,
		VendorID:     vendor.ID,
		VendorName:   vendor.Name,
		RawEmailText: emailText,
		Extracted:    extracted,
	}); err != nil {
		log.Errorf("[ProposalService] 索引提案失败, proposalId=%d, err=%v", proposal.ID, err)
	}

	kafka.PublishEvent(ctx, kafka.Event{
		Type:       kafka.EventProposalCreated,
		RfpID:      rfpID,
		VendorID:   vendor.ID,
		ProposalID: proposal.ID,
	})

	log.Infof("[ProposalService] 提案已创建, rfpId=%s, vendorId=%d", rfpID, vendor.ID)
	return proposal, nil
}

// ListProposals 返回所有提案（联带供应商与 RFP）。
func (s *proposalService) ListProposals(ctx context.Context) ([]model.Proposal, error) {
	return s.proposalRepo.FindAll()
}

// ListByRfp 返回某个 RFP 下的所有提案（联带供应商）。
func (s *proposalService) ListByRfp(ctx context.Context, rfpID string) ([]model.Proposal, error) {
	return s.proposalRepo.FindByRfpID(rfpID)
}

const comparePrompt = `
You are an expert procurement analyst. Analyze these vendor proposals and recommend the best option.

RFP Requirements:
%s

Vendor Proposals:
%s

Provide your recommendation in this JSON format:
{
  "recommendedVendor": "vendor name",
  "reason": "detailed explanation of why this vendor is best",
  "score": 9.5
}

Return ONLY the JSON, no markdown or explanations.
`

// Compare 构造比较提示词并解析推荐结果。
// 模型输出不可解析时返回降级结果（原始文本作为理由、得分 0），
// 这是刻意的优雅降级契约：调用方永远能拿到可渲染的结果。
func (s *proposalService) Compare(ctx context.Context, rfpID string) (*model.Recommendation, error) {
	rfp, err := s.rfpRepo.FindByID(rfpID)
	if err != nil {
		return nil, fmt.Errorf("查找 RFP 失败: %w", err)
	}

	proposals, err := s.proposalRepo.FindByRfpID(rfpID)
	if err != nil {
		return nil, fmt.Errorf("查找提案失败: %w", err)
	}
	// 零提案不是错误，也不调用补全服务
	if len(proposals) == 0 {
		return nil, nil
	}

	summaries := make([]map[string]interface{}, 0, len(proposals))
	for _, p := range proposals {
		summary := map[string]interface{}{}
		for k, v := range p.Extracted {
			summary[k] = v
		}
		if p.Vendor != nil {
			summary["vendor"] = p.Vendor.Name
			summary["company"] = p.Vendor.Company
		}
		summaries = append(summaries, summary)
	}

	requirements, err := json.MarshalIndent(rfp.Structured, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化 RFP 结构化需求失败: %w", err)
	}
	summaryBytes, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化提案摘要失败: %w", err)
	}

	raw, err := s.llmClient.Complete(ctx, fmt.Sprintf(comparePrompt, requirements, summaryBytes))
	if err != nil {
		return nil, fmt.Errorf("补全服务调用失败: %w", err)
	}

	cleaned := llm.StripFences(raw)
	var rec model.Recommendation
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		log.Warnf("[ProposalService] 模型返回的推荐结果不是合法 JSON, 降级返回原始文本")
		return &model.Recommendation{
			RecommendedVendor: "Analysis Error",
			Reason:            raw,
			Score:             0,
		}, nil
	}

	return &rec, nil
}
