package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"rfp-ai-go/internal/model"
	"rfp-ai-go/internal/repository"
	"rfp-ai-go/pkg/llm"
	"rfp-ai-go/pkg/log"
)

// RfpService 接口定义了 RFP 归一化与查询的业务操作。
type RfpService interface {
	// CreateFromText 把自由文本的采购需求归一化为结构化 RFP 并落库。
	CreateFromText(ctx context.Context, text string) (*model.Rfp, error)
	ListRfps(ctx context.Context) ([]model.Rfp, error)
}

// rfpService 是 RfpService 接口的实现。
type rfpService struct {
	rfpRepo   repository.RfpRepository
	llmClient llm.Client
}

// NewRfpService 创建一个新的 RfpService 实例。
func NewRfpService(rfpRepo repository.RfpRepository, llmClient llm.Client) RfpService {
	return &rfpService{
		rfpRepo:   rfpRepo,
		llmClient: llmClient,
	}
}

// normalizePrompt 要求模型输出固定字段的裸 JSON。
// 字段列表是对外契约的一部分，供应商侧邮件模板和比较环节都依赖它。
const normalizePrompt = `
You are a JSON generator.

Convert the following RFP text into valid JSON with exactly these fields:
- items (array of objects with name and specifications)
- quantities (array)
- budget (string or number)
- delivery_days (number)
- warranty (string)
- payment_terms (string)

Rules:
- Return ONLY raw JSON
- Do NOT add explanations
- Do NOT add markdown
- Do NOT wrap in code fences
- Do NOT include any text before or after JSON

RFP Text:
%s
`

// CreateFromText 调用补全服务做结构化抽取。
// 模型响应不是合法 JSON 时返回 ErrAIFormat，不落任何记录：
// 格式错误的响应绝不能悄悄产出半填充的结构化对象。
func (s *rfpService) CreateFromText(ctx context.Context, text string) (*model.Rfp, error) {
	if text == "" {
		return nil, errors.New("rfp text is required")
	}

	raw, err := s.llmClient.Complete(ctx, fmt.Sprintf(normalizePrompt, text))
	if err != nil {
		return nil, fmt.Errorf("补全服务调用失败: %w", err)
	}

	cleaned := llm.StripFences(raw)

	var structured model.JSONMap
	if err := json.Unmarshal([]byte(cleaned), &structured); err != nil {
		log.Warnf("[RfpService] 模型返回的内容不是合法 JSON: %s", raw)
		return nil, ErrAIFormat
	}

	rfp := &model.Rfp{
		ID:         model.NewRfpID(),
		RawText:    text,
		Structured: structured,
		Status:     model.RfpStatusCreated,
	}
	if err := s.rfpRepo.Create(rfp); err != nil {
		return nil, fmt.Errorf("创建 RFP 记录失败: %w", err)
	}

	log.Infof("[RfpService] RFP 已创建, id: %s", rfp.ID)
	return rfp, nil
}

// ListRfps 返回所有 RFP 记录。
func (s *rfpService) ListRfps(ctx context.Context) ([]model.Rfp, error) {
	return s.rfpRepo.FindAll()
}
