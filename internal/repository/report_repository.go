package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"rfp-ai-go/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
)

// ReportRepository 定义了批处理报告的存取接口。
// 报告是运维性质的瞬态数据，放 Redis 带 TTL，不进 MySQL。
type ReportRepository interface {
	SaveHarvestReport(ctx context.Context, report *model.HarvestReport) error
	LastHarvestReport(ctx context.Context) (*model.HarvestReport, error)
	SaveSendSummary(ctx context.Context, summary *model.SendSummary) error
	LastSendSummary(ctx context.Context, rfpID string) (*model.SendSummary, error)
}

type redisReportRepository struct {
	redisClient *redis.Client
}

// NewReportRepository 创建一个新的 ReportRepository 实例。
func NewReportRepository(redisClient *redis.Client) ReportRepository {
	return &redisReportRepository{redisClient: redisClient}
}

const reportTTL = 7 * 24 * time.Hour

// SaveHarvestReport 保存最近一次收件批次的报告。
func (r *redisReportRepository) SaveHarvestReport(ctx context.Context, report *model.HarvestReport) error {
	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal harvest report: %w", err)
	}
	if err := r.redisClient.Set(ctx, "harvest:last_report", jsonData, reportTTL).Err(); err != nil {
		return fmt.Errorf("failed to save harvest report: %w", err)
	}
	return nil
}

// LastHarvestReport 读取最近一次收件批次的报告；不存在时返回 nil。
func (r *redisReportRepository) LastHarvestReport(ctx context.Context) (*model.HarvestReport, error) {
	jsonData, err := r.redisClient.Get(ctx, "harvest:last_report").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get harvest report: %w", err)
	}
	var report model.HarvestReport
	if err := json.Unmarshal([]byte(jsonData), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal harvest report: %w", err)
	}
	return &report, nil
}

// SaveSendSummary 保存某个 RFP 最近一次群发的结果汇总。
func (r *redisReportRepository) SaveSendSummary(ctx context.Context, summary *model.SendSummary) error {
	key := fmt.Sprintf("rfp:%s:last_send_summary", summary.RfpID)
	jsonData, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal send summary: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, jsonData, reportTTL).Err(); err != nil {
		return fmt.Errorf("failed to save send summary: %w", err)
	}
	return nil
}

// LastSendSummary 读取某个 RFP 最近一次群发的结果汇总；不存在时返回 nil。
func (r *redisReportRepository) LastSendSummary(ctx context.Context, rfpID string) (*model.SendSummary, error) {
	key := fmt.Sprintf("rfp:%s:last_send_summary", rfpID)
	jsonData, err := r.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get send summary: %w", err)
	}
	var summary model.SendSummary
	if err := json.Unmarshal([]byte(jsonData), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal send summary: %w", err)
	}
	return &summary, nil
}
