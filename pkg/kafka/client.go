// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"rfp-ai-go/internal/config"
	"rfp-ai-go/pkg/log"
	"time"

	"github.com/segmentio/kafka-go"
)

// 领域事件类型。
const (
	EventRfpSent         = "rfp.sent"
	EventProposalCreated = "proposal.created"
)

// Event 是发布到事件主题的领域事件。
type Event struct {
	Type       string `json:"type"`
	RfpID      string `json:"rfpId"`
	VendorID   uint   `json:"vendorId,omitempty"`
	ProposalID uint   `json:"proposalId,omitempty"`
	OccurredAt string `json:"occurredAt"`
}

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// PublishEvent 发布一个领域事件，采用 fire-and-forget 语义：
// 发布失败只记日志，绝不让发起事件的请求失败。
// 生产者未初始化时（例如单元测试）直接跳过。
func PublishEvent(ctx context.Context, event Event) {
	if producer == nil {
		return
	}
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		log.Errorf("无法序列化领域事件: %v", err)
		return
	}

	err = producer.WriteMessages(ctx,
		kafka.Message{
			Key:   []byte(event.RfpID),
			Value: eventBytes,
		},
	)
	if err != nil {
		log.Errorf("发布领域事件失败: type=%s, rfpId=%s, err=%v", event.Type, event.RfpID, err)
		return
	}
	log.Infof("领域事件已发布: type=%s, rfpId=%s", event.Type, event.RfpID)
}
