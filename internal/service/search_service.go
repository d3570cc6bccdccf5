package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"rfp-ai-go/internal/model"
	"rfp-ai-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
)

// SearchService 接口定义了提案全文检索的业务操作。
type SearchService interface {
	// SearchProposals 在已入库提案的邮件原文上做全文检索。
	SearchProposals(ctx context.Context, query string, topK int) ([]model.EsProposalDoc, error)
}

// searchService 是 SearchService 接口的实现。
type searchService struct {
	esClient  *elasticsearch.Client
	indexName string
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(esClient *elasticsearch.Client, indexName string) SearchService {
	return &searchService{
		esClient:  esClient,
		indexName: indexName,
	}
}

// SearchProposals 对 raw_email_text 做 match 查询，按相关度返回前 topK 条。
func (s *searchService) SearchProposals(ctx context.Context, query string, topK int) ([]model.EsProposalDoc, error) {
	if topK <= 0 {
		topK = 10
	}

	esQuery := map[string]interface{}{
		"size": topK,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"raw_email_text": query,
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("构建查询体失败: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(s.indexName),
		s.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("执行检索失败: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("[SearchService] Elasticsearch 返回错误: %s", res.String())
		return nil, fmt.Errorf("elasticsearch returned error: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source model.EsProposalDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析检索响应失败: %w", err)
	}

	docs := make([]model.EsProposalDoc, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}
