// Package llm provides a client for the local text-completion service.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"rfp-ai-go/internal/config"
	"rfp-ai-go/pkg/log"
	"time"
)

// Client defines the interface for a completion client.
// 补全服务在这里只被当作 文本→JSON 的转换器使用，同步、无流式。
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type ollamaClient struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewClient creates a new completion client from the config.
func NewClient(cfg config.LLMConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ollamaClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Complete calls the Ollama-style /api/generate endpoint and returns the raw text.
func (c *ollamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
	}
	// 从全局配置注入生成参数（若非零值）
	opts := map[string]interface{}{}
	if c.cfg.Generation.Temperature != 0 {
		opts["temperature"] = c.cfg.Generation.Temperature
	}
	if c.cfg.Generation.TopP != 0 {
		opts["top_p"] = c.cfg.Generation.TopP
	}
	if c.cfg.Generation.MaxTokens != 0 {
		opts["num_predict"] = c.cfg.Generation.MaxTokens
	}
	if len(opts) > 0 {
		reqBody.Options = opts
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/api/generate", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Errorf("[LLMClient] 调用补全接口失败, error: %v", err)
		return "", fmt.Errorf("failed to call completion api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Errorf("[LLMClient] 补全接口返回非 200 状态码: %s", resp.Status)
		return "", fmt.Errorf("completion api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	log.Infof("[LLMClient] 补全完成, model: %s, response_len: %d", c.cfg.Model, len(genResp.Response))
	return genResp.Response, nil
}
