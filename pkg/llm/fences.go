package llm

import "strings"

// StripFences 去掉模型响应里残留的 markdown 代码围栏。
// 提示词已经要求裸 JSON，但模型可能不遵守，这里做防御性清理。
// 对本来就没有围栏的输入，该操作是幂等的 no-op。
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
