// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"rfp-ai-go/internal/service"

	"github.com/gin-gonic/gin"
)

// RfpHandler 处理与 RFP 相关的 API 请求。
type RfpHandler struct {
	service service.RfpService
}

// NewRfpHandler 创建一个新的 RfpHandler。
func NewRfpHandler(service service.RfpService) *RfpHandler {
	return &RfpHandler{service: service}
}

type createRfpRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateRfp 处理创建 RFP 的请求：自由文本经补全服务归一化后落库。
func (h *RfpHandler) CreateRfp(c *gin.Context) {
	var req createRfpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "text is required",
			"data":    nil,
		})
		return
	}

	rfp, err := h.service.CreateFromText(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, service.ErrAIFormat) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    http.StatusBadRequest,
				"message": "AI returned invalid JSON",
				"data":    nil,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to create RFP",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    rfp,
	})
}

// ListRfps 处理获取所有 RFP 的请求。
func (h *RfpHandler) ListRfps(c *gin.Context) {
	rfps, err := h.service.ListRfps(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to list RFPs",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    rfps,
	})
}
