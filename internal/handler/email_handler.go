package handler

import (
	"errors"
	"net/http"
	"rfp-ai-go/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EmailHandler 处理 RFP 群发与收件批处理相关的 API 请求。
type EmailHandler struct {
	service service.EmailService
}

// NewEmailHandler 创建一个新的 EmailHandler。
func NewEmailHandler(service service.EmailService) *EmailHandler {
	return &EmailHandler{service: service}
}

type sendRfpRequest struct {
	VendorIDs []uint `json:"vendorIds" binding:"required"`
}

// SendRfp 处理把 RFP 发送给选中供应商的请求。
func (h *EmailHandler) SendRfp(c *gin.Context) {
	rfpID := c.Param("rfpId")

	var req sendRfpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "vendorIds is required",
			"data":    nil,
		})
		return
	}

	summary, err := h.service.SendRfp(c.Request.Context(), rfpID, req.VendorIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    http.StatusNotFound,
				"message": "RFP not found",
				"data":    nil,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to send RFP emails",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": summary.Message,
		"data":    summary,
	})
}

// ReadInbox 触发一次收件批处理，返回固定确认消息和批次报告。
func (h *EmailHandler) ReadInbox(c *gin.Context) {
	report, err := h.service.HarvestInbox(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to read inbox",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Inbox scanned and proposals parsed",
		"data":    report,
	})
}
