package handler

import (
	"errors"
	"net/http"
	"rfp-ai-go/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProposalHandler 处理与提案相关的 API 请求。
type ProposalHandler struct {
	service       service.ProposalService
	searchService service.SearchService
}

// NewProposalHandler 创建一个新的 ProposalHandler。
func NewProposalHandler(service service.ProposalService, searchService service.SearchService) *ProposalHandler {
	return &ProposalHandler{
		service:       service,
		searchService: searchService,
	}
}

// ListProposals 处理获取所有提案的请求。
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	proposals, err := h.service.ListProposals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to list proposals",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    proposals,
	})
}

// ListByRfp 处理获取某个 RFP 下所有提案的请求。
func (h *ProposalHandler) ListByRfp(c *gin.Context) {
	proposals, err := h.service.ListByRfp(c.Request.Context(), c.Param("rfpId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to list proposals",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    proposals,
	})
}

type compareRequest struct {
	RfpID string `json:"rfpId" binding:"required"`
}

// Compare 处理比较推荐的请求。
// 推荐引擎对模型输出永不硬失败：要么正常推荐，要么降级结果。
func (h *ProposalHandler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "rfpId is required",
			"data":    nil,
		})
		return
	}

	rec, err := h.service.Compare(c.Request.Context(), req.RfpID)
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
			"message": "Failed to compare proposals",
			"data":    nil,
		})
		return
	}

	// 零提案不是错误：返回空推荐和解释性消息
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{
			"code":    http.StatusOK,
			"message": "No proposals found",
			"data":    gin.H{"recommendation": nil},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    rec,
	})
}

// SearchProposals 处理提案全文检索的请求。
func (h *ProposalHandler) SearchProposals(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "query parameter q is required",
			"data":    nil,
		})
		return
	}

	topK, err := strconv.Atoi(c.DefaultQuery("topK", "10"))
	if err != nil || topK <= 0 {
		topK = 10
	}

	docs, err := h.searchService.SearchProposals(c.Request.Context(), query, topK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to search proposals",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    docs,
	})
}
