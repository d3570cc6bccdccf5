package handler

import (
	"net/http"
	"rfp-ai-go/internal/service"

	"github.com/gin-gonic/gin"
)

// VendorHandler 处理与供应商目录相关的 API 请求。
type VendorHandler struct {
	service service.VendorService
}

// NewVendorHandler 创建一个新的 VendorHandler。
func NewVendorHandler(service service.VendorService) *VendorHandler {
	return &VendorHandler{service: service}
}

type addVendorRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company" binding:"required"`
}

// AddVendor 处理新增供应商的请求。
func (h *VendorHandler) AddVendor(c *gin.Context) {
	var req addVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "name, a valid email and company are required",
			"data":    nil,
		})
		return
	}

	vendor, err := h.service.AddVendor(c.Request.Context(), req.Name, req.Email, req.Company)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to add vendor",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    vendor,
	})
}

// ListVendors 处理获取所有供应商的请求。
func (h *VendorHandler) ListVendors(c *gin.Context) {
	vendors, err := h.service.ListVendors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Failed to list vendors",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    vendors,
	})
}
