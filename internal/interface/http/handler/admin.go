package handler

import (
	"github.com/gin-gonic/gin"

	appadmin "github.com/xiebiao/bookshop/internal/application/admin"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/pkg/response"
)

// AdminHandler 管理员订单HTTP处理器
type AdminHandler struct {
	approveOrderUseCase *appadmin.ApproveOrderUseCase
	assignOrderUseCase  *appadmin.AssignOrderUseCase
	listOrdersUseCase   *appadmin.ListOrdersUseCase
	orderDetailUseCase  *appadmin.OrderDetailUseCase
}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler(
	approveOrderUseCase *appadmin.ApproveOrderUseCase,
	assignOrderUseCase *appadmin.AssignOrderUseCase,
	listOrdersUseCase *appadmin.ListOrdersUseCase,
	orderDetailUseCase *appadmin.OrderDetailUseCase,
) *AdminHandler {
	return &AdminHandler{
		approveOrderUseCase: approveOrderUseCase,
		assignOrderUseCase:  assignOrderUseCase,
		listOrdersUseCase:   listOrdersUseCase,
		orderDetailUseCase:  orderDetailUseCase,
	}
}

// ApproveOrder 审核通过订单
// @Summary      审核通过订单
// @Description  管理员确认PENDING订单。逐行复核库存是否足以发货，但不改动库存计数
// @Tags         管理模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "审核成功"
// @Failure      400 {object} response.Response "订单状态不允许/库存不足"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /admin/orders/{id}/approve [post]
func (h *AdminHandler) ApproveOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.approveOrderUseCase.Execute(c.Request.Context(), orderID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "订单已确认"})
}

// AssignOrder 安排发货
// @Summary      安排发货
// @Description  管理员将CONFIRMED订单转入SHIPPING状态
// @Tags         管理模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "发货成功"
// @Failure      400 {object} response.Response "订单状态不允许"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /admin/orders/{id}/assign [post]
func (h *AdminHandler) AssignOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.assignOrderUseCase.Execute(c.Request.Context(), orderID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "订单已发货"})
}

// ListOrders 订单列表（全量）
// @Summary      订单列表
// @Description  管理员查询全部订单，按创建时间倒序，支持状态过滤，附带买家和图书摘要
// @Tags         管理模块
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "状态过滤"
// @Success      200 {object} response.Response "查询成功"
// @Failure      403 {object} response.Response "无权限"
// @Router       /admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.listOrdersUseCase.Execute(c.Request.Context(), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// OrderDetail 订单详情
// @Summary      订单详情
// @Description  管理员查询单个订单的完整信息
// @Tags         管理模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "查询成功"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /admin/orders/{id} [get]
func (h *AdminHandler) OrderDetail(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.orderDetailUseCase.Execute(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
