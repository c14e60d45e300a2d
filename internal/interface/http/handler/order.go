package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// OrderHandler 订单HTTP处理器（买家侧）
type OrderHandler struct {
	createOrderUseCase     *apporder.CreateOrderUseCase
	cancelOrderUseCase     *apporder.CancelOrderUseCase
	confirmReceivedUseCase *apporder.ConfirmReceivedUseCase
	listMyOrdersUseCase    *apporder.ListMyOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrderUseCase *apporder.CreateOrderUseCase,
	cancelOrderUseCase *apporder.CancelOrderUseCase,
	confirmReceivedUseCase *apporder.ConfirmReceivedUseCase,
	listMyOrdersUseCase *apporder.ListMyOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUseCase:     createOrderUseCase,
		cancelOrderUseCase:     cancelOrderUseCase,
		confirmReceivedUseCase: confirmReceivedUseCase,
		listMyOrdersUseCase:    listMyOrdersUseCase,
	}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  用户下单购买图书（需要登录）。库存扣减和钱包扣款在同一事务内以条件UPDATE完成，防止超卖和负余额
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "订单信息"
// @Success      200 {object} response.Response "下单成功"
// @Failure      400 {object} response.Response "参数错误/库存不足/余额不足"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	result, err := h.createOrderUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		UserID:  userID,
		Items:   items,
		Payment: req.Payment,
		Address: order.Address{
			FullName:      req.Address.FullName,
			Phone:         req.Address.Phone,
			Province:      req.Address.Province,
			District:      req.Address.District,
			Ward:          req.Address.Ward,
			AddressDetail: req.Address.AddressDetail,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelOrder 取消订单
// @Summary      取消订单
// @Description  取消本人订单；钱包支付的订单全额退款。已扣库存不回补
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "取消成功"
// @Failure      403 {object} response.Response "非本人订单"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.cancelOrderUseCase.Execute(c.Request.Context(), orderID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "订单已取消"})
}

// ConfirmReceived 确认收货
// @Summary      确认收货
// @Description  买家确认收到商品，订单进入DELIVERED状态
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response "确认成功"
// @Failure      403 {object} response.Response "非本人订单"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id}/received [post]
func (h *OrderHandler) ConfirmReceived(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.confirmReceivedUseCase.Execute(c.Request.Context(), orderID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "已确认收货"})
}

// ListMyOrders 我的订单列表
// @Summary      我的订单列表
// @Description  查询当前用户的订单，按创建时间倒序，支持状态过滤
// @Tags         订单模块
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "状态过滤"
// @Param        limit query int false "返回数量"
// @Success      200 {object} response.Response "查询成功"
// @Failure      401 {object} response.Response "未登录"
// @Router       /orders [get]
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	var req dto.ListMyOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.listMyOrdersUseCase.Execute(c.Request.Context(), apporder.ListMyOrdersRequest{
		UserID: userID,
		Status: req.Status,
		Limit:  req.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
