package dto

// CreateOrderRequest HTTP下单请求
type CreateOrderRequest struct {
	Items   []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Payment string                   `json:"payment" binding:"required,oneof=Wallet COD" example:"Wallet"`
	Address AddressRequest           `json:"address" binding:"required"`
}

// CreateOrderItemRequest 订单明细项
// price为客户端下单时看到的单价(分)，随订单快照保存
type CreateOrderItemRequest struct {
	BookID   uint  `json:"book_id" binding:"required,min=1" example:"1"`
	Quantity int   `json:"quantity" binding:"required,min=1,max=999" example:"2"`
	Price    int64 `json:"price" binding:"required,min=1" example:"5900"`
}

// AddressRequest 收货地址
type AddressRequest struct {
	FullName      string `json:"fullName" binding:"required,max=100" example:"张三"`
	Phone         string `json:"phone" binding:"required,max=20" example:"0912345678"`
	Province      string `json:"province" binding:"required,max=100" example:"河内"`
	District      string `json:"district" binding:"required,max=100" example:"巴亭郡"`
	Ward          string `json:"ward" binding:"omitempty,max=100" example:"某坊"`
	AddressDetail string `json:"addressDetail" binding:"required,max=500" example:"某街道1号"`
}

// ListMyOrdersRequest HTTP我的订单列表请求（Query参数）
type ListMyOrdersRequest struct {
	Status string `form:"status" binding:"omitempty" example:"PENDING"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100" example:"20"`
}

// ListOrdersRequest HTTP管理员订单列表请求（Query参数）
type ListOrdersRequest struct {
	Status string `form:"status" binding:"omitempty" example:"PENDING"`
}
