package order

import (
	"time"
)

// Status 订单状态
// 设计说明：
// 1. 使用string类型持久化（数据库中可读，便于排查问题）
// 2. 状态流转：PENDING → CONFIRMED → SHIPPING → DELIVERED
//    PENDING/CONFIRMED/SHIPPING → CANCELLED
type Status string

const (
	StatusPending   Status = "PENDING"   // 待审核
	StatusConfirmed Status = "CONFIRMED" // 已审核
	StatusShipping  Status = "SHIPPING"  // 配送中
	StatusDelivered Status = "DELIVERED" // 已送达
	StatusCancelled Status = "CANCELLED" // 已取消
)

// ParseStatus 解析订单状态，非法值返回ErrInvalidStatus
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusShipping, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// IsTerminal 是否为终态
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentWallet PaymentMethod = "Wallet" // 钱包支付（下单时扣款）
	PaymentCOD    PaymentMethod = "COD"    // 货到付款
)

// ParsePaymentMethod 解析支付方式
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentWallet, PaymentCOD:
		return PaymentMethod(s), nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// Address 收货地址快照
// 下单时整体冗余到订单上，后续用户修改资料不影响历史订单
type Address struct {
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	Province      string `json:"province"`
	District      string `json:"district"`
	Ward          string `json:"ward"`
	AddressDetail string `json:"addressDetail"`
}

// Order 订单实体（聚合根）
// 设计说明：
// 1. Order是聚合根，OrderItem是子实体
// 2. Total价格冗余存储（下单时计算，防止后续改价影响历史订单）
// 3. 库存/销量仅在订单创建时变动，审核只做状态流转与库存复核
type Order struct {
	ID        uint
	OrderNo   string // 订单号（业务主键，全局唯一）
	UserID    uint
	Total     int64 // 订单总金额（分）
	Status    Status
	Payment   PaymentMethod
	Address   Address
	Items     []OrderItem // 订单明细（聚合内的子实体）
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem 订单明细项
// 设计说明：
// 1. 不是独立聚合根，必须通过Order访问
// 2. Price字段记录下单时的单价（历史价格快照）
// 3. 只保存BookID，不直接关联Book对象（避免跨聚合引用）
type OrderItem struct {
	ID       uint
	OrderID  uint
	BookID   uint
	Quantity int
	Price    int64 // 下单时的单价（分）
}

// NewOrder 创建新订单（工厂方法）
// 初始状态为PENDING（待管理员审核）
func NewOrder(orderNo string, userID uint, items []OrderItem, total int64, payment PaymentMethod, address Address) *Order {
	now := time.Now()
	return &Order{
		OrderNo:   orderNo,
		UserID:    userID,
		Total:     total,
		Status:    StatusPending,
		Payment:   payment,
		Address:   address,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Approve 审核通过（领域行为）
// 业务规则：只有PENDING状态的订单可以审核
func (o *Order) Approve() error {
	if o.Status != StatusPending {
		return ErrInvalidStatusTransition
	}
	o.setStatus(StatusConfirmed)
	return nil
}

// Assign 分配配送（领域行为）
// 业务规则：只有CONFIRMED状态的订单可以安排配送
func (o *Order) Assign() error {
	if o.Status != StatusConfirmed {
		return ErrInvalidStatusTransition
	}
	o.setStatus(StatusShipping)
	return nil
}

// ConfirmReceived 确认收货（领域行为）
// 无前置状态校验：用户确认即认为已送达
func (o *Order) ConfirmReceived() {
	o.setStatus(StatusDelivered)
}

// Cancel 取消订单（领域行为）
// 无前置状态校验：取消请求总是被接受（钱包退款由应用层处理）
func (o *Order) Cancel() {
	o.setStatus(StatusCancelled)
}

// IsWalletPaid 是否为钱包支付（取消时需退款）
func (o *Order) IsWalletPaid() bool {
	return o.Payment == PaymentWallet
}

// CalculateTotal 按明细计算订单总金额
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}

func (o *Order) setStatus(s Status) {
	o.Status = s
	o.UpdatedAt = time.Now()
}
