package order

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/wallet"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// TxManager 事务管理器接口（消费方定义）
// 由mysql.TxManager实现，测试时可用假实现替代
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 订单事件发布接口
// 由mq.Publisher实现；发布失败不影响业务结果（best-effort）
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// CreateOrderUseCase 创建订单用例
// 这是整个项目最核心的用例：事务处理、防超卖、钱包扣款
type CreateOrderUseCase struct {
	orderRepo  order.Repository
	bookRepo   book.Repository
	walletRepo wallet.Repository
	txManager  TxManager
	publisher  EventPublisher
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	walletRepo wallet.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:  orderRepo,
		bookRepo:   bookRepo,
		walletRepo: walletRepo,
		txManager:  txManager,
		publisher:  publisher,
	}
}

// CreateOrderRequest 下单请求DTO
type CreateOrderRequest struct {
	UserID  uint // 买家用户ID（从JWT中提取）
	Items   []CreateOrderItem
	Payment string // Wallet | COD
	Address order.Address
}

// CreateOrderItem 订单明细项
// Price为下单时刻客户端看到的单价（快照随订单保存）
type CreateOrderItem struct {
	BookID   uint
	Quantity int
	Price    int64
}

// CreateOrderResponse 下单响应DTO
type CreateOrderResponse struct {
	OrderID   uint   `json:"order_id"`
	OrderNo   string `json:"order_no"`
	Total     int64  `json:"total"`
	Status    string `json:"status"`
	Payment   string `json:"payment"`
	CreatedAt string `json:"created_at"`
}

// Execute 执行下单
//
// 防超卖与防负余额的关键：库存扣减和钱包扣款都是条件UPDATE，
// 在数据库层保证下限，"读取-判断-写入"的竞态在这里被关闭。
// 预读钱包/库存只为给出友好错误信息，最终以条件UPDATE为准。
//
// 事务内的完整流程：
// 1. 创建订单（PENDING）+ 明细
// 2. 钱包支付：条件扣款（balance >= total）
// 3. 逐行扣库存、加销量（stock + delta >= 0）
// 任何一步失败，整个事务回滚。
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	started := time.Now()

	if len(req.Items) == 0 {
		return nil, order.ErrInvalidOrderItems
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
	}

	payment, err := order.ParsePaymentMethod(req.Payment)
	if err != nil {
		return nil, err
	}

	// 预读图书：校验存在性，留存书名用于错误提示
	bookIDs := make([]uint, len(req.Items))
	for i, item := range req.Items {
		bookIDs[i] = item.BookID
	}
	books, err := uc.bookRepo.FindByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	bookMap := make(map[uint]*book.Book, len(books))
	for _, b := range books {
		bookMap[b.ID] = b
	}
	for _, item := range req.Items {
		if _, ok := bookMap[item.BookID]; !ok {
			return nil, book.ErrBookNotFound
		}
	}

	// 金额按下单时的行价计算
	var total int64
	orderItems := make([]order.OrderItem, len(req.Items))
	for i, item := range req.Items {
		orderItems[i] = order.OrderItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
		total += item.Price * int64(item.Quantity)
	}

	// 钱包支付先做余额预检（友好提示，最终以事务内条件扣款为准）
	if payment == order.PaymentWallet {
		w, err := uc.walletRepo.FindByUserID(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if !w.CanAfford(total) {
			metrics.IncCounter(metrics.OrdersFailedTotal)
			return nil, wallet.ErrInsufficientBalance
		}
	}

	newOrder := order.NewOrder(order.GenerateOrderNo(), req.UserID, orderItems, total, payment, req.Address)

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		if payment == order.PaymentWallet {
			if err := uc.walletRepo.Debit(txCtx, req.UserID, total); err != nil {
				return err
			}
		}

		for _, item := range req.Items {
			err := uc.bookRepo.AdjustStockSold(txCtx, item.BookID, -item.Quantity, item.Quantity)
			if err != nil {
				if appErr := apperrors.GetAppError(err); appErr.Code == apperrors.ErrCodeInsufficientStock {
					// 读取事务内的最新库存，生成带书名的提示
					b, findErr := uc.bookRepo.FindByID(txCtx, item.BookID)
					if findErr == nil {
						return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
							"图书《%s》库存不足，还剩:%d，需要:%d", b.Title, b.Stock, item.Quantity)
					}
				}
				return err
			}
		}

		return nil
	})
	if err != nil {
		metrics.IncCounter(metrics.OrdersFailedTotal)
		return nil, err
	}

	metrics.IncCounter(metrics.OrdersCreatedTotal)
	metrics.ObserveHistogram(metrics.OrderCreationDuration, time.Since(started).Seconds())

	uc.publishEvent("order.created", newOrder)

	return &CreateOrderResponse{
		OrderID:   newOrder.ID,
		OrderNo:   newOrder.OrderNo,
		Total:     newOrder.Total,
		Status:    string(newOrder.Status),
		Payment:   string(newOrder.Payment),
		CreatedAt: newOrder.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// publishEvent 发布订单事件（best-effort，失败只记录日志）
func (uc *CreateOrderUseCase) publishEvent(routingKey string, o *order.Order) {
	if uc.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"order_id": o.ID,
		"order_no": o.OrderNo,
		"user_id":  o.UserID,
		"total":    o.Total,
		"status":   string(o.Status),
	}
	if err := uc.publisher.Publish(routingKey, event); err != nil {
		log.Printf("[order] 事件发布失败: key=%s order=%s err=%v", routingKey, o.OrderNo, err)
	}
}
