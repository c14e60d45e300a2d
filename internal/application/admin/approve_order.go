package admin

import (
	"context"
	"log"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// TxManager 事务管理器接口（消费方定义）
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher 订单事件发布接口
type EventPublisher interface {
	Publish(routingKey string, message interface{}) error
}

// ApproveOrderUseCase 订单审核用例
// 设计说明：
// 1. 只有PENDING状态的订单可以审核
// 2. 审核时复核每行库存是否仍然足够（管理员可能在下单后调低库存），
//    不足时报出书名与缺口
// 3. 计数器不在审核时变动：库存/销量已在下单时扣减，
//    审核只做状态流转。审核失败时任何数据都不变
type ApproveOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager TxManager
	publisher EventPublisher
}

// NewApproveOrderUseCase 创建订单审核用例
func NewApproveOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *ApproveOrderUseCase {
	return &ApproveOrderUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// Execute 执行审核
func (uc *ApproveOrderUseCase) Execute(ctx context.Context, orderID uint) error {
	var approved *order.Order

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}

		if err := o.Approve(); err != nil {
			return err
		}

		// 逐行复核库存
		for _, item := range o.Items {
			b, err := uc.bookRepo.FindByID(txCtx, item.BookID)
			if err != nil {
				return err
			}
			if b.Stock < item.Quantity {
				return apperrors.Newf(apperrors.ErrCodeInsufficientStock,
					"图书《%s》库存不足，还剩:%d，需要:%d", b.Title, b.Stock, item.Quantity)
			}
		}

		if err := uc.orderRepo.Update(txCtx, o); err != nil {
			return err
		}

		approved = o
		return nil
	})
	if err != nil {
		return err
	}

	metrics.IncCounter(metrics.OrdersApprovedTotal)

	if uc.publisher != nil {
		event := map[string]interface{}{
			"order_id": approved.ID,
			"order_no": approved.OrderNo,
			"user_id":  approved.UserID,
			"total":    approved.Total,
			"status":   string(approved.Status),
		}
		if err := uc.publisher.Publish("order.approved", event); err != nil {
			log.Printf("[admin] 事件发布失败: key=order.approved order=%s err=%v", approved.OrderNo, err)
		}
	}

	return nil
}

// AssignOrderUseCase 安排配送用例
// 只有CONFIRMED状态的订单可以安排配送
type AssignOrderUseCase struct {
	orderRepo order.Repository
}

// NewAssignOrderUseCase 创建安排配送用例
func NewAssignOrderUseCase(orderRepo order.Repository) *AssignOrderUseCase {
	return &AssignOrderUseCase{orderRepo: orderRepo}
}

// Execute 执行安排配送
func (uc *AssignOrderUseCase) Execute(ctx context.Context, orderID uint) error {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := o.Assign(); err != nil {
		return err
	}

	return uc.orderRepo.Update(ctx, o)
}
