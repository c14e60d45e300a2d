package order

import (
	"context"
	"log"

	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/wallet"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// CancelOrderUseCase 取消订单用例
// 设计说明：
// 1. 取消请求总是被接受（无状态前置校验）
// 2. 钱包支付的订单在同一事务中全额退款
// 3. 库存/销量不回补（计数器只在下单时变动）
type CancelOrderUseCase struct {
	orderRepo  order.Repository
	walletRepo wallet.Repository
	txManager  TxManager
	publisher  EventPublisher
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	walletRepo wallet.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo:  orderRepo,
		walletRepo: walletRepo,
		txManager:  txManager,
		publisher:  publisher,
	}
}

// Execute 执行取消
// userID为发起人，只能取消本人的订单
func (uc *CancelOrderUseCase) Execute(ctx context.Context, orderID, userID uint) error {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !o.IsOwnedBy(userID) {
		return apperrors.ErrForbidden
	}

	o.Cancel()

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Update(txCtx, o); err != nil {
			return err
		}

		// 钱包支付的订单退回全额
		if o.IsWalletPaid() {
			return uc.walletRepo.Credit(txCtx, o.UserID, o.Total)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.IncCounter(metrics.OrdersCancelledTotal)

	if uc.publisher != nil {
		event := map[string]interface{}{
			"order_id": o.ID,
			"order_no": o.OrderNo,
			"user_id":  o.UserID,
			"total":    o.Total,
			"status":   string(o.Status),
		}
		if err := uc.publisher.Publish("order.cancelled", event); err != nil {
			log.Printf("[order] 事件发布失败: key=order.cancelled order=%s err=%v", o.OrderNo, err)
		}
	}

	return nil
}

// ConfirmReceivedUseCase 确认收货用例
// 用户确认即认为已送达，无状态前置校验
type ConfirmReceivedUseCase struct {
	orderRepo order.Repository
}

// NewConfirmReceivedUseCase 创建确认收货用例
func NewConfirmReceivedUseCase(orderRepo order.Repository) *ConfirmReceivedUseCase {
	return &ConfirmReceivedUseCase{orderRepo: orderRepo}
}

// Execute 执行确认收货
func (uc *ConfirmReceivedUseCase) Execute(ctx context.Context, orderID, userID uint) error {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !o.IsOwnedBy(userID) {
		return apperrors.ErrForbidden
	}

	o.ConfirmReceived()

	return uc.orderRepo.Update(ctx, o)
}
