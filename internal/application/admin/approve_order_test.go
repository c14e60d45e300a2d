package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func seedOrder(t *testing.T, repo *fakeOrderRepo, status order.Status, items ...order.OrderItem) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []order.OrderItem{{BookID: 1, Quantity: 2, Price: 5900}}
	}
	o := order.NewOrder(order.GenerateOrderNo(), 1, items, 11800, order.PaymentWallet, order.Address{FullName: "张三"})
	o.Status = status
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func seedBook(id uint, title string, stock, sold int) *book.Book {
	return &book.Book{ID: id, Title: title, Price: 5900, Stock: stock, Sold: sold, Status: book.StatusAvailable}
}

func TestApproveOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("审核通过", func(t *testing.T) {
		orderRepo := newFakeOrderRepo()
		bookRepo := newFakeBookRepo(seedBook(1, "Go语言实战", 5, 2))
		publisher := &fakePublisher{}
		o := seedOrder(t, orderRepo, order.StatusPending)
		uc := NewApproveOrderUseCase(orderRepo, bookRepo, fakeTxManager{}, publisher)

		err := uc.Execute(ctx, o.ID)
		require.NoError(t, err)

		got, _ := orderRepo.FindByID(ctx, o.ID)
		assert.Equal(t, order.StatusConfirmed, got.Status)

		// 审核只复核库存，不改动计数器（计数器仅在下单时变动）
		b, _ := bookRepo.FindByID(ctx, 1)
		assert.Equal(t, 5, b.Stock)
		assert.Equal(t, 2, b.Sold)

		assert.Equal(t, []string{"order.approved"}, publisher.keys)
	})

	t.Run("库存不足拒绝审核", func(t *testing.T) {
		orderRepo := newFakeOrderRepo()
		bookRepo := newFakeBookRepo(seedBook(1, "Go语言实战", 1, 0))
		o := seedOrder(t, orderRepo, order.StatusPending)
		uc := NewApproveOrderUseCase(orderRepo, bookRepo, fakeTxManager{}, nil)

		err := uc.Execute(ctx, o.ID)
		require.Error(t, err)

		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodeInsufficientStock, appErr.Code)
		assert.Contains(t, appErr.Message, "Go语言实战")
		assert.Contains(t, appErr.Message, "还剩:1")
		assert.Contains(t, appErr.Message, "需要:2")
	})

	t.Run("非PENDING订单不可审核", func(t *testing.T) {
		for _, s := range []order.Status{order.StatusConfirmed, order.StatusShipping, order.StatusDelivered, order.StatusCancelled} {
			orderRepo := newFakeOrderRepo()
			bookRepo := newFakeBookRepo(seedBook(1, "Go语言实战", 10, 0))
			o := seedOrder(t, orderRepo, s)
			uc := NewApproveOrderUseCase(orderRepo, bookRepo, fakeTxManager{}, nil)

			err := uc.Execute(ctx, o.ID)
			assert.ErrorIs(t, err, order.ErrInvalidStatusTransition, "状态%s不应允许审核", s)
		}
	})

	t.Run("订单不存在", func(t *testing.T) {
		uc := NewApproveOrderUseCase(newFakeOrderRepo(), newFakeBookRepo(), fakeTxManager{}, nil)
		err := uc.Execute(ctx, 99)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestAssignOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("CONFIRMED订单安排配送", func(t *testing.T) {
		orderRepo := newFakeOrderRepo()
		o := seedOrder(t, orderRepo, order.StatusConfirmed)
		uc := NewAssignOrderUseCase(orderRepo)

		err := uc.Execute(ctx, o.ID)
		require.NoError(t, err)

		got, _ := orderRepo.FindByID(ctx, o.ID)
		assert.Equal(t, order.StatusShipping, got.Status)
	})

	t.Run("PENDING订单不可配送", func(t *testing.T) {
		orderRepo := newFakeOrderRepo()
		o := seedOrder(t, orderRepo, order.StatusPending)
		uc := NewAssignOrderUseCase(orderRepo)

		err := uc.Execute(ctx, o.ID)
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("附带买家和图书信息", func(t *testing.T) {
		orderRepo := newFakeOrderRepo()
		bookRepo := newFakeBookRepo(seedBook(1, "Go语言实战", 10, 0))
		buyer := user.NewUser("buyer@example.com", "hashed", "张三")
		buyer.ID = 1
		userRepo := newFakeUserRepo(buyer)
		seedOrder(t, orderRepo, order.StatusPending)
		uc := NewListOrdersUseCase(orderRepo, userRepo, bookRepo)

		views, err := uc.Execute(ctx, "")
		require.NoError(t, err)
		require.Len(t, views, 1)

		assert.Equal(t, "buyer@example.com", views[0].Buyer.Email)
		require.Len(t, views[0].Items, 1)
		assert.Equal(t, "Go语言实战", views[0].Items[0].Title)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		orderRepo := newFakeOrderRepo()
		bookRepo := newFakeBookRepo(seedBook(1, "Go语言实战", 10, 0))
		userRepo := newFakeUserRepo()
		seedOrder(t, orderRepo, order.StatusPending)
		seedOrder(t, orderRepo, order.StatusCancelled)
		uc := NewListOrdersUseCase(orderRepo, userRepo, bookRepo)

		views, err := uc.Execute(ctx, "CANCELLED")
		require.NoError(t, err)
		assert.Len(t, views, 1)
	})

	t.Run("状态值不合法", func(t *testing.T) {
		uc := NewListOrdersUseCase(newFakeOrderRepo(), newFakeUserRepo(), newFakeBookRepo())
		_, err := uc.Execute(ctx, "UNKNOWN")
		assert.ErrorIs(t, err, order.ErrInvalidStatus)
	})
}

func TestOrderDetail(t *testing.T) {
	ctx := context.Background()

	orderRepo := newFakeOrderRepo()
	bookRepo := newFakeBookRepo(seedBook(1, "Go语言实战", 10, 0))
	userRepo := newFakeUserRepo()
	o := seedOrder(t, orderRepo, order.StatusPending)
	uc := NewOrderDetailUseCase(orderRepo, userRepo, bookRepo)

	view, err := uc.Execute(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNo, view.OrderNo)

	_, err = uc.Execute(ctx, 99)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}
