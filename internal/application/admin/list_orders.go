package admin

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
)

// ListOrdersUseCase 管理端订单列表用例
// 订单附带买家信息与明细图书摘要
type ListOrdersUseCase struct {
	orderRepo order.Repository
	userRepo  user.Repository
	bookRepo  book.Repository
}

// NewListOrdersUseCase 创建管理端订单列表用例
func NewListOrdersUseCase(orderRepo order.Repository, userRepo user.Repository, bookRepo book.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		bookRepo:  bookRepo,
	}
}

// AdminOrderView 管理端订单视图
type AdminOrderView struct {
	ID        uint                 `json:"id"`
	OrderNo   string               `json:"order_no"`
	Total     int64                `json:"total"`
	Status    string               `json:"status"`
	Payment   string               `json:"payment"`
	Address   order.Address        `json:"address"`
	Buyer     BuyerInfo            `json:"buyer"`
	Items     []AdminOrderItemView `json:"items"`
	CreatedAt string               `json:"created_at"`
}

// BuyerInfo 买家信息
type BuyerInfo struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AdminOrderItemView 管理端订单明细视图
type AdminOrderItemView struct {
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// Execute 查询订单列表
// status为空表示不过滤；非法状态值直接拒绝
func (uc *ListOrdersUseCase) Execute(ctx context.Context, statusFilter string) ([]AdminOrderView, error) {
	var status order.Status
	if statusFilter != "" {
		parsed, err := order.ParseStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	orders, err := uc.orderRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	views := make([]AdminOrderView, len(orders))
	for i, o := range orders {
		view, err := uc.buildView(ctx, o)
		if err != nil {
			return nil, err
		}
		views[i] = *view
	}
	return views, nil
}

// OrderDetailUseCase 管理端订单详情用例
type OrderDetailUseCase struct {
	listUseCase *ListOrdersUseCase
	orderRepo   order.Repository
}

// NewOrderDetailUseCase 创建订单详情用例
func NewOrderDetailUseCase(orderRepo order.Repository, userRepo user.Repository, bookRepo book.Repository) *OrderDetailUseCase {
	return &OrderDetailUseCase{
		listUseCase: NewListOrdersUseCase(orderRepo, userRepo, bookRepo),
		orderRepo:   orderRepo,
	}
}

// Execute 查询订单详情
func (uc *OrderDetailUseCase) Execute(ctx context.Context, orderID uint) (*AdminOrderView, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return uc.listUseCase.buildView(ctx, o)
}

// buildView 组装单个订单视图
func (uc *ListOrdersUseCase) buildView(ctx context.Context, o *order.Order) (*AdminOrderView, error) {
	buyer := BuyerInfo{ID: o.UserID}
	if u, err := uc.userRepo.FindByID(ctx, o.UserID); err == nil {
		buyer.Email = u.Email
		buyer.Name = u.Name
	}

	bookIDs := make([]uint, len(o.Items))
	for i, item := range o.Items {
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

	items := make([]AdminOrderItemView, len(o.Items))
	for i, item := range o.Items {
		view := AdminOrderItemView{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
		if b, ok := bookMap[item.BookID]; ok {
			view.Title = b.Title
			view.Image = b.Image
		}
		items[i] = view
	}

	return &AdminOrderView{
		ID:        o.ID,
		OrderNo:   o.OrderNo,
		Total:     o.Total,
		Status:    string(o.Status),
		Payment:   string(o.Payment),
		Address:   o.Address,
		Buyer:     buyer,
		Items:     items,
		CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
