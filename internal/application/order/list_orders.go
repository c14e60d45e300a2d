package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
)

// ListMyOrdersUseCase 我的订单列表用例
// 明细行附带图书摘要（批量查询，避免N+1）
type ListMyOrdersUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
}

// NewListMyOrdersUseCase 创建我的订单列表用例
func NewListMyOrdersUseCase(orderRepo order.Repository, bookRepo book.Repository) *ListMyOrdersUseCase {
	return &ListMyOrdersUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
	}
}

// ListMyOrdersRequest 请求DTO
type ListMyOrdersRequest struct {
	UserID uint
	Status string // 可选状态过滤，空表示不过滤
	Limit  int    // 可选条数限制，0表示不限制
}

// OrderView 订单视图
type OrderView struct {
	ID        uint            `json:"id"`
	OrderNo   string          `json:"order_no"`
	Total     int64           `json:"total"`
	Status    string          `json:"status"`
	Payment   string          `json:"payment"`
	Address   order.Address   `json:"address"`
	Items     []OrderItemView `json:"items"`
	CreatedAt string          `json:"created_at"`
}

// OrderItemView 订单明细视图（附图书摘要）
type OrderItemView struct {
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// Execute 执行查询
func (uc *ListMyOrdersUseCase) Execute(ctx context.Context, req ListMyOrdersRequest) ([]OrderView, error) {
	var status order.Status
	if req.Status != "" {
		parsed, err := order.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	orders, err := uc.orderRepo.ListByUserID(ctx, req.UserID, status, req.Limit)
	if err != nil {
		return nil, err
	}

	return buildOrderViews(ctx, uc.bookRepo, orders)
}

// buildOrderViews 组装订单视图（批量查询图书摘要）
func buildOrderViews(ctx context.Context, bookRepo book.Repository, orders []*order.Order) ([]OrderView, error) {
	idSet := make(map[uint]struct{})
	for _, o := range orders {
		for _, item := range o.Items {
			idSet[item.BookID] = struct{}{}
		}
	}
	bookIDs := make([]uint, 0, len(idSet))
	for id := range idSet {
		bookIDs = append(bookIDs, id)
	}

	books, err := bookRepo.FindByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	bookMap := make(map[uint]*book.Book, len(books))
	for _, b := range books {
		bookMap[b.ID] = b
	}

	views := make([]OrderView, len(orders))
	for i, o := range orders {
		items := make([]OrderItemView, len(o.Items))
		for j, item := range o.Items {
			view := OrderItemView{
				BookID:   item.BookID,
				Quantity: item.Quantity,
				Price:    item.Price,
			}
			if b, ok := bookMap[item.BookID]; ok {
				view.Title = b.Title
				view.Image = b.Image
			}
			items[j] = view
		}
		views[i] = OrderView{
			ID:        o.ID,
			OrderNo:   o.OrderNo,
			Total:     o.Total,
			Status:    string(o.Status),
			Payment:   string(o.Payment),
			Address:   o.Address,
			Items:     items,
			CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	return views, nil
}
