package book

import (
	"context"
)

// Repository 图书仓储接口（依赖倒置原则）
// 设计说明：
// 1. 由domain层定义接口，infrastructure层实现
// 2. 便于Mock测试，不依赖具体数据库实现
// 3. AdjustStockSold是防超卖的关键：条件UPDATE在数据库层保证库存下限
type Repository interface {
	// Create 创建图书（含作者/分类关联）
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书（预加载作者和分类）
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查找图书（订单创建、审核时使用）
	FindByIDs(ctx context.Context, ids []uint) ([]*Book, error)

	// Update 更新图书信息（含作者/分类关联重建）
	Update(ctx context.Context, book *Book) error

	// UpdateStock 直接设置库存（管理员操作）
	UpdateStock(ctx context.Context, id uint, stock int) error

	// AdjustStockSold 原子调整库存与销量（订单创建/回滚）
	// 执行：UPDATE books SET stock = stock + ?, sold = sold + ?
	//       WHERE id = ? AND stock + ? >= 0
	// 库存不足返回ErrInsufficientStock，不会产生负库存
	AdjustStockSold(ctx context.Context, id uint, stockDelta, soldDelta int) error

	// List 分页查询图书列表（按作者/分类/状态过滤）
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// BestSellers 销量榜（仅AVAILABLE，按sold倒序）
	BestSellers(ctx context.Context, limit int) ([]*Book, error)

	// NewArrivals 新书榜（仅AVAILABLE，按created_at倒序）
	NewArrivals(ctx context.Context, limit int) ([]*Book, error)

	// FindAuthorsByIDs 批量查找作者（发布/更新图书时校验）
	FindAuthorsByIDs(ctx context.Context, ids []uint) ([]Author, error)

	// FindCategoriesByIDs 批量查找分类
	FindCategoriesByIDs(ctx context.Context, ids []uint) ([]Category, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page       int    // 页码（从1开始）
	PageSize   int    // 每页数量
	AuthorID   uint   // 按作者过滤（0表示不过滤）
	CategoryID uint   // 按分类过滤（0表示不过滤）
	Status     Status // 按状态过滤（空表示不过滤）
}
