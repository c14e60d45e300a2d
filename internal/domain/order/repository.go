package order

import (
	"context"
)

// Repository 订单仓储接口（依赖倒置原则）
// 设计说明：
// 1. 由domain层定义接口，infrastructure层实现
// 2. 支持事务操作（通过context传递事务）
type Repository interface {
	// Create 创建订单（订单和明细在同一事务中创建）
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单（包含订单明细）
	// 如果不存在，返回ErrOrderNotFound
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// Update 更新订单（主要用于状态更新）
	Update(ctx context.Context, order *Order) error

	// ListByUserID 查询用户的订单列表（按创建时间倒序）
	// status为空表示不过滤，limit为0表示不限制条数
	ListByUserID(ctx context.Context, userID uint, status Status, limit int) ([]*Order, error)

	// List 管理端订单列表（按创建时间倒序，status为空表示不过滤）
	List(ctx context.Context, status Status) ([]*Order, error)
}
