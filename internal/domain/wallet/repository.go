package wallet

import (
	"context"
)

// Repository 钱包仓储接口（依赖倒置原则）
// 设计说明：
// 1. Debit/Credit是原子操作，通过条件UPDATE实现
// 2. 在订单事务内调用（通过context传递事务）
type Repository interface {
	// Create 创建钱包（随用户注册）
	Create(ctx context.Context, wallet *Wallet) error

	// FindByUserID 根据用户ID查找钱包
	// 如果不存在，返回ErrWalletNotFound
	FindByUserID(ctx context.Context, userID uint) (*Wallet, error)

	// Debit 扣款（原子操作）
	// 执行：UPDATE wallets SET balance = balance - ? WHERE user_id = ? AND balance >= ?
	// 余额不足返回ErrInsufficientBalance，不会产生负余额
	Debit(ctx context.Context, userID uint, amount int64) error

	// Credit 入账（原子操作，订单取消退款）
	Credit(ctx context.Context, userID uint, amount int64) error
}
