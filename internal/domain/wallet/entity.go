package wallet

import (
	"time"
)

// Wallet 钱包实体
// 设计说明：
// 1. 与User一对一，注册时同步创建，初始余额为0
// 2. 余额使用int64存储"分"为单位（避免浮点数精度问题）
// 3. 扣款/退款的原子性由Repository的条件UPDATE保证，
//    实体上的方法仅用于预检和测试
type Wallet struct {
	ID        uint
	UserID    uint
	Balance   int64 // 余额（单位：分）
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWallet 创建新钱包（随用户注册创建，余额为0）
func NewWallet(userID uint) *Wallet {
	now := time.Now()
	return &Wallet{
		UserID:    userID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanAfford 余额是否足以支付指定金额（预检用，最终以条件UPDATE为准）
func (w *Wallet) CanAfford(amount int64) bool {
	return w.Balance >= amount
}
