package otp

import (
	"context"
)

// Repository 验证码仓储接口
type Repository interface {
	// Create 保存验证码记录
	Create(ctx context.Context, verification *Verification) error

	// FindLatestByEmail 查找邮箱最近一条验证码记录
	// 不存在时返回(nil, nil)，便于调用方区分"无记录"与查询错误
	FindLatestByEmail(ctx context.Context, email string) (*Verification, error)

	// FindByEmailAndCode 按邮箱+验证码查找未使用的记录
	// 不存在时返回(nil, nil)
	FindByEmailAndCode(ctx context.Context, email, code string) (*Verification, error)

	// FindUsedByEmail 查找邮箱最近一条已使用的记录（重置密码前的验证凭据）
	// 不存在时返回(nil, nil)
	FindUsedByEmail(ctx context.Context, email string) (*Verification, error)

	// Update 更新记录（标记为已使用）
	Update(ctx context.Context, verification *Verification) error

	// DeleteByEmail 删除邮箱的全部验证码记录（重置成功后清理）
	DeleteByEmail(ctx context.Context, email string) error
}
