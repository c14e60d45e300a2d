package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// 验证码时间窗口
const (
	// ValidityWindow 验证码有效期
	ValidityWindow = 5 * time.Minute

	// RateLimitWindow 重新发送的最小间隔
	RateLimitWindow = 5 * time.Minute
)

// Verification 密码重置验证码实体
// 设计说明：
// 1. 以邮箱为维度，一个邮箱可能存在多条历史记录
// 2. Used有两层含义：验证通过后标记为已使用，
//    重置密码前必须存在已使用的记录（证明验证过）
// 3. 密码重置成功后清除该邮箱的全部记录
type Verification struct {
	ID        uint
	Email     string
	Code      string // 6位数字验证码
	Used      bool
	CreatedAt time.Time
}

// NewVerification 创建新验证码记录
func NewVerification(email, code string) *Verification {
	return &Verification{
		Email:     email,
		Code:      code,
		Used:      false,
		CreatedAt: time.Now(),
	}
}

// IsExpired 验证码是否已过期（创建超过5分钟）
func (v *Verification) IsExpired(now time.Time) bool {
	return now.Sub(v.CreatedAt) > ValidityWindow
}

// InRateLimitWindow 是否仍在重发限制窗口内
func (v *Verification) InRateLimitWindow(now time.Time) bool {
	return !v.Used && now.Sub(v.CreatedAt) < RateLimitWindow
}

// MarkUsed 标记为已使用（验证通过）
func (v *Verification) MarkUsed() {
	v.Used = true
}

// GenerateCode 生成6位数字验证码
// 使用crypto/rand保证不可预测（验证码用于身份验证，math/rand不够安全）
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
