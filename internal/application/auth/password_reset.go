package auth

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/otp"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/mail"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// PasswordResetUseCase 密码重置用例（三步流程）
// 1. RequestReset: 发送6位验证码邮件（5分钟内不重发）
// 2. VerifyOtp: 校验验证码并标记已使用
// 3. ResetPassword: 凭已使用的验证码记录重置密码，清除该邮箱全部验证码
type PasswordResetUseCase struct {
	userRepo    user.Repository
	userService user.Service
	otpRepo     otp.Repository
	mailer      mail.Sender
	txManager   TxManager
}

// NewPasswordResetUseCase 创建密码重置用例
func NewPasswordResetUseCase(
	userRepo user.Repository,
	userService user.Service,
	otpRepo otp.Repository,
	mailer mail.Sender,
	txManager TxManager,
) *PasswordResetUseCase {
	return &PasswordResetUseCase{
		userRepo:    userRepo,
		userService: userService,
		otpRepo:     otpRepo,
		mailer:      mailer,
		txManager:   txManager,
	}
}

// RequestReset 请求发送验证码
// 业务规则：
// 1. 邮箱必须是已注册的本地账号（联合登录账号无密码可重置）
// 2. 5分钟内存在未使用的验证码时拒绝重发
// 3. 邮件发送是fire-and-forget：失败只记录日志，不回滚验证码
func (uc *PasswordResetUseCase) RequestReset(ctx context.Context, email string) error {
	u, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		metrics.IncCounterVec(metrics.OtpRequestsTotal, map[string]string{"result": "rejected"})
		return err
	}

	if u.IsFederated() {
		metrics.IncCounterVec(metrics.OtpRequestsTotal, map[string]string{"result": "rejected"})
		return apperrors.New(apperrors.ErrCodeInvalidParams, "该账号不支持密码重置")
	}

	latest, err := uc.otpRepo.FindLatestByEmail(ctx, email)
	if err != nil {
		return err
	}
	if latest != nil && latest.InRateLimitWindow(time.Now()) {
		metrics.IncCounterVec(metrics.OtpRequestsTotal, map[string]string{"result": "rate_limited"})
		return otp.ErrOtpRateLimited
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return apperrors.Wrap(err, "生成验证码失败")
	}

	if err := uc.otpRepo.Create(ctx, otp.NewVerification(email, code)); err != nil {
		return err
	}

	metrics.IncCounterVec(metrics.OtpRequestsTotal, map[string]string{"result": "issued"})

	// 异步发送，不阻塞请求，失败只记录日志
	go func() {
		if err := uc.mailer.SendOtpEmail(email, code); err != nil {
			log.Printf("[auth] OTP邮件发送失败: email=%s err=%v", email, err)
		}
	}()

	return nil
}

// VerifyOtp 校验验证码
// 验证码必须未使用且创建时间在5分钟内，校验通过后标记为已使用
func (uc *PasswordResetUseCase) VerifyOtp(ctx context.Context, email, code string) error {
	v, err := uc.otpRepo.FindByEmailAndCode(ctx, email, code)
	if err != nil {
		return err
	}

	if v == nil || v.IsExpired(time.Now()) {
		return otp.ErrOtpInvalid
	}

	v.MarkUsed()
	return uc.otpRepo.Update(ctx, v)
}

// ResetPassword 重置密码
// 前置条件：该邮箱存在已使用的验证码记录（即VerifyOtp已通过）
// 重置成功后清除该邮箱的全部验证码记录
func (uc *PasswordResetUseCase) ResetPassword(ctx context.Context, email, newPassword string) error {
	u, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	verified, err := uc.otpRepo.FindUsedByEmail(ctx, email)
	if err != nil {
		return err
	}
	if verified == nil {
		return otp.ErrOtpNotVerified
	}

	if err := uc.userService.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hashed, err := uc.userService.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		u.ChangePassword(hashed)
		if err := uc.userRepo.Update(txCtx, u); err != nil {
			return err
		}
		return uc.otpRepo.DeleteByEmail(txCtx, email)
	})
}

// ChangePasswordUseCase 修改密码用例（已登录用户）
type ChangePasswordUseCase struct {
	userRepo    user.Repository
	userService user.Service
}

// NewChangePasswordUseCase 创建修改密码用例
func NewChangePasswordUseCase(userRepo user.Repository, userService user.Service) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{
		userRepo:    userRepo,
		userService: userService,
	}
}

// Execute 执行修改密码
// 业务规则：必须先验证当前密码（联合登录账号无密码，直接拒绝）
func (uc *ChangePasswordUseCase) Execute(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if u.IsFederated() {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "该账号不支持密码修改")
	}

	if err := uc.userService.ValidatePassword(u.Password, currentPassword); err != nil {
		return err
	}

	if err := uc.userService.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hashed, err := uc.userService.HashPassword(newPassword)
	if err != nil {
		return err
	}

	u.ChangePassword(hashed)
	return uc.userRepo.Update(ctx, u)
}
