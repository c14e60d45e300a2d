package otp

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 验证码领域错误定义
var (
	// ErrOtpInvalid 验证码错误或已过期
	ErrOtpInvalid = apperrors.New(apperrors.ErrCodeOtpInvalid, "验证码错误或已过期")

	// ErrOtpRateLimited 请求过于频繁
	ErrOtpRateLimited = apperrors.New(apperrors.ErrCodeOtpRateLimited, "验证码已发送，请5分钟后再试")

	// ErrOtpNotVerified 尚未通过验证码校验
	ErrOtpNotVerified = apperrors.New(apperrors.ErrCodeOtpNotVerified, "请先完成验证码校验")
)
