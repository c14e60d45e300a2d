package wallet

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 钱包领域错误定义
var (
	// ErrWalletNotFound 钱包不存在
	ErrWalletNotFound = apperrors.New(apperrors.ErrCodeWalletNotFound, "钱包不存在")

	// ErrInsufficientBalance 余额不足
	ErrInsufficientBalance = apperrors.New(apperrors.ErrCodeInsufficientBalance, "钱包余额不足")

	// ErrInvalidAmount 金额不合法
	ErrInvalidAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "金额必须大于0")
)
