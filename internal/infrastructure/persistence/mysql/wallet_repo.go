package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/wallet"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// walletRepository 钱包仓储实现（MySQL）
// 设计说明：
// 1. Debit/Credit使用条件UPDATE实现原子扣款/入账
// 2. 在订单事务内通过getDB参与同一事务
type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository 创建钱包仓储
func NewWalletRepository(db *gorm.DB) wallet.Repository {
	return &walletRepository{db: db}
}

// Create 创建钱包（随用户注册）
func (r *walletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	model := &WalletModel{
		UserID:  w.UserID,
		Balance: w.Balance,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建钱包失败")
	}

	w.ID = model.ID
	w.CreatedAt = model.CreatedAt
	w.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByUserID 根据用户ID查找钱包
func (r *walletRepository) FindByUserID(ctx context.Context, userID uint) (*wallet.Wallet, error) {
	var model WalletModel
	err := getDB(ctx, r.db).Where("user_id = ?", userID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wallet.ErrWalletNotFound
		}
		return nil, apperrors.Wrap(err, "查询钱包失败")
	}

	return &wallet.Wallet{
		ID:        model.ID,
		UserID:    model.UserID,
		Balance:   model.Balance,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

// Debit 扣款（原子操作）
// UPDATE wallets SET balance = balance - ? WHERE user_id = ? AND balance >= ?
// 条件UPDATE在数据库层保证余额下限，并发下不会产生负余额。
// RowsAffected为0时再查一次，区分"钱包不存在"与"余额不足"
func (r *walletRepository) Debit(ctx context.Context, userID uint, amount int64) error {
	if amount <= 0 {
		return wallet.ErrInvalidAmount
	}

	db := getDB(ctx, r.db)
	result := db.Model(&WalletModel{}).
		Where("user_id = ?", userID).
		Where("balance >= ?", amount).
		Update("balance", gorm.Expr("balance - ?", amount))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "钱包扣款失败")
	}

	if result.RowsAffected == 0 {
		var model WalletModel
		if err := db.Where("user_id = ?", userID).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return wallet.ErrWalletNotFound
			}
			return apperrors.Wrap(err, "查询钱包失败")
		}
		// 钱包存在，说明是余额不足
		return wallet.ErrInsufficientBalance
	}

	return nil
}

// Credit 入账（原子操作，订单取消退款）
func (r *walletRepository) Credit(ctx context.Context, userID uint, amount int64) error {
	if amount <= 0 {
		return wallet.ErrInvalidAmount
	}

	result := getDB(ctx, r.db).Model(&WalletModel{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "钱包入账失败")
	}

	if result.RowsAffected == 0 {
		return wallet.ErrWalletNotFound
	}

	return nil
}
