package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/otp"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// otpRepository 验证码仓储实现（MySQL）
// 查不到记录时返回(nil, nil)而非错误：
// 对验证码来说"无记录"是正常的业务分支，由应用层决定如何提示
type otpRepository struct {
	db *gorm.DB
}

// NewOtpRepository 创建验证码仓储
func NewOtpRepository(db *gorm.DB) otp.Repository {
	return &otpRepository{db: db}
}

// Create 保存验证码记录
func (r *otpRepository) Create(ctx context.Context, v *otp.Verification) error {
	model := &OtpModel{
		Email: v.Email,
		Code:  v.Code,
		Used:  v.Used,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "保存验证码失败")
	}

	v.ID = model.ID
	v.CreatedAt = model.CreatedAt

	return nil
}

// FindLatestByEmail 查找邮箱最近一条验证码记录
func (r *otpRepository) FindLatestByEmail(ctx context.Context, email string) (*otp.Verification, error) {
	var model OtpModel
	err := getDB(ctx, r.db).Where("email = ?", email).
		Order("created_at DESC").First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询验证码失败")
	}

	return toOtpEntity(&model), nil
}

// FindByEmailAndCode 按邮箱+验证码查找未使用的记录
func (r *otpRepository) FindByEmailAndCode(ctx context.Context, email, code string) (*otp.Verification, error) {
	var model OtpModel
	err := getDB(ctx, r.db).Where("email = ? AND code = ? AND used = ?", email, code, false).
		Order("created_at DESC").First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询验证码失败")
	}

	return toOtpEntity(&model), nil
}

// FindUsedByEmail 查找邮箱最近一条已使用的记录
func (r *otpRepository) FindUsedByEmail(ctx context.Context, email string) (*otp.Verification, error) {
	var model OtpModel
	err := getDB(ctx, r.db).Where("email = ? AND used = ?", email, true).
		Order("created_at DESC").First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询验证码失败")
	}

	return toOtpEntity(&model), nil
}

// Update 更新记录（标记为已使用）
func (r *otpRepository) Update(ctx context.Context, v *otp.Verification) error {
	result := getDB(ctx, r.db).Model(&OtpModel{}).Where("id = ?", v.ID).
		Update("used", v.Used)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新验证码失败")
	}

	return nil
}

// DeleteByEmail 删除邮箱的全部验证码记录
func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) error {
	if err := getDB(ctx, r.db).Where("email = ?", email).Delete(&OtpModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除验证码失败")
	}

	return nil
}

// toOtpEntity GORM模型 → 领域实体
func toOtpEntity(model *OtpModel) *otp.Verification {
	return &otp.Verification{
		ID:        model.ID,
		Email:     model.Email,
		Code:      model.Code,
		Used:      model.Used,
		CreatedAt: model.CreatedAt,
	}
}
