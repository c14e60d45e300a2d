package auth

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/domain/wallet"
)

// TxManager 事务管理器接口（消费方定义）
// 由mysql.TxManager实现，测试时可用内存假实现替代
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. Application层负责用例编排，协调多个领域服务
// 2. 用户与钱包在同一事务中创建（注册即有零余额钱包）
type RegisterUseCase struct {
	userService user.Service
	walletRepo  wallet.Repository
	txManager   TxManager
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, walletRepo wallet.Repository, txManager TxManager) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		walletRepo:  walletRepo,
		txManager:   txManager,
	}
}

// Execute 执行注册
// 返回：RegisterResponse（应用层DTO，不是领域实体）
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var registered *user.User

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		u, err := uc.userService.Register(txCtx, req.Email, req.Password, req.Name)
		if err != nil {
			return err
		}

		// 注册即创建零余额钱包
		if err := uc.walletRepo.Create(txCtx, wallet.NewWallet(u.ID)); err != nil {
			return err
		}

		registered = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 领域实体 → 应用层DTO（不直接返回领域实体，领域模型变更不影响API契约）
	return &RegisterResponse{
		ID:    registered.ID,
		Email: registered.Email,
		Name:  registered.Name,
		Role:  string(registered.Role),
	}, nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

// RegisterResponse 注册响应
// 不返回密码字段
type RegisterResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
