package auth

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/domain/wallet"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// GoogleLoginUseCase Google联合登录用例
// 设计说明：
// 1. 仅按邮箱匹配：邮箱已存在则直接登录该账号
// 2. 首次登录自动创建账号（空密码+零余额钱包），不能用密码登录
// 3. 签发7天长效Token（联合登录无刷新流程）
type GoogleLoginUseCase struct {
	userRepo     user.Repository
	walletRepo   wallet.Repository
	txManager    TxManager
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewGoogleLoginUseCase 创建Google登录用例
func NewGoogleLoginUseCase(
	userRepo user.Repository,
	walletRepo wallet.Repository,
	txManager TxManager,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *GoogleLoginUseCase {
	return &GoogleLoginUseCase{
		userRepo:     userRepo,
		walletRepo:   walletRepo,
		txManager:    txManager,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// GoogleLoginRequest Google登录请求
// Profile由网关侧完成Google Token校验后传入
type GoogleLoginRequest struct {
	Email string
	Name  string
}

// GoogleLoginResponse Google登录响应
type GoogleLoginResponse struct {
	User        UserInfo `json:"user"`
	AccessToken string   `json:"access_token"`
	IsNewUser   bool     `json:"is_new_user"`
}

// Execute 执行Google登录
func (uc *GoogleLoginUseCase) Execute(ctx context.Context, req GoogleLoginRequest) (*GoogleLoginResponse, error) {
	if req.Email == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱不能为空")
	}

	isNew := false
	u, err := uc.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}

		// 首次登录：创建联合登录账号+零余额钱包（同一事务）
		err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
			created := user.NewFederatedUser(req.Email, req.Name)
			if err := uc.userRepo.Create(txCtx, created); err != nil {
				return err
			}
			if err := uc.walletRepo.Create(txCtx, wallet.NewWallet(created.ID)); err != nil {
				return err
			}
			u = created
			return nil
		})
		if err != nil {
			return nil, err
		}
		isNew = true
	}

	token, err := uc.jwtManager.GenerateLongLivedToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}

	var balance int64
	if w, err := uc.walletRepo.FindByUserID(ctx, u.ID); err == nil {
		balance = w.Balance
	}

	sessionData := map[string]interface{}{
		"user_id":  u.ID,
		"email":    u.Email,
		"role":     string(u.Role),
		"login_at": time.Now().Unix(),
	}
	_ = uc.sessionStore.SaveSession(ctx, u.ID, sessionData, 7*24*time.Hour)

	metrics.IncCounterVec(metrics.LoginsTotal, map[string]string{"method": "google", "result": "success"})

	return &GoogleLoginResponse{
		User: UserInfo{
			ID:      u.ID,
			Email:   u.Email,
			Name:    u.Name,
			Role:    string(u.Role),
			Balance: balance,
		},
		AccessToken: token,
		IsNewUser:   isNew,
	}, nil
}
