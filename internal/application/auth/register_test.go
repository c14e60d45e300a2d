package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/domain/wallet"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// fakeWalletRepo 内存钱包仓储
type fakeWalletRepo struct {
	wallets map[uint]*wallet.Wallet
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[uint]*wallet.Wallet)}
}

func (r *fakeWalletRepo) Create(_ context.Context, w *wallet.Wallet) error {
	r.wallets[w.UserID] = w
	return nil
}

func (r *fakeWalletRepo) FindByUserID(_ context.Context, userID uint) (*wallet.Wallet, error) {
	if w, ok := r.wallets[userID]; ok {
		return w, nil
	}
	return nil, wallet.ErrWalletNotFound
}

func (r *fakeWalletRepo) Debit(_ context.Context, userID uint, amount int64) error {
	w, ok := r.wallets[userID]
	if !ok {
		return wallet.ErrWalletNotFound
	}
	if w.Balance < amount {
		return wallet.ErrInsufficientBalance
	}
	w.Balance -= amount
	return nil
}

func (r *fakeWalletRepo) Credit(_ context.Context, userID uint, amount int64) error {
	w, ok := r.wallets[userID]
	if !ok {
		return wallet.ErrWalletNotFound
	}
	w.Balance += amount
	return nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("注册同时开通零余额钱包", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		walletRepo := newFakeWalletRepo()
		uc := NewRegisterUseCase(user.NewService(userRepo), walletRepo, fakeTxManager{})

		resp, err := uc.Execute(ctx, RegisterRequest{
			Email:    "user@example.com",
			Password: "pass1234",
			Name:     "张三",
		})
		require.NoError(t, err)

		assert.NotZero(t, resp.ID)
		assert.Equal(t, "user@example.com", resp.Email)
		assert.Equal(t, "USER", resp.Role)

		w, err := walletRepo.FindByUserID(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), w.Balance)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		uc := NewRegisterUseCase(user.NewService(userRepo), newFakeWalletRepo(), fakeTxManager{})

		_, err := uc.Execute(ctx, RegisterRequest{Email: "user@example.com", Password: "pass1234", Name: "张三"})
		require.NoError(t, err)

		_, err = uc.Execute(ctx, RegisterRequest{Email: "user@example.com", Password: "pass5678", Name: "李四"})
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})

	t.Run("密码强度不足", func(t *testing.T) {
		uc := NewRegisterUseCase(user.NewService(newFakeUserRepo()), newFakeWalletRepo(), fakeTxManager{})

		_, err := uc.Execute(ctx, RegisterRequest{Email: "user@example.com", Password: "weak", Name: "张三"})
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})
}
