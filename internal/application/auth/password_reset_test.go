package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/otp"
	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// fakeUserRepo 内存用户仓储
type fakeUserRepo struct {
	users map[string]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*user.User)}
	for _, u := range users {
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := r.users[u.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}
	u.ID = uint(len(r.users) + 1)
	r.users[u.Email] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.users[u.Email] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	for email, u := range r.users {
		if u.ID == id {
			delete(r.users, email)
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

// fakeOtpRepo 内存验证码仓储（按创建顺序保存）
type fakeOtpRepo struct {
	records []*otp.Verification
	nextID  uint
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{nextID: 1}
}

func (r *fakeOtpRepo) Create(_ context.Context, v *otp.Verification) error {
	v.ID = r.nextID
	r.nextID++
	r.records = append(r.records, v)
	return nil
}

func (r *fakeOtpRepo) FindLatestByEmail(_ context.Context, email string) (*otp.Verification, error) {
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Email == email {
			return r.records[i], nil
		}
	}
	return nil, nil
}

func (r *fakeOtpRepo) FindByEmailAndCode(_ context.Context, email, code string) (*otp.Verification, error) {
	for i := len(r.records) - 1; i >= 0; i-- {
		v := r.records[i]
		if v.Email == email && v.Code == code && !v.Used {
			return v, nil
		}
	}
	return nil, nil
}

func (r *fakeOtpRepo) FindUsedByEmail(_ context.Context, email string) (*otp.Verification, error) {
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Email == email && r.records[i].Used {
			return r.records[i], nil
		}
	}
	return nil, nil
}

func (r *fakeOtpRepo) Update(_ context.Context, v *otp.Verification) error {
	for i, rec := range r.records {
		if rec.ID == v.ID {
			r.records[i] = v
			return nil
		}
	}
	return otp.ErrOtpInvalid
}

func (r *fakeOtpRepo) DeleteByEmail(_ context.Context, email string) error {
	var kept []*otp.Verification
	for _, v := range r.records {
		if v.Email != email {
			kept = append(kept, v)
		}
	}
	r.records = kept
	return nil
}

// fakeMailer 记录发送的验证码（并发安全：发送在goroutine中执行）
type fakeMailer struct {
	mu    sync.Mutex
	sent  []string
	codes []string
}

func (m *fakeMailer) SendOtpEmail(email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	m.codes = append(m.codes, code)
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// fakeTxManager 直接执行回调
type fakeTxManager struct{}

func (fakeTxManager) Transaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func seedLocalUser(t *testing.T, repo *fakeUserRepo, svc user.Service, email, password string) *user.User {
	t.Helper()
	hashed, err := svc.HashPassword(password)
	require.NoError(t, err)
	u := user.NewUser(email, hashed, "张三")
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func waitForMail(t *testing.T, m *fakeMailer, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.sentCount() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("等待邮件发送超时: want=%d got=%d", want, m.sentCount())
}

func TestRequestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("发送验证码", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := user.NewService(userRepo)
		seedLocalUser(t, userRepo, svc, "user@example.com", "pass1234")
		otpRepo := newFakeOtpRepo()
		mailer := &fakeMailer{}
		uc := NewPasswordResetUseCase(userRepo, svc, otpRepo, mailer, fakeTxManager{})

		err := uc.RequestReset(ctx, "user@example.com")
		require.NoError(t, err)

		v, _ := otpRepo.FindLatestByEmail(ctx, "user@example.com")
		require.NotNil(t, v)
		assert.Len(t, v.Code, 6)
		assert.False(t, v.Used)

		waitForMail(t, mailer, 1)
	})

	t.Run("用户不存在", func(t *testing.T) {
		uc := NewPasswordResetUseCase(newFakeUserRepo(), user.NewService(newFakeUserRepo()), newFakeOtpRepo(), &fakeMailer{}, fakeTxManager{})
		err := uc.RequestReset(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("联合登录账号不支持重置", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		fu := user.NewFederatedUser("google@gmail.com", "张三")
		require.NoError(t, userRepo.Create(ctx, fu))
		uc := NewPasswordResetUseCase(userRepo, user.NewService(userRepo), newFakeOtpRepo(), &fakeMailer{}, fakeTxManager{})

		err := uc.RequestReset(ctx, "google@gmail.com")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
	})

	t.Run("5分钟内不重发", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := user.NewService(userRepo)
		seedLocalUser(t, userRepo, svc, "user@example.com", "pass1234")
		otpRepo := newFakeOtpRepo()
		uc := NewPasswordResetUseCase(userRepo, svc, otpRepo, &fakeMailer{}, fakeTxManager{})

		require.NoError(t, uc.RequestReset(ctx, "user@example.com"))

		err := uc.RequestReset(ctx, "user@example.com")
		assert.ErrorIs(t, err, otp.ErrOtpRateLimited)
	})

	t.Run("窗口过后可重发", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := user.NewService(userRepo)
		seedLocalUser(t, userRepo, svc, "user@example.com", "pass1234")
		otpRepo := newFakeOtpRepo()
		uc := NewPasswordResetUseCase(userRepo, svc, otpRepo, &fakeMailer{}, fakeTxManager{})

		require.NoError(t, uc.RequestReset(ctx, "user@example.com"))

		// 回拨第一条记录的创建时间，模拟窗口过期
		v, _ := otpRepo.FindLatestByEmail(ctx, "user@example.com")
		v.CreatedAt = time.Now().Add(-otp.RateLimitWindow - time.Second)

		err := uc.RequestReset(ctx, "user@example.com")
		assert.NoError(t, err)
	})
}

func TestVerifyOtp(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*PasswordResetUseCase, *fakeOtpRepo, string) {
		userRepo := newFakeUserRepo()
		svc := user.NewService(userRepo)
		seedLocalUser(t, userRepo, svc, "user@example.com", "pass1234")
		otpRepo := newFakeOtpRepo()
		uc := NewPasswordResetUseCase(userRepo, svc, otpRepo, &fakeMailer{}, fakeTxManager{})
		require.NoError(t, uc.RequestReset(ctx, "user@example.com"))
		v, _ := otpRepo.FindLatestByEmail(ctx, "user@example.com")
		return uc, otpRepo, v.Code
	}

	t.Run("校验通过后标记已使用", func(t *testing.T) {
		uc, otpRepo, code := setup(t)

		err := uc.VerifyOtp(ctx, "user@example.com", code)
		require.NoError(t, err)

		v, _ := otpRepo.FindUsedByEmail(ctx, "user@example.com")
		require.NotNil(t, v)
		assert.True(t, v.Used)
	})

	t.Run("验证码错误", func(t *testing.T) {
		uc, _, code := setup(t)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		err := uc.VerifyOtp(ctx, "user@example.com", wrong)
		assert.ErrorIs(t, err, otp.ErrOtpInvalid)
	})

	t.Run("验证码过期", func(t *testing.T) {
		uc, otpRepo, code := setup(t)

		v, _ := otpRepo.FindLatestByEmail(ctx, "user@example.com")
		v.CreatedAt = time.Now().Add(-otp.ValidityWindow - time.Second)

		err := uc.VerifyOtp(ctx, "user@example.com", code)
		assert.ErrorIs(t, err, otp.ErrOtpInvalid)
	})

	t.Run("验证码不能重复使用", func(t *testing.T) {
		uc, _, code := setup(t)

		require.NoError(t, uc.VerifyOtp(ctx, "user@example.com", code))
		err := uc.VerifyOtp(ctx, "user@example.com", code)
		assert.ErrorIs(t, err, otp.ErrOtpInvalid)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*PasswordResetUseCase, *fakeUserRepo, *fakeOtpRepo, user.Service) {
		userRepo := newFakeUserRepo()
		svc := user.NewService(userRepo)
		seedLocalUser(t, userRepo, svc, "user@example.com", "pass1234")
		otpRepo := newFakeOtpRepo()
		uc := NewPasswordResetUseCase(userRepo, svc, otpRepo, &fakeMailer{}, fakeTxManager{})
		return uc, userRepo, otpRepo, svc
	}

	t.Run("完整重置流程", func(t *testing.T) {
		uc, userRepo, otpRepo, svc := setup(t)

		require.NoError(t, uc.RequestReset(ctx, "user@example.com"))
		v, _ := otpRepo.FindLatestByEmail(ctx, "user@example.com")
		require.NoError(t, uc.VerifyOtp(ctx, "user@example.com", v.Code))

		err := uc.ResetPassword(ctx, "user@example.com", "newpass5678")
		require.NoError(t, err)

		// 新密码生效
		u, _ := userRepo.FindByEmail(ctx, "user@example.com")
		assert.NoError(t, svc.ValidatePassword(u.Password, "newpass5678"))

		// 全部验证码已清除
		latest, _ := otpRepo.FindLatestByEmail(ctx, "user@example.com")
		assert.Nil(t, latest)
	})

	t.Run("未通过验证码校验不能重置", func(t *testing.T) {
		uc, _, _, _ := setup(t)

		require.NoError(t, uc.RequestReset(ctx, "user@example.com"))

		// 跳过VerifyOtp直接重置
		err := uc.ResetPassword(ctx, "user@example.com", "newpass5678")
		assert.ErrorIs(t, err, otp.ErrOtpNotVerified)
	})

	t.Run("新密码强度校验", func(t *testing.T) {
		uc, _, otpRepo, _ := setup(t)

		require.NoError(t, uc.RequestReset(ctx, "user@example.com"))
		v, _ := otpRepo.FindLatestByEmail(ctx, "user@example.com")
		require.NoError(t, uc.VerifyOtp(ctx, "user@example.com", v.Code))

		err := uc.ResetPassword(ctx, "user@example.com", "weak")
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("修改密码", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := user.NewService(userRepo)
		u := seedLocalUser(t, userRepo, svc, "user@example.com", "pass1234")
		uc := NewChangePasswordUseCase(userRepo, svc)

		err := uc.Execute(ctx, u.ID, "pass1234", "newpass5678")
		require.NoError(t, err)

		got, _ := userRepo.FindByEmail(ctx, "user@example.com")
		assert.NoError(t, svc.ValidatePassword(got.Password, "newpass5678"))
	})

	t.Run("当前密码错误", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := user.NewService(userRepo)
		u := seedLocalUser(t, userRepo, svc, "user@example.com", "pass1234")
		uc := NewChangePasswordUseCase(userRepo, svc)

		err := uc.Execute(ctx, u.ID, "wrongpass1", "newpass5678")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("联合登录账号不支持修改", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := user.NewService(userRepo)
		fu := user.NewFederatedUser("google@gmail.com", "张三")
		require.NoError(t, userRepo.Create(ctx, fu))
		uc := NewChangePasswordUseCase(userRepo, svc)

		err := uc.Execute(ctx, fu.ID, "", "newpass5678")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
	})
}
