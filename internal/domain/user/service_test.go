package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// fakeRepository 内存仓储，按邮箱去重
type fakeRepository struct {
	users  map[string]*User
	nextID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: make(map[string]*User), nextID: 1}
}

func (r *fakeRepository) Create(_ context.Context, u *User) error {
	if _, ok := r.users[u.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.Email] = u
	return nil
}

func (r *fakeRepository) FindByID(_ context.Context, id uint) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeRepository) Update(_ context.Context, u *User) error {
	r.users[u.Email] = u
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id uint) error {
	for email, u := range r.users {
		if u.ID == id {
			delete(r.users, email)
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func TestServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("正常注册", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		u, err := svc.Register(ctx, "user@example.com", "pass1234", "张三")
		require.NoError(t, err)

		assert.NotZero(t, u.ID)
		assert.Equal(t, "user@example.com", u.Email)
		assert.Equal(t, RoleUser, u.Role)
		// 密码必须加密存储
		assert.NotEqual(t, "pass1234", u.Password)
		assert.NoError(t, svc.ValidatePassword(u.Password, "pass1234"))
	})

	t.Run("邮箱格式错误", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		_, err := svc.Register(ctx, "not-an-email", "pass1234", "张三")
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, appErr.Code)
	})

	t.Run("密码强度不足", func(t *testing.T) {
		svc := NewService(newFakeRepository())

		cases := []string{
			"short1",               // 太短
			"12345678",             // 没有字母
			"password",             // 没有数字
			"verylongpassword12345", // 超过20位
		}
		for _, pwd := range cases {
			_, err := svc.Register(ctx, "user@example.com", pwd, "张三")
			assert.ErrorIs(t, err, apperrors.ErrWeakPassword, "密码%q应被拒绝", pwd)
		}
	})

	t.Run("姓名长度校验", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		_, err := svc.Register(ctx, "user@example.com", "pass1234", "A")
		require.Error(t, err)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		_, err := svc.Register(ctx, "user@example.com", "pass1234", "张三")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "user@example.com", "pass5678", "李四")
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})
}

func TestServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("正常登录", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		_, err := svc.Register(ctx, "user@example.com", "pass1234", "张三")
		require.NoError(t, err)

		u, err := svc.Login(ctx, "user@example.com", "pass1234")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", u.Email)
	})

	t.Run("用户不存在", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		_, err := svc.Login(ctx, "nobody@example.com", "pass1234")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("密码错误", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		_, err := svc.Register(ctx, "user@example.com", "pass1234", "张三")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "user@example.com", "wrongpass1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("联合登录账号不能密码登录", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo)

		// Google登录创建的账号没有本地密码
		fu := NewFederatedUser("google@gmail.com", "张三")
		require.NoError(t, repo.Create(ctx, fu))
		require.True(t, fu.IsFederated())

		_, err := svc.Login(ctx, "google@gmail.com", "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})
}

func TestUserEntity(t *testing.T) {
	t.Run("角色判断", func(t *testing.T) {
		u := NewUser("user@example.com", "hashed", "张三")
		assert.False(t, u.IsAdmin())

		u.Role = RoleAdmin
		assert.True(t, u.IsAdmin())
	})

	t.Run("修改密码后不再是联合账号", func(t *testing.T) {
		fu := NewFederatedUser("google@gmail.com", "张三")
		assert.True(t, fu.IsFederated())

		fu.ChangePassword("hashed-password")
		assert.False(t, fu.IsFederated())
	})
}
