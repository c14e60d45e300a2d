package admin

import (
	"context"
	"sort"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// fakeTxManager 直接执行回调（真实实现由GORM负责回滚）
type fakeTxManager struct{}

func (fakeTxManager) Transaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// fakePublisher 记录发布的事件
type fakePublisher struct {
	keys []string
}

func (p *fakePublisher) Publish(routingKey string, _ interface{}) error {
	p.keys = append(p.keys, routingKey)
	return nil
}

// fakeOrderRepo 内存订单仓储
type fakeOrderRepo struct {
	orders map[uint]*order.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*order.Order), nextID: 1}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	o.ID = r.nextID
	r.nextID++
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uint) (*order.Order, error) {
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) FindByOrderNo(_ context.Context, orderNo string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	if _, ok := r.orders[o.ID]; !ok {
		return order.ErrOrderNotFound
	}
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) ListByUserID(_ context.Context, userID uint, status order.Status, limit int) ([]*order.Order, error) {
	var result []*order.Order
	for _, o := range r.orders {
		if o.UserID != userID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		result = append(result, o)
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeOrderRepo) List(_ context.Context, status order.Status) ([]*order.Order, error) {
	var result []*order.Order
	for _, o := range r.orders {
		if status != "" && o.Status != status {
			continue
		}
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// fakeBookRepo 内存图书仓储
type fakeBookRepo struct {
	books map[uint]*book.Book
}

func newFakeBookRepo(books ...*book.Book) *fakeBookRepo {
	r := &fakeBookRepo{books: make(map[uint]*book.Book)}
	for _, b := range books {
		r.books[b.ID] = b
	}
	return r
}

func (r *fakeBookRepo) Create(_ context.Context, b *book.Book) error {
	r.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id uint) (*book.Book, error) {
	if b, ok := r.books[id]; ok {
		return b, nil
	}
	return nil, book.ErrBookNotFound
}

func (r *fakeBookRepo) FindByIDs(_ context.Context, ids []uint) ([]*book.Book, error) {
	var result []*book.Book
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBookRepo) Update(_ context.Context, b *book.Book) error {
	r.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) UpdateStock(_ context.Context, id uint, stock int) error {
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Stock = stock
	return nil
}

func (r *fakeBookRepo) AdjustStockSold(_ context.Context, id uint, stockDelta, soldDelta int) error {
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.Stock+stockDelta < 0 {
		return book.ErrInsufficientStock
	}
	b.Stock += stockDelta
	b.Sold += soldDelta
	return nil
}

func (r *fakeBookRepo) List(_ context.Context, _ book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) BestSellers(_ context.Context, _ int) ([]*book.Book, error) {
	return nil, nil
}

func (r *fakeBookRepo) NewArrivals(_ context.Context, _ int) ([]*book.Book, error) {
	return nil, nil
}

func (r *fakeBookRepo) FindAuthorsByIDs(_ context.Context, _ []uint) ([]book.Author, error) {
	return nil, nil
}

func (r *fakeBookRepo) FindCategoriesByIDs(_ context.Context, _ []uint) ([]book.Category, error) {
	return nil, nil
}

// fakeUserRepo 内存用户仓储
type fakeUserRepo struct {
	users map[uint]*user.User
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*user.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}
