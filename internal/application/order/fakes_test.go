package order

import (
	"context"
	"sort"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/wallet"
)

// fakeTxManager 直接执行回调
// 真实实现中GORM会回滚失败的事务，内存fake不模拟回滚，
// 测试断言以错误返回值和aborted标记为准
type fakeTxManager struct {
	aborted bool // 最近一次事务是否以错误结束
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	err := fn(ctx)
	m.aborted = err != nil
	return err
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
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
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
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// fakeBookRepo 内存图书仓储（只实现订单用例触达的方法）
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
	var result []*book.Book
	for _, b := range r.books {
		result = append(result, b)
	}
	return result, int64(len(result)), nil
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

// fakeWalletRepo 内存钱包仓储
type fakeWalletRepo struct {
	wallets map[uint]*wallet.Wallet
}

func newFakeWalletRepo(wallets ...*wallet.Wallet) *fakeWalletRepo {
	r := &fakeWalletRepo{wallets: make(map[uint]*wallet.Wallet)}
	for _, w := range wallets {
		r.wallets[w.UserID] = w
	}
	return r
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

// fakePublisher 记录发布的事件
type fakePublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	routingKey string
	message    interface{}
}

func (p *fakePublisher) Publish(routingKey string, message interface{}) error {
	p.events = append(p.events, publishedEvent{routingKey: routingKey, message: message})
	return nil
}
