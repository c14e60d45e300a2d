package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo 内存图书仓储
type fakeRepo struct {
	books      map[uint]*Book
	authors    map[uint]Author
	categories map[uint]Category
	nextID     uint

	lastListParams ListParams
	lastLimit      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		books:      make(map[uint]*Book),
		authors:    make(map[uint]Author),
		categories: make(map[uint]Category),
		nextID:     1,
	}
}

func (r *fakeRepo) Create(_ context.Context, b *Book) error {
	b.ID = r.nextID
	r.nextID++
	r.books[b.ID] = b
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*Book, error) {
	if b, ok := r.books[id]; ok {
		return b, nil
	}
	return nil, ErrBookNotFound
}

func (r *fakeRepo) FindByIDs(_ context.Context, ids []uint) ([]*Book, error) {
	var result []*Book
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeRepo) Update(_ context.Context, b *Book) error {
	if _, ok := r.books[b.ID]; !ok {
		return ErrBookNotFound
	}
	r.books[b.ID] = b
	return nil
}

func (r *fakeRepo) UpdateStock(_ context.Context, id uint, stock int) error {
	b, ok := r.books[id]
	if !ok {
		return ErrBookNotFound
	}
	b.Stock = stock
	return nil
}

func (r *fakeRepo) AdjustStockSold(_ context.Context, id uint, stockDelta, soldDelta int) error {
	b, ok := r.books[id]
	if !ok {
		return ErrBookNotFound
	}
	if b.Stock+stockDelta < 0 {
		return ErrInsufficientStock
	}
	b.Stock += stockDelta
	b.Sold += soldDelta
	return nil
}

func (r *fakeRepo) List(_ context.Context, params ListParams) ([]*Book, int64, error) {
	r.lastListParams = params
	var result []*Book
	for _, b := range r.books {
		result = append(result, b)
	}
	return result, int64(len(result)), nil
}

func (r *fakeRepo) BestSellers(_ context.Context, limit int) ([]*Book, error) {
	r.lastLimit = limit
	return nil, nil
}

func (r *fakeRepo) NewArrivals(_ context.Context, limit int) ([]*Book, error) {
	r.lastLimit = limit
	return nil, nil
}

func (r *fakeRepo) FindAuthorsByIDs(_ context.Context, ids []uint) ([]Author, error) {
	result := make([]Author, 0, len(ids))
	for _, id := range ids {
		a, ok := r.authors[id]
		if !ok {
			return nil, ErrAuthorNotFound
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeRepo) FindCategoriesByIDs(_ context.Context, ids []uint) ([]Category, error) {
	result := make([]Category, 0, len(ids))
	for _, id := range ids {
		c, ok := r.categories[id]
		if !ok {
			return nil, ErrCategoryNotFound
		}
		result = append(result, c)
	}
	return result, nil
}

func TestPublishBook(t *testing.T) {
	ctx := context.Background()
	publishedAt := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("正常发布", func(t *testing.T) {
		repo := newFakeRepo()
		repo.authors[1] = Author{ID: 1, Name: "威廉·肯尼迪"}
		repo.categories[3] = Category{ID: 3, Name: "编程"}
		svc := NewService(repo)

		b, err := svc.PublishBook(ctx, "Go语言实战", "https://example.com/cover.jpg", "实战书籍",
			5900, publishedAt, []uint{1}, []uint{3})
		require.NoError(t, err)

		assert.NotZero(t, b.ID)
		assert.Equal(t, 0, b.Stock, "新书初始库存为0")
		assert.Equal(t, 0, b.Sold)
		assert.Equal(t, StatusAvailable, b.Status)
		require.Len(t, b.Authors, 1)
		require.Len(t, b.Categories, 1)
	})

	t.Run("书名不能为空", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, err := svc.PublishBook(ctx, "", "", "", 5900, publishedAt, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidTitle)
	})

	t.Run("价格范围校验", func(t *testing.T) {
		svc := NewService(newFakeRepo())

		_, err := svc.PublishBook(ctx, "书", "", "", 0, publishedAt, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidPrice)

		_, err = svc.PublishBook(ctx, "书", "", "", 100000000, publishedAt, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("作者不存在", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, err := svc.PublishBook(ctx, "书", "", "", 5900, publishedAt, []uint{99}, nil)
		assert.ErrorIs(t, err, ErrAuthorNotFound)
	})
}

func TestUpdateBookInfo(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*fakeRepo, Service, *Book) {
		repo := newFakeRepo()
		repo.authors[1] = Author{ID: 1, Name: "作者一"}
		repo.authors[2] = Author{ID: 2, Name: "作者二"}
		svc := NewService(repo)
		b, err := svc.PublishBook(ctx, "原书名", "img", "desc", 5900, time.Now(), []uint{1}, nil)
		require.NoError(t, err)
		return repo, svc, b
	}

	t.Run("空值不修改", func(t *testing.T) {
		_, svc, b := seed(t)

		updated, err := svc.UpdateBookInfo(ctx, b.ID, "", "", "", 0, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, "原书名", updated.Title)
		assert.Equal(t, int64(5900), updated.Price)
		require.Len(t, updated.Authors, 1, "nil关联ID不应改动关联")
	})

	t.Run("更新书名和价格", func(t *testing.T) {
		_, svc, b := seed(t)

		updated, err := svc.UpdateBookInfo(ctx, b.ID, "新书名", "", "", 6900, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "新书名", updated.Title)
		assert.Equal(t, int64(6900), updated.Price)
	})

	t.Run("重建作者关联", func(t *testing.T) {
		_, svc, b := seed(t)

		updated, err := svc.UpdateBookInfo(ctx, b.ID, "", "", "", 0, []uint{1, 2}, nil)
		require.NoError(t, err)
		assert.Len(t, updated.Authors, 2)

		// 空切片清空关联
		updated, err = svc.UpdateBookInfo(ctx, b.ID, "", "", "", 0, []uint{}, nil)
		require.NoError(t, err)
		assert.Empty(t, updated.Authors)
	})

	t.Run("图书不存在", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, err := svc.UpdateBookInfo(ctx, 99, "新书名", "", "", 0, nil, nil)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestUpdateStock(t *testing.T) {
	ctx := context.Background()

	t.Run("设置库存", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		b, err := svc.PublishBook(ctx, "书", "", "", 5900, time.Now(), nil, nil)
		require.NoError(t, err)

		require.NoError(t, svc.UpdateStock(ctx, b.ID, 100))
		got, _ := repo.FindByID(ctx, b.ID)
		assert.Equal(t, 100, got.Stock)
	})

	t.Run("库存不能为负", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		err := svc.UpdateStock(ctx, 1, -1)
		assert.ErrorIs(t, err, ErrInvalidStock)
	})

	t.Run("图书不存在", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		err := svc.UpdateStock(ctx, 99, 10)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestDisableBook(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRepo()
	svc := NewService(repo)
	b, err := svc.PublishBook(ctx, "书", "", "", 5900, time.Now(), nil, nil)
	require.NoError(t, err)
	assert.True(t, b.IsPurchasable())

	require.NoError(t, svc.DisableBook(ctx, b.ID))

	got, _ := repo.FindByID(ctx, b.ID)
	assert.Equal(t, StatusDisable, got.Status)
	assert.False(t, got.IsPurchasable())
}

func TestListBooksClamping(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	_, _, err := svc.ListBooks(ctx, ListParams{Page: 0, PageSize: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastListParams.Page)
	assert.Equal(t, 10, repo.lastListParams.PageSize)

	_, _, err = svc.ListBooks(ctx, ListParams{Page: 2, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lastListParams.Page)
	assert.Equal(t, 10, repo.lastListParams.PageSize, "超出上限回退默认值")
}

func TestRankingLimitClamping(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.BestSellers(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)

	_, err = svc.NewArrivals(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)

	_, err = svc.NewArrivals(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)
}
