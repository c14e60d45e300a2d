package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// ListBooksUseCase 图书列表用例（公开接口）
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建图书列表用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表请求
type ListBooksRequest struct {
	Page       int
	PageSize   int
	AuthorID   uint
	CategoryID uint
	Status     string // 可选状态过滤，空表示不过滤
}

// Execute 执行查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) ([]*BookView, int64, error) {
	params := book.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
	}

	if req.Status != "" {
		status, err := book.ParseStatus(req.Status)
		if err != nil {
			return nil, 0, err
		}
		params.Status = status
	}

	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	return toBookViews(books), total, nil
}

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建图书详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 执行查询
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookView, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookView(b), nil
}

// RankingUseCase 榜单用例（销量榜/新书榜）
type RankingUseCase struct {
	bookService book.Service
}

// NewRankingUseCase 创建榜单用例
func NewRankingUseCase(bookService book.Service) *RankingUseCase {
	return &RankingUseCase{bookService: bookService}
}

// BestSellers 销量榜
func (uc *RankingUseCase) BestSellers(ctx context.Context, limit int) ([]*BookView, error) {
	books, err := uc.bookService.BestSellers(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toBookViews(books), nil
}

// NewArrivals 新书榜
func (uc *RankingUseCase) NewArrivals(ctx context.Context, limit int) ([]*BookView, error) {
	books, err := uc.bookService.NewArrivals(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toBookViews(books), nil
}

// BookView 图书视图
type BookView struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Price       int64      `json:"price"` // 分
	Stock       int        `json:"stock"`
	Sold        int        `json:"sold"`
	Status      string     `json:"status"`
	PublishedAt string     `json:"published_at"`
	Authors     []NameView `json:"authors"`
	Categories  []NameView `json:"categories"`
}

// NameView 作者/分类视图
type NameView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// toBookView 领域实体 → 应用层视图
func toBookView(b *book.Book) *BookView {
	authors := make([]NameView, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = NameView{ID: a.ID, Name: a.Name}
	}
	categories := make([]NameView, len(b.Categories))
	for i, c := range b.Categories {
		categories[i] = NameView{ID: c.ID, Name: c.Name}
	}

	return &BookView{
		ID:          b.ID,
		Title:       b.Title,
		Image:       b.Image,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
		Sold:        b.Sold,
		Status:      string(b.Status),
		PublishedAt: b.PublishedAt.Format("2006-01-02"),
		Authors:     authors,
		Categories:  categories,
	}
}

func toBookViews(books []*book.Book) []*BookView {
	views := make([]*BookView, len(books))
	for i, b := range books {
		views[i] = toBookView(b)
	}
	return views
}
