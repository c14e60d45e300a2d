package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// PublishBookUseCase 发布图书用例（管理员）
type PublishBookUseCase struct {
	bookService book.Service
}

// NewPublishBookUseCase 创建发布图书用例
func NewPublishBookUseCase(bookService book.Service) *PublishBookUseCase {
	return &PublishBookUseCase{bookService: bookService}
}

// PublishBookRequest 发布请求
type PublishBookRequest struct {
	Title       string
	Image       string
	Description string
	Price       int64 // 分
	PublishedAt time.Time
	AuthorIDs   []uint
	CategoryIDs []uint
}

// Execute 执行发布
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookView, error) {
	b, err := uc.bookService.PublishBook(ctx, req.Title, req.Image, req.Description,
		req.Price, req.PublishedAt, req.AuthorIDs, req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	return toBookView(b), nil
}

// UpdateBookUseCase 更新图书用例（管理员）
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建更新图书用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService}
}

// UpdateBookRequest 更新请求
// 空字符串/0值表示不修改；AuthorIDs/CategoryIDs为nil表示不重建关联
type UpdateBookRequest struct {
	ID          uint
	Title       string
	Image       string
	Description string
	Price       int64
	AuthorIDs   []uint
	CategoryIDs []uint
}

// Execute 执行更新
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookView, error) {
	b, err := uc.bookService.UpdateBookInfo(ctx, req.ID, req.Title, req.Image,
		req.Description, req.Price, req.AuthorIDs, req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	return toBookView(b), nil
}

// UpdateStockUseCase 设置库存用例（管理员补货/盘点）
type UpdateStockUseCase struct {
	bookService book.Service
}

// NewUpdateStockUseCase 创建设置库存用例
func NewUpdateStockUseCase(bookService book.Service) *UpdateStockUseCase {
	return &UpdateStockUseCase{bookService: bookService}
}

// Execute 执行设置库存
func (uc *UpdateStockUseCase) Execute(ctx context.Context, bookID uint, stock int) error {
	return uc.bookService.UpdateStock(ctx, bookID, stock)
}

// DisableBookUseCase 下架图书用例（管理员）
type DisableBookUseCase struct {
	bookService book.Service
}

// NewDisableBookUseCase 创建下架图书用例
func NewDisableBookUseCase(bookService book.Service) *DisableBookUseCase {
	return &DisableBookUseCase{bookService: bookService}
}

// Execute 执行下架
func (uc *DisableBookUseCase) Execute(ctx context.Context, bookID uint) error {
	return uc.bookService.DisableBook(ctx, bookID)
}
