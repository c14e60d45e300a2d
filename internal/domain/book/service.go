package book

import (
	"context"
	"time"
)

// Service 图书领域服务接口
// 设计说明：
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现（依赖倒置）
type Service interface {
	// PublishBook 发布图书（上架）
	// 业务规则：
	// - 价格必须在1-99999999分之间
	// - 作者/分类ID必须全部存在
	PublishBook(ctx context.Context, title, image, description string, price int64, publishedAt time.Time, authorIDs, categoryIDs []uint) (*Book, error)

	// GetBookByID 根据ID获取图书详情（含作者和分类）
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// UpdateBookInfo 更新图书信息（空值不修改，价格0不修改）
	// authorIDs/categoryIDs为nil表示不重建关联
	UpdateBookInfo(ctx context.Context, id uint, title, image, description string, price int64, authorIDs, categoryIDs []uint) (*Book, error)

	// UpdateStock 直接设置库存（管理员补货/盘点）
	UpdateStock(ctx context.Context, id uint, stock int) error

	// DisableBook 下架图书
	DisableBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// BestSellers 销量榜
	BestSellers(ctx context.Context, limit int) ([]*Book, error)

	// NewArrivals 新书榜
	NewArrivals(ctx context.Context, limit int) ([]*Book, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishBook 发布图书
func (s *service) PublishBook(ctx context.Context, title, image, description string, price int64, publishedAt time.Time, authorIDs, categoryIDs []uint) (*Book, error) {
	if title == "" {
		return nil, ErrInvalidTitle
	}

	// 价格范围校验（1分-999999.99元）
	if price < 1 || price > 99999999 {
		return nil, ErrInvalidPrice
	}

	authors, categories, err := s.resolveAssociations(ctx, authorIDs, categoryIDs)
	if err != nil {
		return nil, err
	}

	book := NewBook(title, image, description, price, publishedAt, authors, categories)

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBookInfo 更新图书信息
func (s *service) UpdateBookInfo(ctx context.Context, id uint, title, image, description string, price int64, authorIDs, categoryIDs []uint) (*Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	book.UpdateInfo(title, image, description)

	if price > 0 {
		if err := book.UpdatePrice(price); err != nil {
			return nil, err
		}
	}

	// nil表示不变，空切片表示清空关联
	if authorIDs != nil {
		authors, err := s.repo.FindAuthorsByIDs(ctx, authorIDs)
		if err != nil {
			return nil, err
		}
		book.Authors = authors
	}
	if categoryIDs != nil {
		categories, err := s.repo.FindCategoriesByIDs(ctx, categoryIDs)
		if err != nil {
			return nil, err
		}
		book.Categories = categories
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// UpdateStock 直接设置库存
func (s *service) UpdateStock(ctx context.Context, id uint, stock int) error {
	if stock < 0 {
		return ErrInvalidStock
	}

	// 先确认图书存在，区分NotFound与无变化
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	return s.repo.UpdateStock(ctx, id, stock)
}

// DisableBook 下架图书
func (s *service) DisableBook(ctx context.Context, id uint) error {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	book.Disable()

	return s.repo.Update(ctx, book)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 10
	}
	return s.repo.List(ctx, params)
}

// BestSellers 销量榜
func (s *service) BestSellers(ctx context.Context, limit int) ([]*Book, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.repo.BestSellers(ctx, limit)
}

// NewArrivals 新书榜
func (s *service) NewArrivals(ctx context.Context, limit int) ([]*Book, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.repo.NewArrivals(ctx, limit)
}

// resolveAssociations 解析并校验作者/分类ID
func (s *service) resolveAssociations(ctx context.Context, authorIDs, categoryIDs []uint) ([]Author, []Category, error) {
	var authors []Author
	var categories []Category
	var err error

	if len(authorIDs) > 0 {
		authors, err = s.repo.FindAuthorsByIDs(ctx, authorIDs)
		if err != nil {
			return nil, nil, err
		}
	}

	if len(categoryIDs) > 0 {
		categories, err = s.repo.FindCategoriesByIDs(ctx, categoryIDs)
		if err != nil {
			return nil, nil, err
		}
	}

	return authors, categories, nil
}
