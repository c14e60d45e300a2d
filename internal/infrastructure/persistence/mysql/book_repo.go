package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// bookRepository 图书仓储实现（MySQL）
// 设计说明：
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. AdjustStockSold用条件UPDATE在数据库层防止超卖
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
// GORM会同时写入many2many连接表（book_authors/book_categories）
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书（预加载作者和分类，避免N+1查询）
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Preload("Authors").Preload("Categories").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindByIDs 批量查找图书
func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []BookModel
	err := getDB(ctx, r.db).Preload("Authors").Preload("Categories").
		Where("id IN ?", ids).Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// Update 更新图书信息
// 作者/分类关联用Association.Replace整体重建
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	db := getDB(ctx, r.db)

	result := db.Model(&BookModel{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":        b.Title,
		"image":        b.Image,
		"description":  b.Description,
		"price":        b.Price,
		"status":       string(b.Status),
		"published_at": b.PublishedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}

	model := &BookModel{ID: b.ID}

	authors := make([]AuthorModel, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = AuthorModel{ID: a.ID, Name: a.Name}
	}
	if err := db.Model(model).Association("Authors").Replace(authors); err != nil {
		return apperrors.Wrap(err, "更新图书作者失败")
	}

	categories := make([]CategoryModel, len(b.Categories))
	for i, c := range b.Categories {
		categories[i] = CategoryModel{ID: c.ID, Name: c.Name}
	}
	if err := db.Model(model).Association("Categories").Replace(categories); err != nil {
		return apperrors.Wrap(err, "更新图书分类失败")
	}

	return nil
}

// UpdateStock 直接设置库存（管理员补货/盘点）
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, stock int) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Update("stock", stock)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	return nil
}

// AdjustStockSold 原子调整库存与销量（订单创建）
// UPDATE books SET stock = stock + ?, sold = sold + ?
// WHERE id = ? AND stock + ? >= 0
// 条件UPDATE在数据库层保证库存下限，并发下不会超卖。
// RowsAffected为0时再查一次，区分"图书不存在"与"库存不足"
func (r *bookRepository) AdjustStockSold(ctx context.Context, id uint, stockDelta, soldDelta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", stockDelta).
		Updates(map[string]interface{}{
			"stock": gorm.Expr("stock + ?", stockDelta),
			"sold":  gorm.Expr("sold + ?", soldDelta),
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "调整库存失败")
	}

	if result.RowsAffected == 0 {
		var model BookModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return book.ErrBookNotFound
			}
			return apperrors.Wrap(err, "查询图书失败")
		}
		// 图书存在，说明是库存不足
		return book.ErrInsufficientStock
	}

	return nil
}

// List 分页查询图书列表（按作者/分类/状态过滤）
// 作者/分类过滤通过many2many连接表JOIN实现
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	query := getDB(ctx, r.db).Model(&BookModel{})

	if params.Status != "" {
		query = query.Where("books.status = ?", string(params.Status))
	}

	if params.AuthorID > 0 {
		query = query.Joins("JOIN book_authors ON book_authors.book_model_id = books.id").
			Where("book_authors.author_model_id = ?", params.AuthorID)
	}

	if params.CategoryID > 0 {
		query = query.Joins("JOIN book_categories ON book_categories.book_model_id = books.id").
			Where("book_categories.category_model_id = ?", params.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	err := query.Preload("Authors").Preload("Categories").
		Order("books.created_at DESC").
		Limit(params.PageSize).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, total, nil
}

// BestSellers 销量榜（仅AVAILABLE，按sold倒序）
func (r *bookRepository) BestSellers(ctx context.Context, limit int) ([]*book.Book, error) {
	return r.listTop(ctx, "sold DESC", limit)
}

// NewArrivals 新书榜（仅AVAILABLE，按created_at倒序）
func (r *bookRepository) NewArrivals(ctx context.Context, limit int) ([]*book.Book, error) {
	return r.listTop(ctx, "created_at DESC", limit)
}

func (r *bookRepository) listTop(ctx context.Context, orderBy string, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).Preload("Authors").Preload("Categories").
		Where("status = ?", string(book.StatusAvailable)).
		Order(orderBy).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书榜单失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// FindAuthorsByIDs 批量查找作者，缺失任何一个即返回ErrAuthorNotFound
func (r *bookRepository) FindAuthorsByIDs(ctx context.Context, ids []uint) ([]book.Author, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []AuthorModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询作者失败")
	}

	if len(models) != len(uniqueIDs(ids)) {
		return nil, book.ErrAuthorNotFound
	}

	authors := make([]book.Author, len(models))
	for i, m := range models {
		authors[i] = book.Author{ID: m.ID, Name: m.Name}
	}
	return authors, nil
}

// FindCategoriesByIDs 批量查找分类，缺失任何一个即返回ErrCategoryNotFound
func (r *bookRepository) FindCategoriesByIDs(ctx context.Context, ids []uint) ([]book.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []CategoryModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	if len(models) != len(uniqueIDs(ids)) {
		return nil, book.ErrCategoryNotFound
	}

	categories := make([]book.Category, len(models))
	for i, m := range models {
		categories[i] = book.Category{ID: m.ID, Name: m.Name}
	}
	return categories, nil
}

// uniqueIDs 去重（调用方可能传入重复ID）
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	authors := make([]AuthorModel, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = AuthorModel{ID: a.ID, Name: a.Name}
	}

	categories := make([]CategoryModel, len(b.Categories))
	for i, c := range b.Categories {
		categories[i] = CategoryModel{ID: c.ID, Name: c.Name}
	}

	return &BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Image:       b.Image,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
		Sold:        b.Sold,
		Status:      string(b.Status),
		PublishedAt: b.PublishedAt,
		Authors:     authors,
		Categories:  categories,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	authors := make([]book.Author, len(model.Authors))
	for i, a := range model.Authors {
		authors[i] = book.Author{ID: a.ID, Name: a.Name}
	}

	categories := make([]book.Category, len(model.Categories))
	for i, c := range model.Categories {
		categories[i] = book.Category{ID: c.ID, Name: c.Name}
	}

	return &book.Book{
		ID:          model.ID,
		Title:       model.Title,
		Image:       model.Image,
		Description: model.Description,
		Price:       model.Price,
		Stock:       model.Stock,
		Sold:        model.Sold,
		Status:      book.Status(model.Status),
		PublishedAt: model.PublishedAt,
		Authors:     authors,
		Categories:  categories,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
