package book

import (
	"time"
)

// Status 图书状态
// 设计说明：使用string类型持久化（数据库中可读，便于与其他系统交换数据）
type Status string

const (
	StatusAvailable    Status = "AVAILABLE"    // 在售
	StatusOutOfStock   Status = "OUT_OF_STOCK" // 缺货
	StatusDiscontinued Status = "DISCONTINUED" // 停售
	StatusDisable      Status = "DISABLE"      // 下架
)

// ParseStatus 解析图书状态，非法值返回ErrInvalidStatus
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusOutOfStock, StatusDiscontinued, StatusDisable:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Author 作者实体
// 与Book多对多关联
type Author struct {
	ID   uint
	Name string
}

// Category 分类实体
// 与Book多对多关联
type Category struct {
	ID   uint
	Name string
}

// Book 图书实体（聚合根）
// DDD设计说明：
// 1. Book是图书聚合的根实体，包含图书的核心属性
// 2. 价格使用int64存储"分"为单位（避免浮点数精度问题）
// 3. Stock/Sold是销售计数器，仅在订单创建时变动（原子条件UPDATE）
// 4. Authors/Categories是多对多关联的快照，由Repository预加载
type Book struct {
	ID          uint
	Title       string
	Image       string // 封面图片URL
	Description string
	Price       int64 // 价格（单位：分，1元=100分）
	Stock       int   // 库存数量
	Sold        int   // 累计销量
	Status      Status
	PublishedAt time.Time
	Authors     []Author
	Categories  []Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书（工厂方法）
// price必须>0，初始库存为0，状态为AVAILABLE
func NewBook(title, image, description string, price int64, publishedAt time.Time, authors []Author, categories []Category) *Book {
	now := time.Now()
	return &Book{
		Title:       title,
		Image:       image,
		Description: description,
		Price:       price,
		Stock:       0,
		Sold:        0,
		Status:      StatusAvailable,
		PublishedAt: publishedAt,
		Authors:     authors,
		Categories:  categories,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetStock 设置库存（管理员直接设值）
// 业务规则：库存不能为负数
func (b *Book) SetStock(newStock int) error {
	if newStock < 0 {
		return ErrInvalidStock
	}
	b.Stock = newStock
	b.UpdatedAt = time.Now()
	return nil
}

// Disable 下架图书（领域行为）
func (b *Book) Disable() {
	b.Status = StatusDisable
	b.UpdatedAt = time.Now()
}

// IsPurchasable 图书当前是否可购买
func (b *Book) IsPurchasable() bool {
	return b.Status == StatusAvailable
}

// UpdateInfo 更新图书基本信息（空值表示不修改）
func (b *Book) UpdateInfo(title, image, description string) {
	if title != "" {
		b.Title = title
	}
	if image != "" {
		b.Image = image
	}
	if description != "" {
		b.Description = description
	}
	b.UpdatedAt = time.Now()
}

// UpdatePrice 更新价格（领域行为）
// 业务规则：价格必须>0
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}
