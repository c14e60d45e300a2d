package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 生产环境应使用版本化的迁移脚本
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&WalletModel{},
		&AuthorModel{},
		&CategoryModel{},
		&BookModel{},
		&OrderModel{},
		&OrderItemModel{},
		&OtpModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
// 4. 联合登录账号Password为空字符串
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密，联合登录为空）"`
	Name      string         `gorm:"size:50;not null;comment:姓名"`
	Role      string         `gorm:"size:10;not null;default:USER;comment:角色(USER/ADMIN)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// WalletModel GORM钱包模型
// 与用户一对一，余额以"分"为单位
type WalletModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null;comment:用户ID"`
	Balance   int64     `gorm:"not null;default:0;comment:余额(分)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (WalletModel) TableName() string {
	return "wallets"
}

// AuthorModel GORM作者模型
// 与图书多对多（连接表book_authors）
type AuthorModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;comment:作者姓名"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// CategoryModel GORM分类模型
// 与图书多对多（连接表book_categories）
type CategoryModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;comment:分类名称"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel GORM图书模型
// 设计说明：
// 1. 价格使用int64存储"分"为单位（避免浮点数精度问题）
// 2. Stock/Sold是销售计数器，仅通过原子条件UPDATE变动
// 3. Status使用string存储（可读性好，便于排查）
// 4. 作者/分类通过many2many连接表关联
type BookModel struct {
	ID          uint            `gorm:"primaryKey"`
	Title       string          `gorm:"index;size:200;not null;comment:书名"`
	Image       string          `gorm:"size:500;comment:封面图片URL"`
	Description string          `gorm:"type:text;comment:图书描述"`
	Price       int64           `gorm:"not null;comment:价格(分)"`
	Stock       int             `gorm:"default:0;comment:库存数量"`
	Sold        int             `gorm:"index;default:0;comment:累计销量"`
	Status      string          `gorm:"index;size:20;not null;default:AVAILABLE;comment:状态"`
	PublishedAt time.Time       `gorm:"comment:出版时间"`
	Authors     []AuthorModel   `gorm:"many2many:book_authors"`
	Categories  []CategoryModel `gorm:"many2many:book_categories"`
	CreatedAt   time.Time       `gorm:"index;comment:创建时间"`
	UpdatedAt   time.Time       `gorm:"comment:更新时间"`
	DeletedAt   gorm.DeletedAt  `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// OrderModel GORM订单模型
// 设计说明：
// 1. 与OrderItemModel是一对多关系
// 2. OrderNo有唯一索引（业务主键）
// 3. Status/Payment使用string存储
// 4. Address是下单时的地址快照，JSON序列化存储
type OrderModel struct {
	ID        uint             `gorm:"primaryKey"`
	OrderNo   string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID    uint             `gorm:"index;not null;comment:买家用户ID"`
	Total     int64            `gorm:"not null;comment:订单总金额(分)"`
	Status    string           `gorm:"index;size:20;not null;default:PENDING;comment:订单状态"`
	Payment   string           `gorm:"size:10;not null;comment:支付方式(Wallet/COD)"`
	Address   order.Address    `gorm:"serializer:json;type:json;comment:收货地址快照"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// Price记录下单时的价格快照
type OrderItemModel struct {
	ID       uint  `gorm:"primaryKey"`
	OrderID  uint  `gorm:"index;not null;comment:订单ID"`
	BookID   uint  `gorm:"index;not null;comment:图书ID"`
	Quantity int   `gorm:"not null;comment:购买数量"`
	Price    int64 `gorm:"not null;comment:下单时单价(分)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OtpModel GORM验证码模型
// 密码重置验证码，5分钟有效，重置成功后整体删除
type OtpModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"index;size:100;not null;comment:邮箱"`
	Code      string    `gorm:"size:6;not null;comment:验证码"`
	Used      bool      `gorm:"default:false;comment:是否已使用"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (OtpModel) TableName() string {
	return "otp_verifications"
}
