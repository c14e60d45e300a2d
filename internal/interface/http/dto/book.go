package dto

// PublishBookRequest HTTP上架请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
// - dive: 对数组元素逐个校验
type PublishBookRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Image       string `json:"image" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Description string `json:"description" binding:"max=5000" example:"这是一本关于Go语言的实战书籍"`
	Price       int64  `json:"price" binding:"required,min=1,max=99999999" example:"5900"` // 价格(分),59.00元
	PublishedAt string `json:"published_at" binding:"omitempty" example:"2024-01-15"`      // 出版日期,格式2006-01-02
	AuthorIDs   []uint `json:"author_ids" binding:"omitempty,dive,min=1" example:"1,2"`
	CategoryIDs []uint `json:"category_ids" binding:"omitempty,dive,min=1" example:"3"`
}

// UpdateBookRequest HTTP图书信息更新请求
// 空字符串/0值字段不修改；author_ids/category_ids缺省(null)时不重建关联
type UpdateBookRequest struct {
	Title       string `json:"title" binding:"omitempty,max=200" example:"Go语言实战(第2版)"`
	Image       string `json:"image" binding:"omitempty,url,max=500" example:"https://example.com/cover2.jpg"`
	Description string `json:"description" binding:"omitempty,max=5000" example:"新版说明"`
	Price       int64  `json:"price" binding:"omitempty,min=1,max=99999999" example:"6900"`
	AuthorIDs   []uint `json:"author_ids" binding:"omitempty,dive,min=1"`
	CategoryIDs []uint `json:"category_ids" binding:"omitempty,dive,min=1"`
}

// UpdateStockRequest HTTP库存设置请求
type UpdateStockRequest struct {
	Stock int `json:"stock" binding:"min=0" example:"100"`
}

// ListBooksRequest HTTP图书列表请求（Query参数）
type ListBooksRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	AuthorID   uint   `form:"author_id" binding:"omitempty,min=1" example:"1"`
	CategoryID uint   `form:"category_id" binding:"omitempty,min=1" example:"3"`
	Status     string `form:"status" binding:"omitempty" example:"AVAILABLE"`
}

// RankingRequest HTTP榜单请求（Query参数）
// 畅销榜/新书榜共用
type RankingRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100" example:"10"`
}
