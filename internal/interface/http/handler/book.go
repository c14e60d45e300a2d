package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publishBookUseCase *appbook.PublishBookUseCase
	updateBookUseCase  *appbook.UpdateBookUseCase
	updateStockUseCase *appbook.UpdateStockUseCase
	disableBookUseCase *appbook.DisableBookUseCase
	listBooksUseCase   *appbook.ListBooksUseCase
	getBookUseCase     *appbook.GetBookUseCase
	rankingUseCase     *appbook.RankingUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publishBookUseCase *appbook.PublishBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	updateStockUseCase *appbook.UpdateStockUseCase,
	disableBookUseCase *appbook.DisableBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	rankingUseCase *appbook.RankingUseCase,
) *BookHandler {
	return &BookHandler{
		publishBookUseCase: publishBookUseCase,
		updateBookUseCase:  updateBookUseCase,
		updateStockUseCase: updateStockUseCase,
		disableBookUseCase: disableBookUseCase,
		listBooksUseCase:   listBooksUseCase,
		getBookUseCase:     getBookUseCase,
		rankingUseCase:     rankingUseCase,
	}
}

// PublishBook 上架图书
// @Summary      上架图书
// @Description  管理员上架新图书，初始库存为0，需通过库存接口补货
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      200 {object} response.Response "上架成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "作者或分类不存在"
// @Router       /books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	var publishedAt time.Time
	if req.PublishedAt != "" {
		t, err := time.Parse("2006-01-02", req.PublishedAt)
		if err != nil {
			response.ErrorWithCode(c, 40900, "参数错误: published_at格式应为2006-01-02")
			return
		}
		publishedAt = t
	}

	result, err := h.publishBookUseCase.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
		Price:       req.Price,
		PublishedAt: publishedAt,
		AuthorIDs:   req.AuthorIDs,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBook 更新图书信息
// @Summary      更新图书信息
// @Description  管理员更新图书的基础信息；缺省字段不修改
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "更新内容"
// @Success      200 {object} response.Response "更新成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	bookID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:          bookID,
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
		Price:       req.Price,
		AuthorIDs:   req.AuthorIDs,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateStock 设置库存
// @Summary      设置库存
// @Description  管理员直接设置图书库存（补货/盘点），不影响已售数量
// @Tags         图书模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateStockRequest true "库存数量"
// @Success      200 {object} response.Response "设置成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id}/stock [put]
func (h *BookHandler) UpdateStock(c *gin.Context) {
	bookID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	if err := h.updateStockUseCase.Execute(c.Request.Context(), bookID, req.Stock); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "库存已更新"})
}

// DisableBook 下架图书
// @Summary      下架图书
// @Description  管理员下架图书（软删除语义，图书不再可购买但历史订单保留）
// @Tags         图书模块
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "下架成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [delete]
func (h *BookHandler) DisableBook(c *gin.Context) {
	bookID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.disableBookUseCase.Execute(c.Request.Context(), bookID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "图书已下架"})
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询图书，支持按作者、分类、状态过滤（公开接口）
// @Tags         图书模块
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        author_id query int false "作者ID"
// @Param        category_id query int false "分类ID"
// @Param        status query string false "状态过滤"
// @Success      200 {object} response.Response "查询成功"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	list, total, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:       req.Page,
		PageSize:   req.PageSize,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
		Status:     req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	response.SuccessWithPage(c, list, total, page, pageSize)
}

// GetBook 图书详情
// @Summary      图书详情
// @Description  查询单本图书的完整信息，含作者和分类（公开接口）
// @Tags         图书模块
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "查询成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BestSellers 畅销榜
// @Summary      畅销榜
// @Description  按已售数量降序返回在售图书（公开接口）
// @Tags         图书模块
// @Produce      json
// @Param        limit query int false "返回数量" default(10)
// @Success      200 {object} response.Response "查询成功"
// @Router       /books/best-sellers [get]
func (h *BookHandler) BestSellers(c *gin.Context) {
	var req dto.RankingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.rankingUseCase.BestSellers(c.Request.Context(), req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// NewArrivals 新书榜
// @Summary      新书榜
// @Description  按上架时间降序返回在售图书（公开接口）
// @Tags         图书模块
// @Produce      json
// @Param        limit query int false "返回数量" default(10)
// @Success      200 {object} response.Response "查询成功"
// @Router       /books/new-arrivals [get]
func (h *BookHandler) NewArrivals(c *gin.Context) {
	var req dto.RankingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.rankingUseCase.NewArrivals(c.Request.Context(), req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parseIDParam 解析路径中的:id参数
// 失败时已写入响应，调用方直接return即可
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, 40900, "参数错误: ID格式不正确")
		return 0, false
	}
	return uint(id), true
}
