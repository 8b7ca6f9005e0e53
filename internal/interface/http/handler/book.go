package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// BookHandler 图书目录HTTP处理器
// Handler只负责解析请求、调用应用层、返回响应;过滤/排序/统计逻辑都在domain层
type BookHandler struct {
	listUseCase         *appbook.ListBooksUseCase
	searchUseCase       *appbook.SearchBooksUseCase
	genreUseCase        *appbook.GenreBooksUseCase
	authorUseCase       *appbook.AuthorBooksUseCase
	getUseCase          *appbook.GetBookUseCase
	createUseCase       *appbook.CreateBookUseCase
	updateUseCase       *appbook.UpdateBookUseCase
	deleteUseCase       *appbook.DeleteBookUseCase
	availabilityUseCase *appbook.SetAvailabilityUseCase
	statisticsUseCase   *appbook.StatisticsUseCase
	exportUseCase       *appbook.ExportBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listUseCase *appbook.ListBooksUseCase,
	searchUseCase *appbook.SearchBooksUseCase,
	genreUseCase *appbook.GenreBooksUseCase,
	authorUseCase *appbook.AuthorBooksUseCase,
	getUseCase *appbook.GetBookUseCase,
	createUseCase *appbook.CreateBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
	availabilityUseCase *appbook.SetAvailabilityUseCase,
	statisticsUseCase *appbook.StatisticsUseCase,
	exportUseCase *appbook.ExportBooksUseCase,
) *BookHandler {
	return &BookHandler{
		listUseCase:         listUseCase,
		searchUseCase:       searchUseCase,
		genreUseCase:        genreUseCase,
		authorUseCase:       authorUseCase,
		getUseCase:          getUseCase,
		createUseCase:       createUseCase,
		updateUseCase:       updateUseCase,
		deleteUseCase:       deleteUseCase,
		availabilityUseCase: availabilityUseCase,
		statisticsUseCase:   statisticsUseCase,
		exportUseCase:       exportUseCase,
	}
}

// List 图书目录
// @Summary      图书目录
// @Description  有货图书列表,支持关键字/体裁/价格区间过滤与排序,每页15条;附带最新与高分推荐
// @Tags         图书
// @Produce      json
// @Param        search          query string false "关键字(书名/作者/简介)"
// @Param        genre           query string false "体裁代码"
// @Param        price_range     query string false "价格区间" Enums(0-300, 300-700, 700-1000, 1000-)
// @Param        sort_by         query string false "排序字段,前缀-表示降序" default(-created_at)
// @Param        only_available  query string false "缺省或on表示仅有货,其他值包含无货"
// @Param        page            query int    false "页码" default(1)
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var q dto.ListBooksQuery
	_ = c.ShouldBindQuery(&q) // 全部是字符串,不会失败

	params := book.RawParams{
		Search:     q.Search,
		Genre:      q.Genre,
		PriceRange: q.PriceRange,
		SortBy:     q.SortBy,
	}
	if v, ok := c.GetQuery("only_available"); ok {
		params.OnlyAvailable = &v
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Params: params,
		Page:   parsePage(q.Page),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Search 扩展搜索
// @Summary      搜索图书
// @Description  在书名/作者/简介/推荐理由/ISBN中搜索(包含无货图书),每页10条;q为空时返回空结果
// @Tags         图书
// @Produce      json
// @Param        q     query string false "关键字"
// @Param        page  query int    false "页码" default(1)
// @Success      200 {object} response.Response{data=appbook.SearchBooksResponse}
// @Router       /api/v1/books/search [get]
func (h *BookHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	_ = c.ShouldBindQuery(&q)

	result, err := h.searchUseCase.Execute(c.Request.Context(), appbook.SearchBooksRequest{
		Query: q.Q,
		Page:  parsePage(q.Page),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Detail 图书详情
// @Summary      图书详情
// @Description  图书完整信息与已审核的评论(新评论在前)
// @Tags         图书
// @Produce      json
// @Param        id   path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Detail(c *gin.Context) {
	id, err := parseID(c, book.ErrBookNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Genres 体裁列表
// @Summary      体裁列表
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.GenreOption}
// @Router       /api/v1/genres [get]
func (h *BookHandler) Genres(c *gin.Context) {
	response.Success(c, appbook.ListGenres())
}

// PriceRanges 价格区间列表
// @Summary      价格区间列表
// @Tags         目录
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.PriceRangeOption}
// @Router       /api/v1/price-ranges [get]
func (h *BookHandler) PriceRanges(c *gin.Context) {
	response.Success(c, appbook.ListPriceRanges())
}

// GenreBooks 体裁页
// @Summary      体裁页
// @Description  某体裁下的有货图书,每页12条;未知体裁返回空列表
// @Tags         目录
// @Produce      json
// @Param        genre  path  string true  "体裁代码"
// @Param        page   query int    false "页码" default(1)
// @Success      200 {object} response.Response{data=appbook.GenreBooksResponse}
// @Router       /api/v1/genres/{genre}/books [get]
func (h *BookHandler) GenreBooks(c *gin.Context) {
	result, err := h.genreUseCase.Execute(c.Request.Context(), appbook.GenreBooksRequest{
		Genre: c.Param("genre"),
		Page:  parsePage(c.Query("page")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AuthorBooks 作者页
// @Summary      作者页
// @Description  作者(精确匹配)的有货图书与汇总统计,每页12条
// @Tags         目录
// @Produce      json
// @Param        author  path  string true  "作者"
// @Param        page    query int    false "页码" default(1)
// @Success      200 {object} response.Response{data=appbook.AuthorBooksResponse}
// @Router       /api/v1/authors/{author}/books [get]
func (h *BookHandler) AuthorBooks(c *gin.Context) {
	result, err := h.authorUseCase.Execute(c.Request.Context(), appbook.AuthorBooksRequest{
		Author: c.Param("author"),
		Page:   parsePage(c.Query("page")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Statistics 目录统计
// @Summary      目录统计
// @Description  图书总数、价格统计、体裁分布、出版年份分布、高产作者
// @Tags         统计
// @Produce      json
// @Success      200 {object} response.Response{data=appbook.StatisticsResponse}
// @Router       /api/v1/books/statistics [get]
func (h *BookHandler) Statistics(c *gin.Context) {
	result, err := h.statisticsUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Create 新增图书
// @Summary      新增图书
// @Tags         管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookDetail}
// @Failure      401 {object} response.Response "未登录"
// @Failure      400 {object} response.Response "参数校验失败"
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.BookRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), toBookInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update 编辑图书
// @Summary      编辑图书
// @Description  整体替换可编辑字段
// @Tags         管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int             true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, err := parseID(c, book.ErrBookNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.BookRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), id, toBookInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除图书(连同评论)
// @Summary      删除图书
// @Tags         管理
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := parseID(c, book.ErrBookNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SetAvailability 批量上架/下架
// @Summary      批量上下架
// @Tags         管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AvailabilityRequest true "图书ID与目标状态"
// @Success      200 {object} response.Response{data=appbook.SetAvailabilityResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/books/availability [post]
func (h *BookHandler) SetAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.availabilityUseCase.Execute(c.Request.Context(), appbook.SetAvailabilityRequest{
		IDs:       req.IDs,
		Available: *req.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Export 导出CSV
// @Summary      导出CSV
// @Description  导出全部图书为带BOM的UTF-8 CSV(Excel可直接打开)
// @Tags         管理
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200 {file} file
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/books/export [get]
func (h *BookHandler) Export(c *gin.Context) {
	// 先写入缓冲区,出错时还能返回JSON错误
	var buf bytes.Buffer
	if _, err := h.exportUseCase.Execute(c.Request.Context(), &buf); err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, appbook.ExportFilename))
	c.Data(http.StatusOK, appbook.ExportContentType, buf.Bytes())
}

func toBookInput(req dto.BookRequest) appbook.BookInput {
	return appbook.BookInput{
		Title:            req.Title,
		Author:           req.Author,
		Genre:            req.Genre,
		ShortDescription: req.ShortDescription,
		ReadingReason:    req.ReadingReason,
		Rating:           req.Rating,
		Price:            req.Price,
		ISBN:             req.ISBN,
		PublicationYear:  req.PublicationYear,
		PageCount:        req.PageCount,
		IsAvailable:      req.IsAvailable,
	}
}
