package book

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// =========================================
// 搜索
// =========================================

// SearchBooksUseCase 扩展搜索(书名/作者/简介/推荐理由/ISBN),包含无货图书
type SearchBooksUseCase struct {
	repo book.Repository
}

// NewSearchBooksUseCase 创建搜索用例
func NewSearchBooksUseCase(repo book.Repository) *SearchBooksUseCase {
	return &SearchBooksUseCase{repo: repo}
}

// SearchBooksRequest 搜索请求
type SearchBooksRequest struct {
	Query string
	Page  int
}

// SearchBooksResponse 搜索响应
type SearchBooksResponse struct {
	Query      string     `json:"query"`
	List       []BookItem `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Execute 执行搜索;关键字为空时返回空结果而不是错误
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) (*SearchBooksResponse, error) {
	q := strings.TrimSpace(req.Query)
	page := book.NewPage(req.Page, SearchPageSize)
	resp := &SearchBooksResponse{Query: q, List: []BookItem{}, Page: 1, PageSize: SearchPageSize}
	if q == "" {
		return resp, nil
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "SearchBooks", attribute.String("query", q))
	defer span.End()

	books, total, err := uc.repo.Search(ctx, q, page)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if len(books) == 0 && total > 0 {
		page = book.NewPage(lastPage(total, SearchPageSize), SearchPageSize)
		if books, total, err = uc.repo.Search(ctx, q, page); err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
	}

	resp.List = toBookItems(books)
	resp.Total = total
	resp.Page = page.Number
	resp.TotalPages = totalPages(total, SearchPageSize)
	return resp, nil
}

// =========================================
// 体裁页
// =========================================

// GenreBooksUseCase 某体裁下的有货图书
type GenreBooksUseCase struct {
	repo book.Repository
}

// NewGenreBooksUseCase 创建体裁页用例
func NewGenreBooksUseCase(repo book.Repository) *GenreBooksUseCase {
	return &GenreBooksUseCase{repo: repo}
}

// GenreBooksRequest 体裁页请求
type GenreBooksRequest struct {
	Genre string
	Page  int
}

// GenreBooksResponse 体裁页响应
// 未知体裁代码不报错:genre_name为"Неизвестный жанр",列表为空
type GenreBooksResponse struct {
	Genre      string     `json:"genre"`
	GenreName  string     `json:"genre_name"`
	BooksCount int64      `json:"books_count"`
	List       []BookItem `json:"list"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Execute 执行体裁页查询
func (uc *GenreBooksUseCase) Execute(ctx context.Context, req GenreBooksRequest) (*GenreBooksResponse, error) {
	genre := book.Genre(strings.TrimSpace(req.Genre))
	page := book.NewPage(req.Page, GenrePageSize)

	ctx, span := tracing.StartSpan(ctx, tracerName, "GenreBooks", attribute.String("genre", string(genre)))
	defer span.End()

	books, total, err := uc.repo.ListByGenre(ctx, genre, page)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if len(books) == 0 && total > 0 {
		page = book.NewPage(lastPage(total, GenrePageSize), GenrePageSize)
		if books, total, err = uc.repo.ListByGenre(ctx, genre, page); err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
	}

	return &GenreBooksResponse{
		Genre:      string(genre),
		GenreName:  genre.Label(),
		BooksCount: total,
		List:       toBookItems(books),
		Page:       page.Number,
		PageSize:   GenrePageSize,
		TotalPages: totalPages(total, GenrePageSize),
	}, nil
}

// =========================================
// 作者页
// =========================================

// AuthorBooksUseCase 某作者的有货图书及汇总
type AuthorBooksUseCase struct {
	repo book.Repository
}

// NewAuthorBooksUseCase 创建作者页用例
func NewAuthorBooksUseCase(repo book.Repository) *AuthorBooksUseCase {
	return &AuthorBooksUseCase{repo: repo}
}

// AuthorBooksRequest 作者页请求
type AuthorBooksRequest struct {
	Author string
	Page   int
}

// AuthorStats 作者汇总(只统计有货图书)
type AuthorStats struct {
	AvgRating  *float64 `json:"avg_rating"`
	AvgPrice   *float64 `json:"avg_price"` // 卢布
	TotalPages *int     `json:"total_pages"`
}

// AuthorBooksResponse 作者页响应;作者没有有货图书时AuthorStats为nil
type AuthorBooksResponse struct {
	Author      string       `json:"author"`
	AuthorStats *AuthorStats `json:"author_stats"`
	BooksCount  int          `json:"books_count"`
	List        []BookItem   `json:"list"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
	TotalPages  int          `json:"total_pages"`
}

// Execute 执行作者页查询
// 汇总需要作者的全部有货图书,因此一次取出后在内存中分页
func (uc *AuthorBooksUseCase) Execute(ctx context.Context, req AuthorBooksRequest) (*AuthorBooksResponse, error) {
	author := strings.TrimSpace(req.Author)

	ctx, span := tracing.StartSpan(ctx, tracerName, "AuthorBooks", attribute.String("author", author))
	defer span.End()

	books, _, err := uc.repo.ListByAuthor(ctx, author, book.Page{})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	total := int64(len(books))
	page := book.NewPage(req.Page, AuthorPageSize)
	if page.Offset() >= len(books) {
		page = book.NewPage(lastPage(total, AuthorPageSize), AuthorPageSize)
	}

	return &AuthorBooksResponse{
		Author:      author,
		AuthorStats: toAuthorStats(book.SummarizeAuthor(books)),
		BooksCount:  len(books),
		List:        toBookItems(book.Paginate(books, page.Number, page.Size)),
		Page:        page.Number,
		PageSize:    AuthorPageSize,
		TotalPages:  totalPages(total, AuthorPageSize),
	}, nil
}

func toAuthorStats(s *book.AuthorSummary) *AuthorStats {
	if s == nil {
		return nil
	}
	out := &AuthorStats{TotalPages: s.TotalPages}
	if s.AvgRating != nil {
		v := round(*s.AvgRating, 1)
		out.AvgRating = &v
	}
	if s.AvgPrice != nil {
		v := rubles(*s.AvgPrice)
		out.AvgPrice = &v
	}
	return out
}

// =========================================
// 体裁列表
// =========================================

// GenreOption 体裁代码与名称
type GenreOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ListGenres 全部体裁(按声明顺序),供客户端渲染筛选项
func ListGenres() []GenreOption {
	genres := book.Genres()
	out := make([]GenreOption, len(genres))
	for i, g := range genres {
		out[i] = GenreOption{Code: string(g), Name: g.Label()}
	}
	return out
}

// PriceRangeOption 价格区间选项
type PriceRangeOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ListPriceRanges 全部价格区间
func ListPriceRanges() []PriceRangeOption {
	bands := book.PriceBands()
	out := make([]PriceRangeOption, len(bands))
	for i, b := range bands {
		out[i] = PriceRangeOption{Code: string(b), Name: b.Label()}
	}
	return out
}
