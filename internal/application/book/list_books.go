package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "application/book"

// ListBooksUseCase 目录列表用例
// 设计说明:
// 1. 过滤与排序规则全部由book.ParseFilter规范化,非法参数静默回退为默认值
// 2. 除当前页外,同时返回全局的"最新添加"与"评分最高"(不受过滤条件影响)
// 3. 页码超出范围时返回最后一页
type ListBooksUseCase struct {
	repo book.Repository
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(repo book.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{repo: repo}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Params book.RawParams
	Page   int
}

// AppliedFilter 规范化后的过滤条件(回显给客户端)
type AppliedFilter struct {
	Search        string `json:"search"`
	Genre         string `json:"genre"`
	PriceRange    string `json:"price_range"`
	SortBy        string `json:"sort_by"`
	OnlyAvailable bool   `json:"only_available"`
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List        []BookItem    `json:"list"`
	Total       int64         `json:"total"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	Filter      AppliedFilter `json:"filter"`
	RecentBooks []BookItem    `json:"recent_books"`
	TopRated    []BookItem    `json:"top_rated"`
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	filter := book.ParseFilter(req.Params)

	ctx, span := tracing.StartSpan(ctx, tracerName, "ListBooks",
		attribute.String("sort_by", filter.Sort().String()),
		attribute.Bool("only_available", filter.OnlyAvailable()),
	)
	defer span.End()

	// 1. 当前页
	page := book.NewPage(req.Page, ListPageSize)
	books, total, err := uc.repo.List(ctx, filter, page)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if len(books) == 0 && total > 0 {
		page = book.NewPage(lastPage(total, ListPageSize), ListPageSize)
		if books, total, err = uc.repo.List(ctx, filter, page); err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
	}

	// 2. 侧栏
	recent, err := uc.repo.Recent(ctx, HighlightsLimit)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	top, err := uc.repo.TopRated(ctx, HighlightsLimit)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("total", total))

	return &ListBooksResponse{
		List:        toBookItems(books),
		Total:       total,
		Page:        page.Number,
		PageSize:    page.Size,
		TotalPages:  totalPages(total, page.Size),
		Filter:      appliedFilter(filter),
		RecentBooks: toBookItems(recent),
		TopRated:    toBookItems(top),
	}, nil
}

func appliedFilter(f book.Filter) AppliedFilter {
	out := AppliedFilter{
		Search:        f.Search(),
		SortBy:        f.Sort().String(),
		OnlyAvailable: f.OnlyAvailable(),
	}
	if g, ok := f.Genre(); ok {
		out.Genre = string(g)
	}
	if b, ok := f.PriceBand(); ok {
		out.PriceRange = string(b)
	}
	return out
}
