package book

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/review"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// StatisticsUseCase 统计页用例
// 每次请求都对完整集合重新计算,不缓存
type StatisticsUseCase struct {
	books   book.Repository
	reviews review.Repository
	now     func() time.Time
}

// NewStatisticsUseCase 创建统计用例
func NewStatisticsUseCase(books book.Repository, reviews review.Repository) *StatisticsUseCase {
	return &StatisticsUseCase{books: books, reviews: reviews, now: time.Now}
}

// PriceStatsDTO 价格汇总(卢布);集合为空时均值/最小/最大为null
type PriceStatsDTO struct {
	AvgPrice   *float64 `json:"avg_price"`
	MinPrice   *float64 `json:"min_price"`
	MaxPrice   *float64 `json:"max_price"`
	TotalValue float64  `json:"total_value"`
}

// GenreStatDTO 体裁统计
type GenreStatDTO struct {
	Genre      string  `json:"genre"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	AvgPrice   float64 `json:"avg_price"`
}

// YearStatDTO 出版年份分组
type YearStatDTO struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// AuthorStatDTO 作者排行
type AuthorStatDTO struct {
	Author    string   `json:"author"`
	BookCount int      `json:"book_count"`
	AvgRating *float64 `json:"avg_rating"`
}

// StatisticsResponse 统计页响应
type StatisticsResponse struct {
	TotalBooks       int             `json:"total_books"`
	AvailableBooks   int             `json:"available_books"`
	BooksWithReviews int             `json:"books_with_reviews"`
	RecentMonth      int             `json:"recent_month"`
	PriceStats       PriceStatsDTO   `json:"price_stats"`
	GenreStats       []GenreStatDTO  `json:"genre_stats"`
	YearStats        []YearStatDTO   `json:"year_stats"`
	TopAuthors       []AuthorStatDTO `json:"top_authors"`
}

// Execute 计算统计数据
func (uc *StatisticsUseCase) Execute(ctx context.Context) (*StatisticsResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Statistics")
	defer span.End()

	// 两个查询互不依赖,并发执行
	var (
		books    []*book.Book
		reviewed []uint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = uc.books.All(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reviewed, err = uc.reviews.ReviewedBookIDs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	return toStatisticsResponse(book.ComputeStatistics(books, reviewed, uc.now())), nil
}

func toStatisticsResponse(st book.Statistics) *StatisticsResponse {
	resp := &StatisticsResponse{
		TotalBooks:       st.TotalBooks,
		AvailableBooks:   st.AvailableBooks,
		BooksWithReviews: st.BooksWithReviews,
		RecentMonth:      st.RecentMonth,
		PriceStats: PriceStatsDTO{
			TotalValue: rubles(float64(st.Price.Sum)),
		},
		GenreStats: make([]GenreStatDTO, len(st.Genres)),
		YearStats:  make([]YearStatDTO, len(st.YearBuckets)),
		TopAuthors: make([]AuthorStatDTO, len(st.TopAuthors)),
	}

	if st.Price.Avg != nil {
		v := rubles(*st.Price.Avg)
		resp.PriceStats.AvgPrice = &v
	}
	if st.Price.Min != nil {
		v := rubles(float64(*st.Price.Min))
		resp.PriceStats.MinPrice = &v
	}
	if st.Price.Max != nil {
		v := rubles(float64(*st.Price.Max))
		resp.PriceStats.MaxPrice = &v
	}

	for i, g := range st.Genres {
		resp.GenreStats[i] = GenreStatDTO{
			Genre:      string(g.Genre),
			Name:       g.Name,
			Count:      g.Count,
			Percentage: round(g.Percentage, 1),
			AvgPrice:   rubles(g.AvgPrice),
		}
	}
	for i, y := range st.YearBuckets {
		resp.YearStats[i] = YearStatDTO{Period: y.Label(), Count: y.Count}
	}
	for i, a := range st.TopAuthors {
		item := AuthorStatDTO{Author: a.Author, BookCount: a.BookCount}
		if a.AvgRating != nil {
			v := round(*a.AvgRating, 1)
			item.AvgRating = &v
		}
		resp.TopAuthors[i] = item
	}
	return resp
}
