package book

import (
	"math"
	"strings"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/review"
)

// 分页大小
const (
	ListPageSize   = 15
	SearchPageSize = 10
	GenrePageSize  = 12
	AuthorPageSize = 12

	// HighlightsLimit 列表页"最新添加"与"评分最高"的条数
	HighlightsLimit = 5
)

const timeLayout = "2006-01-02 15:04:05"

// BookItem 列表项DTO(不含推荐理由等长文本)
type BookItem struct {
	ID               uint     `json:"id"`
	Title            string   `json:"title"`
	Author           string   `json:"author"`
	Genre            string   `json:"genre"`
	GenreName        string   `json:"genre_name"`
	ShortDescription string   `json:"short_description"`
	Rating           *float64 `json:"rating"`
	RatingStars      string   `json:"rating_stars"`
	Price            string   `json:"price"` // 卢布,两位小数
	PriceCategory    string   `json:"price_category"`
	PublicationYear  *int     `json:"publication_year"`
	IsAvailable      bool     `json:"is_available"`
	CreatedAt        string   `json:"created_at"`
}

// BookDetail 详情DTO
type BookDetail struct {
	BookItem
	ReadingReason string       `json:"reading_reason"`
	ISBN          string       `json:"isbn"`
	PageCount     *int         `json:"page_count"`
	UpdatedAt     string       `json:"updated_at"`
	Reviews       []ReviewItem `json:"reviews"`
}

// ReviewItem 详情页中的评论
type ReviewItem struct {
	ID           uint   `json:"id"`
	ReviewerName string `json:"reviewer_name"`
	Rating       int    `json:"rating"`
	RatingStars  string `json:"rating_stars"`
	Text         string `json:"text"`
	CreatedAt    string `json:"created_at"`
}

// BookInput 新增/编辑表单
type BookInput struct {
	Title            string
	Author           string
	Genre            string
	ShortDescription string
	ReadingReason    string
	Rating           *float64
	Price            float64 // 卢布
	ISBN             string
	PublicationYear  *int
	PageCount        *int
	IsAvailable      *bool // nil表示默认有货
}

// Fields 表单 → 领域字段
func (in BookInput) Fields() book.Fields {
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	return book.Fields{
		Title:            in.Title,
		Author:           in.Author,
		Genre:            book.Genre(strings.TrimSpace(in.Genre)),
		ShortDescription: in.ShortDescription,
		ReadingReason:    in.ReadingReason,
		Rating:           in.Rating,
		Price:            book.RublesFromFloat(in.Price),
		ISBN:             in.ISBN,
		PublicationYear:  in.PublicationYear,
		PageCount:        in.PageCount,
		IsAvailable:      available,
	}
}

// toBookItem 领域实体 → 列表项DTO
func toBookItem(b *book.Book) BookItem {
	return BookItem{
		ID:               b.ID,
		Title:            b.Title,
		Author:           b.Author,
		Genre:            string(b.Genre),
		GenreName:        b.Genre.Label(),
		ShortDescription: b.ShortDescription,
		Rating:           b.Rating,
		RatingStars:      b.RatingStars(),
		Price:            book.FormatRubles(b.Price),
		PriceCategory:    b.PriceCategory(),
		PublicationYear:  b.PublicationYear,
		IsAvailable:      b.IsAvailable,
		CreatedAt:        formatTime(b.CreatedAt),
	}
}

func toBookItems(books []*book.Book) []BookItem {
	items := make([]BookItem, len(books))
	for i, b := range books {
		items[i] = toBookItem(b)
	}
	return items
}

// toBookDetail 领域实体 + 已审核评论 → 详情DTO
func toBookDetail(b *book.Book, reviews []*review.Review) *BookDetail {
	items := make([]ReviewItem, len(reviews))
	for i, r := range reviews {
		items[i] = ReviewItem{
			ID:           r.ID,
			ReviewerName: r.ReviewerName,
			Rating:       r.Rating,
			RatingStars:  r.RatingStars(),
			Text:         r.Text,
			CreatedAt:    formatTime(r.CreatedAt),
		}
	}
	return &BookDetail{
		BookItem:      toBookItem(b),
		ReadingReason: b.ReadingReason,
		ISBN:          b.ISBN,
		PageCount:     b.PageCount,
		UpdatedAt:     formatTime(b.UpdatedAt),
		Reviews:       items,
	}
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// totalPages 总页数
func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// lastPage 页码超出范围时回退到最后一页
func lastPage(total int64, pageSize int) int {
	return max(totalPages(total, pageSize), 1)
}

// rubles 戈比均值 → 卢布,保留两位小数
func rubles(kopecks float64) float64 {
	return round(book.ToRubles(kopecks), 2)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
