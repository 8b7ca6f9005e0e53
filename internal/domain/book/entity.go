package book

import (
	"math"
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 价格使用int64存储"戈比"(1卢布=100戈比),避免浮点数精度问题
// 2. Rating/PublicationYear/PageCount为可选字段,nil表示未填写
// 3. 评论(Review)只通过BookID引用图书,Book不持有评论集合
type Book struct {
	ID               uint
	Title            string   // 书名
	Author           string   // 作者
	Genre            Genre    // 体裁
	ShortDescription string   // 简介
	ReadingReason    string   // 推荐理由
	Rating           *float64 // 评分0.0-10.0,保存时四舍五入到一位小数
	Price            int64    // 价格(戈比)
	ISBN             string   // 可选,最长13位
	PublicationYear  *int     // 出版年份1800-2100
	PageCount        *int     // 页数
	IsAvailable      bool     // 是否有货
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Fields 可编辑字段集合(新增与编辑共用)
type Fields struct {
	Title            string
	Author           string
	Genre            Genre
	ShortDescription string
	ReadingReason    string
	Rating           *float64
	Price            int64
	ISBN             string
	PublicationYear  *int
	PageCount        *int
	IsAvailable      bool
}

// NewBook 创建新图书(工厂方法)
// 调用方需先通过Fields.Validate校验
func NewBook(f Fields) *Book {
	now := time.Now()
	b := &Book{CreatedAt: now}
	b.apply(f, now)
	return b
}

// Update 覆盖全部可编辑字段
func (b *Book) Update(f Fields) {
	b.apply(f, time.Now())
}

func (b *Book) apply(f Fields, now time.Time) {
	genre := f.Genre
	if genre == "" {
		genre = DefaultGenre
	}
	b.Title = strings.TrimSpace(f.Title)
	b.Author = strings.TrimSpace(f.Author)
	b.Genre = genre
	b.ShortDescription = f.ShortDescription
	b.ReadingReason = f.ReadingReason
	b.Rating = RoundRating(f.Rating)
	b.Price = f.Price
	b.ISBN = strings.TrimSpace(f.ISBN)
	b.PublicationYear = f.PublicationYear
	b.PageCount = f.PageCount
	b.IsAvailable = f.IsAvailable
	b.UpdatedAt = now
}

// SetAvailability 上架/下架
func (b *Book) SetAvailability(available bool) {
	b.IsAvailable = available
	b.UpdatedAt = time.Now()
}

// PriceBand 价格所属区间
func (b *Book) PriceBand() PriceBand {
	return ClassifyPrice(b.Price)
}

// PriceCategory 价格类别名称(Бюджетная/Средняя/Премиум/Элитная)
func (b *Book) PriceCategory() string {
	return b.PriceBand().Label()
}

// RatingStars 五星制的评分展示,如 ★★★½☆
func (b *Book) RatingStars() string {
	if b.Rating == nil || *b.Rating == 0 {
		return strings.Repeat("☆", 5)
	}
	r := *b.Rating
	stars := int(r)
	half := r-float64(stars) >= 0.5
	empty := 5 - stars
	if half {
		empty--
	}
	var sb strings.Builder
	sb.WriteString(strings.Repeat("★", stars))
	if half {
		sb.WriteString("½")
	}
	if empty > 0 {
		sb.WriteString(strings.Repeat("☆", empty))
	}
	return sb.String()
}

// RoundRating 评分四舍五入到一位小数(7.26 → 7.3),nil保持nil
func RoundRating(r *float64) *float64 {
	if r == nil {
		return nil
	}
	v := math.Round(*r*10) / 10
	return &v
}
