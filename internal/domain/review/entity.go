package review

import (
	"strings"
	"time"
)

// Review 图书评论
// 只通过BookID引用图书,删除图书时级联删除其评论
type Review struct {
	ID           uint
	BookID       uint
	ReviewerName string // 评论人
	Email        string // 可选
	Rating       int    // 1-10
	Text         string
	IsApproved   bool // 新评论默认通过审核
	CreatedAt    time.Time
}

// Fields 提交评论的表单字段
type Fields struct {
	ReviewerName string
	Email        string
	Rating       int
	Text         string
}

// NewReview 创建评论(工厂方法)
func NewReview(bookID uint, f Fields) *Review {
	return &Review{
		BookID:       bookID,
		ReviewerName: strings.TrimSpace(f.ReviewerName),
		Email:        strings.TrimSpace(f.Email),
		Rating:       f.Rating,
		Text:         strings.TrimSpace(f.Text),
		IsApproved:   true,
		CreatedAt:    time.Now(),
	}
}

// RatingStars 十星制展示,如 ★★★★★★★☆☆☆
func (r *Review) RatingStars() string {
	n := min(max(r.Rating, 0), MaxRating)
	return strings.Repeat("★", n) + strings.Repeat("☆", MaxRating-n)
}
