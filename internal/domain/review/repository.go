package review

import (
	"context"
)

// Repository 评论仓储接口
type Repository interface {
	// Create 创建评论,回填ID
	Create(ctx context.Context, review *Review) error

	// FindByID 不存在返回ErrReviewNotFound
	FindByID(ctx context.Context, id uint) (*Review, error)

	// ListApprovedByBook 某本书已审核的评论,最新在前
	ListApprovedByBook(ctx context.Context, bookID uint) ([]*Review, error)

	// SetApproved 修改审核状态,不存在返回ErrReviewNotFound
	SetApproved(ctx context.Context, id uint, approved bool) error

	// Delete 删除评论,不存在返回ErrReviewNotFound
	Delete(ctx context.Context, id uint) error

	// DeleteByBook 删除某本书的全部评论(图书删除时在同一事务中调用)
	DeleteByBook(ctx context.Context, bookID uint) (int64, error)

	// ReviewedBookIDs 至少有一条评论的图书ID(去重)
	ReviewedBookIDs(ctx context.Context) ([]uint, error)
}
