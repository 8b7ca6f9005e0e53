package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/review"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// reviewRepository 评论仓储实现
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评论仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// Create 创建评论
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		BookID:       rv.BookID,
		ReviewerName: rv.ReviewerName,
		Email:        rv.Email,
		Rating:       rv.Rating,
		Text:         rv.Text,
		IsApproved:   rv.IsApproved,
		CreatedAt:    rv.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建评论失败")
	}
	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	return nil
}

// FindByID 根据ID查找评论
func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	var model ReviewModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "查询评论失败")
	}
	return toReviewEntity(&model), nil
}

// ListApprovedByBook 已审核评论,最新在前
func (r *reviewRepository) ListApprovedByBook(ctx context.Context, bookID uint) ([]*review.Review, error) {
	var models []ReviewModel
	err := getDB(ctx, r.db).
		Where("book_id = ? AND is_approved = ?", bookID, true).
		Order("created_at DESC").Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询评论列表失败")
	}

	reviews := make([]*review.Review, len(models))
	for i := range models {
		reviews[i] = toReviewEntity(&models[i])
	}
	return reviews, nil
}

// SetApproved 修改审核状态
// 值未变化时MySQL返回RowsAffected=0,因此用存在性查询判断404
func (r *reviewRepository) SetApproved(ctx context.Context, id uint, approved bool) error {
	db := getDB(ctx, r.db)
	result := db.Model(&ReviewModel{}).Where("id = ?", id).Update("is_approved", approved)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "修改审核状态失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&ReviewModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(err, "查询评论失败")
	}
	if count == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// Delete 删除评论
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除评论失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// DeleteByBook 删除某本书的全部评论
func (r *reviewRepository) DeleteByBook(ctx context.Context, bookID uint) (int64, error) {
	result := getDB(ctx, r.db).Where("book_id = ?", bookID).Delete(&ReviewModel{})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "删除图书评论失败")
	}
	return result.RowsAffected, nil
}

// ReviewedBookIDs 有评论的图书ID
func (r *reviewRepository) ReviewedBookIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := getDB(ctx, r.db).Model(&ReviewModel{}).
		Distinct("book_id").
		Order("book_id").
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询评论图书失败")
	}
	return ids, nil
}

// toReviewEntity GORM模型 → 领域实体
func toReviewEntity(model *ReviewModel) *review.Review {
	return &review.Review{
		ID:           model.ID,
		BookID:       model.BookID,
		ReviewerName: model.ReviewerName,
		Email:        model.Email,
		Rating:       model.Rating,
		Text:         model.Text,
		IsApproved:   model.IsApproved,
		CreatedAt:    model.CreatedAt,
	}
}
