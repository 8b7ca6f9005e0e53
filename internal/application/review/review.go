package review

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookcatalog/internal/domain/review"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "application/review"

// ReviewResponse 评论响应DTO
type ReviewResponse struct {
	ID           uint   `json:"id"`
	BookID       uint   `json:"book_id"`
	ReviewerName string `json:"reviewer_name"`
	Rating       int    `json:"rating"`
	RatingStars  string `json:"rating_stars"`
	Text         string `json:"text"`
	IsApproved   bool   `json:"is_approved"`
	CreatedAt    string `json:"created_at"`
}

// 邮箱只用于联系评论人,不在响应中返回
func toResponse(r *review.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:           r.ID,
		BookID:       r.BookID,
		ReviewerName: r.ReviewerName,
		Rating:       r.Rating,
		RatingStars:  r.RatingStars(),
		Text:         r.Text,
		IsApproved:   r.IsApproved,
		CreatedAt:    r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// CreateReviewUseCase 提交评论用例(公开接口)
type CreateReviewUseCase struct {
	reviewService review.Service
}

// NewCreateReviewUseCase 创建提交评论用例
func NewCreateReviewUseCase(reviewService review.Service) *CreateReviewUseCase {
	return &CreateReviewUseCase{reviewService: reviewService}
}

// CreateReviewRequest 提交评论请求
type CreateReviewRequest struct {
	BookID       uint
	ReviewerName string
	Email        string
	Rating       int
	Text         string
}

// Execute 提交评论;图书不存在返回ErrBookNotFound
func (uc *CreateReviewUseCase) Execute(ctx context.Context, req CreateReviewRequest) (*ReviewResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateReview", attribute.Int("book_id", int(req.BookID)))
	defer span.End()

	r, err := uc.reviewService.Submit(ctx, req.BookID, review.Fields{
		ReviewerName: req.ReviewerName,
		Email:        req.Email,
		Rating:       req.Rating,
		Text:         req.Text,
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.IncCounter(metrics.ReviewsCreatedTotal)
	zerolog.Ctx(ctx).Info().Uint("book_id", r.BookID).Uint("review_id", r.ID).Msg("review created")
	return toResponse(r), nil
}

// ModerateReviewUseCase 评论审核用例(需要登录)
type ModerateReviewUseCase struct {
	reviewService review.Service
}

// NewModerateReviewUseCase 创建审核用例
func NewModerateReviewUseCase(reviewService review.Service) *ModerateReviewUseCase {
	return &ModerateReviewUseCase{reviewService: reviewService}
}

// Execute 设置审核状态
func (uc *ModerateReviewUseCase) Execute(ctx context.Context, id uint, approved bool) (*ReviewResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ModerateReview",
		attribute.Int("review_id", int(id)),
		attribute.Bool("approved", approved),
	)
	defer span.End()

	r, err := uc.reviewService.Moderate(ctx, id, approved)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return toResponse(r), nil
}

// DeleteReviewUseCase 删除评论用例(需要登录)
type DeleteReviewUseCase struct {
	reviewService review.Service
}

// NewDeleteReviewUseCase 创建删除评论用例
func NewDeleteReviewUseCase(reviewService review.Service) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{reviewService: reviewService}
}

// Execute 删除评论
func (uc *DeleteReviewUseCase) Execute(ctx context.Context, id uint) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteReview", attribute.Int("review_id", int(id)))
	defer span.End()

	if err := uc.reviewService.Remove(ctx, id); err != nil {
		tracing.RecordError(span, err)
		return err
	}
	return nil
}
