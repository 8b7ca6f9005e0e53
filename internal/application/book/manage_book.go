package book

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/review"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// CreateBookUseCase 新增图书用例(需要登录)
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建新增用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService}
}

// Execute 新增图书;校验失败时返回字段级错误,不保存任何数据
func (uc *CreateBookUseCase) Execute(ctx context.Context, in BookInput) (*BookDetail, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateBook")
	defer span.End()

	b, err := uc.bookService.CreateBook(ctx, in.Fields())
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.IncCounter(metrics.BooksCreatedTotal)
	zerolog.Ctx(ctx).Info().Uint("book_id", b.ID).Str("title", b.Title).Msg("book created")

	return toBookDetail(b, nil), nil
}

// UpdateBookUseCase 编辑图书用例(需要登录)
type UpdateBookUseCase struct {
	bookService book.Service
	cache       *redis.BookCache
}

// NewUpdateBookUseCase 创建编辑用例
func NewUpdateBookUseCase(bookService book.Service, cache *redis.BookCache) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, cache: cache}
}

// Execute 全量覆盖可编辑字段
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, in BookInput) (*BookDetail, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateBook", attribute.Int("book_id", int(id)))
	defer span.End()

	b, err := uc.bookService.UpdateBook(ctx, id, in.Fields())
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	invalidate(ctx, uc.cache, id)
	metrics.IncCounter(metrics.BooksUpdatedTotal)

	return toBookDetail(b, nil), nil
}

// DeleteBookUseCase 删除图书用例(需要登录)
// 评论与图书在同一事务中删除
type DeleteBookUseCase struct {
	txManager *mysql.TxManager
	books     book.Repository
	reviews   review.Repository
	cache     *redis.BookCache
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(txManager *mysql.TxManager, books book.Repository, reviews review.Repository, cache *redis.BookCache) *DeleteBookUseCase {
	return &DeleteBookUseCase{txManager: txManager, books: books, reviews: reviews, cache: cache}
}

// Execute 删除图书及其评论,不存在返回ErrBookNotFound
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteBook", attribute.Int("book_id", int(id)))
	defer span.End()

	var removedReviews int64
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		// 1. 先确认图书存在
		if _, err := uc.books.FindByID(ctx, id); err != nil {
			return err
		}

		// 2. 删除评论
		n, err := uc.reviews.DeleteByBook(ctx, id)
		if err != nil {
			return err
		}
		removedReviews = n

		// 3. 删除图书
		return uc.books.Delete(ctx, id)
	})
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	invalidate(ctx, uc.cache, id)
	metrics.IncCounter(metrics.BooksDeletedTotal)
	zerolog.Ctx(ctx).Info().Uint("book_id", id).Int64("reviews", removedReviews).Msg("book deleted")
	return nil
}

// SetAvailabilityUseCase 批量上架/下架用例(需要登录)
type SetAvailabilityUseCase struct {
	bookService book.Service
	cache       *redis.BookCache
}

// NewSetAvailabilityUseCase 创建批量上下架用例
func NewSetAvailabilityUseCase(bookService book.Service, cache *redis.BookCache) *SetAvailabilityUseCase {
	return &SetAvailabilityUseCase{bookService: bookService, cache: cache}
}

// SetAvailabilityRequest 批量上下架请求
type SetAvailabilityRequest struct {
	IDs       []uint
	Available bool
}

// SetAvailabilityResponse 批量上下架响应
type SetAvailabilityResponse struct {
	Updated   int64 `json:"updated"`
	Available bool  `json:"available"`
}

// Execute 执行批量上下架,返回实际更新的数量
func (uc *SetAvailabilityUseCase) Execute(ctx context.Context, req SetAvailabilityRequest) (*SetAvailabilityResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "SetAvailability",
		attribute.Int("ids", len(req.IDs)),
		attribute.Bool("available", req.Available),
	)
	defer span.End()

	n, err := uc.bookService.SetAvailability(ctx, req.IDs, req.Available)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	invalidate(ctx, uc.cache, req.IDs...)
	metrics.AddCounterVec(metrics.AvailabilityChangesTotal,
		map[string]string{"available": strconv.FormatBool(req.Available)}, float64(n))

	return &SetAvailabilityResponse{Updated: n, Available: req.Available}, nil
}
