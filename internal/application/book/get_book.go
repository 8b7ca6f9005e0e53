package book

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/review"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// GetBookUseCase 图书详情用例
// 设计说明:
// 1. 图书实体走Cache-Aside:先读Redis,未命中再查数据库并回写
// 2. 评论列表不缓存,每次查询最新的已审核评论
// 3. 缓存读写失败只记录日志,不影响主流程
type GetBookUseCase struct {
	repo    book.Repository
	reviews review.Repository
	cache   *redis.BookCache // nil表示未启用缓存
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(repo book.Repository, reviews review.Repository, cache *redis.BookCache) *GetBookUseCase {
	return &GetBookUseCase{repo: repo, reviews: reviews, cache: cache}
}

// Execute 查询详情,不存在返回ErrBookNotFound
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetail, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetBook", attribute.Int("book_id", int(id)))
	defer span.End()

	b, err := uc.load(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	reviews, err := uc.reviews.ListApprovedByBook(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	return toBookDetail(b, reviews), nil
}

func (uc *GetBookUseCase) load(ctx context.Context, id uint) (*book.Book, error) {
	if uc.cache == nil {
		return uc.repo.FindByID(ctx, id)
	}

	logger := zerolog.Ctx(ctx)
	cached, err := uc.cache.Get(ctx, id)
	switch {
	case err != nil:
		metrics.IncCounterVec(metrics.BookCacheEventsTotal, map[string]string{"result": "error"})
		logger.Warn().Err(err).Uint("book_id", id).Msg("book cache get failed")
	case cached != nil:
		metrics.IncCounterVec(metrics.BookCacheEventsTotal, map[string]string{"result": "hit"})
		return cached, nil
	default:
		metrics.IncCounterVec(metrics.BookCacheEventsTotal, map[string]string{"result": "miss"})
	}

	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, b); err != nil {
		logger.Warn().Err(err).Uint("book_id", id).Msg("book cache set failed")
	}
	return b, nil
}

// invalidate 写操作后删除详情缓存
func invalidate(ctx context.Context, cache *redis.BookCache, ids ...uint) {
	if cache == nil || len(ids) == 0 {
		return
	}
	if err := cache.Delete(ctx, ids...); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Interface("book_ids", ids).Msg("book cache invalidate failed")
	}
}
