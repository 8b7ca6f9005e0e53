package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL/SQLite)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. List把book.Filter翻译成SQL,结果顺序与book.Apply一致
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// searchColumns 目录列表的搜索字段
var searchColumns = []string{"title", "author", "short_description"}

// extendedSearchColumns 搜索页的搜索字段
var extendedSearchColumns = []string{"title", "author", "short_description", "reading_reason", "isbn"}

// sortColumns 排序字段 → 列名(白名单,不会拼接用户输入)
var sortColumns = map[book.SortField]string{
	book.SortByTitle:           "title",
	book.SortByRating:          "rating",
	book.SortByPrice:           "price",
	book.SortByPublicationYear: "publication_year",
	book.SortByCreatedAt:       "created_at",
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新图书全部字段
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	// Save会更新所有字段(包括零值)
	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(物理删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 目录列表
// 排序规则:可空字段先按"是否为空"排序(空值始终在最后),再按字段本身,最后按ID同向
func (r *bookRepository) List(ctx context.Context, f book.Filter, page book.Page) ([]*book.Book, int64, error) {
	query := getDB(ctx, r.db).Model(&BookModel{})

	if f.OnlyAvailable() {
		query = query.Where("is_available = ?", true)
	}
	if q := f.Search(); q != "" {
		query = query.Where(likeClause(searchColumns...), repeatArg(containsPattern(q), len(searchColumns))...)
	}
	if genre, ok := f.Genre(); ok {
		query = query.Where("genre = ?", string(genre))
	}
	if band, ok := f.PriceBand(); ok {
		lower, upper, bounded := band.Bounds()
		query = query.Where("price >= ?", lower)
		if bounded {
			query = query.Where("price < ?", upper)
		}
	}

	return r.findPage(query, page, orderBy(f.Sort())...)
}

// Search 扩展搜索,包含无货图书
func (r *bookRepository) Search(ctx context.Context, q string, page book.Page) ([]*book.Book, int64, error) {
	query := getDB(ctx, r.db).Model(&BookModel{}).
		Where(likeClause(extendedSearchColumns...), repeatArg(containsPattern(q), len(extendedSearchColumns))...)
	return r.findPage(query, page, orderBy(book.DefaultSort)...)
}

// ListByGenre 某体裁下的有货图书
func (r *bookRepository) ListByGenre(ctx context.Context, genre book.Genre, page book.Page) ([]*book.Book, int64, error) {
	query := getDB(ctx, r.db).Model(&BookModel{}).
		Where("genre = ? AND is_available = ?", string(genre), true)
	return r.findPage(query, page, orderBy(book.DefaultSort)...)
}

// ListByAuthor 某作者的有货图书(精确匹配)
func (r *bookRepository) ListByAuthor(ctx context.Context, author string, page book.Page) ([]*book.Book, int64, error) {
	query := getDB(ctx, r.db).Model(&BookModel{}).
		Where("author = ? AND is_available = ?", author, true)
	return r.findPage(query, page, orderBy(book.DefaultSort)...)
}

// Recent 最新添加的图书
func (r *bookRepository) Recent(ctx context.Context, limit int) ([]*book.Book, error) {
	var models []BookModel
	query := getDB(ctx, r.db).Limit(limit)
	for _, o := range orderBy(book.DefaultSort) {
		query = query.Order(o)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询最新图书失败")
	}
	return toBookEntities(models), nil
}

// TopRated 评分最高的图书
func (r *bookRepository) TopRated(ctx context.Context, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).
		Where("rating IS NOT NULL").
		Order("rating DESC").Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询高分图书失败")
	}
	return toBookEntities(models), nil
}

// All 全部图书
func (r *bookRepository) All(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	if err := getDB(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntities(models), nil
}

// SetAvailability 批量上架/下架
// 同时更新updated_at,MySQL只统计值发生变化的行
func (r *bookRepository) SetAvailability(ctx context.Context, ids []uint, available bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"is_available": available,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "批量修改上架状态失败")
	}
	return result.RowsAffected, nil
}

// findPage 统计总数后分页查询
// page.Size<=0时返回全部
func (r *bookRepository) findPage(query *gorm.DB, page book.Page, orders ...string) ([]*book.Book, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}
	if total == 0 {
		return []*book.Book{}, 0, nil
	}

	for _, o := range orders {
		query = query.Order(o)
	}
	if page.Size > 0 {
		query = query.Limit(page.Size).Offset(page.Offset())
	}

	var models []BookModel
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}
	return toBookEntities(models), total, nil
}

// orderBy 排序规则 → ORDER BY子句
// 例如 -rating → ["rating IS NULL", "rating DESC", "id DESC"]
func orderBy(s book.Sort) []string {
	col, ok := sortColumns[s.Field]
	if !ok {
		return orderBy(book.DefaultSort)
	}
	dir := " ASC"
	if s.Desc {
		dir = " DESC"
	}

	var orders []string
	if s.Field.Nullable() {
		// 非空为0,空为1:两个方向都把空值放在最后
		orders = append(orders, col+" IS NULL")
	}
	return append(orders, col+dir, "id"+dir)
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:               b.ID,
		Title:            b.Title,
		Author:           b.Author,
		Genre:            string(b.Genre),
		ShortDescription: b.ShortDescription,
		ReadingReason:    b.ReadingReason,
		Rating:           b.Rating,
		Price:            b.Price,
		ISBN:             b.ISBN,
		PublicationYear:  b.PublicationYear,
		PageCount:        b.PageCount,
		IsAvailable:      b.IsAvailable,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:               model.ID,
		Title:            model.Title,
		Author:           model.Author,
		Genre:            book.Genre(model.Genre),
		ShortDescription: model.ShortDescription,
		ReadingReason:    model.ReadingReason,
		Rating:           model.Rating,
		Price:            model.Price,
		ISBN:             model.ISBN,
		PublicationYear:  model.PublicationYear,
		PageCount:        model.PageCount,
		IsAvailable:      model.IsAvailable,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
