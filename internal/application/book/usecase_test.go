package book

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/review"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

type env struct {
	db      *gorm.DB
	books   book.Repository
	reviews review.Repository
	cache   *redis.BookCache
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := mysql.NewDB(&config.Config{Database: config.DatabaseConfig{
		Driver:      "sqlite",
		SQLitePath:  ":memory:",
		LogLevel:    "silent",
		AutoMigrate: true,
	}})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &env{
		db:      db,
		books:   mysql.NewBookRepository(db),
		reviews: mysql.NewReviewRepository(db),
		cache:   redis.NewBookCache(client, time.Minute),
	}
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
func ptrB(v bool) *bool       { return &v }

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// seed 按顺序插入图书,created_at依次递增一小时
func (e *env) seed(t *testing.T, books ...*book.Book) []*book.Book {
	t.Helper()
	for i, b := range books {
		b.CreatedAt = baseTime.Add(time.Duration(i) * time.Hour)
		b.UpdatedAt = b.CreatedAt
		require.NoError(t, e.books.Create(context.Background(), b))
	}
	return books
}

func titles(items []BookItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestListBooksUseCase(t *testing.T) {
	e := newEnv(t)
	var books []*book.Book
	for i := 0; i < 20; i++ {
		b := &book.Book{Title: fmt.Sprintf("Book %02d", i), Author: "A", Genre: book.GenreFiction, Price: int64(i) * 10000, IsAvailable: i != 0}
		if i%3 == 0 {
			b.Rating = ptrF(float64(i) / 2)
		}
		books = append(books, b)
	}
	e.seed(t, books...)
	uc := NewListBooksUseCase(e.books)
	ctx := context.Background()

	t.Run("默认参数", func(t *testing.T) {
		resp, err := uc.Execute(ctx, ListBooksRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(19), resp.Total, "无货图书默认不显示")
		assert.Len(t, resp.List, ListPageSize)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Equal(t, "Book 19", resp.List[0].Title, "默认最新在前")
		assert.Equal(t, "-created_at", resp.Filter.SortBy)
		assert.True(t, resp.Filter.OnlyAvailable)

		assert.Equal(t, []string{"Book 19", "Book 18", "Book 17", "Book 16", "Book 15"}, titles(resp.RecentBooks))
		assert.Equal(t, []string{"Book 18", "Book 15", "Book 12", "Book 09", "Book 06"}, titles(resp.TopRated))
	})

	t.Run("页码超出范围返回最后一页", func(t *testing.T) {
		resp, err := uc.Execute(ctx, ListBooksRequest{Page: 99})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Page)
		assert.Len(t, resp.List, 4)
	})

	t.Run("非法参数回退默认值", func(t *testing.T) {
		resp, err := uc.Execute(ctx, ListBooksRequest{Params: book.RawParams{Genre: "POETRY", PriceRange: "5-6", SortBy: "isbn"}})
		require.NoError(t, err)
		assert.Equal(t, int64(19), resp.Total)
		assert.Empty(t, resp.Filter.Genre)
		assert.Empty(t, resp.Filter.PriceRange)
		assert.Equal(t, "-created_at", resp.Filter.SortBy)
	})

	t.Run("价格区间", func(t *testing.T) {
		resp, err := uc.Execute(ctx, ListBooksRequest{Params: book.RawParams{PriceRange: "300-700", SortBy: "price"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Book 03", "Book 04", "Book 05", "Book 06"}, titles(resp.List))
		assert.Equal(t, "300.00", resp.List[0].Price)
		assert.Equal(t, "Средняя", resp.List[0].PriceCategory)
	})
}

func TestSearchBooksUseCase(t *testing.T) {
	e := newEnv(t)
	e.seed(t,
		&book.Book{Title: "Dune", Author: "Frank Herbert", Genre: book.GenreSciFi, IsAvailable: false},
		&book.Book{Title: "Other", Author: "X", Genre: book.GenreOther, ReadingReason: "like dune", IsAvailable: true},
	)
	uc := NewSearchBooksUseCase(e.books)

	resp, err := uc.Execute(context.Background(), SearchBooksRequest{Query: "   "})
	require.NoError(t, err)
	assert.Empty(t, resp.List, "空关键字返回空结果")
	assert.Zero(t, resp.Total)

	resp, err = uc.Execute(context.Background(), SearchBooksRequest{Query: "DUNE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Other", "Dune"}, titles(resp.List), "包含无货图书,最新在前")
	assert.Equal(t, "DUNE", resp.Query)
}

func TestGenreAndAuthorPages(t *testing.T) {
	e := newEnv(t)
	e.seed(t,
		&book.Book{Title: "A1", Author: "Lem", Genre: book.GenreSciFi, Price: 10000, Rating: ptrF(8), PageCount: ptrI(100), IsAvailable: true},
		&book.Book{Title: "A2", Author: "Lem", Genre: book.GenreSciFi, Price: 30000, PageCount: ptrI(200), IsAvailable: true},
		&book.Book{Title: "A3", Author: "Lem", Genre: book.GenreSciFi, Price: 99900, Rating: ptrF(2), IsAvailable: false},
	)
	ctx := context.Background()

	genre, err := NewGenreBooksUseCase(e.books).Execute(ctx, GenreBooksRequest{Genre: "SCIFI"})
	require.NoError(t, err)
	assert.Equal(t, "Научная фантастика", genre.GenreName)
	assert.Equal(t, int64(2), genre.BooksCount)
	assert.Equal(t, []string{"A2", "A1"}, titles(genre.List))

	unknown, err := NewGenreBooksUseCase(e.books).Execute(ctx, GenreBooksRequest{Genre: "POETRY"})
	require.NoError(t, err)
	assert.Equal(t, book.UnknownGenreLabel, unknown.GenreName)
	assert.Empty(t, unknown.List)

	author, err := NewAuthorBooksUseCase(e.books).Execute(ctx, AuthorBooksRequest{Author: "Lem"})
	require.NoError(t, err)
	assert.Equal(t, 2, author.BooksCount)
	require.NotNil(t, author.AuthorStats)
	assert.Equal(t, 8.0, *author.AuthorStats.AvgRating, "无货图书不参与汇总")
	assert.Equal(t, 200.0, *author.AuthorStats.AvgPrice)
	assert.Equal(t, 300, *author.AuthorStats.TotalPages)

	nobody, err := NewAuthorBooksUseCase(e.books).Execute(ctx, AuthorBooksRequest{Author: "Nobody", Page: 3})
	require.NoError(t, err)
	assert.Nil(t, nobody.AuthorStats)
	assert.Empty(t, nobody.List)
	assert.Equal(t, 1, nobody.Page)
}

func TestGetBookUseCase_Cache(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seeded := e.seed(t, &book.Book{Title: "Dune", Author: "Herbert", Genre: book.GenreSciFi, Price: 70000, IsAvailable: true})
	id := seeded[0].ID

	require.NoError(t, e.reviews.Create(ctx, review.NewReview(id, review.Fields{ReviewerName: "Ann", Rating: 9, Text: "great"})))
	hidden := review.NewReview(id, review.Fields{ReviewerName: "Bob", Rating: 1, Text: "spam"})
	hidden.IsApproved = false
	require.NoError(t, e.reviews.Create(ctx, hidden))

	get := NewGetBookUseCase(e.books, e.reviews, e.cache)
	detail, err := get.Execute(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Премиум", detail.PriceCategory)
	require.Len(t, detail.Reviews, 1, "只返回已审核评论")
	assert.Equal(t, "Ann", detail.Reviews[0].ReviewerName)

	// 绕过用例直接修改数据库:缓存命中时仍返回旧数据
	stale := *seeded[0]
	stale.Title = "Changed"
	require.NoError(t, e.books.Update(ctx, &stale))
	detail, err = get.Execute(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", detail.Title)

	// 通过用例编辑会使缓存失效
	update := NewUpdateBookUseCase(book.NewService(e.books), e.cache)
	_, err = update.Execute(ctx, id, BookInput{Title: "Dune Messiah", Author: "Herbert", Genre: "SCIFI", Price: 700})
	require.NoError(t, err)
	detail, err = get.Execute(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", detail.Title)

	_, err = get.Execute(ctx, 404)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestCreateBookUseCase(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateBookUseCase(book.NewService(e.books))
	ctx := context.Background()

	detail, err := uc.Execute(ctx, BookInput{Title: "Dune", Author: "Herbert", Rating: ptrF(7.26), Price: 499.9})
	require.NoError(t, err)
	assert.Equal(t, "499.90", detail.Price)
	assert.Equal(t, 7.3, *detail.Rating)
	assert.Equal(t, string(book.DefaultGenre), detail.Genre)
	assert.True(t, detail.IsAvailable, "未指定时默认有货")

	_, err = uc.Execute(ctx, BookInput{Title: "", Author: "x", Genre: "POETRY", IsAvailable: ptrB(false)})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Contains(t, appErr.Fields, "title")
	assert.Contains(t, appErr.Fields, "genre")

	all, err := e.books.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "校验失败不保存")
}

func TestDeleteBookUseCase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seeded := e.seed(t,
		&book.Book{Title: "Keep", Author: "A", Genre: book.GenreOther, IsAvailable: true},
		&book.Book{Title: "Drop", Author: "A", Genre: book.GenreOther, IsAvailable: true},
	)
	keep, drop := seeded[0].ID, seeded[1].ID
	for _, id := range []uint{keep, drop, drop} {
		require.NoError(t, e.reviews.Create(ctx, review.NewReview(id, review.Fields{ReviewerName: "R", Rating: 5, Text: "t"})))
	}

	uc := NewDeleteBookUseCase(mysql.NewTxManager(e.db), e.books, e.reviews, e.cache)
	require.NoError(t, uc.Execute(ctx, drop))

	_, err := e.books.FindByID(ctx, drop)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	ids, err := e.reviews.ReviewedBookIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{keep}, ids, "评论随图书删除")

	assert.ErrorIs(t, uc.Execute(ctx, drop), book.ErrBookNotFound)
}

func TestSetAvailabilityUseCase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seeded := e.seed(t,
		&book.Book{Title: "A", Author: "A", Genre: book.GenreOther, IsAvailable: true},
		&book.Book{Title: "B", Author: "A", Genre: book.GenreOther, IsAvailable: true},
	)

	uc := NewSetAvailabilityUseCase(book.NewService(e.books), e.cache)
	resp, err := uc.Execute(ctx, SetAvailabilityRequest{IDs: []uint{seeded[0].ID, seeded[1].ID, seeded[0].ID}, Available: false})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Updated)

	list, err := NewListBooksUseCase(e.books).Execute(ctx, ListBooksRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.List)

	_, err = uc.Execute(ctx, SetAvailabilityRequest{})
	assert.ErrorIs(t, err, book.ErrEmptyIDs)
}

func TestStatisticsUseCase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uc := NewStatisticsUseCase(e.books, e.reviews)
	uc.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }

	empty, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalBooks)
	assert.Nil(t, empty.PriceStats.AvgPrice)
	assert.Zero(t, empty.PriceStats.TotalValue)
	assert.Empty(t, empty.GenreStats)

	seeded := e.seed(t,
		&book.Book{Title: "A", Author: "Lem", Genre: book.GenreSciFi, Price: 10000, Rating: ptrF(8), PublicationYear: ptrI(2003), IsAvailable: true},
		&book.Book{Title: "B", Author: "Lem", Genre: book.GenreSciFi, Price: 20000, PublicationYear: ptrI(2026), IsAvailable: false},
		&book.Book{Title: "C", Author: "Eco", Genre: book.GenreClassic, Price: 30001, IsAvailable: true},
	)
	require.NoError(t, e.reviews.Create(ctx, review.NewReview(seeded[2].ID, review.Fields{ReviewerName: "R", Rating: 5, Text: "t"})))

	st, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalBooks)
	assert.Equal(t, 2, st.AvailableBooks)
	assert.Equal(t, 1, st.BooksWithReviews)
	assert.Equal(t, 200.0, *st.PriceStats.AvgPrice)
	assert.Equal(t, 100.0, *st.PriceStats.MinPrice)
	assert.Equal(t, 300.01, *st.PriceStats.MaxPrice)
	assert.Equal(t, 600.01, st.PriceStats.TotalValue)

	require.Len(t, st.GenreStats, 2)
	assert.Equal(t, "SCIFI", st.GenreStats[0].Genre)
	assert.Equal(t, 66.7, st.GenreStats[0].Percentage)
	assert.Equal(t, 150.0, st.GenreStats[0].AvgPrice)

	assert.Equal(t, []YearStatDTO{{Period: "2000-2004", Count: 1}, {Period: "2025-2026", Count: 1}}, st.YearStats)

	require.Len(t, st.TopAuthors, 2)
	assert.Equal(t, "Lem", st.TopAuthors[0].Author)
	assert.Equal(t, 8.0, *st.TopAuthors[0].AvgRating)
	assert.Nil(t, st.TopAuthors[1].AvgRating)
}

func TestExportBooksUseCase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uc := NewExportBooksUseCase(e.books)

	t.Run("空集合只有表头", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := uc.Execute(ctx, &buf)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.True(t, strings.HasPrefix(buf.String(), "\ufeffID,Название,Автор"))
		assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	})

	t.Run("字段格式", func(t *testing.T) {
		e.seed(t,
			&book.Book{Title: "Мастер и Маргарита", Author: "Булгаков", Genre: book.GenreClassic, Price: 49990, Rating: ptrF(9.5), PublicationYear: ptrI(1967), PageCount: ptrI(480), ISBN: "9785170000001", IsAvailable: true},
			&book.Book{Title: "Untitled, draft", Author: "X", Genre: book.GenreOther, Price: 0, IsAvailable: false},
		)

		var buf bytes.Buffer
		n, err := uc.Execute(ctx, &buf)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\ufeff"))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, exportHeader, records[0])

		first := records[1]
		assert.Equal(t, "Классика", first[3])
		assert.Equal(t, "499.90", first[4])
		assert.Equal(t, "9.5", first[5])
		assert.Equal(t, "1967", first[6])
		assert.Equal(t, "480", first[7])
		assert.Equal(t, "Да", first[9])
		assert.Equal(t, "01.05.2024 12:00", first[10])

		second := records[2]
		assert.Equal(t, "Untitled, draft", second[1], "逗号按CSV规则加引号")
		assert.Equal(t, "0.00", second[4])
		assert.Empty(t, second[5])
		assert.Empty(t, second[6])
		assert.Equal(t, "Нет", second[9])
	})
}

func TestListGenres(t *testing.T) {
	genres := ListGenres()
	require.Len(t, genres, 11)
	assert.Equal(t, GenreOption{Code: "FICTION", Name: "Художественная литература"}, genres[0])
	assert.Len(t, ListPriceRanges(), 4)
}
