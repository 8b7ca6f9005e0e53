package mysql

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/review"
	"github.com/xiebiao/bookcatalog/internal/domain/user"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// newTestDB SQLite内存库,每个测试独立
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(&config.Config{Database: config.DatabaseConfig{
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
	return db
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
func ptrS(v string) *string   { return &v }

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// seedBooks 插入一组覆盖空值、并列值与各价格区间的图书
func seedBooks(t *testing.T, repo book.Repository) []*book.Book {
	t.Helper()
	books := []*book.Book{
		{Title: "Dune", Author: "Frank Herbert", Genre: book.GenreSciFi, Price: 50000, Rating: ptrF(9.1), PublicationYear: ptrI(1965), IsAvailable: true},
		{Title: "Solaris", Author: "Stanislaw Lem", Genre: book.GenreSciFi, Price: 10000, Rating: ptrF(8.4), IsAvailable: true},
		{Title: "Anna Karenina", Author: "Leo Tolstoy", Genre: book.GenreClassic, Price: 120000, IsAvailable: false},
		{Title: "The Hobbit", Author: "J. R. R. Tolkien", Genre: book.GenreFantasy, Price: 70000, Rating: ptrF(8.4), PublicationYear: ptrI(1937), ShortDescription: "A dune-less journey", IsAvailable: true},
		{Title: "Roadside Picnic", Author: "Strugatsky", Genre: book.GenreSciFi, Price: 29999, PublicationYear: ptrI(1972), IsAvailable: true},
		{Title: "100%_pure", Author: "Anonymous", Genre: book.GenreOther, Price: 30000, Rating: ptrF(9.1), PublicationYear: ptrI(1965), ISBN: "9785170000001", IsAvailable: true},
		{Title: "war and peace", Author: "Leo Tolstoy", Genre: book.GenreClassic, Price: 99999, Rating: ptrF(4), ReadingReason: "classic epic", IsAvailable: true},
	}
	ctx := context.Background()
	for i, b := range books {
		b.CreatedAt = baseTime.Add(time.Duration(i) * time.Hour)
		b.UpdatedAt = b.CreatedAt
		require.NoError(t, repo.Create(ctx, b))
	}
	return books
}

func ids(books []*book.Book) []uint {
	out := make([]uint, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestBookRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))

	b := book.NewBook(book.Fields{Title: "Dune", Author: "Herbert", Genre: book.GenreSciFi, Price: 49990, Rating: ptrF(8.26)})
	require.NoError(t, repo.Create(ctx, b))
	assert.NotZero(t, b.ID)

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, int64(49990), got.Price)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 8.3, *got.Rating, 1e-9)
	assert.Nil(t, got.PublicationYear)
	assert.False(t, got.IsAvailable, "false不能被默认值覆盖")

	got.Update(book.Fields{Title: "Dune Messiah", Author: "Herbert", Genre: book.GenreSciFi, Price: 100, IsAvailable: true})
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", reloaded.Title)
	assert.Nil(t, reloaded.Rating, "编辑时清空评分")
	assert.True(t, reloaded.IsAvailable)

	require.NoError(t, repo.Delete(ctx, b.ID))
	_, err = repo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), book.ErrBookNotFound)
}

// TestBookRepository_ListMatchesApply SQL翻译与纯函数实现结果一致(包括顺序)
func TestBookRepository_ListMatchesApply(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 7)

	var params []book.RawParams
	for _, sortBy := range []string{"", "title", "-title", "rating", "-rating", "price", "-price_rub",
		"publication_year", "-publication_year", "created_at", "-created_at", "bogus"} {
		for _, only := range []*string{nil, ptrS("")} {
			params = append(params, book.RawParams{SortBy: sortBy, OnlyAvailable: only})
		}
	}
	params = append(params,
		book.RawParams{Search: "DUNE"},
		book.RawParams{Search: "tolstoy", OnlyAvailable: ptrS("off"), SortBy: "price"},
		book.RawParams{Search: "%"},
		book.RawParams{Search: "_"},
		book.RawParams{Search: "nothing-matches"},
		book.RawParams{Genre: "SCIFI", SortBy: "-rating"},
		book.RawParams{Genre: "POETRY"},
		book.RawParams{PriceRange: "0-300", OnlyAvailable: ptrS("")},
		book.RawParams{PriceRange: "300-700", SortBy: "title"},
		book.RawParams{PriceRange: "700-1000", SortBy: "-publication_year"},
		book.RawParams{PriceRange: "1000-", OnlyAvailable: ptrS("")},
		book.RawParams{Search: "e", Genre: "CLASSIC", PriceRange: "700-1000", OnlyAvailable: ptrS(""), SortBy: "rating"},
	)

	for _, p := range params {
		name := fmt.Sprintf("%+v", p)
		f := book.ParseFilter(p)

		got, total, err := repo.List(ctx, f, book.Page{})
		require.NoError(t, err, name)

		want := book.Apply(all, f)
		assert.Equal(t, ids(want), ids(got), name)
		assert.Equal(t, int64(len(want)), total, name)
	}
}

func TestBookRepository_ListEscapesWildcards(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	books := seedBooks(t, repo)

	got, _, err := repo.List(ctx, book.ParseFilter(book.RawParams{Search: "%_"}), book.Page{})
	require.NoError(t, err)
	assert.Equal(t, []uint{books[5].ID}, ids(got), "%和_按字面匹配")
}

func TestBookRepository_SearchFoldsCyrillic(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo)

	dune := &book.Book{Title: "Дюна", Author: "Фрэнк Герберт", Genre: book.GenreSciFi, Price: 45000, IsAvailable: true}
	require.NoError(t, repo.Create(ctx, dune))
	all, err := repo.All(ctx)
	require.NoError(t, err)

	for _, q := range []string{"ДЮНА", "дюна", "гЕрБеРт"} {
		f := book.ParseFilter(book.RawParams{Search: q})
		got, _, err := repo.List(ctx, f, book.Page{})
		require.NoError(t, err, q)
		assert.Equal(t, []uint{dune.ID}, ids(got), q)
		assert.Equal(t, ids(book.Apply(all, f)), ids(got), q)

		found, total, err := repo.Search(ctx, q, book.NewPage(1, 10))
		require.NoError(t, err, q)
		assert.Equal(t, int64(1), total, q)
		assert.Equal(t, []uint{dune.ID}, ids(found), q)
	}
}

func TestLikeClause(t *testing.T) {
	assert.Equal(t, "LOWER(COALESCE(title, '')) LIKE ? ESCAPE '!' OR LOWER(COALESCE(author, '')) LIKE ? ESCAPE '!'",
		likeClause("title", "author"))
}

func TestBookRepository_ListPagination(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	seedBooks(t, repo)

	f := book.ParseFilter(book.RawParams{SortBy: "price"})
	page1, total, err := repo.List(ctx, f, book.NewPage(1, 4))
	require.NoError(t, err)
	page2, _, err := repo.List(ctx, f, book.NewPage(2, 4))
	require.NoError(t, err)
	page3, _, err := repo.List(ctx, f, book.NewPage(3, 4))
	require.NoError(t, err)

	assert.Equal(t, int64(6), total)
	assert.Len(t, page1, 4)
	assert.Len(t, page2, 2)
	assert.Empty(t, page3)
	assert.Equal(t, int64(10000), page1[0].Price)
}

func TestBookRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(newTestDB(t))
	books := seedBooks(t, repo)

	t.Run("扩展搜索包含推荐理由与ISBN", func(t *testing.T) {
		got, total, err := repo.Search(ctx, "EPIC", book.NewPage(1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []uint{books[6].ID}, ids(got))

		got, _, err = repo.Search(ctx, "978517", book.NewPage(1, 10))
		require.NoError(t, err)
		assert.Equal(t, []uint{books[5].ID}, ids(got))
	})

	t.Run("体裁页只包含有货图书", func(t *testing.T) {
		got, total, err := repo.ListByGenre(ctx, book.GenreClassic, book.NewPage(1, 12))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []uint{books[6].ID}, ids(got))
	})

	t.Run("作者页精确匹配", func(t *testing.T) {
		got, _, err := repo.ListByAuthor(ctx, "Leo Tolstoy", book.Page{})
		require.NoError(t, err)
		assert.Equal(t, []uint{books[6].ID}, ids(got))

		got, _, err = repo.ListByAuthor(ctx, "Tolstoy", book.Page{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("最新与高分", func(t *testing.T) {
		recent, err := repo.Recent(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []uint{books[6].ID, books[5].ID}, ids(recent))

		top, err := repo.TopRated(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, []uint{books[5].ID, books[0].ID, books[3].ID}, ids(top))
	})

	t.Run("批量上下架", func(t *testing.T) {
		n, err := repo.SetAvailability(ctx, []uint{books[0].ID, books[2].ID, 999}, false)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		got, err := repo.FindByID(ctx, books[0].ID)
		require.NoError(t, err)
		assert.False(t, got.IsAvailable)

		n, err = repo.SetAvailability(ctx, nil, true)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestReviewRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	books := NewBookRepository(db)
	repo := NewReviewRepository(db)
	seeded := seedBooks(t, books)

	first := review.NewReview(seeded[0].ID, review.Fields{ReviewerName: "Ann", Rating: 9, Text: "great"})
	first.CreatedAt = baseTime
	second := review.NewReview(seeded[0].ID, review.Fields{ReviewerName: "Bob", Rating: 3, Text: "meh"})
	second.CreatedAt = baseTime.Add(time.Minute)
	other := review.NewReview(seeded[1].ID, review.Fields{ReviewerName: "Cid", Rating: 7, Text: "ok"})
	for _, rv := range []*review.Review{first, second, other} {
		require.NoError(t, repo.Create(ctx, rv))
	}

	list, err := repo.ListApprovedByBook(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID, first.ID}, []uint{list[0].ID, list[1].ID}, "最新在前")

	require.NoError(t, repo.SetApproved(ctx, second.ID, false))
	require.NoError(t, repo.SetApproved(ctx, second.ID, false), "状态未变化也不是404")
	assert.ErrorIs(t, repo.SetApproved(ctx, 999, true), review.ErrReviewNotFound)

	list, err = repo.ListApprovedByBook(ctx, seeded[0].ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	reviewed, err := repo.ReviewedBookIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{seeded[0].ID, seeded[1].ID}, reviewed)

	n, err := repo.DeleteByBook(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.ErrorIs(t, repo.Delete(ctx, first.ID), review.ErrReviewNotFound)
	require.NoError(t, repo.Delete(ctx, other.ID))
}

func TestTxManager_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	books := NewBookRepository(db)
	reviews := NewReviewRepository(db)
	tm := NewTxManager(db)

	seeded := seedBooks(t, books)
	target := seeded[0]
	require.NoError(t, reviews.Create(ctx, review.NewReview(target.ID, review.Fields{ReviewerName: "Ann", Rating: 9, Text: "x"})))

	boom := fmt.Errorf("boom")
	err := tm.Transaction(ctx, func(ctx context.Context) error {
		if _, err := reviews.DeleteByBook(ctx, target.ID); err != nil {
			return err
		}
		if err := books.Delete(ctx, target.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// 事务回滚:图书与评论都还在
	_, err = books.FindByID(ctx, target.ID)
	assert.NoError(t, err)
	list, err := reviews.ListApprovedByBook(ctx, target.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// 提交
	err = tm.Transaction(ctx, func(ctx context.Context) error {
		if _, err := reviews.DeleteByBook(ctx, target.ID); err != nil {
			return err
		}
		return books.Delete(ctx, target.ID)
	})
	require.NoError(t, err)
	_, err = books.FindByID(ctx, target.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := user.NewUser("Admin@Example.com", "hash", "admin")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	err := repo.Create(ctx, user.NewUser("admin@example.com", "hash", "dup"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrEmailDuplicate.Code), "重复邮箱: %v", err)

	got, err := repo.FindByEmail(ctx, " ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, []string{"rating IS NULL", "rating DESC", "id DESC"}, orderBy(book.Sort{Field: book.SortByRating, Desc: true}))
	assert.Equal(t, []string{"title ASC", "id ASC"}, orderBy(book.Sort{Field: book.SortByTitle}))
	assert.Equal(t, []string{"created_at DESC", "id DESC"}, orderBy(book.Sort{Field: "isbn"}))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%dune%", containsPattern("DUNE"))
	assert.Equal(t, "%!%!_!!%", containsPattern("%_!"))
}
