package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
func ptrS(v string) *string   { return &v }

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fixture 构造测试图书集合
func fixture() []*Book {
	return []*Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Genre: GenreSciFi, Price: 50000, Rating: ptrF(9.1), PublicationYear: ptrI(1965), IsAvailable: true, CreatedAt: baseTime},
		{ID: 2, Title: "Solaris", Author: "Stanislaw Lem", Genre: GenreSciFi, Price: 10000, Rating: ptrF(8.4), IsAvailable: true, CreatedAt: baseTime.Add(time.Hour)},
		{ID: 3, Title: "Anna Karenina", Author: "Leo Tolstoy", Genre: GenreClassic, Price: 120000, IsAvailable: false, CreatedAt: baseTime.Add(2 * time.Hour)},
		{ID: 4, Title: "The Hobbit", Author: "J. R. R. Tolkien", Genre: GenreFantasy, Price: 70000, Rating: ptrF(8.4), PublicationYear: ptrI(1937), ShortDescription: "A dune-less journey", IsAvailable: true, CreatedAt: baseTime.Add(3 * time.Hour)},
		{ID: 5, Title: "Roadside Picnic", Author: "Strugatsky", Genre: GenreSciFi, Price: 29999, PublicationYear: ptrI(1972), IsAvailable: true, CreatedAt: baseTime.Add(4 * time.Hour)},
	}
}

func ids(books []*Book) []uint {
	out := make([]uint, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestParseFilter(t *testing.T) {
	t.Run("缺省参数", func(t *testing.T) {
		f := ParseFilter(RawParams{})
		assert.True(t, f.OnlyAvailable(), "only_available缺省应为true")
		assert.Equal(t, DefaultSort, f.Sort())
		_, hasGenre := f.Genre()
		_, hasBand := f.PriceBand()
		assert.False(t, hasGenre)
		assert.False(t, hasBand)
		assert.Empty(t, f.Search())
	})

	t.Run("only_available复选框语义", func(t *testing.T) {
		assert.True(t, ParseFilter(RawParams{OnlyAvailable: ptrS("on")}).OnlyAvailable())
		assert.False(t, ParseFilter(RawParams{OnlyAvailable: ptrS("")}).OnlyAvailable())
		assert.False(t, ParseFilter(RawParams{OnlyAvailable: ptrS("off")}).OnlyAvailable())
		assert.False(t, ParseFilter(RawParams{OnlyAvailable: ptrS("true")}).OnlyAvailable())
	})

	t.Run("非法值静默忽略", func(t *testing.T) {
		f := ParseFilter(RawParams{Genre: "POETRY", PriceRange: "1-2", SortBy: "isbn"})
		_, hasGenre := f.Genre()
		_, hasBand := f.PriceBand()
		assert.False(t, hasGenre, "未知体裁应被忽略")
		assert.False(t, hasBand, "未知价格区间应被忽略")
		assert.Equal(t, DefaultSort, f.Sort(), "未知排序回退为-created_at")
	})

	t.Run("price_rub别名", func(t *testing.T) {
		assert.Equal(t, Sort{Field: SortByPrice, Desc: true}, ParseFilter(RawParams{SortBy: "-price_rub"}).Sort())
		assert.Equal(t, Sort{Field: SortByPrice}, ParseFilter(RawParams{SortBy: "price"}).Sort())
		assert.Equal(t, "-price", ParseSort("-price_rub").String())
	})
}

func TestApply_OnlyAvailableNeverReturnsUnavailable(t *testing.T) {
	for _, sortBy := range []string{"", "title", "-rating", "price", "-publication_year"} {
		got := Apply(fixture(), ParseFilter(RawParams{SortBy: sortBy}))
		for _, b := range got {
			assert.True(t, b.IsAvailable, "sort_by=%s 返回了无货图书 %d", sortBy, b.ID)
		}
		assert.Len(t, got, 4)
	}
}

func TestApply_Search(t *testing.T) {
	t.Run("不区分大小写的子串匹配", func(t *testing.T) {
		got := Apply(fixture(), ParseFilter(RawParams{Search: "dune"}))
		// 书名Dune + 简介中包含dune的Hobbit,默认最新在前
		assert.Equal(t, []uint{4, 1}, ids(got))
	})

	t.Run("作者字段", func(t *testing.T) {
		got := Apply(fixture(), ParseFilter(RawParams{Search: "  TOLKIEN "}))
		assert.Equal(t, []uint{4}, ids(got))
	})

	t.Run("包含无货图书", func(t *testing.T) {
		got := Apply(fixture(), ParseFilter(RawParams{Search: "karenina", OnlyAvailable: ptrS("")}))
		assert.Equal(t, []uint{3}, ids(got))
	})
}

func TestApply_GenreAndPriceRange(t *testing.T) {
	got := Apply(fixture(), ParseFilter(RawParams{Genre: "SCIFI", SortBy: "price"}))
	assert.Equal(t, []uint{2, 5, 1}, ids(got))

	// 左闭右开:299.99在预算区间,700.00属于700-1000
	assert.Equal(t, []uint{5, 2}, ids(Apply(fixture(), ParseFilter(RawParams{PriceRange: "0-300"}))))
	assert.Equal(t, []uint{4}, ids(Apply(fixture(), ParseFilter(RawParams{PriceRange: "700-1000"}))))
	assert.Equal(t, []uint{3}, ids(Apply(fixture(), ParseFilter(RawParams{PriceRange: "1000-", OnlyAvailable: ptrS("off")}))))
}

func TestApply_PriceRangeScenario(t *testing.T) {
	books := []*Book{
		{ID: 1, Title: "A", Price: 100 * KopecksPerRuble, IsAvailable: true},
		{ID: 2, Title: "B", Price: 500 * KopecksPerRuble, IsAvailable: true},
		{ID: 3, Title: "C", Price: 1200 * KopecksPerRuble, IsAvailable: true},
	}
	got := Apply(books, ParseFilter(RawParams{PriceRange: "300-700"}))
	require.Len(t, got, 1)
	assert.Equal(t, int64(50000), got[0].Price)
}

func TestApply_NullsLast(t *testing.T) {
	all := ParseFilter(RawParams{OnlyAvailable: ptrS("off"), SortBy: "rating"})
	asc := ids(Apply(fixture(), all))
	// 8.4出现两次,按ID同向排序
	assert.Equal(t, []uint{2, 4, 1, 3, 5}, asc)

	desc := ids(Apply(fixture(), ParseFilter(RawParams{OnlyAvailable: ptrS("off"), SortBy: "-rating"})))
	assert.Equal(t, []uint{1, 4, 2, 5, 3}, desc, "降序时空值同样排在最后")

	years := ids(Apply(fixture(), ParseFilter(RawParams{OnlyAvailable: ptrS("off"), SortBy: "publication_year"})))
	assert.Equal(t, []uint{4, 1, 5, 2, 3}, years)
}

func TestApply_DescIsReverseOfAscForNonNull(t *testing.T) {
	for _, field := range []string{"title", "rating", "price", "publication_year", "created_at"} {
		asc := Apply(fixture(), ParseFilter(RawParams{OnlyAvailable: ptrS("off"), SortBy: field}))
		desc := Apply(fixture(), ParseFilter(RawParams{OnlyAvailable: ptrS("off"), SortBy: "-" + field}))

		nonNull := func(books []*Book) []uint {
			var out []uint
			for _, b := range books {
				if (field == "rating" && b.Rating == nil) || (field == "publication_year" && b.PublicationYear == nil) {
					continue
				}
				out = append(out, b.ID)
			}
			return out
		}
		a, d := nonNull(asc), nonNull(desc)
		for i, j := 0, len(d)-1; i < j; i, j = i+1, j-1 {
			d[i], d[j] = d[j], d[i]
		}
		assert.Equal(t, a, d, "sort_by=%s 的降序不是升序的逆序", field)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	books := fixture()
	before := ids(books)
	_ = Apply(books, ParseFilter(RawParams{SortBy: "title"}))
	assert.Equal(t, before, ids(books))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Paginate(items, 1, 2))
	assert.Equal(t, []int{5}, Paginate(items, 3, 2))
	assert.Empty(t, Paginate(items, 4, 2))
	assert.Equal(t, []int{1, 2}, Paginate(items, 0, 2), "非法页码按第1页处理")
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, NewPage(0, 15).Offset())
	assert.Equal(t, 30, NewPage(3, 15).Offset())
	assert.Equal(t, 0, Page{Number: 2}.Offset())
}
