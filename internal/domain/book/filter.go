package book

import (
	"cmp"
	"slices"
	"strings"
)

// RawParams 列表页原始查询参数(未经校验)
// OnlyAvailable为nil表示请求中没有该参数
type RawParams struct {
	Search        string
	Genre         string
	PriceRange    string
	SortBy        string
	OnlyAvailable *string
}

// SortField 可排序字段
type SortField string

const (
	SortByTitle           SortField = "title"
	SortByRating          SortField = "rating"
	SortByPrice           SortField = "price"
	SortByPublicationYear SortField = "publication_year"
	SortByCreatedAt       SortField = "created_at"
)

// Nullable 该字段是否可能为空(空值一律排在最后)
func (f SortField) Nullable() bool {
	return f == SortByRating || f == SortByPublicationYear
}

// Sort 排序规则
type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort 默认按添加时间倒序(最新在前)
var DefaultSort = Sort{Field: SortByCreatedAt, Desc: true}

// String 还原为sort_by参数形式,如"-rating"
func (s Sort) String() string {
	if s.Desc {
		return "-" + string(s.Field)
	}
	return string(s.Field)
}

// sortAliases 历史参数名price_rub等价于price
var sortAliases = map[string]SortField{
	"title":            SortByTitle,
	"rating":           SortByRating,
	"price":            SortByPrice,
	"price_rub":        SortByPrice,
	"publication_year": SortByPublicationYear,
	"created_at":       SortByCreatedAt,
}

// ParseSort 解析sort_by,不认识的值返回DefaultSort
func ParseSort(s string) Sort {
	s = strings.TrimSpace(s)
	desc := strings.HasPrefix(s, "-")
	field, ok := sortAliases[strings.TrimPrefix(s, "-")]
	if !ok {
		return DefaultSort
	}
	return Sort{Field: field, Desc: desc}
}

// Filter 不可变的查询规格
// 由ParseFilter构造,字段只读;Apply与仓储层的SQL翻译消费同一个Filter
type Filter struct {
	search        string
	genre         Genre
	priceBand     PriceBand
	sort          Sort
	onlyAvailable bool
}

// ParseFilter 规范化原始参数
// 所有不合法输入都被静默忽略并回退到默认值,从不返回错误:
//   - only_available: 缺省或"on"为true,其余值为false
//   - genre: 未知体裁代码忽略
//   - price_range: 四个字面量以外的值忽略
//   - sort_by: 白名单以外的值回退为-created_at
func ParseFilter(p RawParams) Filter {
	f := Filter{
		search:        strings.TrimSpace(p.Search),
		sort:          ParseSort(p.SortBy),
		onlyAvailable: p.OnlyAvailable == nil || *p.OnlyAvailable == "on",
	}
	if g, ok := ParseGenre(p.Genre); ok {
		f.genre = g
	}
	if b, ok := ParsePriceBand(p.PriceRange); ok {
		f.priceBand = b
	}
	return f
}

// Search 搜索关键字(已去除首尾空白),空串表示不搜索
func (f Filter) Search() string { return f.search }

// Genre 体裁过滤条件
func (f Filter) Genre() (Genre, bool) { return f.genre, f.genre != "" }

// PriceBand 价格区间过滤条件
func (f Filter) PriceBand() (PriceBand, bool) { return f.priceBand, f.priceBand != "" }

// Sort 排序规则
func (f Filter) Sort() Sort { return f.sort }

// OnlyAvailable 是否只返回有货图书
func (f Filter) OnlyAvailable() bool { return f.onlyAvailable }

// Matches 单本图书是否满足全部过滤条件(AND)
func (f Filter) Matches(b *Book) bool {
	if f.onlyAvailable && !b.IsAvailable {
		return false
	}
	if f.search != "" && !matchesSearch(b, f.search) {
		return false
	}
	if f.genre != "" && b.Genre != f.genre {
		return false
	}
	if f.priceBand != "" && !f.priceBand.Contains(b.Price) {
		return false
	}
	return true
}

// matchesSearch 书名/作者/简介任一字段包含关键字(不区分大小写)
func matchesSearch(b *Book, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Author), q) ||
		strings.Contains(strings.ToLower(b.ShortDescription), q)
}

// Apply 纯函数:过滤并排序,不修改入参
func Apply(books []*Book, f Filter) []*Book {
	out := make([]*Book, 0, len(books))
	for _, b := range books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, f.sort.Compare)
	return out
}

// Compare 排序比较函数
// 空值(未评分、未知年份)无论升降序都排在最后;
// 主键相同时按ID同向排序,保证"-k"恰好是"k"的逆序
func (s Sort) Compare(a, b *Book) int {
	if s.Field.Nullable() {
		aNull, bNull := s.isNull(a), s.isNull(b)
		switch {
		case aNull && bNull:
			return s.direct(cmp.Compare(a.ID, b.ID))
		case aNull:
			return 1
		case bNull:
			return -1
		}
	}

	c := s.compareKey(a, b)
	if c == 0 {
		c = cmp.Compare(a.ID, b.ID)
	}
	return s.direct(c)
}

func (s Sort) direct(c int) int {
	if s.Desc {
		return -c
	}
	return c
}

func (s Sort) isNull(b *Book) bool {
	switch s.Field {
	case SortByRating:
		return b.Rating == nil
	case SortByPublicationYear:
		return b.PublicationYear == nil
	}
	return false
}

func (s Sort) compareKey(a, b *Book) int {
	switch s.Field {
	case SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case SortByRating:
		return cmp.Compare(*a.Rating, *b.Rating)
	case SortByPrice:
		return cmp.Compare(a.Price, b.Price)
	case SortByPublicationYear:
		return cmp.Compare(*a.PublicationYear, *b.PublicationYear)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// Paginate 截取第page页(从1开始),越界返回空切片
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return items
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
