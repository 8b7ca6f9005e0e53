package book

import "strings"

// Genre 图书体裁(封闭枚举)
// 存储层保存代码(如"SCIFI"),展示层通过Label()获取俄文名称
type Genre string

const (
	GenreFiction    Genre = "FICTION"
	GenreSciFi      Genre = "SCIFI"
	GenreFantasy    Genre = "FANTASY"
	GenreClassic    Genre = "CLASSIC"
	GenreDetective  Genre = "DETECTIVE"
	GenreRomance    Genre = "ROMANCE"
	GenreHistory    Genre = "HISTORY"
	GenrePsychology Genre = "PSYCHOLOGY"
	GenrePhilosophy Genre = "PHILOSOPHY"
	GenreChildren   Genre = "CHILDREN"
	GenreOther      Genre = "OTHER"
)

// DefaultGenre 新建图书未指定体裁时使用
const DefaultGenre = GenreFiction

// UnknownGenreLabel 未知体裁代码的展示名称
const UnknownGenreLabel = "Неизвестный жанр"

// genreTable 声明顺序有意义:统计页按数量排序时,数量相同的体裁保持该顺序
var genreTable = []struct {
	code  Genre
	label string
}{
	{GenreFiction, "Художественная литература"},
	{GenreSciFi, "Научная фантастика"},
	{GenreFantasy, "Фэнтези"},
	{GenreClassic, "Классика"},
	{GenreDetective, "Детектив"},
	{GenreRomance, "Роман"},
	{GenreHistory, "Историческая"},
	{GenrePsychology, "Психология"},
	{GenrePhilosophy, "Философия"},
	{GenreChildren, "Детская"},
	{GenreOther, "Другое"},
}

// Genres 按声明顺序返回全部体裁
func Genres() []Genre {
	out := make([]Genre, len(genreTable))
	for i, g := range genreTable {
		out[i] = g.code
	}
	return out
}

// ParseGenre 解析体裁代码(精确匹配,忽略首尾空白)
func ParseGenre(s string) (Genre, bool) {
	g := Genre(strings.TrimSpace(s))
	return g, g.IsValid()
}

// IsValid 是否为已知体裁
func (g Genre) IsValid() bool {
	return g.order() >= 0
}

// Label 俄文展示名称
func (g Genre) Label() string {
	if i := g.order(); i >= 0 {
		return genreTable[i].label
	}
	return UnknownGenreLabel
}

func (g Genre) String() string {
	return string(g)
}

// order 声明序号,未知体裁返回-1
func (g Genre) order() int {
	for i, item := range genreTable {
		if item.code == g {
			return i
		}
	}
	return -1
}
