package book

import (
	"fmt"
	"math"
	"strings"
)

// KopecksPerRuble 1卢布=100戈比;价格一律以戈比(int64)存储,避免浮点误差
const KopecksPerRuble = 100

// PriceBand 价格区间(左闭右开),四个区间构成[0,∞)的完整划分
type PriceBand string

const (
	PriceBandBudget  PriceBand = "0-300"    // [0, 300)
	PriceBandMiddle  PriceBand = "300-700"  // [300, 700)
	PriceBandPremium PriceBand = "700-1000" // [700, 1000)
	PriceBandElite   PriceBand = "1000-"    // [1000, ∞)
)

var priceBands = []struct {
	band  PriceBand
	lower int64 // 戈比,含
	upper int64 // 戈比,不含;0表示无上界
	label string
}{
	{PriceBandBudget, 0, 300 * KopecksPerRuble, "Бюджетная"},
	{PriceBandMiddle, 300 * KopecksPerRuble, 700 * KopecksPerRuble, "Средняя"},
	{PriceBandPremium, 700 * KopecksPerRuble, 1000 * KopecksPerRuble, "Премиум"},
	{PriceBandElite, 1000 * KopecksPerRuble, 0, "Элитная"},
}

// PriceBands 按价格从低到高返回全部区间
func PriceBands() []PriceBand {
	out := make([]PriceBand, len(priceBands))
	for i, b := range priceBands {
		out[i] = b.band
	}
	return out
}

// ParsePriceBand 只接受四个字面量,其余返回false
func ParsePriceBand(s string) (PriceBand, bool) {
	b := PriceBand(strings.TrimSpace(s))
	return b, b.index() >= 0
}

// ClassifyPrice 价格所属区间;负数按最低区间处理,保证函数是全映射
func ClassifyPrice(price int64) PriceBand {
	for _, b := range priceBands[1:] {
		if price < b.lower {
			break
		}
		if b.upper == 0 || price < b.upper {
			return b.band
		}
	}
	return PriceBandBudget
}

// Bounds 返回区间上下界(戈比),bounded=false表示无上界
func (b PriceBand) Bounds() (lower, upper int64, bounded bool) {
	i := b.index()
	if i < 0 {
		return 0, 0, false
	}
	return priceBands[i].lower, priceBands[i].upper, priceBands[i].upper != 0
}

// Contains 判断价格是否落在区间内
func (b PriceBand) Contains(price int64) bool {
	lower, upper, bounded := b.Bounds()
	if b.index() < 0 || price < lower {
		return false
	}
	return !bounded || price < upper
}

// Label 价格类别名称(详情页price_category)
func (b PriceBand) Label() string {
	if i := b.index(); i >= 0 {
		return priceBands[i].label
	}
	return ""
}

func (b PriceBand) index() int {
	for i, item := range priceBands {
		if item.band == b {
			return i
		}
	}
	return -1
}

// FormatRubles 戈比 → "1234.50"
func FormatRubles(kopecks int64) string {
	sign := ""
	if kopecks < 0 {
		sign = "-"
		kopecks = -kopecks
	}
	return fmt.Sprintf("%s%d.%02d", sign, kopecks/KopecksPerRuble, kopecks%KopecksPerRuble)
}

// RublesFromFloat JSON中的数字价格 → 戈比(四舍五入到分)
// 超出int64范围的值饱和到边界,交给Validate按上下限报错
func RublesFromFloat(v float64) int64 {
	k := math.Round(v * KopecksPerRuble)
	switch {
	case math.IsNaN(k):
		return 0
	case k >= math.MaxInt64:
		return math.MaxInt64
	case k <= math.MinInt64:
		return math.MinInt64
	}
	return int64(k)
}

// ToRubles 戈比 → 卢布浮点数(仅用于JSON输出和均值展示)
func ToRubles(kopecks float64) float64 {
	return kopecks / KopecksPerRuble
}
