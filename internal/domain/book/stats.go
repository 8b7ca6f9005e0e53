package book

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

const (
	// YearBucketStart 出版年份分组的起始年
	YearBucketStart = 2000
	// YearBucketSize 每组5年
	YearBucketSize = 5
	// TopAuthorsLimit 作者排行最多返回的条数
	TopAuthorsLimit = 10
	// RecentWindow recent_month统计窗口
	RecentWindow = 30 * 24 * time.Hour
)

// Statistics 统计页全部指标
type Statistics struct {
	TotalBooks       int
	AvailableBooks   int
	BooksWithReviews int
	Price            PriceStats
	Genres           []GenreStat
	YearBuckets      []YearBucket
	TopAuthors       []AuthorStat
	RecentMonth      int
}

// PriceStats 价格汇总(单位:戈比);集合为空时Avg/Min/Max为nil,Sum为0
type PriceStats struct {
	Avg *float64
	Min *int64
	Max *int64
	Sum int64
}

// GenreStat 单个体裁的统计
type GenreStat struct {
	Genre      Genre
	Name       string
	Count      int
	Percentage float64 // count/total*100
	AvgPrice   float64 // 戈比
}

// YearBucket 出版年份分组[Start, End](闭区间)
type YearBucket struct {
	Start int
	End   int
	Count int
}

// Label 形如"2000-2004"
func (y YearBucket) Label() string {
	return fmt.Sprintf("%d-%d", y.Start, y.End)
}

// AuthorStat 作者排行条目;该作者没有任何评分时AvgRating为nil
type AuthorStat struct {
	Author    string
	BookCount int
	AvgRating *float64
}

// ComputeStatistics 单次遍历+内存分组计算统计数据
// books为完整图书集合(不受请求过滤条件影响);
// reviewedIDs为至少有一条评论的图书ID(可包含重复值);
// now为评估时刻,决定年份分组上限与recent_month窗口
func ComputeStatistics(books []*Book, reviewedIDs []uint, now time.Time) Statistics {
	st := Statistics{TotalBooks: len(books)}

	type genreAcc struct {
		count int
		sum   int64
	}
	type authorAcc struct {
		count     int
		rated     int
		ratingSum float64
	}

	currentYear := now.Year()
	recentFrom := now.Add(-RecentWindow)
	bookIDs := make(map[uint]struct{}, len(books))
	genres := map[Genre]*genreAcc{}
	authors := map[string]*authorAcc{}
	buckets := map[int]int{}

	for _, b := range books {
		bookIDs[b.ID] = struct{}{}

		if b.IsAvailable {
			st.AvailableBooks++
		}

		// 价格
		st.Price.Sum += b.Price
		if st.Price.Min == nil || b.Price < *st.Price.Min {
			v := b.Price
			st.Price.Min = &v
		}
		if st.Price.Max == nil || b.Price > *st.Price.Max {
			v := b.Price
			st.Price.Max = &v
		}

		// 体裁
		g := genres[b.Genre]
		if g == nil {
			g = &genreAcc{}
			genres[b.Genre] = g
		}
		g.count++
		g.sum += b.Price

		// 年份分组
		if y := b.PublicationYear; y != nil && *y >= YearBucketStart && *y <= currentYear {
			buckets[(*y-YearBucketStart)/YearBucketSize]++
		}

		// 作者
		a := authors[b.Author]
		if a == nil {
			a = &authorAcc{}
			authors[b.Author] = a
		}
		a.count++
		if b.Rating != nil {
			a.rated++
			a.ratingSum += *b.Rating
		}

		if !b.CreatedAt.Before(recentFrom) {
			st.RecentMonth++
		}
	}

	if st.TotalBooks > 0 {
		avg := float64(st.Price.Sum) / float64(st.TotalBooks)
		st.Price.Avg = &avg
	}

	// 有评论的图书:只统计集合内的图书,去重
	reviewed := make(map[uint]struct{}, len(reviewedIDs))
	for _, id := range reviewedIDs {
		if _, ok := bookIDs[id]; ok {
			reviewed[id] = struct{}{}
		}
	}
	st.BooksWithReviews = len(reviewed)

	// 体裁按声明顺序输出,再稳定排序,数量相同时保持声明顺序
	for _, code := range Genres() {
		g := genres[code]
		if g == nil {
			continue
		}
		st.Genres = append(st.Genres, GenreStat{
			Genre:      code,
			Name:       code.Label(),
			Count:      g.count,
			Percentage: percentage(g.count, st.TotalBooks),
			AvgPrice:   float64(g.sum) / float64(g.count),
		})
	}
	// 数据库中可能残留未知体裁代码,排在已知体裁之后
	var unknown []Genre
	for code := range genres {
		if !code.IsValid() {
			unknown = append(unknown, code)
		}
	}
	slices.Sort(unknown)
	for _, code := range unknown {
		g := genres[code]
		st.Genres = append(st.Genres, GenreStat{
			Genre:      code,
			Name:       code.Label(),
			Count:      g.count,
			Percentage: percentage(g.count, st.TotalBooks),
			AvgPrice:   float64(g.sum) / float64(g.count),
		})
	}
	slices.SortStableFunc(st.Genres, func(a, b GenreStat) int {
		return cmp.Compare(b.Count, a.Count)
	})

	// 年份分组:窗口[y, min(y+4, currentYear)],空窗口省略
	for start := YearBucketStart; start <= currentYear; start += YearBucketSize {
		n := buckets[(start-YearBucketStart)/YearBucketSize]
		if n == 0 {
			continue
		}
		st.YearBuckets = append(st.YearBuckets, YearBucket{
			Start: start,
			End:   min(start+YearBucketSize-1, currentYear),
			Count: n,
		})
	}

	// 作者排行:数量倒序,数量相同按作者名升序
	for name, a := range authors {
		entry := AuthorStat{Author: name, BookCount: a.count}
		if a.rated > 0 {
			avg := a.ratingSum / float64(a.rated)
			entry.AvgRating = &avg
		}
		st.TopAuthors = append(st.TopAuthors, entry)
	}
	slices.SortFunc(st.TopAuthors, func(a, b AuthorStat) int {
		if c := cmp.Compare(b.BookCount, a.BookCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Author, b.Author)
	})
	if len(st.TopAuthors) > TopAuthorsLimit {
		st.TopAuthors = st.TopAuthors[:TopAuthorsLimit]
	}

	return st
}

// percentage total为0时返回0
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// AuthorSummary 作者页汇总(仅统计有货图书)
type AuthorSummary struct {
	AvgRating  *float64
	AvgPrice   *float64 // 戈比
	TotalPages *int
}

// SummarizeAuthor 计算作者页汇总;books为空时返回nil
func SummarizeAuthor(books []*Book) *AuthorSummary {
	if len(books) == 0 {
		return nil
	}
	var (
		rated, pagesKnown int
		ratingSum         float64
		priceSum          int64
		pages             int
	)
	for _, b := range books {
		priceSum += b.Price
		if b.Rating != nil {
			rated++
			ratingSum += *b.Rating
		}
		if b.PageCount != nil {
			pagesKnown++
			pages += *b.PageCount
		}
	}
	s := &AuthorSummary{}
	avgPrice := float64(priceSum) / float64(len(books))
	s.AvgPrice = &avgPrice
	if rated > 0 {
		avg := ratingSum / float64(rated)
		s.AvgRating = &avg
	}
	if pagesKnown > 0 {
		s.TotalPages = &pages
	}
	return s
}
