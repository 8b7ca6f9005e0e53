package book

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 字段约束
const (
	MaxTitleLen  = 255
	MaxAuthorLen = 255
	MaxISBNLen   = 13
	MinRating    = 0.0
	MaxRating    = 10.0
	MinYear      = 1800
	MaxYear      = 2100

	// MaxPrice 价格上限(戈比),即99999999.99卢布
	MaxPrice int64 = 9_999_999_999
)

// Validate 校验可编辑字段,返回字段级错误(字段名使用JSON名称)
// 任意字段不合法时整体拒绝,不做部分保存
func (f Fields) Validate() error {
	errs := map[string]string{}

	switch title := strings.TrimSpace(f.Title); {
	case title == "":
		errs["title"] = "书名不能为空"
	case utf8.RuneCountInString(title) > MaxTitleLen:
		errs["title"] = fmt.Sprintf("书名不能超过%d个字符", MaxTitleLen)
	}

	switch author := strings.TrimSpace(f.Author); {
	case author == "":
		errs["author"] = "作者不能为空"
	case utf8.RuneCountInString(author) > MaxAuthorLen:
		errs["author"] = fmt.Sprintf("作者不能超过%d个字符", MaxAuthorLen)
	}

	if f.Genre != "" && !f.Genre.IsValid() {
		errs["genre"] = "未知的体裁: " + string(f.Genre)
	}

	if f.Rating != nil && (*f.Rating < MinRating || *f.Rating > MaxRating) {
		errs["rating"] = "评分必须在0.0到10.0之间"
	}

	switch {
	case f.Price < 0:
		errs["price"] = "价格不能为负数"
	case f.Price > MaxPrice:
		errs["price"] = "价格不能超过" + FormatRubles(MaxPrice)
	}

	if utf8.RuneCountInString(strings.TrimSpace(f.ISBN)) > MaxISBNLen {
		errs["isbn"] = fmt.Sprintf("ISBN不能超过%d个字符", MaxISBNLen)
	}

	if f.PublicationYear != nil && (*f.PublicationYear < MinYear || *f.PublicationYear > MaxYear) {
		errs["publication_year"] = fmt.Sprintf("出版年份必须在%d到%d之间", MinYear, MaxYear)
	}

	if f.PageCount != nil && *f.PageCount <= 0 {
		errs["page_count"] = "页数必须为正整数"
	}

	if len(errs) > 0 {
		return apperrors.Validation(errs)
	}
	return nil
}
