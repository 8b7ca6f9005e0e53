package review

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

const (
	MinRating          = 1
	MaxRating          = 10
	MaxReviewerNameLen = 100
)

var validate = validator.New()

// Validate 字段级校验,任意字段不合法时整体拒绝
func (f Fields) Validate() error {
	errs := map[string]string{}

	switch name := strings.TrimSpace(f.ReviewerName); {
	case name == "":
		errs["reviewer_name"] = "请填写姓名"
	case utf8.RuneCountInString(name) > MaxReviewerNameLen:
		errs["reviewer_name"] = fmt.Sprintf("姓名不能超过%d个字符", MaxReviewerNameLen)
	}

	if email := strings.TrimSpace(f.Email); email != "" && validate.Var(email, "email") != nil {
		errs["email"] = "邮箱格式不正确"
	}

	if f.Rating < MinRating || f.Rating > MaxRating {
		errs["rating"] = fmt.Sprintf("评分必须在%d到%d之间", MinRating, MaxRating)
	}

	if strings.TrimSpace(f.Text) == "" {
		errs["text"] = "评论内容不能为空"
	}

	if len(errs) > 0 {
		return apperrors.Validation(errs)
	}
	return nil
}
