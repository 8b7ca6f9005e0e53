package review

import (
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// ErrReviewNotFound 评论不存在
var ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "评论不存在")
