package book

import (
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrEmptyIDs 批量操作未选择图书
	ErrEmptyIDs = apperrors.New(apperrors.ErrCodeInvalidParams, "请至少选择一本图书")
)
