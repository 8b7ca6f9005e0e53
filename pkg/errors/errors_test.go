package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	testCases := []struct {
		err    *AppError
		status int
	}{
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrTokenExpired, http.StatusUnauthorized},
		{New(ErrCodeBookNotFound, "图书不存在"), http.StatusNotFound},
		{ErrInvalidParams, http.StatusBadRequest},
		{ErrEmailDuplicate, http.StatusBadRequest},
		{ErrTooManyRequests, http.StatusTooManyRequests},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus(), tc.err.Message)
	}
}

func TestWithField_DoesNotMutateOriginal(t *testing.T) {
	derived := ErrInvalidParams.WithField("rating", "评分超出范围")

	assert.Nil(t, ErrInvalidParams.Fields)
	assert.Equal(t, "评分超出范围", derived.Fields["rating"])
	assert.True(t, errors.Is(derived, ErrInvalidParams), "派生错误应与原错误匹配")
}

func TestGetAppError_WrapsPlainError(t *testing.T) {
	plain := fmt.Errorf("connection refused")

	appErr := GetAppError(plain)

	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.True(t, errors.Is(appErr, plain))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("查询失败: %w", New(ErrCodeReviewNotFound, "评论不存在"))

	assert.True(t, IsCode(err, ErrCodeReviewNotFound))
	assert.False(t, IsCode(err, ErrCodeBookNotFound))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrCodeInternal))
}
