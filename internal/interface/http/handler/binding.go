package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

var registerOnce sync.Once

// RegisterValidator 让validator在错误中使用json字段名(rating而不是Rating)
func RegisterValidator() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
			}
			return name
		})
	})
}

// bindJSON 绑定请求体,失败时返回可直接响应的AppError
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return translateBindError(err)
	}
	return nil
}

// translateBindError 校验错误和字段类型错误转换为字段级错误,其他错误(JSON语法错误等)统一为绑定失败
func translateBindError(err error) error {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return apperrors.Validation(map[string]string{ute.Field: "格式不正确"})
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.ErrBindError
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperrors.Validation(fields)
}

func fieldMessage(fe validator.FieldError) string {
	sized := fe.Kind() == reflect.String || fe.Kind() == reflect.Slice
	switch fe.Tag() {
	case "required":
		return "必填项"
	case "email":
		return "邮箱格式不正确"
	case "min":
		if sized {
			return fmt.Sprintf("长度不能小于%s", fe.Param())
		}
		return fmt.Sprintf("不能小于%s", fe.Param())
	case "max":
		if sized {
			return fmt.Sprintf("长度不能超过%s", fe.Param())
		}
		return fmt.Sprintf("不能大于%s", fe.Param())
	default:
		return "格式不正确"
	}
}

// parseID 解析路径中的ID;非法ID按资源不存在处理
func parseID(c *gin.Context, notFound error) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, notFound
	}
	return uint(id), nil
}

// parsePage 页码非法时返回0,由应用层回退到第1页
func parsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
