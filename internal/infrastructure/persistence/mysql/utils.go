package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突
// 开启TranslateError后MySQL(1062)与SQLite都会转换为gorm.ErrDuplicatedKey
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容检查:未开启TranslateError时的原始错误信息
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// likeEscape LIKE语句的转义字符
// 不使用反斜杠:MySQL字符串字面量中的反斜杠本身需要转义
const likeEscape = "!"

// containsPattern 构造不区分大小写的子串匹配模式,转义%和_
func containsPattern(q string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

// likeClause 多字段OR匹配,如 "LOWER(COALESCE(title, '')) LIKE ? ESCAPE '!' OR ..."
// NULL按空串处理,与领域层的零值字符串一致
func likeClause(columns ...string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(COALESCE(" + col + ", '')) LIKE ? ESCAPE '" + likeEscape + "'"
	}
	return strings.Join(parts, " OR ")
}

// repeatArg 为likeClause的每个占位符生成相同参数
func repeatArg(arg interface{}, n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = arg
	}
	return args
}
