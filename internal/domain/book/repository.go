package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. List与Apply消费同一个Filter,结果顺序必须一致
// 3. 所有方法都接收ctx,事务中调用时从ctx取事务DB
type Repository interface {
	// Create 创建图书,回填ID与时间戳
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书全部可编辑字段
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书,不存在返回ErrBookNotFound
	Delete(ctx context.Context, id uint) error

	// List 目录列表:按Filter过滤排序后分页,同时返回过滤后的总数
	List(ctx context.Context, filter Filter, page Page) ([]*Book, int64, error)

	// Search 扩展搜索:书名/作者/简介/推荐理由/ISBN,最新在前
	Search(ctx context.Context, query string, page Page) ([]*Book, int64, error)

	// ListByGenre 某体裁下的有货图书,最新在前
	ListByGenre(ctx context.Context, genre Genre, page Page) ([]*Book, int64, error)

	// ListByAuthor 某作者(精确匹配)的有货图书,最新在前
	// page.Size<=0时返回全部
	ListByAuthor(ctx context.Context, author string, page Page) ([]*Book, int64, error)

	// Recent 最新添加的limit本(不区分是否有货)
	Recent(ctx context.Context, limit int) ([]*Book, error)

	// TopRated 评分最高的limit本(只包含已评分的图书)
	TopRated(ctx context.Context, limit int) ([]*Book, error)

	// All 全部图书,按ID升序(统计与CSV导出使用)
	All(ctx context.Context) ([]*Book, error)

	// SetAvailability 批量上架/下架,返回实际更新的行数
	SetAvailability(ctx context.Context, ids []uint, available bool) (int64, error)
}

// Page 分页参数,Number从1开始
type Page struct {
	Number int
	Size   int
}

// NewPage 规范化页码:小于1按第1页处理
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	return Page{Number: number, Size: size}
}

// Offset 偏移量
func (p Page) Offset() int {
	if p.Number < 1 || p.Size <= 0 {
		return 0
	}
	return (p.Number - 1) * p.Size
}
