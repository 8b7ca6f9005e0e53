package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 封装写操作的业务规则校验(字段校验、批量操作参数检查)
// 2. 只依赖Repository接口,不依赖具体数据库实现
// 3. 删除涉及评论的级联删除,由应用层在事务中编排
type Service interface {
	// CreateBook 新增图书
	// 业务规则:字段校验失败时整体拒绝;评分四舍五入到一位小数
	CreateBook(ctx context.Context, fields Fields) (*Book, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 编辑图书(全量覆盖可编辑字段)
	UpdateBook(ctx context.Context, id uint, fields Fields) (*Book, error)

	// SetAvailability 批量上架/下架
	SetAvailability(ctx context.Context, ids []uint, available bool) (int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 新增图书
func (s *service) CreateBook(ctx context.Context, fields Fields) (*Book, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	b := NewBook(fields)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBook 编辑图书
func (s *service) UpdateBook(ctx context.Context, id uint, fields Fields) (*Book, error) {
	// 1. 先确认图书存在(不存在优先返回404,而不是校验错误)
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 字段校验
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	// 3. 更新并持久化
	b.Update(fields)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// SetAvailability 批量上架/下架(重复ID去重)
func (s *service) SetAvailability(ctx context.Context, ids []uint, available bool) (int64, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return 0, ErrEmptyIDs
	}
	return s.repo.SetAvailability(ctx, unique, available)
}
