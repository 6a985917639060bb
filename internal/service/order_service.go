package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hellojanelle05/AquaShopV.0/internal/auth"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/order"
)

// OrderService 订单查询与后台状态流转
type OrderService struct {
	repo order.Repository
}

// NewOrderService 创建订单服务
func NewOrderService(repo order.Repository) *OrderService {
	return &OrderService{repo: repo}
}

// ListByCustomer 查询顾客自己的订单
func (s *OrderService) ListByCustomer(ctx context.Context, customerID int64) ([]*order.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// GetForCustomer 查询订单详情（含明细），只能看自己的订单
func (s *OrderService) GetForCustomer(ctx context.Context, orderID, customerID int64) (*order.Order, error) {
	o, err := s.repo.GetWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.CustomerID != customerID {
		// 不暴露他人订单的存在
		return nil, ErrNotFound
	}
	return o, nil
}

// ListRecent 后台查询最新订单
func (s *OrderService) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	return s.repo.ListRecent(ctx, limit)
}

// GetByID 后台按 ID 查单（含明细）
func (s *OrderService) GetByID(ctx context.Context, orderID int64) (*order.Order, error) {
	o, err := s.repo.GetWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// UpdateStatus 后台覆盖订单状态。状态是自由字符串，不校验流转合法性，
// 也不保留历史记录。非管理员一律拒绝。
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, newStatus string, requester *auth.Claims) error {
	if requester == nil || !requester.IsAdmin {
		return ErrPermissionDenied
	}
	if newStatus == "" {
		return ErrValidation
	}
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.UpdateStatus(ctx, orderID, newStatus)
}
