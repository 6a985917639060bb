package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/cart"
)

type cartRepo struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepo{db: db}
}

func (r *cartRepo) GetForCustomer(ctx context.Context, lineID, customerID int64) (*cart.Line, error) {
	var l cart.Line
	if err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", lineID, customerID).
		First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *cartRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*cart.Line, error) {
	var list []*cart.Line
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *cartRepo) Delete(ctx context.Context, lineID int64) error {
	return r.db.WithContext(ctx).Delete(&cart.Line{}, lineID).Error
}

func (r *cartRepo) ClearCustomer(ctx context.Context, customerID int64) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&cart.Line{}).Error
}
