package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/customer"
)

type customerRepo struct {
	db *gorm.DB
}

// NewCustomerRepository 创建顾客仓储
func NewCustomerRepository(db *gorm.DB) customer.Repository {
	return &customerRepo{db: db}
}

func (r *customerRepo) Create(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) ListAll(ctx context.Context) ([]*customer.Customer, error) {
	var list []*customer.Customer
	if err := r.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
