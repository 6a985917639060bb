package product

import (
	"context"
	"time"
)

// Product 商品模型。下单扣减只修改 StockCount，其余字段对核心流程只读。
type Product struct {
	ID            int64     `gorm:"primaryKey"`
	Name          string    `gorm:"size:100;not null"`
	CurrentPrice  float64   `gorm:"not null"`
	PreviousPrice float64   `gorm:"not null"`
	StockCount    int64     `gorm:"not null"`
	FlashSale     bool      `gorm:"not null;default:false"`
	Picture       string    `gorm:"size:1000"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	Search(ctx context.Context, keyword string) ([]*Product, error)
	ListFlashSale(ctx context.Context) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
