package customer

import (
	"context"
	"time"
)

// Customer 顾客模型，IsAdmin 为 true 时可进入后台订单管理
type Customer struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"size:100;uniqueIndex;not null"`
	Username     string    `gorm:"size:100;not null"`
	PasswordHash string    `gorm:"size:150;not null"`
	Salt         string    `gorm:"size:32"`
	IsAdmin      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

// Repository 顾客仓储接口
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id int64) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	ListAll(ctx context.Context) ([]*Customer, error)
}
