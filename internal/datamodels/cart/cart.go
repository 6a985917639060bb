package cart

import (
	"context"

	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/product"
)

// Line 购物车条目。同一 (CustomerID, ProductID) 只允许一条记录，
// 重复加购通过数量累加实现。
type Line struct {
	ID         int64 `gorm:"primaryKey"`
	CustomerID int64 `gorm:"not null;uniqueIndex:idx_cart_customer_product"`
	ProductID  int64 `gorm:"not null;uniqueIndex:idx_cart_customer_product"`
	Quantity   int64 `gorm:"not null"`

	Product product.Product `gorm:"foreignKey:ProductID"`
}

// TableName 固定表名，避免 gorm 复数化成 lines
func (Line) TableName() string { return "cart_lines" }

// Repository 购物车仓储接口。查询都按 customerID 收口，防止跨用户操作。
// 数量的写入走服务层的相对更新语句，不经过仓储。
type Repository interface {
	GetForCustomer(ctx context.Context, lineID, customerID int64) (*Line, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*Line, error)
	Delete(ctx context.Context, lineID int64) error
	ClearCustomer(ctx context.Context, customerID int64) error
}
