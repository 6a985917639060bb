package order

import (
	"context"
	"time"
)

// StatusPending 下单后的初始状态。状态本身是自由字符串，
// 后台可以覆盖为任意值，这里只约定初始值的写法。
const StatusPending = "Pending"

// Order 订单模型。TotalPrice 是下单瞬间的快照，之后商品调价不影响历史订单；
// 除 Status 外所有字段创建后不再修改。
type Order struct {
	ID               int64   `gorm:"primaryKey"`
	CustomerID       int64   `gorm:"index;not null"`
	TotalPrice       float64 `gorm:"not null"`
	PaymentMethod    string  `gorm:"size:50"`
	PaymentReference string  `gorm:"size:200"`
	Status           string  `gorm:"size:50;index;not null"`
	CreatedAt        time.Time

	Items []Item `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// Item 订单行，PriceEach 固定为下单时的单价
type Item struct {
	ID        int64   `gorm:"primaryKey"`
	OrderID   int64   `gorm:"index;not null"`
	ProductID int64   `gorm:"index;not null"`
	Quantity  int64   `gorm:"not null"`
	PriceEach float64 `gorm:"not null"`
}

func (Item) TableName() string { return "order_items" }

// Repository 订单仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetWithItems(ctx context.Context, id int64) (*Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*Order, error)
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
