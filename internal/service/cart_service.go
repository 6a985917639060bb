package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/cart"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/product"
)

// CartService 维护每个顾客的购物车条目和金额合计
type CartService struct {
	db          *gorm.DB
	cartRepo    cart.Repository
	productRepo product.Repository
}

// NewCartService 创建购物车服务
func NewCartService(db *gorm.DB, cartRepo cart.Repository, productRepo product.Repository) *CartService {
	return &CartService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddProduct 加购：同 (顾客, 商品) 已有条目则数量 +1，否则新建数量为 1 的条目。
// 商品不存在返回 ErrNotFound。
// 累加走相对更新（quantity = quantity + 1），语句自带行锁，双击加购
// 在行上排队不会丢增量；并发首次加购撞上 (顾客, 商品) 唯一索引时，
// 输掉的一方转为累加。
func (s *CartService) AddProduct(ctx context.Context, customerID, productID int64) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&cart.Line{}).
			Where("customer_id = ? AND product_id = ?", customerID, productID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		err := tx.Create(&cart.Line{
			CustomerID: customerID,
			ProductID:  productID,
			Quantity:   1,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return tx.Model(&cart.Line{}).
				Where("customer_id = ? AND product_id = ?", customerID, productID).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", 1)).Error
		}
		return err
	})
}

// QuantityResult UpdateQuantity 的结果：条目被删除时 Removed 为 true
type QuantityResult struct {
	Quantity int64
	Removed  bool
}

// UpdateQuantity 调整条目数量，delta 只允许 +1 / -1。
// 条目按 (lineID, customerID) 定位，防止改到别人的购物车；
// 数量降到 1 以下时删除条目（视为移除而非错误）。
// 用相对更新（quantity = quantity + delta）代替读-改-写：
// UPDATE 自带行锁，快速连点 +/- 在同一行上串行，不会丢更新。
func (s *CartService) UpdateQuantity(ctx context.Context, customerID, lineID, delta int64) (*QuantityResult, error) {
	if delta != 1 && delta != -1 {
		return nil, ErrValidation
	}

	var result QuantityResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&cart.Line{}).
			Where("id = ? AND customer_id = ?", lineID, customerID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		// 行锁持有到事务结束，这次回读就是刚才更新后的值
		var l cart.Line
		if err := tx.Where("id = ? AND customer_id = ?", lineID, customerID).
			First(&l).Error; err != nil {
			return err
		}
		if l.Quantity < 1 {
			if err := tx.Delete(&cart.Line{}, l.ID).Error; err != nil {
				return err
			}
			result.Removed = true
			return nil
		}

		result.Quantity = l.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Remove 删除条目，仅限本人；条目不存在或不属于该顾客返回 ErrNotFound
func (s *CartService) Remove(ctx context.Context, customerID, lineID int64) error {
	l, err := s.cartRepo.GetForCustomer(ctx, lineID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.cartRepo.Delete(ctx, l.ID)
}

// Totals 返回购物车条目和实时金额合计。金额按商品当前价计算，
// 结算前会随商品调价浮动，下单那一刻才冻结成快照。
func (s *CartService) Totals(ctx context.Context, customerID int64) ([]*cart.Line, float64, error) {
	lines, err := s.cartRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, 0, err
	}
	var amount float64
	for _, l := range lines {
		amount += float64(l.Quantity) * l.Product.CurrentPrice
	}
	return lines, amount, nil
}

// Clear 清空该顾客的全部条目，只在结算成功的最后一步使用
func (s *CartService) Clear(ctx context.Context, customerID int64) error {
	return s.cartRepo.ClearCustomer(ctx, customerID)
}
