package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/cart"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/order"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/product"
)

func stockOf(t *testing.T, db *gorm.DB, productID int64) int64 {
	t.Helper()
	var p product.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.StockCount
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestPlaceOrderSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, nil)
	ctx := context.Background()

	p1 := seedProduct(t, db, "Nano Tank", 9.99, 10)
	p2 := seedProduct(t, db, "Heater", 25.00, 4)
	seedCartLine(t, db, 7, p1.ID, 3)
	seedCartLine(t, db, 7, p2.ID, 2)

	orderID, err := svc.PlaceOrder(ctx, 7, "card")
	require.NoError(t, err)
	require.NotZero(t, orderID)

	var o order.Order
	require.NoError(t, db.Preload("Items").First(&o, orderID).Error)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, "card", o.PaymentMethod)
	assert.NotEmpty(t, o.PaymentReference)

	// 明细金额合计与订单快照严格一致（同一次读取算出来的）
	require.Len(t, o.Items, 2)
	var sum float64
	for _, item := range o.Items {
		sum += float64(item.Quantity) * item.PriceEach
	}
	assert.Equal(t, o.TotalPrice, sum)
	assert.InDelta(t, 3*9.99+2*25.00, o.TotalPrice, 1e-9)

	// 库存精确扣减，购物车已清空
	assert.Equal(t, int64(7), stockOf(t, db, p1.ID))
	assert.Equal(t, int64(2), stockOf(t, db, p2.ID))
	var lines int64
	require.NoError(t, db.Model(&cart.Line{}).Where("customer_id = ?", 7).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestPlaceOrderFrozenSnapshotIgnoresLaterPriceChange(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, nil)
	ctx := context.Background()

	p := seedProduct(t, db, "Filter", 30.00, 10)
	seedCartLine(t, db, 7, p.ID, 1)

	orderID, err := svc.PlaceOrder(ctx, 7, "cod")
	require.NoError(t, err)

	// 下单后调价不影响历史订单
	require.NoError(t, db.Model(p).Update("current_price", 99.00).Error)

	var o order.Order
	require.NoError(t, db.Preload("Items").First(&o, orderID).Error)
	assert.InDelta(t, 30.00, o.TotalPrice, 1e-9)
	require.Len(t, o.Items, 1)
	assert.InDelta(t, 30.00, o.Items[0].PriceEach, 1e-9)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, nil)

	_, err := svc.PlaceOrder(context.Background(), 7, "card")
	assert.ErrorIs(t, err, ErrEmptyCart)

	assert.Zero(t, countRows(t, db, &order.Order{}))
	assert.Zero(t, countRows(t, db, &order.Item{}))
}

func TestPlaceOrderInsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, nil)
	ctx := context.Background()

	// 第二条明细库存不够，整单必须原样回滚
	p1 := seedProduct(t, db, "Plant", 4.00, 10)
	p2 := seedProduct(t, db, "Light", 40.00, 1)
	p3 := seedProduct(t, db, "Gravel", 8.00, 10)
	seedCartLine(t, db, 7, p1.ID, 2)
	seedCartLine(t, db, 7, p2.ID, 3)
	seedCartLine(t, db, 7, p3.ID, 1)

	_, err := svc.PlaceOrder(ctx, 7, "card")

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p2.ID, stockErr.ProductID)

	// 没有订单、没有明细，三件商品库存原封不动
	assert.Zero(t, countRows(t, db, &order.Order{}))
	assert.Zero(t, countRows(t, db, &order.Item{}))
	assert.Equal(t, int64(10), stockOf(t, db, p1.ID))
	assert.Equal(t, int64(1), stockOf(t, db, p2.ID))
	assert.Equal(t, int64(10), stockOf(t, db, p3.ID))

	// 购物车保持原样，顾客可以调整后重试
	var lines int64
	require.NoError(t, db.Model(&cart.Line{}).Where("customer_id = ?", 7).Count(&lines).Error)
	assert.Equal(t, int64(3), lines)
}

func TestPlaceOrderCartConsumedByRivalCheckout(t *testing.T) {
	db := newTestDB(t)

	p := seedProduct(t, db, "Aquarium Heater", 24.50, 10)
	seedCartLine(t, db, 7, p.ID, 2)

	// 订单落库之后、清空购物车之前把条目抽走，模拟同一顾客的另一次
	// 结算先一步消费了同一批条目（快照读让两边都能看到这些条目）
	err := db.Callback().Create().After("gorm:create").Register("rival_checkout", func(tx *gorm.DB) {
		if tx.Statement.Table != "orders" {
			return
		}
		tx.Session(&gorm.Session{NewDB: true}).
			Where("customer_id = ?", int64(7)).
			Delete(&cart.Line{})
	})
	require.NoError(t, err)

	svc := NewCheckoutService(db, nil)
	_, err = svc.PlaceOrder(context.Background(), 7, "card")
	require.ErrorIs(t, err, ErrEmptyCart)

	// 输掉的一单整体回滚：不能出现第二张订单，也不能重复扣库存
	assert.Zero(t, countRows(t, db, &order.Order{}))
	assert.Zero(t, countRows(t, db, &order.Item{}))
	assert.Equal(t, int64(10), stockOf(t, db, p.ID))
	assert.Equal(t, int64(1), countRows(t, db, &cart.Line{}))
}

func TestPlaceOrderConcurrentLastUnit(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, nil)

	// 两个顾客抢同一件商品的最后一件库存
	p := seedProduct(t, db, "Rare Shrimp", 50.00, 1)
	seedCartLine(t, db, 7, p.ID, 1)
	seedCartLine(t, db, 8, p.ID, 1)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, cid := range []int64{7, 8} {
		wg.Add(1)
		go func(i int, cid int64) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), cid, "card")
		}(i, cid)
	}
	wg.Wait()

	// 恰好一个成功，另一个拿到库存不足
	var succeeded, conflicted int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		conflicted++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	assert.Equal(t, int64(0), stockOf(t, db, p.ID))
	assert.Equal(t, int64(1), countRows(t, db, &order.Order{}))
	assert.Equal(t, int64(1), countRows(t, db, &order.Item{}))
}
