package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/cart"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/product"
	"github.com/hellojanelle05/AquaShopV.0/internal/repository/mysql"
)

// newTestDB 打开内存 SQLite 并迁移核心表。
// 限制为单连接：内存库每个连接是独立库，同时也让并发事务自然串行。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int64) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:          name,
		CurrentPrice:  price,
		PreviousPrice: price,
		StockCount:    stock,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCartLine(t *testing.T, db *gorm.DB, customerID, productID, qty int64) *cart.Line {
	t.Helper()
	l := &cart.Line{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   qty,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}
