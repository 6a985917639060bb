package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hellojanelle05/AquaShopV.0/internal/repository/mysql"
)

func TestListFlashSaleCachedFallsBackToDB(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(mysql.NewProductRepository(db), nil)

	p1 := seedProduct(t, db, "Rare Shrimp", 50.00, 3)
	require.NoError(t, db.Model(p1).Update("flash_sale", true).Error)
	seedProduct(t, db, "Gravel", 8.00, 99)

	// 没有 Redis 时镜像未命中，展示库存回落到数据库读数
	items, err := svc.ListFlashSaleCached(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p1.ID, items[0].ID)
	assert.Equal(t, int64(3), items[0].StockCount)
}

func TestSearchRequiresKeyword(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(mysql.NewProductRepository(db), nil)

	_, err := svc.Search(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}
