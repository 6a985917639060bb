package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hellojanelle05/AquaShopV.0/internal/config"
	"github.com/hellojanelle05/AquaShopV.0/internal/infra/redis"
	"github.com/hellojanelle05/AquaShopV.0/internal/repository/mysql"
	"github.com/hellojanelle05/AquaShopV.0/internal/service"
)

// 每5分钟把特卖商品的数据库库存同步进 Redis 镜像
const checkInterval = 5 * time.Minute

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load("./config")
	if err != nil {
		zap.L().Fatal("load config failed", zap.Error(err))
	}

	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	productSvc := service.NewProductService(mysql.NewProductRepository(db), redisClient)

	zap.L().Info("stock sync started", zap.Duration("interval", checkInterval))

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	// 立即执行一次
	syncOnce(productSvc)

	for range ticker.C {
		syncOnce(productSvc)
	}
}

func syncOnce(productSvc *service.ProductService) {
	ctx := context.Background()

	products, err := productSvc.ListFlashSale(ctx)
	if err != nil {
		zap.L().Error("list flash sale products failed", zap.Error(err))
		return
	}

	var synced int
	for _, p := range products {
		if err := productSvc.SyncStockCache(ctx, p); err != nil {
			zap.L().Warn("sync stock cache failed",
				zap.Int64("product_id", p.ID), zap.Error(err))
			continue
		}
		synced++
	}
	zap.L().Info("stock cache synced", zap.Int("products", synced))
}
