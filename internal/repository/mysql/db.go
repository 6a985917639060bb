package mysql

import (
	"log"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/hellojanelle05/AquaShopV.0/internal/config"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/cart"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/customer"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/order"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/product"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init 初始化全局 GORM 实例并自动迁移表结构
func Init(cfg *config.MySQLConfig) *gorm.DB {
	once.Do(func() {
		var err error
		// TranslateError 把驱动的唯一键冲突翻译成 gorm.ErrDuplicatedKey，
		// 加购的并发首次插入靠它识别
		db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
			TranslateError: true,
		})
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}

		if err = Migrate(db); err != nil {
			log.Fatalf("auto migrate failed: %v", err)
		}
	})
	return db
}

// Migrate 迁移核心表结构，测试里也会对内存库调用
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&customer.Customer{},
		&product.Product{},
		&cart.Line{},
		&order.Order{},
		&order.Item{},
	)
}

// DB 获取全局 DB
func DB() *gorm.DB {
	return db
}
