package service

import (
	"context"
	"errors"
	"fmt"

	radix "github.com/mediocregopher/radix/v3"
	"gorm.io/gorm"

	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/product"
)

const redisStockKey = "shop:stock:%d" // productID

// ProductService 商品查询；Redis 里另存一份特卖商品的库存镜像，
// 列表页可以用它做展示快路径，真正的扣减仍以数据库为准。
type ProductService struct {
	repo  product.Repository
	redis radix.Client // 可为 nil
}

// NewProductService 创建商品服务
func NewProductService(repo product.Repository, redis radix.Client) *ProductService {
	return &ProductService{repo: repo, redis: redis}
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) ListAll(ctx context.Context) ([]*product.Product, error) {
	return s.repo.ListAll(ctx)
}

// Search 按名称子串查找，不区分大小写
func (s *ProductService) Search(ctx context.Context, keyword string) ([]*product.Product, error) {
	if keyword == "" {
		return nil, ErrValidation
	}
	return s.repo.Search(ctx, keyword)
}

// ListFlashSale 特卖商品列表，库存为数据库读数。stock-sync 用它做镜像源
func (s *ProductService) ListFlashSale(ctx context.Context) ([]*product.Product, error) {
	return s.repo.ListFlashSale(ctx)
}

// ListFlashSaleCached 特卖列表的展示快路径：展示库存优先取 Redis 镜像，
// 未命中或读取失败时回落到数据库读数
func (s *ProductService) ListFlashSaleCached(ctx context.Context) ([]*product.Product, error) {
	items, err := s.repo.ListFlashSale(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range items {
		if n, ok, err := s.CachedStock(ctx, p.ID); err == nil && ok {
			p.StockCount = n
		}
	}
	return items, nil
}

// SyncStockCache 把单个商品的库存写进 Redis 镜像
func (s *ProductService) SyncStockCache(ctx context.Context, p *product.Product) error {
	if s.redis == nil {
		return nil
	}
	key := fmt.Sprintf(redisStockKey, p.ID)
	return s.redis.Do(radix.FlatCmd(nil, "SET", key, p.StockCount))
}

// CachedStock 读 Redis 里的库存镜像，未命中返回 ok=false
func (s *ProductService) CachedStock(ctx context.Context, productID int64) (int64, bool, error) {
	if s.redis == nil {
		return 0, false, nil
	}
	key := fmt.Sprintf(redisStockKey, productID)
	var exists int
	if err := s.redis.Do(radix.Cmd(&exists, "EXISTS", key)); err != nil {
		return 0, false, err
	}
	if exists == 0 {
		return 0, false, nil
	}
	var n int64
	if err := s.redis.Do(radix.Cmd(&n, "GET", key)); err != nil {
		return 0, false, err
	}
	return n, true, nil
}
