package server

import (
	"errors"
	"strconv"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/hellojanelle05/AquaShopV.0/internal/auth"
	"github.com/hellojanelle05/AquaShopV.0/internal/config"
	"github.com/hellojanelle05/AquaShopV.0/internal/infra/redis"
	"github.com/hellojanelle05/AquaShopV.0/internal/middleware"
	"github.com/hellojanelle05/AquaShopV.0/internal/repository/mysql"
	"github.com/hellojanelle05/AquaShopV.0/internal/service"
)

// RegisterAdminRoutes 注册后台管理端的 JSON API 路由
// 端口通常是 8081，与前台 Web 服务分离。
func RegisterAdminRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)

	// 仓储与服务
	customerRepo := mysql.NewCustomerRepository(db)
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	customerSvc := service.NewCustomerService(customerRepo, &cfg.JWT)
	productSvc := service.NewProductService(productRepo, redisClient)
	orderSvc := service.NewOrderService(orderRepo)

	tokenCache := auth.NewTokenCache(redisClient,
		time.Duration(cfg.Auth.TokenCacheTTLSeconds)*time.Second)

	// 管理员登录，拿到带 is_admin 的 token
	app.Post("/api/login", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		token, err := customerSvc.Login(ctx.Request().Context(), req.Email, req.Password)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "login failed"})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"token": token}})
	})

	api := app.Party("/api",
		middleware.RequireLogin(&cfg.JWT, tokenCache),
		middleware.RequireAdmin())

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 监控指标
	api.Get("/metrics", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "data": service.GetMonitor().Snapshot()})
	})

	// ---------- 商品 ----------

	// 商品列表（后台用：返回所有商品）
	api.Get("/products", func(ctx iris.Context) {
		list, err := productSvc.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// ---------- 订单 ----------

	// 最近订单列表
	api.Get("/orders", func(ctx iris.Context) {
		limitStr := ctx.URLParamDefault("limit", "20")
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			limit = 20
		}
		list, err := orderSvc.ListRecent(ctx.Request().Context(), limit)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 订单详情（含明细）
	api.Get("/orders/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		o, err := orderSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "order not found"})
				return
			}
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": o})
	})

	// 覆盖订单状态
	api.Put("/orders/{id:int64}/status", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		err := orderSvc.UpdateStatus(ctx.Request().Context(), id, req.Status, middleware.Identity(ctx))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "order not found"})
			case errors.Is(err, service.ErrValidation):
				ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "status required"})
			case errors.Is(err, service.ErrPermissionDenied):
				ctx.StopWithJSON(403, iris.Map{"code": 403, "msg": "admin only"})
			default:
				ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			}
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "updated"})
	})
}
