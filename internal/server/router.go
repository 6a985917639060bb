package server

import (
	"errors"
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/sessions"
	"go.uber.org/zap"

	"github.com/hellojanelle05/AquaShopV.0/internal/auth"
	"github.com/hellojanelle05/AquaShopV.0/internal/config"
	"github.com/hellojanelle05/AquaShopV.0/internal/infra/mq"
	"github.com/hellojanelle05/AquaShopV.0/internal/infra/redis"
	"github.com/hellojanelle05/AquaShopV.0/internal/middleware"
	"github.com/hellojanelle05/AquaShopV.0/internal/repository/mysql"
	"github.com/hellojanelle05/AquaShopV.0/internal/service"
	webcontrollers "github.com/hellojanelle05/AquaShopV.0/web/controllers"
)

// setFlash / popFlash 一次性提示消息，跳转后的页面读一次即失效
func setFlash(sess *sessions.Session, category, message string) {
	sess.SetFlash("flash_category", category)
	sess.SetFlash("flash_message", message)
}

func popFlash(sess *sessions.Session) (category, message string) {
	return sess.GetFlashString("flash_category"), sess.GetFlashString("flash_message")
}

// customerID 认证中间件写入的当前顾客 ID
func customerID(ctx iris.Context) int64 {
	return ctx.Values().GetInt64Default(middleware.CtxCustomerID, 0)
}

func isAdmin(ctx iris.Context) bool {
	return ctx.Values().GetBoolDefault(middleware.CtxIsAdmin, false)
}

// RegisterRoutes 注册前台 HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config, sess *sessions.Sessions) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	// 静态资源
	app.HandleDir("/assets", iris.Dir("./web/assets"))

	// 仓储与服务
	customerRepo := mysql.NewCustomerRepository(db)
	productRepo := mysql.NewProductRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	customerSvc := service.NewCustomerService(customerRepo, &cfg.JWT)
	productSvc := service.NewProductService(productRepo, redisClient)
	cartSvc := service.NewCartService(db, cartRepo, productRepo)
	checkoutSvc := service.NewCheckoutService(db, mqConn)
	orderSvc := service.NewOrderService(orderRepo)

	tokenCache := auth.NewTokenCache(redisClient,
		time.Duration(cfg.Auth.TokenCacheTTLSeconds)*time.Second)

	// ---------------- 公开页面 ----------------

	// 首页商品列表
	app.Get("/", func(ctx iris.Context) {
		items, err := productSvc.ListAll(ctx.Request().Context())
		if err != nil {
			zap.L().Error("list products failed", zap.Error(err))
			ctx.StopWithStatus(iris.StatusInternalServerError)
			return
		}
		category, message := popFlash(sess.Start(ctx))
		_ = ctx.View("home.html", iris.Map{
			"items":          items,
			"flash_category": category,
			"flash_message":  message,
		})
	})

	// 按名称搜索（子串匹配，不区分大小写）
	app.Post("/search", func(ctx iris.Context) {
		query := ctx.FormValue("search")
		items, err := productSvc.Search(ctx.Request().Context(), query)
		if err != nil {
			if errors.Is(err, service.ErrValidation) {
				setFlash(sess.Start(ctx), "warning", "Please enter a search term.")
				ctx.Redirect("/", iris.StatusFound)
				return
			}
			zap.L().Error("search failed", zap.Error(err))
			ctx.StopWithStatus(iris.StatusInternalServerError)
			return
		}
		_ = ctx.View("search.html", iris.Map{"items": items, "query": query})
	})

	// 特卖专区，展示库存走 Redis 镜像
	app.Get("/flash-sale", func(ctx iris.Context) {
		items, err := productSvc.ListFlashSaleCached(ctx.Request().Context())
		if err != nil {
			zap.L().Error("list flash sale failed", zap.Error(err))
			ctx.StopWithStatus(iris.StatusInternalServerError)
			return
		}
		_ = ctx.View("flash_sale.html", iris.Map{"items": items})
	})

	// 商品详情页
	app.Get("/product/{id:int64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetInt64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), pid)
		if err != nil {
			setFlash(sess.Start(ctx), "danger", "Product not found.")
			ctx.Redirect("/", iris.StatusFound)
			return
		}
		_ = ctx.View("product.html", iris.Map{"product": p})
	})

	// 登录 / 注册表单
	userController := webcontrollers.NewUserController(customerSvc)
	app.Get("/login", userController.ShowLogin)
	app.Get("/register", userController.ShowRegister)
	app.Post("/login", userController.PostLogin)
	app.Post("/register", userController.PostRegister)
	app.Get("/user/logout", userController.Logout)

	// ---------------- 需要登录 ----------------

	authed := app.Party("/", middleware.RequireLogin(&cfg.JWT, tokenCache))

	// 购物车页面：条目 + 实时合计
	authed.Get("/cart", func(ctx iris.Context) {
		if isAdmin(ctx) {
			ctx.Redirect("/admin/orders", iris.StatusFound)
			return
		}
		lines, amount, err := cartSvc.Totals(ctx.Request().Context(), customerID(ctx))
		if err != nil {
			zap.L().Error("load cart failed", zap.Error(err))
			ctx.StopWithStatus(iris.StatusInternalServerError)
			return
		}
		category, message := popFlash(sess.Start(ctx))
		_ = ctx.View("cart.html", iris.Map{
			"cart":           lines,
			"amount":         amount,
			"total":          amount,
			"flash_category": category,
			"flash_message":  message,
		})
	})

	// 加购：已有条目数量 +1，否则新建
	addToCart := func(ctx iris.Context) {
		if isAdmin(ctx) {
			setFlash(sess.Start(ctx), "warning", "Admins cannot place orders.")
			ctx.Redirect("/admin/orders", iris.StatusFound)
			return
		}
		pid, err := ctx.Params().GetInt64("product_id")
		if err != nil {
			ctx.StopWithStatus(iris.StatusBadRequest)
			return
		}
		if err := cartSvc.AddProduct(ctx.Request().Context(), customerID(ctx), pid); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				setFlash(sess.Start(ctx), "danger", "Product not found.")
			} else {
				zap.L().Error("add to cart failed", zap.Error(err))
				setFlash(sess.Start(ctx), "danger", "Could not add item to cart.")
			}
			ctx.Redirect("/cart", iris.StatusFound)
			return
		}
		setFlash(sess.Start(ctx), "success", "Added to cart!")
		ctx.Redirect("/cart", iris.StatusFound)
	}
	authed.Get("/add-to-cart/{product_id:int64}", addToCart)
	authed.Post("/add-to-cart/{product_id:int64}", addToCart)

	// AJAX 数量调整：action 为 plus / minus，返回 JSON
	authed.Post("/update-cart", func(ctx iris.Context) {
		itemID, err := strconv.ParseInt(ctx.FormValue("item_id"), 10, 64)
		if err != nil {
			ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "Invalid item id"})
			return
		}
		var delta int64
		switch ctx.FormValue("action") {
		case "plus":
			delta = 1
		case "minus":
			delta = -1
		default:
			ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{"error": "Invalid action"})
			return
		}

		result, err := cartSvc.UpdateQuantity(ctx.Request().Context(), customerID(ctx), itemID, delta)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				ctx.StopWithJSON(iris.StatusNotFound, iris.Map{"error": "Item not found"})
				return
			}
			zap.L().Error("update cart failed", zap.Error(err))
			ctx.StopWithJSON(iris.StatusInternalServerError, iris.Map{"error": "update failed"})
			return
		}
		if result.Removed {
			ctx.JSON(iris.Map{"success": true, "delete": true})
			return
		}
		ctx.JSON(iris.Map{"success": true, "quantity": result.Quantity})
	})

	// 移除条目
	authed.Get("/remove-from-cart/{item_id:int64}", func(ctx iris.Context) {
		itemID, _ := ctx.Params().GetInt64("item_id")
		if err := cartSvc.Remove(ctx.Request().Context(), customerID(ctx), itemID); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				setFlash(sess.Start(ctx), "danger", "Item not found!")
			} else {
				zap.L().Error("remove from cart failed", zap.Error(err))
				setFlash(sess.Start(ctx), "danger", "Could not remove item.")
			}
			ctx.Redirect("/cart", iris.StatusFound)
			return
		}
		setFlash(sess.Start(ctx), "success", "Item removed from cart!")
		ctx.Redirect("/cart", iris.StatusFound)
	})

	// 结算页：只展示合计，不下单
	authed.Get("/checkout", func(ctx iris.Context) {
		if isAdmin(ctx) {
			ctx.Redirect("/admin/orders", iris.StatusFound)
			return
		}
		lines, amount, err := cartSvc.Totals(ctx.Request().Context(), customerID(ctx))
		if err != nil {
			zap.L().Error("load checkout failed", zap.Error(err))
			ctx.StopWithStatus(iris.StatusInternalServerError)
			return
		}
		if len(lines) == 0 {
			setFlash(sess.Start(ctx), "warning", "Your cart is empty.")
			ctx.Redirect("/cart", iris.StatusFound)
			return
		}
		category, message := popFlash(sess.Start(ctx))
		_ = ctx.View("checkout.html", iris.Map{
			"cart":           lines,
			"total":          amount,
			"flash_category": category,
			"flash_message":  message,
		})
	})

	// 下单：购物车一次性转订单，失败整单回滚
	authed.Post("/place-order", middleware.CheckoutRateLimit(), func(ctx iris.Context) {
		if isAdmin(ctx) {
			ctx.Redirect("/admin/orders", iris.StatusFound)
			return
		}
		paymentMethod := ctx.FormValue("payment_method")

		orderID, err := checkoutSvc.PlaceOrder(ctx.Request().Context(), customerID(ctx), paymentMethod)
		if err != nil {
			var stockErr *service.InsufficientStockError
			switch {
			case errors.Is(err, service.ErrEmptyCart):
				setFlash(sess.Start(ctx), "warning", "Your cart is empty.")
				ctx.Redirect("/cart", iris.StatusFound)
			case errors.As(err, &stockErr):
				setFlash(sess.Start(ctx), "danger",
					"Insufficient stock for product "+strconv.FormatInt(stockErr.ProductID, 10)+".")
				ctx.Redirect("/checkout", iris.StatusFound)
			default:
				zap.L().Error("place order failed", zap.Error(err))
				setFlash(sess.Start(ctx), "danger", "Could not place your order. Please try again.")
				ctx.Redirect("/checkout", iris.StatusFound)
			}
			return
		}

		zap.L().Info("order placed",
			zap.Int64("order_id", orderID),
			zap.Int64("customer_id", customerID(ctx)))
		setFlash(sess.Start(ctx), "success", "Order placed successfully!")
		ctx.Redirect("/orders", iris.StatusFound)
	})

	// 订单列表 / 详情（仅本人）
	orderController := webcontrollers.NewOrderController(orderSvc)
	authed.Get("/orders", orderController.List)
	authed.Get("/order/{order_id:int64}", orderController.Details)

	// ---------------- 后台（管理员） ----------------

	admin := app.Party("/admin",
		middleware.RequireLogin(&cfg.JWT, tokenCache),
		middleware.RequireAdmin())

	admin.Get("/orders", func(ctx iris.Context) {
		orders, err := orderSvc.ListRecent(ctx.Request().Context(), 0)
		if err != nil {
			zap.L().Error("list orders failed", zap.Error(err))
			ctx.StopWithStatus(iris.StatusInternalServerError)
			return
		}
		category, message := popFlash(sess.Start(ctx))
		_ = ctx.View("admin/view_orders.html", iris.Map{
			"orders":         orders,
			"flash_category": category,
			"flash_message":  message,
		})
	})

	admin.Get("/order/{order_id:int64}/update", func(ctx iris.Context) {
		oid, _ := ctx.Params().GetInt64("order_id")
		o, err := orderSvc.GetByID(ctx.Request().Context(), oid)
		if err != nil {
			setFlash(sess.Start(ctx), "danger", "Order not found.")
			ctx.Redirect("/admin/orders", iris.StatusFound)
			return
		}
		_ = ctx.View("admin/update_order.html", iris.Map{"order": o})
	})

	admin.Post("/order/{order_id:int64}/update", func(ctx iris.Context) {
		oid, _ := ctx.Params().GetInt64("order_id")
		newStatus := ctx.FormValue("status")

		err := orderSvc.UpdateStatus(ctx.Request().Context(), oid, newStatus, middleware.Identity(ctx))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				setFlash(sess.Start(ctx), "danger", "Order not found.")
			case errors.Is(err, service.ErrValidation):
				setFlash(sess.Start(ctx), "warning", "Status cannot be empty.")
			default:
				zap.L().Error("update order status failed", zap.Error(err))
				setFlash(sess.Start(ctx), "danger", "Could not update order status.")
			}
			ctx.Redirect("/admin/orders", iris.StatusFound)
			return
		}
		setFlash(sess.Start(ctx), "success", "Order status updated!")
		ctx.Redirect("/admin/orders", iris.StatusFound)
	})
}
