package controllers

import (
	"errors"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/hellojanelle05/AquaShopV.0/internal/middleware"
	"github.com/hellojanelle05/AquaShopV.0/internal/service"
)

// OrderController 顾客侧订单列表与详情页。
type OrderController struct {
	orderService *service.OrderService
}

func NewOrderController(orderSvc *service.OrderService) *OrderController {
	return &OrderController{orderService: orderSvc}
}

// List 当前顾客的订单列表。
func (c *OrderController) List(ctx iris.Context) {
	customerID := ctx.Values().GetInt64Default(middleware.CtxCustomerID, 0)
	orders, err := c.orderService.ListByCustomer(ctx.Request().Context(), customerID)
	if err != nil {
		zap.L().Error("list orders failed", zap.Error(err))
		ctx.StopWithStatus(iris.StatusInternalServerError)
		return
	}
	_ = ctx.View("orders.html", iris.Map{"orders": orders})
}

// Details 订单详情，按 (orderID, customerID) 收口，别人的订单一律 404。
func (c *OrderController) Details(ctx iris.Context) {
	customerID := ctx.Values().GetInt64Default(middleware.CtxCustomerID, 0)
	orderID, _ := ctx.Params().GetInt64("order_id")

	o, err := c.orderService.GetForCustomer(ctx.Request().Context(), orderID, customerID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.StopWithStatus(iris.StatusNotFound)
			return
		}
		zap.L().Error("load order failed", zap.Error(err))
		ctx.StopWithStatus(iris.StatusInternalServerError)
		return
	}
	_ = ctx.View("order_details.html", iris.Map{"order": o, "items": o.Items})
}
