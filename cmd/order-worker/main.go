package main

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hellojanelle05/AquaShopV.0/internal/config"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/customer"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/order"
	"github.com/hellojanelle05/AquaShopV.0/internal/infra/mq"
	"github.com/hellojanelle05/AquaShopV.0/internal/repository/mysql"
	"github.com/hellojanelle05/AquaShopV.0/internal/service"
)

const orderPlacedQueue = "order_placed"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load("./config")
	if err != nil {
		zap.L().Fatal("load config failed", zap.Error(err))
	}

	db := mysql.Init(&cfg.MySQL)
	mqConn := mq.Init(&cfg.RabbitMQ)

	customerRepo := mysql.NewCustomerRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	ch, err := mqConn.Channel()
	if err != nil {
		zap.L().Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(orderPlacedQueue, true, false, false, false, nil); err != nil {
		zap.L().Fatal("failed to declare queue", zap.Error(err))
	}

	// 手动确认模式（auto-ack=false），处理失败时重新入队
	msgs, err := ch.Consume(orderPlacedQueue, "", false, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("failed to consume", zap.Error(err))
	}

	zap.L().Info("order worker started, waiting for messages")

	for d := range msgs {
		var evt service.OrderPlacedEvent
		if err := json.Unmarshal(d.Body, &evt); err != nil {
			zap.L().Warn("invalid message", zap.Error(err))
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}

		o, err := orderRepo.GetByID(context.Background(), evt.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 订单查不到说明事件已经失效，丢弃
				zap.L().Warn("order not found, dropping event", zap.Int64("order_id", evt.OrderID))
				_ = d.Nack(false, false)
				continue
			}
			service.GetMonitor().RecordDBError()
			service.GetMonitor().RecordWorkerFailed()
			_ = d.Nack(false, true)
			continue
		}

		notifyCustomer(customerRepo, o)

		service.GetMonitor().RecordWorkerProcessed()
		if err := d.Ack(false); err != nil {
			zap.L().Warn("failed to ack message", zap.Error(err))
		}
	}
}

// notifyCustomer 下单通知占位：目前只写日志，后续可以接邮件网关
func notifyCustomer(customerRepo customer.Repository, o *order.Order) {
	c, err := customerRepo.GetByID(context.Background(), o.CustomerID)
	if err != nil {
		zap.L().Warn("lookup customer failed", zap.Error(err), zap.Int64("order_id", o.ID))
		return
	}
	zap.L().Info("order confirmation",
		zap.Int64("order_id", o.ID),
		zap.String("customer", c.Email),
		zap.Float64("total", o.TotalPrice),
		zap.String("status", o.Status))
}
