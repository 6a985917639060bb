package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/cart"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/order"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/product"
)

const orderPlacedQueue = "order_placed"

// OrderPlacedEvent 下单成功后发给 MQ 的事件，order-worker 消费
type OrderPlacedEvent struct {
	OrderID    int64   `json:"order_id"`
	CustomerID int64   `json:"customer_id"`
	TotalPrice float64 `json:"total_price"`
}

// CheckoutService 把购物车一次性转成订单（扣库存、写订单行、清空购物车）
type CheckoutService struct {
	db     *gorm.DB
	mqConn *amqp.Connection // 可为 nil（测试 / MQ 不可用时跳过事件发布）
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(db *gorm.DB, mqConn *amqp.Connection) *CheckoutService {
	return &CheckoutService{db: db, mqConn: mqConn}
}

// PlaceOrder 下单。整个流程在一个事务里，要么全部落库要么全部回滚：
//  1. 取出购物车，空车返回 ErrEmptyCart，不产生任何写入
//  2. 按商品当前价计算总额，这个读数即为冻结快照
//  3. 先建订单行拿到 ID，同事务内供订单明细外键引用
//  4. 逐行条件扣库存：UPDATE ... WHERE stock_count >= quantity。
//     UPDATE 自带行写锁，并发结算在同一商品上自然串行，不会超卖；
//     影响行数为 0 说明库存不够，整单回滚
//  5. 按同一次读到的单价写订单明细
//  6. 清空该顾客购物车，删除行数与第 1 步读到的条目数比对：
//     少了说明条目已被同一顾客的并发结算消费，按空车回滚，
//     同一批购物车条目最多成交一单
//
// 成功返回新订单 ID；提交之后再发 MQ 事件，发布失败只记日志不影响订单。
func (s *CheckoutService) PlaceOrder(ctx context.Context, customerID int64, paymentMethod string) (int64, error) {
	GetMonitor().RecordCheckoutRequest()

	var (
		orderID    int64
		orderTotal float64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) 取购物车（带商品，拿当前价）
		var lines []*cart.Line
		if err := tx.Preload("Product").
			Where("customer_id = ?", customerID).
			Order("id ASC").
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		// 2) 当前价合计，下单后即为历史快照
		var total float64
		for _, l := range lines {
			total += float64(l.Quantity) * l.Product.CurrentPrice
		}

		// 3) 先落订单，拿到 ID
		o := order.Order{
			CustomerID:       customerID,
			TotalPrice:       total,
			PaymentMethod:    paymentMethod,
			PaymentReference: uuid.NewString(),
			Status:           order.StatusPending,
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}

		// 4) + 5) 逐行扣库存并写明细
		for _, l := range lines {
			res := tx.Model(&product.Product{}).
				Where("id = ? AND stock_count >= ?", l.ProductID, l.Quantity).
				UpdateColumn("stock_count", gorm.Expr("stock_count - ?", l.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				GetMonitor().RecordStockConflict()
				return &InsufficientStockError{ProductID: l.ProductID}
			}

			item := order.Item{
				OrderID:   o.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				PriceEach: l.Product.CurrentPrice,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		// 6) 清空购物车。第 1 步的 Find 是快照读不加锁，同一购物车的
		//    并发结算可能都读到同一批条目；DELETE 是当前读，输掉的那个
		//    事务在这里删不满行数，整单回滚
		res := tx.Where("customer_id = ?", customerID).Delete(&cart.Line{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(lines)) {
			return ErrEmptyCart
		}

		orderID = o.ID
		orderTotal = total
		return nil
	})
	if err != nil {
		GetMonitor().RecordCheckoutError()
		return 0, err
	}

	GetMonitor().RecordCheckoutSuccess()
	s.publishOrderPlaced(ctx, &OrderPlacedEvent{
		OrderID:    orderID,
		CustomerID: customerID,
		TotalPrice: orderTotal,
	})
	return orderID, nil
}

// publishOrderPlaced 订单已提交，事件发布尽力而为
func (s *CheckoutService) publishOrderPlaced(ctx context.Context, evt *OrderPlacedEvent) {
	if s.mqConn == nil {
		return
	}

	ch, err := s.mqConn.Channel()
	if err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("open mq channel failed", zap.Error(err))
		return
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(orderPlacedQueue, true, false, false, false, nil); err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("declare queue failed", zap.Error(err))
		return
	}

	body, err := json.Marshal(evt)
	if err != nil {
		zap.L().Warn("marshal order event failed", zap.Error(err))
		return
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		orderPlacedQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("publish order event failed", zap.Error(err), zap.Int64("order_id", evt.OrderID))
	}
}
