package mq

import (
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hellojanelle05/AquaShopV.0/internal/config"
)

var (
	conn *amqp.Connection
	once sync.Once
)

// Init 初始化 RabbitMQ 连接，连接名带进管理界面方便排查
func Init(cfg *config.RabbitMQConfig) *amqp.Connection {
	once.Do(func() {
		props := amqp.NewConnectionProperties()
		if cfg.ConnectionName != "" {
			props.SetClientConnectionName(cfg.ConnectionName)
		}
		c, err := amqp.DialConfig(cfg.URL, amqp.Config{
			Heartbeat:  10 * time.Second,
			Locale:     "en_US",
			Properties: props,
		})
		if err != nil {
			log.Fatalf("failed to connect rabbitmq: %v", err)
		}
		conn = c
	})
	return conn
}

// Conn 获取 MQ 连接
func Conn() *amqp.Connection {
	return conn
}
