package service

import (
	"sync"
	"time"
)

// Monitor 监控服务，统计结算链路的成功/失败指标
type Monitor struct {
	mu sync.RWMutex

	// 错误统计
	DBErrors       int64
	MQErrors       int64
	CheckoutErrors int64
	StockConflicts int64

	// 流量统计
	CheckoutRequests int64
	CheckoutSuccess  int64
	WorkerProcessed  int64
	WorkerFailed     int64

	// 时间统计
	LastDBError      time.Time
	LastMQError      time.Time
	LastCheckoutTime time.Time
	LastWorkerTime   time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordDBError 记录数据库错误
func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

// RecordMQError 记录MQ错误
func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

// RecordCheckoutRequest 记录一次结算请求
func (m *Monitor) RecordCheckoutRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutRequests++
	m.LastCheckoutTime = time.Now()
}

// RecordCheckoutSuccess 记录结算成功
func (m *Monitor) RecordCheckoutSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutSuccess++
}

// RecordCheckoutError 记录结算失败
func (m *Monitor) RecordCheckoutError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckoutErrors++
}

// RecordStockConflict 记录一次库存不足导致的整单回滚
func (m *Monitor) RecordStockConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StockConflicts++
}

// RecordWorkerProcessed 记录 worker 处理成功
func (m *Monitor) RecordWorkerProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorkerProcessed++
	m.LastWorkerTime = time.Now()
}

// RecordWorkerFailed 记录 worker 处理失败
func (m *Monitor) RecordWorkerFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorkerFailed++
	m.LastWorkerTime = time.Now()
}

// Snapshot 导出当前计数，后台监控接口使用
func (m *Monitor) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]interface{}{
		"db_errors":         m.DBErrors,
		"mq_errors":         m.MQErrors,
		"checkout_errors":   m.CheckoutErrors,
		"stock_conflicts":   m.StockConflicts,
		"checkout_requests": m.CheckoutRequests,
		"checkout_success":  m.CheckoutSuccess,
		"worker_processed":  m.WorkerProcessed,
		"worker_failed":     m.WorkerFailed,
	}
}
