package service

import (
	"errors"
	"fmt"
)

// 核心业务错误，HTTP 层用 errors.Is / errors.As 翻译成跳转提示或 JSON
var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("invalid input")
)

// InsufficientStockError 库存不足，带上商品 ID 方便提示具体是哪件商品
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}
