package repository

import (
	"context"

	"turismo/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//ゲートウェイから返ってきたpreference IDを紐付ける
	SetPaymentID(ctx context.Context, orderID int64, paymentID string) error

	//新しい順
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
}
