package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文ステータス。決済ゲートウェイのwebhookや管理操作で遷移する
type OrderStatus int

const (
	OrderStatusPending    OrderStatus = 0
	OrderStatusProcessing OrderStatus = 1
	OrderStatusCompleted  OrderStatus = 2
	OrderStatusCancelled  OrderStatus = 3
)

// 0〜3のいずれかか
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// COMPLETED / CANCELLED は終端。以後の遷移は許可しない
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// キャンセル可能なのは PENDING / PROCESSING のみ
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "PENDING"
	case OrderStatusProcessing:
		return "PROCESSING"
	case OrderStatusCompleted:
		return "COMPLETED"
	case OrderStatusCancelled:
		return "CANCELLED"
	}
	return "UNKNOWN"
}

// 注文はチェックアウト時点のカートのスナップショット。作成後は明細を変更しない
type Order struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//税込合計（小計 × 1.21）
	Total decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	Status OrderStatus `gorm:"not null;default:0;index" json:"status"`

	//ゲートウェイのpreference ID。作成直後はnil
	PaymentID *string `gorm:"column:payment_id;type:varchar(255)" json:"payment_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
