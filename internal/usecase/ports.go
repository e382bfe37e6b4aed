package usecase

import (
	"context"
	"time"

	"turismo/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 決済ゲートウェイに渡す明細。UnitPriceは税込
type PaymentItem struct {
	ID        string
	Title     string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// preference作成の結果。InitPointが支払い用リダイレクトURL
type PaymentPreference struct {
	ID        string
	InitPoint string
}

// ゲートウェイ側で照会した支払い情報
type PaymentInfo struct {
	Status            string
	ExternalReference string
}

// PaymentGatewayは外部決済サービスへの窓口。
// 注文IDをexternal_referenceとして渡し、webhookで突き合わせる
type PaymentGateway interface {
	CreatePreference(ctx context.Context, orderID int64, items []PaymentItem) (PaymentPreference, error)
	FindPayment(ctx context.Context, paymentID string) (PaymentInfo, error)
}

type OrderEmailItem struct {
	Name     string
	Quantity int64
	Price    decimal.Decimal
}

type OrderEmailData struct {
	OrderID int64
	Total   decimal.Decimal
	Date    time.Time
	Items   []OrderEmailItem
}

// Notifierはメール通知の窓口。送信失敗は呼び出し側でログするだけで、
// 本処理を失敗させない
type Notifier interface {
	OrderCreated(to string, data OrderEmailData) error
	PurchaseConfirmed(to string, data OrderEmailData) error
	OrderStatusChanged(to string, data OrderEmailData, status model.OrderStatus) error

	//メール確認フロー用に予約。現状呼び出し元なし
	VerificationCode(to string, code string) error
}
