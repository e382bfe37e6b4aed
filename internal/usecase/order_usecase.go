package usecase

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"turismo/internal/domain/model"
	repo "turismo/internal/repository"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// 税率21%（税込係数）
var taxMultiplier = decimal.RequireFromString("1.21")

// OrderUsecase は注文ライフサイクルの中核。
// カート→注文のスナップショット、ゲートウェイ連携、webhookによる
// ステータス遷移、キャンセルを担当する
type OrderUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	cartRepo      repo.CartRepository
	cartItemRepo  repo.CartItemRepository
	productRepo   repo.ProductRepository
	userRepo      repo.UserRepository
	gateway       PaymentGateway
	notifier      Notifier
}

func NewOrderUsecase(
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	userRepo repo.UserRepository,
	gateway PaymentGateway,
	notifier Notifier,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		gateway:       gateway,
		notifier:      notifier,
	}
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type OrderUserOutput struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Status      model.OrderStatus `json:"status"`
	StatusLabel string            `json:"status_label"`
	Total       decimal.Decimal   `json:"total"`
	PaymentID   *string           `json:"payment_id"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemOutput `json:"items"`

	//管理者向け一覧でのみ埋める
	User *OrderUserOutput `json:"user,omitempty"`
}

type CreateOrderOutput struct {
	Order      OrderOutput `json:"order"`
	PaymentURL string      `json:"payment_url"`
}

type CancelOrderOutput struct {
	Message     string      `json:"message"`
	CancelledBy string      `json:"cancelled_by"`
	Order       OrderOutput `json:"order"`
}

type UpdateOrderStatusInput struct {
	Status int
}

// CreateOrder はカートを注文に変換する。
// 手順: カート読取→税込額計算→注文PENDINGで保存→preference作成→
// payment ID紐付け→カートクリア→作成メール（best-effort）。
// preference作成に失敗した場合、注文はpayment ID無しのPENDINGのまま残る
// （自動補償はしない・観測仕様どおり）
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID int64) (CreateOrderOutput, error) {
	if userID <= 0 {
		return CreateOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	if err != nil {
		return CreateOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cartItems, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CreateOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(cartItems) == 0 {
		return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	//カートのスナップショットから小計と税込明細を作る
	subtotal := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	payItems := make([]PaymentItem, 0, len(cartItems))
	emailItems := make([]OrderEmailItem, 0, len(cartItems))

	now := time.Now()
	for _, ci := range cartItems {
		p, err := u.productRepo.FindByID(ctx, ci.ProductID)
		if err == repo.ErrNotFound {
			return CreateOrderOutput{}, NewHTTPError(http.StatusBadRequest, "product no longer available")
		}
		if err != nil {
			return CreateOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//税込単価のスナップショット
		unitWithTax := p.Price.Mul(taxMultiplier).Round(2)

		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(ci.Quantity)))

		orderItems = append(orderItems, model.OrderItem{
			ProductID: ci.ProductID,
			Quantity:  ci.Quantity,
			Price:     unitWithTax,
			CreatedAt: now,
		})
		payItems = append(payItems, PaymentItem{
			ID:        strconv.FormatInt(p.ID, 10),
			Title:     p.Name,
			Quantity:  ci.Quantity,
			UnitPrice: unitWithTax,
		})
		emailItems = append(emailItems, OrderEmailItem{
			Name:     p.Name,
			Quantity: ci.Quantity,
			Price:    unitWithTax,
		})
	}

	total := subtotal.Mul(taxMultiplier).Round(2)

	orderID, err := u.orderRepo.Create(ctx, model.Order{
		UserID:    userID,
		Total:     total,
		Status:    model.OrderStatusPending,
		CreatedAt: now,
	})
	if err != nil {
		return CreateOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.orderItemRepo.CreateBulk(ctx, orderID, orderItems); err != nil {
		return CreateOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//決済preference作成。失敗したら注文はPENDINGのまま500を返す
	pref, err := u.gateway.CreatePreference(ctx, orderID, payItems)
	if err != nil {
		log.WithError(err).WithField("order_id", orderID).Error("payment preference creation failed")
		return CreateOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "payment gateway error: "+err.Error())
	}

	if err := u.orderRepo.SetPaymentID(ctx, orderID, pref.ID); err != nil {
		return CreateOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//チェックアウト済みカートを空にする
	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return CreateOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//作成通知（best-effort）
	if user, uerr := u.userRepo.FindByID(ctx, userID); uerr == nil {
		data := OrderEmailData{OrderID: orderID, Total: total, Date: now, Items: emailItems}
		if nerr := u.notifier.OrderCreated(user.Email, data); nerr != nil {
			log.WithError(nerr).WithField("order_id", orderID).Warn("order created email failed")
		}
	}

	paymentID := pref.ID
	out := OrderOutput{
		ID:          orderID,
		UserID:      userID,
		Status:      model.OrderStatusPending,
		StatusLabel: model.OrderStatusPending.String(),
		Total:       total,
		PaymentID:   &paymentID,
		CreatedAt:   now,
		Items:       u.toItemOutputs(ctx, orderItems),
	}

	return CreateOrderOutput{Order: out, PaymentURL: pref.InitPoint}, nil
}

// ゲートウェイの支払いステータス→注文ステータス
func statusFromPayment(s string) model.OrderStatus {
	switch s {
	case "approved":
		return model.OrderStatusCompleted
	case "pending":
		return model.OrderStatusProcessing
	case "rejected":
		return model.OrderStatusCancelled
	default:
		return model.OrderStatusPending
	}
}

// HandleWebhook はゲートウェイからの通知で注文ステータスを進める。
// type=payment以外は何もせず受理する。
// 終端状態からの遷移だけは拒否（スキップしてログ）。
// COMPLETEDへの遷移では通知1回につき1通メールを送る（再送あり・観測仕様どおり）
func (u *OrderUsecase) HandleWebhook(ctx context.Context, notificationType string, paymentID string) error {
	if notificationType != "payment" {
		log.WithField("type", notificationType).Info("ignoring non-payment webhook")
		return nil
	}

	info, err := u.gateway.FindPayment(ctx, paymentID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "payment lookup failed: "+err.Error())
	}

	orderID, err := strconv.ParseInt(info.ExternalReference, 10, 64)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid external reference")
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	target := statusFromPayment(info.Status)

	//終端状態は変更しない
	if order.Status.IsTerminal() && order.Status != target {
		log.WithFields(log.Fields{
			"order_id": orderID,
			"current":  order.Status.String(),
			"target":   target.String(),
		}).Warn("webhook transition out of terminal state rejected")
		return nil
	}

	if err := u.orderRepo.UpdateStatus(ctx, orderID, target); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	log.WithFields(log.Fields{
		"order_id": orderID,
		"status":   target.String(),
		"payment":  info.Status,
	}).Info("order status updated from webhook")

	//購入確定メールは通知1回につき1通（再送は重複を許容）
	if target == model.OrderStatusCompleted {
		u.notifyPurchase(ctx, order)
	}

	return nil
}

// TestWebhook は検証用のwebhookシミュレータ。
// 本来の運用では公開すべきでないが、観測された経路なので残してある
func (u *OrderUsecase) TestWebhook(ctx context.Context, orderID int64, status *int) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "orderId is required")
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//status未指定ならCOMPLETED
	target := model.OrderStatusCompleted
	if status != nil {
		target = model.OrderStatus(*status)
		if !target.IsValid() {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	if order.Status.IsTerminal() && order.Status != target {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "order is in a terminal state")
	}

	if err := u.orderRepo.UpdateStatus(ctx, orderID, target); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.notifyPurchase(ctx, order)

	order.Status = target
	return u.toOrderOutput(ctx, order, nil), nil
}

// UpdateStatus は管理操作によるステータス変更。
// 終端状態からの変更は拒否。変更後はbest-effortで通知
func (u *OrderUsecase) UpdateStatus(ctx context.Context, callerID int64, orderID int64, in UpdateOrderStatusInput) (OrderOutput, error) {
	if callerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	target := model.OrderStatus(in.Status)
	if !target.IsValid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status: must be one of 0, 1, 2, 3")
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if order.Status.IsTerminal() && order.Status != target {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cannot change a "+order.Status.String()+" order")
	}

	if err := u.orderRepo.UpdateStatus(ctx, orderID, target); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//ステータス変更通知（best-effort）
	if user, uerr := u.userRepo.FindByID(ctx, order.UserID); uerr == nil {
		data := u.emailData(ctx, order)
		if nerr := u.notifier.OrderStatusChanged(user.Email, data, target); nerr != nil {
			log.WithError(nerr).WithField("order_id", orderID).Warn("status change email failed")
		}
	}

	order.Status = target
	return u.toOrderOutput(ctx, order, nil), nil
}

// CancelOrder は注文キャンセル。
// 許可されるのは所有者本人かADMIN/SALES_MANAGERのみ、
// かつ現在ステータスがPENDING/PROCESSINGの場合のみ
func (u *OrderUsecase) CancelOrder(ctx context.Context, callerID int64, callerRole model.Role, orderID int64) (CancelOrderOutput, error) {
	if callerID <= 0 {
		return CancelOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return CancelOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return CancelOrderOutput{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return CancelOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	isOwner := order.UserID == callerID
	isStaff := callerRole.IsStaff()

	if !isOwner && !isStaff {
		return CancelOrderOutput{}, NewHTTPError(http.StatusForbidden, "only the owner or an administrator can cancel this order")
	}

	if !order.Status.CanCancel() {
		return CancelOrderOutput{}, NewHTTPError(http.StatusBadRequest, "order cannot be cancelled in its current status")
	}

	if err := u.orderRepo.UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
		return CancelOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	order.Status = model.OrderStatusCancelled

	cancelledBy := "owner"
	message := "order cancelled"
	if isStaff && !isOwner {
		cancelledBy = "admin"
		message = "order cancelled by administrator"
	}

	return CancelOrderOutput{
		Message:     message,
		CancelledBy: cancelledBy,
		Order:       u.toOrderOutput(ctx, order, nil),
	}, nil
}

// ListMyOrders は自分の注文一覧（新しい順・明細付き）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, u.toOrderOutput(ctx, o, nil))
	}
	return outs, nil
}

// ListAllOrders は全注文一覧（管理者用）。最小限のユーザー情報を付ける
func (u *OrderUsecase) ListAllOrders(ctx context.Context) ([]OrderOutput, error) {
	orders, err := u.orderRepo.ListAll(ctx)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		var userOut *OrderUserOutput
		if user, uerr := u.userRepo.FindByID(ctx, o.UserID); uerr == nil {
			userOut = &OrderUserOutput{ID: user.ID, Name: user.Name, Email: user.Email}
		}
		outs = append(outs, u.toOrderOutput(ctx, o, userOut))
	}
	return outs, nil
}

// 購入確定メール（best-effort）
func (u *OrderUsecase) notifyPurchase(ctx context.Context, order model.Order) {
	user, err := u.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		log.WithError(err).WithField("order_id", order.ID).Warn("purchase email skipped: user lookup failed")
		return
	}

	data := u.emailData(ctx, order)
	if err := u.notifier.PurchaseConfirmed(user.Email, data); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Warn("purchase email failed")
	}
}

func (u *OrderUsecase) emailData(ctx context.Context, order model.Order) OrderEmailData {
	items, err := u.orderItemRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		items = nil
	}

	emailItems := make([]OrderEmailItem, 0, len(items))
	for _, it := range items {
		name := ""
		if p, perr := u.productRepo.FindByID(ctx, it.ProductID); perr == nil {
			name = p.Name
		}
		emailItems = append(emailItems, OrderEmailItem{
			Name:     name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	return OrderEmailData{
		OrderID: order.ID,
		Total:   order.Total,
		Date:    order.CreatedAt,
		Items:   emailItems,
	}
}

func (u *OrderUsecase) toOrderOutput(ctx context.Context, o model.Order, user *OrderUserOutput) OrderOutput {
	items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
	if err != nil {
		items = nil
	}

	return OrderOutput{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      o.Status,
		StatusLabel: o.Status.String(),
		Total:       o.Total,
		PaymentID:   o.PaymentID,
		CreatedAt:   o.CreatedAt,
		Items:       u.toItemOutputs(ctx, items),
		User:        user,
	}
}

// 明細出力。商品名はカタログから引き直す（明細は名前を持たない）
func (u *OrderUsecase) toItemOutputs(ctx context.Context, items []model.OrderItem) []OrderItemOutput {
	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		name := ""
		if p, err := u.productRepo.FindByID(ctx, it.ProductID); err == nil {
			name = p.Name
		}
		outs = append(outs, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return outs
}
