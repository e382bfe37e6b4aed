package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"turismo/internal/domain/model"
	repo "turismo/internal/repository"
	"turismo/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderUsecaseForTest() (*usecase.OrderUsecase, *OrderRepoMock, *OrderItemRepoMock, *CartRepoMock, *CartItemRepoMock, *ProductRepoMock, *UserRepoMock, *GatewayMock, *NotifierMock) {
	orderRepo := new(OrderRepoMock)
	orderItemRepo := new(OrderItemRepoMock)
	cartRepo := new(CartRepoMock)
	cartItemRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	userRepo := new(UserRepoMock)
	gateway := new(GatewayMock)
	notifier := new(NotifierMock)

	uc := usecase.NewOrderUsecase(orderRepo, orderItemRepo, cartRepo, cartItemRepo, productRepo, userRepo, gateway, notifier)
	return uc, orderRepo, orderItemRepo, cartRepo, cartItemRepo, productRepo, userRepo, gateway, notifier
}

// =====================
// CreateOrder
// =====================

// 税込計算: 450.00×2 → 明細単価544.50、合計1089.00
func TestOrderUsecase_CreateOrder_Success_TaxIncludedTotals(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, cartRepo, cartItemRepo, productRepo, userRepo, gateway, notifier := newOrderUsecaseForTest()

	cartRepo.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 3, UserID: 7}, nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(3)).Return([]model.CartItem{
		{ID: 1, CartID: 3, ProductID: 10, Quantity: 2},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Bariloche 5 días", Price: decimal.RequireFromString("450.00"), Stock: 20,
	}, nil)

	orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 7 &&
			o.Status == model.OrderStatusPending &&
			o.Total.Equal(decimal.RequireFromString("1089.00"))
	})).Return(int64(55), nil)

	orderItemRepo.On("CreateBulk", mock.Anything, int64(55), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].ProductID == 10 &&
			items[0].Quantity == 2 &&
			items[0].Price.Equal(decimal.RequireFromString("544.50"))
	})).Return(nil)

	gateway.On("CreatePreference", mock.Anything, int64(55), mock.MatchedBy(func(items []usecase.PaymentItem) bool {
		return len(items) == 1 &&
			items[0].Title == "Bariloche 5 días" &&
			items[0].Quantity == 2 &&
			items[0].UnitPrice.Equal(decimal.RequireFromString("544.50"))
	})).Return(usecase.PaymentPreference{ID: "pref-123", InitPoint: "https://mp.example/init"}, nil)

	orderRepo.On("SetPaymentID", mock.Anything, int64(55), "pref-123").Return(nil)
	cartRepo.On("Clear", mock.Anything, int64(3)).Return(nil)
	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{ID: 7, Email: "ana@example.com"}, nil)
	notifier.On("OrderCreated", "ana@example.com", mock.Anything).Return(nil)

	out, err := uc.CreateOrder(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.Order.ID)
	assert.Equal(t, model.OrderStatusPending, out.Order.Status)
	assert.True(t, out.Order.Total.Equal(decimal.RequireFromString("1089.00")))
	assert.Equal(t, "https://mp.example/init", out.PaymentURL)
	assert.NotNil(t, out.Order.PaymentID)
	assert.Equal(t, "pref-123", *out.Order.PaymentID)

	orderRepo.AssertExpectations(t)
	orderItemRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestOrderUsecase_CreateOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()
	uc, _, _, cartRepo, cartItemRepo, _, _, _, _ := newOrderUsecaseForTest()

	cartRepo.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 3}, nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(3)).Return([]model.CartItem{}, nil)

	_, err := uc.CreateOrder(ctx, 7)
	he := assertHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Message, "cart is empty")
}

func TestOrderUsecase_CreateOrder_NoCart(t *testing.T) {
	ctx := context.Background()
	uc, _, _, cartRepo, _, _, _, _, _ := newOrderUsecaseForTest()

	cartRepo.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.CreateOrder(ctx, 7)
	assertHTTPError(t, err, http.StatusBadRequest)
}

// ゲートウェイ失敗時は注文がpayment ID無しのPENDINGのまま残り、カートは消えない
func TestOrderUsecase_CreateOrder_GatewayFailure_KeepsCart(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, cartRepo, cartItemRepo, productRepo, _, gateway, notifier := newOrderUsecaseForTest()

	cartRepo.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 3}, nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(3)).Return([]model.CartItem{
		{ID: 1, CartID: 3, ProductID: 10, Quantity: 1},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Iguazú", Price: decimal.RequireFromString("100.00"), Stock: 5,
	}, nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(56), nil)
	orderItemRepo.On("CreateBulk", mock.Anything, int64(56), mock.Anything).Return(nil)
	gateway.On("CreatePreference", mock.Anything, int64(56), mock.Anything).
		Return(usecase.PaymentPreference{}, errors.New("mp unavailable"))

	_, err := uc.CreateOrder(ctx, 7)
	assertHTTPError(t, err, http.StatusInternalServerError)

	orderRepo.AssertNotCalled(t, "SetPaymentID", mock.Anything, mock.Anything, mock.Anything)
	cartRepo.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "OrderCreated", mock.Anything, mock.Anything)
}

// メール送信失敗は注文作成を失敗させない
func TestOrderUsecase_CreateOrder_EmailFailure_StillSucceeds(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, cartRepo, cartItemRepo, productRepo, userRepo, gateway, notifier := newOrderUsecaseForTest()

	cartRepo.On("FindByUserID", mock.Anything, int64(7)).Return(model.Cart{ID: 3}, nil)
	cartItemRepo.On("ListByCartID", mock.Anything, int64(3)).Return([]model.CartItem{
		{ID: 1, CartID: 3, ProductID: 10, Quantity: 1},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Iguazú", Price: decimal.RequireFromString("100.00"), Stock: 5,
	}, nil)
	orderRepo.On("Create", mock.Anything, mock.Anything).Return(int64(55), nil)
	orderItemRepo.On("CreateBulk", mock.Anything, int64(55), mock.Anything).Return(nil)
	gateway.On("CreatePreference", mock.Anything, int64(55), mock.Anything).
		Return(usecase.PaymentPreference{ID: "pref-123", InitPoint: "https://mp.example/init"}, nil)
	orderRepo.On("SetPaymentID", mock.Anything, int64(55), "pref-123").Return(nil)
	cartRepo.On("Clear", mock.Anything, int64(3)).Return(nil)
	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{ID: 7, Email: "ana@example.com"}, nil)
	notifier.On("OrderCreated", "ana@example.com", mock.Anything).Return(errors.New("smtp down"))

	out, err := uc.CreateOrder(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.Order.ID)

	notifier.AssertExpectations(t)
}

// =====================
// HandleWebhook
// =====================

func TestOrderUsecase_HandleWebhook_Approved_CompletesAndEmails(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, _, _, _, userRepo, gateway, notifier := newOrderUsecaseForTest()

	gateway.On("FindPayment", mock.Anything, "9001").Return(usecase.PaymentInfo{
		Status: "approved", ExternalReference: "55",
	}, nil)
	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusPending, Total: decimal.RequireFromString("1089.00"),
	}, nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCompleted).Return(nil)
	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{ID: 7, Email: "ana@example.com"}, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)
	notifier.On("PurchaseConfirmed", "ana@example.com", mock.Anything).Return(nil)

	err := uc.HandleWebhook(ctx, "payment", "9001")
	assert.NoError(t, err)

	orderRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

// 購入確定メールの失敗もwebhook処理を失敗させない
func TestOrderUsecase_HandleWebhook_EmailFailure_StillSucceeds(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, _, _, _, userRepo, gateway, notifier := newOrderUsecaseForTest()

	gateway.On("FindPayment", mock.Anything, "9001").Return(usecase.PaymentInfo{
		Status: "approved", ExternalReference: "55",
	}, nil)
	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusPending,
	}, nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCompleted).Return(nil)
	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{ID: 7, Email: "ana@example.com"}, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)
	notifier.On("PurchaseConfirmed", "ana@example.com", mock.Anything).Return(errors.New("smtp down"))

	err := uc.HandleWebhook(ctx, "payment", "9001")
	assert.NoError(t, err)

	orderRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

// 同じ通知が再送されたら確定メールももう一度送られる
func TestOrderUsecase_HandleWebhook_Replay_SendsEmailAgain(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, _, _, _, userRepo, gateway, notifier := newOrderUsecaseForTest()

	gateway.On("FindPayment", mock.Anything, "9001").Return(usecase.PaymentInfo{
		Status: "approved", ExternalReference: "55",
	}, nil)
	//1回目はPENDING、2回目はすでにCOMPLETED
	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusPending,
	}, nil).Once()
	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusCompleted,
	}, nil).Once()
	orderRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCompleted).Return(nil)
	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{ID: 7, Email: "ana@example.com"}, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)
	notifier.On("PurchaseConfirmed", "ana@example.com", mock.Anything).Return(nil)

	assert.NoError(t, uc.HandleWebhook(ctx, "payment", "9001"))
	assert.NoError(t, uc.HandleWebhook(ctx, "payment", "9001"))

	notifier.AssertNumberOfCalls(t, "PurchaseConfirmed", 2)
}

func TestOrderUsecase_HandleWebhook_NonPaymentType_Ignored(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _, _, _, _, gateway, _ := newOrderUsecaseForTest()

	err := uc.HandleWebhook(ctx, "merchant_order", "9001")
	assert.NoError(t, err)

	gateway.AssertNotCalled(t, "FindPayment", mock.Anything, mock.Anything)
}

// 終端状態（CANCELLED）の注文はwebhookでは動かない
func TestOrderUsecase_HandleWebhook_TerminalStateNotChanged(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, _, _, _, _, _, gateway, notifier := newOrderUsecaseForTest()

	gateway.On("FindPayment", mock.Anything, "9001").Return(usecase.PaymentInfo{
		Status: "approved", ExternalReference: "55",
	}, nil)
	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusCancelled,
	}, nil)

	err := uc.HandleWebhook(ctx, "payment", "9001")
	assert.NoError(t, err)

	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "PurchaseConfirmed", mock.Anything, mock.Anything)
}

// 支払いステータス→注文ステータスの対応
func TestOrderUsecase_HandleWebhook_StatusMapping(t *testing.T) {
	cases := []struct {
		payment string
		want    model.OrderStatus
	}{
		{"pending", model.OrderStatusProcessing},
		{"rejected", model.OrderStatusCancelled},
		{"in_process", model.OrderStatusPending},
	}

	for _, tc := range cases {
		t.Run(tc.payment, func(t *testing.T) {
			ctx := context.Background()
			uc, orderRepo, _, _, _, _, _, gateway, _ := newOrderUsecaseForTest()

			gateway.On("FindPayment", mock.Anything, "9001").Return(usecase.PaymentInfo{
				Status: tc.payment, ExternalReference: "55",
			}, nil)
			orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
				ID: 55, UserID: 7, Status: model.OrderStatusPending,
			}, nil)
			orderRepo.On("UpdateStatus", mock.Anything, int64(55), tc.want).Return(nil)

			assert.NoError(t, uc.HandleWebhook(ctx, "payment", "9001"))
			orderRepo.AssertExpectations(t)
		})
	}
}

func TestOrderUsecase_HandleWebhook_InvalidExternalReference(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _, _, _, _, gateway, _ := newOrderUsecaseForTest()

	gateway.On("FindPayment", mock.Anything, "9001").Return(usecase.PaymentInfo{
		Status: "approved", ExternalReference: "not-a-number",
	}, nil)

	err := uc.HandleWebhook(ctx, "payment", "9001")
	assertHTTPError(t, err, http.StatusBadRequest)
}

// =====================
// TestWebhook
// =====================

func TestOrderUsecase_TestWebhook_DefaultsToCompleted(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, _, _, _, userRepo, _, notifier := newOrderUsecaseForTest()

	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusPending,
	}, nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCompleted).Return(nil)
	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{ID: 7, Email: "ana@example.com"}, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)
	notifier.On("PurchaseConfirmed", "ana@example.com", mock.Anything).Return(nil)

	out, err := uc.TestWebhook(ctx, 55, nil)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, out.Status)

	orderRepo.AssertExpectations(t)
}

func TestOrderUsecase_TestWebhook_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, _, _, _, _, _, _, _ := newOrderUsecaseForTest()

	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, Status: model.OrderStatusPending,
	}, nil)

	bad := 9
	_, err := uc.TestWebhook(ctx, 55, &bad)
	assertHTTPError(t, err, http.StatusBadRequest)
}

// =====================
// UpdateStatus
// =====================

func TestOrderUsecase_UpdateStatus_Success(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, _, _, _, userRepo, _, notifier := newOrderUsecaseForTest()

	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusPending,
	}, nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusProcessing).Return(nil)
	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{ID: 7, Email: "ana@example.com"}, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)
	notifier.On("OrderStatusChanged", "ana@example.com", mock.Anything, model.OrderStatusProcessing).Return(nil)

	out, err := uc.UpdateStatus(ctx, 1, 55, usecase.UpdateOrderStatusInput{Status: 1})
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, out.Status)
	assert.Equal(t, "PROCESSING", out.StatusLabel)

	notifier.AssertExpectations(t)
}

// ステータス変更通知の失敗も本処理を失敗させない
func TestOrderUsecase_UpdateStatus_EmailFailure_StillSucceeds(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, _, _, _, userRepo, _, notifier := newOrderUsecaseForTest()

	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusPending,
	}, nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusProcessing).Return(nil)
	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{ID: 7, Email: "ana@example.com"}, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)
	notifier.On("OrderStatusChanged", "ana@example.com", mock.Anything, model.OrderStatusProcessing).
		Return(errors.New("smtp down"))

	out, err := uc.UpdateStatus(ctx, 1, 55, usecase.UpdateOrderStatusInput{Status: 1})
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, out.Status)

	notifier.AssertExpectations(t)
}

func TestOrderUsecase_UpdateStatus_InvalidValue(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _, _, _, _, _, _ := newOrderUsecaseForTest()

	_, err := uc.UpdateStatus(ctx, 1, 55, usecase.UpdateOrderStatusInput{Status: 4})
	he := assertHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Message, "invalid status")
}

// 終端状態の注文は管理操作でも動かない
func TestOrderUsecase_UpdateStatus_TerminalGuard(t *testing.T) {
	for _, terminal := range []model.OrderStatus{model.OrderStatusCompleted, model.OrderStatusCancelled} {
		t.Run(terminal.String(), func(t *testing.T) {
			ctx := context.Background()
			uc, orderRepo, _, _, _, _, _, _, _ := newOrderUsecaseForTest()

			orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
				ID: 55, Status: terminal,
			}, nil)

			_, err := uc.UpdateStatus(ctx, 1, 55, usecase.UpdateOrderStatusInput{Status: 0})
			assertHTTPError(t, err, http.StatusBadRequest)

			orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// =====================
// CancelOrder
// =====================

func TestOrderUsecase_CancelOrder_ByOwner(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, _, _, _, _, _, _ := newOrderUsecaseForTest()

	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusPending,
	}, nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCancelled).Return(nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

	out, err := uc.CancelOrder(ctx, 7, model.RoleClient, 55)
	assert.NoError(t, err)
	assert.Equal(t, "owner", out.CancelledBy)
	assert.Equal(t, model.OrderStatusCancelled, out.Order.Status)
}

func TestOrderUsecase_CancelOrder_ByAdmin(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, _, _, _, _, _, _ := newOrderUsecaseForTest()

	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusProcessing,
	}, nil)
	orderRepo.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCancelled).Return(nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

	out, err := uc.CancelOrder(ctx, 99, model.RoleAdmin, 55)
	assert.NoError(t, err)
	assert.Equal(t, "admin", out.CancelledBy)
}

func TestOrderUsecase_CancelOrder_StrangerForbidden(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, _, _, _, _, _, _, _ := newOrderUsecaseForTest()

	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusPending,
	}, nil)

	_, err := uc.CancelOrder(ctx, 99, model.RoleClient, 55)
	assertHTTPError(t, err, http.StatusForbidden)

	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_CancelOrder_TerminalStateRejected(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, _, _, _, _, _, _, _ := newOrderUsecaseForTest()

	orderRepo.On("FindByID", mock.Anything, int64(55)).Return(model.Order{
		ID: 55, UserID: 7, Status: model.OrderStatusCompleted,
	}, nil)

	_, err := uc.CancelOrder(ctx, 7, model.RoleClient, 55)
	assertHTTPError(t, err, http.StatusBadRequest)

	orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_CancelOrder_NotFound(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, _, _, _, _, _, _, _ := newOrderUsecaseForTest()

	orderRepo.On("FindByID", mock.Anything, int64(404)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.CancelOrder(ctx, 7, model.RoleClient, 404)
	assertHTTPError(t, err, http.StatusNotFound)
}

// =====================
// 一覧
// =====================

func TestOrderUsecase_ListAllOrders_AttachesUser(t *testing.T) {
	ctx := context.Background()
	uc, orderRepo, orderItemRepo, _, _, _, userRepo, _, _ := newOrderUsecaseForTest()

	orderRepo.On("ListAll", mock.Anything).Return([]model.Order{
		{ID: 55, UserID: 7, Status: model.OrderStatusCompleted},
	}, nil)
	userRepo.On("FindByID", mock.Anything, int64(7)).Return(model.User{ID: 7, Name: "Ana", Email: "ana@example.com"}, nil)
	orderItemRepo.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

	outs, err := uc.ListAllOrders(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(outs))
	if assert.NotNil(t, outs[0].User) {
		assert.Equal(t, "Ana", outs[0].User.Name)
	}
}
