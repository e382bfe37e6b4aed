package handler

import (
	"net/http"
	"strconv"

	"turismo/internal/config"
	"turismo/internal/domain/model"
	"turismo/internal/middleware"
	"turismo/internal/repository"
	"turismo/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/ordersのHTTP
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// MercadoPagoのwebhook通知の形
type WebhookRequest struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type TestWebhookRequest struct {
	OrderID int64 `json:"orderId"`
	Status  *int  `json:"status"`
}

type UpdateOrderStatusRequest struct {
	Status int `json:"status"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	// webhookはMercadoPagoが叩くので認証なし
	e.POST("/api/orders/webhook", h.webhook)
	e.POST("/api/orders/test-webhook", h.testWebhook)

	g := e.Group("/api/orders")
	g.Use(middleware.AuthJWT(cfg, userRepo))

	g.POST("", h.create)
	g.GET("/my-orders", h.listMine)
	g.PATCH("/:orderId/status", h.updateStatus)
	g.POST("/:orderId/cancel", h.cancel)
	g.GET("", h.listAll, middleware.RoleGuard(model.RoleAdmin, model.RoleSalesManager))
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) webhook(c echo.Context) error {
	var req WebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.HandleWebhook(c.Request().Context(), req.Type, req.Data.ID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *OrderHandler) testWebhook(c echo.Context) error {
	var req TestWebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.OrderID == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "orderId is required"})
	}

	out, err := h.uc.TestWebhook(c.Request().Context(), req.OrderID, req.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listAll(c echo.Context) error {
	out, err := h.uc.ListAllOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), userID, orderID, usecase.UpdateOrderStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	role, _ := getUserRoleFromContext(c)

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
	}

	out, err := h.uc.CancelOrder(c.Request().Context(), userID, role, orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
