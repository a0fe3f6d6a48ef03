package handler

import (
	"net/http"

	"food-orders/internal/middleware"
	"food-orders/internal/model"
	"food-orders/internal/service"
	"food-orders/internal/validation"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderHandler handles order-related HTTP requests. Every route expects the
// authentication middleware to have stored the caller's claims.
type OrderHandler struct {
	service   service.OrderService
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, validator *validation.Validator, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("handler", "order").Logger(),
	}
}

type createOrderResponse struct {
	Message string       `json:"message"`
	Order   *model.Order `json:"order"`
}

type updateOrderResponse struct {
	Message string          `json:"message"`
	Total   decimal.Decimal `json:"total"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// List handles GET /api/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if len(orders) == 0 {
		writeMessage(w, r, http.StatusNotFound, "no orders found for this user")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Create handles POST /api/orders requests. Domain failures while creating
// the order, such as an unknown product or insufficient stock, are
// answered with 500 and their message.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req model.OrderRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), userID, &req)
	if err != nil {
		if de, ok := model.AsDomainError(err); ok && de.Kind != model.KindInternal {
			h.logger.Warn().Str("code", de.Code).Int64("user_id", userID).Msg(de.Message)
			writeMessage(w, r, http.StatusInternalServerError, de.Message)
			return
		}
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		Message: "order created successfully",
		Order:   order,
	})
}

// Update handles PUT /api/orders/{id} requests.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req model.OrderRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.UpdateOrder(r.Context(), userID, orderID, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, updateOrderResponse{
		Message: "order updated successfully",
		Total:   order.Total,
	})
}

// Delete handles DELETE /api/orders/{id} requests.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.service.DeleteOrder(r.Context(), userID, orderID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "order deleted successfully"})
}

// Status handles GET /api/orders/{id}/status requests.
func (h *OrderHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	orderID, err := orderIDParam(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	status, err := h.service.GetStatus(r.Context(), userID, orderID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: status})
}

func (h *OrderHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		writeMessage(w, r, http.StatusUnauthorized, "access denied, token required")
		return 0, false
	}
	return claims.UserID, true
}
