package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/openbistro/ordering-platform/internal/model"
	"github.com/openbistro/ordering-platform/internal/repository"
)

// OrderHandler exposes order CRUD. Orders born from reservations arrive
// through the queue consumer, not through these endpoints; POST /orders
// covers the walk-in and takeaway paths.
type OrderHandler struct {
	Orders *repository.OrderRepo
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orders *repository.OrderRepo) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

// List handles GET /orders with an optional status filter.
func (h *OrderHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !model.ValidOrderStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	orders, err := h.Orders.List(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	order, err := h.Orders.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch order"})
	}
	return c.JSON(http.StatusOK, order)
}

type createOrderReq struct {
	OrderType     string  `json:"orderType"`
	TableID       *uint64 `json:"tableId"`
	CustomerName  *string `json:"customerName"`
	CustomerPhone *string `json:"customerPhone"`
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.OrderType != model.OrderDineIn && req.OrderType != model.OrderTakeaway {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "orderType must be dine-in or takeaway"})
	}
	if req.OrderType == model.OrderDineIn && req.TableID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tableId is required for dine-in orders"})
	}

	order := model.Order{
		OrderNumber:   "ORD-" + uuid.NewString()[:8],
		OrderType:     req.OrderType,
		TableID:       req.TableID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Status:        model.OrderPending,
		Total:         0,
	}
	if err := h.Orders.Create(c.Request().Context(), &order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create order"})
	}
	return c.JSON(http.StatusCreated, order)
}

// UpdateStatus handles PUT /orders/:id.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !model.ValidOrderStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	order, err := h.Orders.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update order"})
	}
	return c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /orders/:id.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	if err := h.Orders.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete order"})
	}
	return c.NoContent(http.StatusNoContent)
}

type addItemReq struct {
	MenuItemID uint64 `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

// AddItem handles POST /orders/:id/items.
func (h *OrderHandler) AddItem(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req addItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.MenuItemID == 0 || req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "menuItemId and a positive quantity are required"})
	}

	order, err := h.Orders.AddItem(c.Request().Context(), orderID, req.MenuItemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrMenuItemNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not add item"})
	}
	return c.JSON(http.StatusCreated, order)
}

// RemoveItem handles DELETE /orders/:id/items/:itemID.
func (h *OrderHandler) RemoveItem(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	itemID, err := strconv.ParseUint(c.Param("itemID"), 10, 64)
	if err != nil || itemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	order, err := h.Orders.RemoveItem(c.Request().Context(), orderID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not remove item"})
	}
	return c.JSON(http.StatusOK, order)
}
