package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openbistro/ordering-platform/internal/model"
	"github.com/openbistro/ordering-platform/internal/repository"
)

// MenuItemHandler exposes menu CRUD. The list endpoint sits behind the Redis
// response cache so the busiest read path rarely touches the database.
type MenuItemHandler struct {
	Menu *repository.MenuItemRepo
}

// NewMenuItemHandler constructs a MenuItemHandler.
func NewMenuItemHandler(menu *repository.MenuItemRepo) *MenuItemHandler {
	return &MenuItemHandler{Menu: menu}
}

// List handles GET /menu-items. ?available=true filters to orderable items.
func (h *MenuItemHandler) List(c echo.Context) error {
	availableOnly := c.QueryParam("available") == "true"
	items, err := h.Menu.List(c.Request().Context(), availableOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list menu items"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /menu-items/:id.
func (h *MenuItemHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}
	item, err := h.Menu.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch menu item"})
	}
	return c.JSON(http.StatusOK, item)
}

type menuItemReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Price       int64   `json:"price"`
	Available   *bool   `json:"available"`
}

func (r menuItemReq) validate() string {
	switch {
	case r.Name == "":
		return "name is required"
	case r.Category == "":
		return "category is required"
	case r.Price < 0:
		return "price must not be negative"
	}
	return ""
}

// Create handles POST /menu-items.
func (h *MenuItemHandler) Create(c echo.Context) error {
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item := model.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Available:   available,
	}
	if err := h.Menu.Create(c.Request().Context(), &item); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create menu item"})
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /menu-items/:id.
func (h *MenuItemHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item, err := h.Menu.Update(c.Request().Context(), model.MenuItem{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Available:   available,
	})
	if err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update menu item"})
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /menu-items/:id.
func (h *MenuItemHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid menu item id"})
	}
	if err := h.Menu.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "menu item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete menu item"})
	}
	return c.NoContent(http.StatusNoContent)
}
