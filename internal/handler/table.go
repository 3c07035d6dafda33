package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openbistro/ordering-platform/internal/model"
	"github.com/openbistro/ordering-platform/internal/repository"
)

// TableHandler exposes the floor-table endpoints of the reservation service.
type TableHandler struct {
	Tables *repository.TableRepo
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(tables *repository.TableRepo) *TableHandler {
	return &TableHandler{Tables: tables}
}

// List handles GET /tables.
func (h *TableHandler) List(c echo.Context) error {
	tables, err := h.Tables.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list tables"})
	}
	return c.JSON(http.StatusOK, tables)
}

// UpdateStatus handles PATCH /tables/:id/status.
func (h *TableHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !model.ValidTableStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	table, err := h.Tables.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update table"})
	}
	return c.JSON(http.StatusOK, table)
}
