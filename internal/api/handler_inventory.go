package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hostel-admin/internal/model"
	"hostel-admin/internal/mw"
)

type itemRequest struct {
	ItemName string  `json:"itemName" binding:"required"`
	Quantity float64 `json:"quantity" binding:"min=0"`
	Unit     string  `json:"unit"`
}

func (h *Handler) ListInventory(c *gin.Context) {
	items, err := h.store.ListInventory(c.Request.Context(), mw.HostelID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// SearchInventory handles GET /api/inventory/search?q=.
func (h *Handler) SearchInventory(c *gin.Context) {
	items, err := h.store.SearchInventory(c.Request.Context(), mw.HostelID(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// LowStock handles GET /api/inventory/low-stock?threshold=.
func (h *Handler) LowStock(c *gin.Context) {
	threshold := float64(model.DefaultLowStockThreshold)
	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > model.MaxLowStockThreshold {
			badRequest(c, fmt.Sprintf("threshold must be a number between 0 and %d", model.MaxLowStockThreshold))
			return
		}
		threshold = v
	}
	items, err := h.store.LowStock(c.Request.Context(), mw.HostelID(c), threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item := model.InventoryItem{HostelID: mw.HostelID(c), ItemName: req.ItemName, Quantity: req.Quantity, Unit: req.Unit}
	if err := h.store.CreateItem(c.Request.Context(), &item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item := model.InventoryItem{ID: id, HostelID: mw.HostelID(c), ItemName: req.ItemName, Quantity: req.Quantity, Unit: req.Unit}
	if err := h.store.UpdateItem(c.Request.Context(), &item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteItem(c.Request.Context(), mw.HostelID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
