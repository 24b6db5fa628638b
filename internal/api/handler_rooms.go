package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-admin/internal/model"
	"hostel-admin/internal/mw"
)

type roomRequest struct {
	Block      string `json:"block"`
	RoomNumber string `json:"roomNumber" binding:"required"`
	Capacity   int    `json:"capacity" binding:"required,min=1"`
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context(), mw.HostelID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.store.GetRoom(c.Request.Context(), mw.HostelID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	room := model.Room{HostelID: mw.HostelID(c), Block: req.Block, RoomNumber: req.RoomNumber, Capacity: req.Capacity}
	if err := h.store.CreateRoom(c.Request.Context(), &room); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	hostelID := mw.HostelID(c)
	room := model.Room{ID: id, HostelID: hostelID, Block: req.Block, RoomNumber: req.RoomNumber, Capacity: req.Capacity}
	if err := h.store.UpdateRoom(ctx, &room); err != nil {
		respondError(c, err)
		return
	}
	updated, err := h.store.GetRoom(ctx, hostelID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteRoom(c.Request.Context(), mw.HostelID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetRoomStatus handles GET /api/rooms/:id/status.
func (h *Handler) GetRoomStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	status, err := h.store.RoomStatus(c.Request.Context(), mw.HostelID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
