package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-admin/internal/model"
	"hostel-admin/internal/mw"
)

type allocationRequest struct {
	StudentID int64 `json:"studentId" binding:"required"`
	RoomID    int64 `json:"roomId" binding:"required"`
	BedNumber int   `json:"bedNumber" binding:"required"`
}

// CreateAllocation handles POST /api/allocations. The store arbitrates bed and student conflicts.
func (h *Handler) CreateAllocation(c *gin.Context) {
	var req allocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	alloc, err := h.store.Allocate(c.Request.Context(), mw.HostelID(c), req.StudentID, req.RoomID, req.BedNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alloc)
}

// Deallocate handles POST /api/allocations/:id/deallocate.
func (h *Handler) Deallocate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	alloc, err := h.store.Deallocate(c.Request.Context(), mw.HostelID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alloc)
}

func (h *Handler) AllocationsByRoom(c *gin.Context) {
	roomID, ok := pathID(c, "roomId")
	if !ok {
		return
	}
	allocs, err := h.store.ActiveAllocationsByRoom(c.Request.Context(), mw.HostelID(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, allocs)
}

func (h *Handler) AllocationsByStudent(c *gin.Context) {
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	allocs, err := h.store.ActiveAllocationsByStudent(c.Request.Context(), mw.HostelID(c), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, allocs)
}

func (h *Handler) AllocationHistory(c *gin.Context) {
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	allocs, err := h.store.AllocationHistory(c.Request.Context(), mw.HostelID(c), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, allocs)
}

func (h *Handler) AllocationCount(c *gin.Context) {
	n, err := h.store.CountActiveAllocations(c.Request.Context(), mw.HostelID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.AllocationCount{Active: n})
}
