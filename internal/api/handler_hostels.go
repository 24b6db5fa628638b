package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-admin/internal/model"
)

type hostelRequest struct {
	Name   string `json:"name" binding:"required"`
	Active *bool  `json:"active"`
}

func (r hostelRequest) active() bool {
	return r.Active == nil || *r.Active
}

// ListHostels handles GET /api/hostels. ?active=true hides deactivated hostels.
func (h *Handler) ListHostels(c *gin.Context) {
	hostels, err := h.store.ListHostels(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hostels)
}

func (h *Handler) GetHostel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	hostel, err := h.store.GetHostel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hostel)
}

func (h *Handler) CreateHostel(c *gin.Context) {
	var req hostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	hostel := model.Hostel{Name: req.Name, Active: req.active()}
	if err := h.store.CreateHostel(c.Request.Context(), &hostel); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hostel)
}

func (h *Handler) UpdateHostel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req hostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	if err := h.store.UpdateHostel(ctx, &model.Hostel{ID: id, Name: req.Name, Active: req.active()}); err != nil {
		respondError(c, err)
		return
	}
	hostel, err := h.store.GetHostel(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hostel)
}

func (h *Handler) DeleteHostel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteHostel(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
