package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-admin/internal/model"
	"hostel-admin/internal/mw"
)

type studentRequest struct {
	UserID        int64  `json:"userId"`
	RollNumber    string `json:"rollNumber" binding:"required"`
	Phone         string `json:"phone"`
	GuardianName  string `json:"guardianName"`
	GuardianPhone string `json:"guardianPhone"`
}

func (r studentRequest) student(hostelID int64) model.Student {
	return model.Student{
		HostelID:      hostelID,
		UserID:        r.UserID,
		RollNumber:    r.RollNumber,
		Phone:         r.Phone,
		GuardianName:  r.GuardianName,
		GuardianPhone: r.GuardianPhone,
	}
}

func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.store.ListStudents(c.Request.Context(), mw.HostelID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) GetStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	st, err := h.store.GetStudent(c.Request.Context(), mw.HostelID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// CreateStudent links an existing user (userId) to a new student record.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.UserID <= 0 {
		badRequest(c, "userId is required")
		return
	}
	st := req.student(mw.HostelID(c))
	if err := h.store.CreateStudent(c.Request.Context(), &st); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	st := req.student(mw.HostelID(c))
	st.ID = id
	if err := h.store.UpdateStudent(c.Request.Context(), &st); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteStudent(c.Request.Context(), mw.HostelID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
