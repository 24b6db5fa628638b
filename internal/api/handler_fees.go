package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hostel-admin/internal/model"
	"hostel-admin/internal/mw"
	"hostel-admin/internal/store"
)

type feeRequest struct {
	StudentID int64           `json:"studentId" binding:"required"`
	Month     string          `json:"month" binding:"required"`
	Amount    float64         `json:"amount" binding:"required"`
	DueDate   time.Time       `json:"dueDate"`
	Status    model.FeeStatus `json:"status"`
}

// ListFees handles GET /api/fees. Optional ?status= and ?studentId= narrow the list.
func (h *Handler) ListFees(c *gin.Context) {
	var filter store.FeeFilter
	if raw := c.Query("studentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(c, "invalid studentId")
			return
		}
		filter.StudentID = id
	}
	filter.Status = model.FeeStatus(strings.ToUpper(c.Query("status")))

	fees, err := h.store.ListFees(c.Request.Context(), mw.HostelID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fees)
}

func (h *Handler) CreateFee(c *gin.Context) {
	var req feeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	fee := model.Fee{
		HostelID:  mw.HostelID(c),
		StudentID: req.StudentID,
		Month:     req.Month,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Status:    req.Status,
	}
	if err := h.store.CreateFee(c.Request.Context(), &fee); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fee)
}

func (h *Handler) UpdateFee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req feeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	fee := model.Fee{
		ID:        id,
		HostelID:  mw.HostelID(c),
		StudentID: req.StudentID,
		Month:     req.Month,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Status:    req.Status,
	}
	if err := h.store.UpdateFee(c.Request.Context(), &fee); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fee)
}

func (h *Handler) DeleteFee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteFee(c.Request.Context(), mw.HostelID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkFeePaid handles POST /api/fees/:id/pay and stamps a fresh receipt number.
func (h *Handler) MarkFeePaid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	receipt := "RCT-" + strings.ToUpper(uuid.NewString()[:8])
	fee, err := h.store.MarkFeePaid(c.Request.Context(), mw.HostelID(c), id, h.now(), receipt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fee)
}

// DownloadReceipt handles GET /api/fees/:id/receipt as a plain-text attachment.
func (h *Handler) DownloadReceipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	hostelID := mw.HostelID(c)
	fee, err := h.store.GetFee(ctx, hostelID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if fee.Status != model.FeePaid {
		respondError(c, fmt.Errorf("%w: fee %d has not been paid", store.ErrConflict, id))
		return
	}
	hostel, err := h.store.GetHostel(ctx, hostelID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.txt"`, fee.ReceiptNumber))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(RenderReceipt(hostel, fee)))
}

// RenderReceipt formats a paid fee as a printable receipt.
func RenderReceipt(hostel *model.Hostel, fee *model.Fee) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", hostel.Name)
	fmt.Fprintf(&b, "Fee Receipt %s\n", fee.ReceiptNumber)
	b.WriteString(strings.Repeat("-", 32) + "\n")
	fmt.Fprintf(&b, "Student:     %s\n", fee.Student.User.Name)
	fmt.Fprintf(&b, "Roll number: %s\n", fee.Student.RollNumber)
	fmt.Fprintf(&b, "Month:       %s\n", fee.Month)
	fmt.Fprintf(&b, "Amount:      %.2f\n", fee.Amount)
	fmt.Fprintf(&b, "Due date:    %s\n", fee.DueDate.Format("2006-01-02"))
	if fee.PaidAt != nil {
		fmt.Fprintf(&b, "Paid at:     %s\n", fee.PaidAt.Format(time.RFC3339))
	}
	return b.String()
}
