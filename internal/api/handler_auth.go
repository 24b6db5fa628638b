package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-admin/internal/auth"
	"hostel-admin/internal/model"
	"hostel-admin/internal/mw"
	"hostel-admin/internal/store"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by signup and login.
type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Signup registers a user. The very first account becomes the administrator.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	count, err := h.store.CountUsers(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	role := model.RoleStudent
	if count == 0 {
		role = model.RoleAdmin
	}

	user := model.User{Name: req.Name, Email: req.Email, PasswordHash: hash, Role: role}
	if err := h.store.CreateUser(ctx, &user); err != nil {
		respondError(c, err)
		return
	}

	token, err := h.issuer.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, TokenResponse{Token: token, Role: user.Role})
}

// Login exchanges credentials for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, req.Password)) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":   "invalid credentials",
			"message": "Invalid email or password",
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.issuer.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token, Role: user.Role})
}

// FindUser looks a user up by email so an admin can link it to a student record.
func (h *Handler) FindUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		badRequest(c, "email query parameter is required")
		return
	}
	user, err := h.store.UserByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateMeRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetMe returns the signed-in user.
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), mw.Claims(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe edits the signed-in user's display name.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	id := mw.Claims(c).UserID
	if err := h.store.UpdateUser(ctx, &model.User{ID: id, Name: req.Name}); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.store.GetUser(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateMyStudentRequest struct {
	Phone         string `json:"phone"`
	GuardianName  string `json:"guardianName"`
	GuardianPhone string `json:"guardianPhone"`
}

// GetMyStudent returns the student record linked to the signed-in user.
func (h *Handler) GetMyStudent(c *gin.Context) {
	st, err := h.store.StudentByUser(c.Request.Context(), mw.Claims(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// UpdateMyStudent lets a student edit their own contact details. The roll number is admin-owned.
func (h *Handler) UpdateMyStudent(c *gin.Context) {
	var req updateMyStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	st, err := h.store.StudentByUser(ctx, mw.Claims(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	st.Phone, st.GuardianName, st.GuardianPhone = req.Phone, req.GuardianName, req.GuardianPhone
	if err := h.store.UpdateStudent(ctx, st); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
