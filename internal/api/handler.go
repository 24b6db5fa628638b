package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"hostel-admin/internal/auth"
	"hostel-admin/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	issuer  *auth.Issuer
	webpush *webpush.Options
	now     func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, issuer *auth.Issuer, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		issuer:  issuer,
		webpush: webpushOptions,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// respondError writes {"error","message"} with a status derived from the store error kind.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var kind error
	switch {
	case errors.Is(err, store.ErrNotFound):
		status, kind = http.StatusNotFound, store.ErrNotFound
	case errors.Is(err, store.ErrConflict):
		status, kind = http.StatusConflict, store.ErrConflict
	case errors.Is(err, store.ErrInvalid):
		status, kind = http.StatusBadRequest, store.ErrInvalid
	}

	msg := err.Error()
	if kind != nil {
		msg = strings.TrimPrefix(msg, kind.Error()+": ")
	} else {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "message": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "message": msg})
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
