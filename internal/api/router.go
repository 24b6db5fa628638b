package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hostel-admin/config"
	"hostel-admin/internal/auth"
	"hostel-admin/internal/model"
	"hostel-admin/internal/mw"
	"hostel-admin/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, issuer *auth.Issuer, webpushOptions *webpush.Options, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()
	handler := NewHandler(s, issuer, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Only hostel-scoped admin reads are cached; a write drops its hostel's entries.
	// Profile writes can touch any hostel's student rows and flush everything.
	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	authenticated := mw.Authenticate(issuer)
	admin := mw.RequireRole(model.RoleAdmin)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/signup", handler.Signup)
		api.POST("/auth/login", handler.Login)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		me := api.Group("/me", authenticated, mw.FlushOnWrite(cacheStore))
		me.GET("", handler.GetMe)
		me.PUT("", handler.UpdateMe)
		me.GET("/student", handler.GetMyStudent)
		me.PUT("/student", handler.UpdateMyStudent)

		api.GET("/hostels", authenticated, handler.ListHostels)
		api.GET("/hostels/:id", authenticated, handler.GetHostel)

		adm := api.Group("", authenticated, admin)
		adm.POST("/hostels", handler.CreateHostel)
		adm.PUT("/hostels/:id", handler.UpdateHostel)
		adm.DELETE("/hostels/:id", handler.DeleteHostel)
		adm.GET("/users", handler.FindUser)

		scoped := adm.Group("", mw.HostelScope(), caching)

		scoped.GET("/rooms", handler.ListRooms)
		scoped.POST("/rooms", handler.CreateRoom)
		scoped.GET("/rooms/:id", handler.GetRoom)
		scoped.PUT("/rooms/:id", handler.UpdateRoom)
		scoped.DELETE("/rooms/:id", handler.DeleteRoom)
		scoped.GET("/rooms/:id/status", handler.GetRoomStatus)

		scoped.GET("/students", handler.ListStudents)
		scoped.POST("/students", handler.CreateStudent)
		scoped.GET("/students/:id", handler.GetStudent)
		scoped.PUT("/students/:id", handler.UpdateStudent)
		scoped.DELETE("/students/:id", handler.DeleteStudent)

		scoped.POST("/allocations", handler.CreateAllocation)
		scoped.POST("/allocations/:id/deallocate", handler.Deallocate)
		scoped.GET("/allocations/room/:roomId", handler.AllocationsByRoom)
		scoped.GET("/allocations/student/:studentId", handler.AllocationsByStudent)
		scoped.GET("/allocations/history/:studentId", handler.AllocationHistory)
		scoped.GET("/allocations/count", handler.AllocationCount)

		scoped.GET("/fees", handler.ListFees)
		scoped.POST("/fees", handler.CreateFee)
		scoped.PUT("/fees/:id", handler.UpdateFee)
		scoped.DELETE("/fees/:id", handler.DeleteFee)
		scoped.POST("/fees/:id/pay", handler.MarkFeePaid)
		scoped.GET("/fees/:id/receipt", handler.DownloadReceipt)

		scoped.GET("/inventory", handler.ListInventory)
		scoped.POST("/inventory", handler.CreateItem)
		scoped.GET("/inventory/search", handler.SearchInventory)
		scoped.GET("/inventory/low-stock", handler.LowStock)
		scoped.PUT("/inventory/:id", handler.UpdateItem)
		scoped.DELETE("/inventory/:id", handler.DeleteItem)

		scoped.GET("/subscriptions", handler.GetSubscription)
		scoped.PUT("/subscriptions", handler.PutSubscription)
		scoped.DELETE("/subscriptions", handler.DeleteSubscription)
	}

	return r
}
