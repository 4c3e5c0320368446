package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lendme/internal/infra/config"
	"lendme/internal/infra/obs"
)

type UserHTTP interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type ItemHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Get(c *gin.Context)
	ListByOwner(c *gin.Context)
	Search(c *gin.Context)
	AddComment(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Approve(c *gin.Context)
	Get(c *gin.Context)
	ListByBooker(c *gin.Context)
	ListByOwner(c *gin.Context)
}

type RequestHTTP interface {
	Create(c *gin.Context)
	ListOwn(c *gin.Context)
	ListOthers(c *gin.Context)
	Get(c *gin.Context)
}

type Handlers struct {
	User    UserHTTP
	Item    ItemHTTP
	Booking BookingHTTP
	Request RequestHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", sharerHeader},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h.User != nil {
		router.POST("/users", h.User.Create)
		router.GET("/users", h.User.List)
		router.GET("/users/:userId", h.User.Get)
		router.PATCH("/users/:userId", h.User.Update)
		router.DELETE("/users/:userId", h.User.Delete)
	}
	if h.Item != nil {
		router.POST("/items", h.Item.Create)
		router.GET("/items", h.Item.ListByOwner)
		router.GET("/items/search", h.Item.Search)
		router.GET("/items/:itemId", h.Item.Get)
		router.PATCH("/items/:itemId", h.Item.Update)
		router.POST("/items/:itemId/comment", h.Item.AddComment)
	}
	if h.Booking != nil {
		router.POST("/bookings", h.Booking.Create)
		router.GET("/bookings", h.Booking.ListByBooker)
		router.GET("/bookings/owner", h.Booking.ListByOwner)
		router.GET("/bookings/:bookingId", h.Booking.Get)
		router.PATCH("/bookings/:bookingId", h.Booking.Approve)
	}
	if h.Request != nil {
		router.POST("/requests", h.Request.Create)
		router.GET("/requests", h.Request.ListOwn)
		router.GET("/requests/all", h.Request.ListOthers)
		router.GET("/requests/:requestId", h.Request.Get)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
