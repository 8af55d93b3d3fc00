package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"thriftee/internal/infra/config"
	"thriftee/internal/infra/obs"
)

type ItemHTTP interface {
	Browse(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Delete(c *gin.Context)
	MarkSold(c *gin.Context)
	UploadPhoto(c *gin.Context)
	StartChat(c *gin.Context)
}

type RequestHTTP interface {
	Browse(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Delete(c *gin.Context)
	StartChat(c *gin.Context)
}

type ChatHTTP interface {
	ListRooms(c *gin.Context)
	Messages(c *gin.Context)
	Send(c *gin.Context)
	Feed(c *gin.Context)
}

type MeHTTP interface {
	UpdateProfile(c *gin.Context)
	UploadAvatar(c *gin.Context)
	MyItems(c *gin.Context)
	MyRequests(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Item           ItemHTTP
	Request        RequestHTTP
	Chat           ChatHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
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
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
		api.POST("/auth/otp/send", h.Auth.SendOTP)
		api.POST("/auth/otp/verify", h.Auth.VerifyOTP)
	}
	if h.Item != nil {
		api.GET("/items", h.Item.Browse)
		api.POST("/items", h.Item.Create)
		api.GET("/items/:id", h.Item.Get)
		api.DELETE("/items/:id", h.Item.Delete)
		api.POST("/items/:id/sold", h.Item.MarkSold)
		api.POST("/items/:id/photos", h.Item.UploadPhoto)
		api.POST("/items/:id/chat", h.Item.StartChat)
	}
	if h.Request != nil {
		api.GET("/requests", h.Request.Browse)
		api.POST("/requests", h.Request.Create)
		api.GET("/requests/:id", h.Request.Get)
		api.DELETE("/requests/:id", h.Request.Delete)
		api.POST("/requests/:id/chat", h.Request.StartChat)
	}
	if h.Chat != nil {
		api.GET("/chats", h.Chat.ListRooms)
		api.GET("/chats/:id/messages", h.Chat.Messages)
		api.POST("/chats/:id/messages", h.Chat.Send)
		api.GET("/chats/:id/ws", h.Chat.Feed)
	}
	if h.Me != nil {
		meGroup := api.Group("/me")
		meGroup.PUT("", h.Me.UpdateProfile)
		meGroup.POST("/avatar", h.Me.UploadAvatar)
		meGroup.GET("/items", h.Me.MyItems)
		meGroup.GET("/requests", h.Me.MyRequests)
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

var (
	_ ItemHTTP    = ItemHandler{}
	_ RequestHTTP = RequestHandler{}
	_ ChatHTTP    = (*ChatHandler)(nil)
	_ MeHTTP      = MeHandler{}
)
