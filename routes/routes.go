package routes

import (
	"strings"
	"time"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/auth"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/ping"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/privateMessages"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/users"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/middleware"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Deps struct {
	JWTSecret       string
	Ping            *ping.Handler
	Auth            *auth.Handler
	Users           *users.Handler
	PrivateMessages *privateMessages.Handler

	// UploadDir is served under UploadURLPrefix when media is stored locally.
	UploadDir       string
	UploadURLPrefix string
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(utils.LogWriter()), gin.Recovery(), middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ping", deps.Ping.HandlePing)
	if deps.UploadDir != "" {
		r.Static(strings.TrimSuffix(deps.UploadURLPrefix, "/"), deps.UploadDir)
	}

	AuthRoutes(r, deps.Auth)
	UsersRoutes(r, deps.Users, deps.JWTSecret)
	PrivateMessagesRoutes(r, deps.PrivateMessages, deps.JWTSecret)

	return r
}
