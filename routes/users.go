package routes

import (
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/users"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func UsersRoutes(r *gin.Engine, h *users.Handler, jwtSecret string) {
	usersGroup := r.Group("/users")
	usersGroup.Use(middleware.JWTAuth(jwtSecret))
	{
		usersGroup.GET("/me", h.GetMe)
		usersGroup.PUT("/me/messaging", h.UpdateMessaging)
	}
}
