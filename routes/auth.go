package routes

import (
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/auth"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine, h *auth.Handler) {
	r.POST("/register", h.CreateUser)
	r.POST("/login", h.Login)
}
