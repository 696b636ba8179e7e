package routes

import (
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/handlers/privateMessages"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func PrivateMessagesRoutes(r *gin.Engine, h *privateMessages.Handler, jwtSecret string) {
	privateMessagesGroup := r.Group("/private-messages")
	privateMessagesGroup.Use(middleware.JWTAuth(jwtSecret))
	{
		privateMessagesGroup.POST("", h.CreatePrivateMessage)
		privateMessagesGroup.POST("/read", h.MarkAsRead)
		privateMessagesGroup.GET("/unread-count", h.GetUnreadCount)

		privateMessagesGroup.GET("/conversations", h.GetConversations)
		privateMessagesGroup.POST("/conversations/:userId", h.ResolveConversation)
		privateMessagesGroup.GET("/conversations/:userId", h.GetConversation)
		privateMessagesGroup.POST("/conversations/:userId/read", h.MarkConversationRead)

		privateMessagesGroup.GET("/:id", h.GetPrivateMessage)
		privateMessagesGroup.PUT("/:id", h.UpdatePrivateMessage)
		privateMessagesGroup.DELETE("/:id", h.DeletePrivateMessage)
	}
}
