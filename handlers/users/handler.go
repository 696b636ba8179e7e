package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserStore interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	SetMessageEnable(ctx context.Context, id uint, enable bool) (bool, error)
}

type Handler struct {
	users UserStore
}

func New(users UserStore) *Handler {
	return &Handler{users: users}
}

func currentUserID(c *gin.Context) (uint, bool) {
	v, _ := c.Get("user_id")
	id, ok := v.(uint)
	if !ok || id == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return id, true
}

// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]interface{} "error: Unauthorized"
// @Failure 404 {object} map[string]interface{} "error: User not found"
// @Router /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		utils.LogErrorWithUser(userID, err, "Error while loading profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while loading profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Enable or disable private messages
// @Description When disabled, other users cannot send private messages to the caller
// @Tags users
// @Accept json
// @Produce json
// @Param settings body models.MessagingSettings true "Messaging settings"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "messageEnable: new value"
// @Failure 400 {object} map[string]interface{} "error: Invalid input"
// @Failure 404 {object} map[string]interface{} "error: User not found"
// @Router /users/me/messaging [put]
func (h *Handler) UpdateMessaging(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.MessagingSettings
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid input: " + err.Error(),
		})
		return
	}

	updated, err := h.users.SetMessageEnable(c.Request.Context(), userID, *input.MessageEnable)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error while updating messaging settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while updating messaging settings"})
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	utils.LogSuccessWithUser(userID, "Messaging settings updated")
	c.JSON(http.StatusOK, gin.H{"messageEnable": *input.MessageEnable})
}
