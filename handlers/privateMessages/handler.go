package privateMessages

import (
	"context"
	"net/http"
	"strconv"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/apperrors"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/services/messaging"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/utils"

	"github.com/gin-gonic/gin"
)

type Service interface {
	SendMessage(ctx context.Context, in messaging.SendInput) (*models.MessageResponse, error)
	ListConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error)
	ResolveConversation(ctx context.Context, userID, otherID uint) (*models.Conversation, error)
	ListConversation(ctx context.Context, userID, otherID uint) ([]models.MessageResponse, error)
	MarkConversationRead(ctx context.Context, userID, otherID uint) (int64, error)
	UnreadTotal(ctx context.Context, userID uint) (int64, error)
	GetMessage(ctx context.Context, userID, messageID uint) (*models.MessageResponse, error)
	EditMessage(ctx context.Context, userID, messageID uint, content string) (*models.MessageResponse, error)
	DeleteMessage(ctx context.Context, userID, messageID uint, scope messaging.DeleteScope) error
	MarkRead(ctx context.Context, userID uint, ids []uint) (int64, error)
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

func currentUser(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.SendAppError(c, apperrors.InvalidArg("invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// @Summary Send a private message
// @Description Send a private message from the authenticated user to another user
// @Tags private-messages
// @Accept json
// @Produce json
// @Param message body models.PrivateMessageCreate true "Message information"
// @Security BearerAuth
// @Success 201 {object} models.MessageResponse "Created message"
// @Failure 400 {object} map[string]string "error: Invalid request data"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Receiver has disabled private messages"
// @Failure 404 {object} map[string]string "error: Receiver not found"
// @Failure 409 {object} map[string]string "error: Invalid reply target"
// @Failure 500 {object} map[string]string "error: Internal server error"
// @Router /private-messages [post]
func (h *Handler) CreatePrivateMessage(c *gin.Context) {
	senderID, ok := currentUser(c)
	if !ok {
		return
	}

	var input models.PrivateMessageCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	msg, err := h.svc.SendMessage(c.Request.Context(), messaging.SendInput{
		SenderID:   senderID,
		ReceiverID: input.ReceiverID,
		Content:    input.Content,
		MediaURL:   input.MediaURL,
		MediaType:  input.MediaType,
		ReplyToID:  input.ReplyToID,
	})
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// @Summary List conversations
// @Description Inbox of the authenticated user, most recently active first
// @Tags private-messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ConversationSummary
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Internal server error"
// @Router /private-messages/conversations [get]
func (h *Handler) GetConversations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	summaries, err := h.svc.ListConversations(c.Request.Context(), userID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// @Summary Resolve a conversation
// @Description Return the conversation with another user, creating it if needed
// @Tags private-messages
// @Produce json
// @Param userId path int true "Other user ID"
// @Security BearerAuth
// @Success 200 {object} models.Conversation
// @Failure 400 {object} map[string]string "error: Invalid user id"
// @Failure 404 {object} map[string]string "error: User not found"
// @Router /private-messages/conversations/{userId} [post]
func (h *Handler) ResolveConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	conv, err := h.svc.ResolveConversation(c.Request.Context(), userID, otherID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// @Summary Get a conversation
// @Description Messages exchanged with another user, oldest first
// @Tags private-messages
// @Produce json
// @Param userId path int true "Other user ID"
// @Security BearerAuth
// @Success 200 {array} models.MessageResponse
// @Failure 400 {object} map[string]string "error: Invalid user id"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /private-messages/conversations/{userId} [get]
func (h *Handler) GetConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	msgs, err := h.svc.ListConversation(c.Request.Context(), userID, otherID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// @Summary Mark a conversation as read
// @Tags private-messages
// @Produce json
// @Param userId path int true "Other user ID"
// @Security BearerAuth
// @Success 200 {object} map[string]int64 "updated: number of messages marked"
// @Router /private-messages/conversations/{userId}/read [post]
func (h *Handler) MarkConversationRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	n, err := h.svc.MarkConversationRead(c.Request.Context(), userID, otherID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// @Summary Unread message count
// @Tags private-messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64 "count: unread messages"
// @Router /private-messages/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	n, err := h.svc.UnreadTotal(c.Request.Context(), userID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// @Summary Get a private message
// @Tags private-messages
// @Produce json
// @Param id path int true "Message ID"
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} map[string]string "error: Message not found"
// @Failure 422 {object} map[string]string "error: Message could not be decrypted"
// @Router /private-messages/{id} [get]
func (h *Handler) GetPrivateMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	msg, err := h.svc.GetMessage(c.Request.Context(), userID, id)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// @Summary Edit a private message
// @Description Only the sender can edit, within the edit window
// @Tags private-messages
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Param message body models.PrivateMessageUpdate true "New content"
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} map[string]string "error: Only the sender can modify this message"
// @Failure 404 {object} map[string]string "error: Message not found"
// @Failure 409 {object} map[string]string "error: Edit window expired"
// @Router /private-messages/{id} [put]
func (h *Handler) UpdatePrivateMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.PrivateMessageUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	msg, err := h.svc.EditMessage(c.Request.Context(), userID, id, input.Content)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// @Summary Delete a private message
// @Description scope=self hides the message for the caller, scope=everyone removes it for both (sender only)
// @Tags private-messages
// @Produce json
// @Param id path int true "Message ID"
// @Param scope query string false "self or everyone" default(self)
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Message deleted"
// @Failure 400 {object} map[string]string "error: Invalid scope"
// @Failure 403 {object} map[string]string "error: Forbidden"
// @Failure 404 {object} map[string]string "error: Message not found"
// @Router /private-messages/{id} [delete]
func (h *Handler) DeletePrivateMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	scope, err := messaging.ParseDeleteScope(c.Query("scope"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	if err := h.svc.DeleteMessage(c.Request.Context(), userID, id, scope); err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

// @Summary Mark messages as read
// @Tags private-messages
// @Accept json
// @Produce json
// @Param ids body models.MarkReadRequest true "Message IDs"
// @Security BearerAuth
// @Success 200 {object} map[string]int64 "updated: number of messages marked"
// @Failure 400 {object} map[string]string "error: Invalid request data"
// @Router /private-messages/read [post]
func (h *Handler) MarkAsRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input models.MarkReadRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	n, err := h.svc.MarkRead(c.Request.Context(), userID, input.MessageIDs)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
