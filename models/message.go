package models

import (
	"time"
)

// Message represents a direct message between two users.
// When the body is encrypted, Content is empty and the envelope fields are set.
type Message struct {
	ID             uint  `json:"id" gorm:"primarykey"`
	ConversationID uint  `json:"conversationId" gorm:"column:conversation_id;not null;index"`
	SenderID       uint  `json:"senderId" gorm:"column:sender_id;not null;index"`
	ReceiverID     uint  `json:"receiverId" gorm:"column:receiver_id;not null;index"`
	ReplyToID      *uint `json:"replyToId,omitempty" gorm:"column:reply_to_id;index"`

	Content          string `json:"-" gorm:"column:content;type:text"`
	EncryptedContent string `json:"-" gorm:"column:encrypted_content;type:text"`
	IV               string `json:"-" gorm:"column:iv;size:32"`
	Algorithm        string `json:"-" gorm:"column:algorithm;size:32"`
	HMAC             string `json:"-" gorm:"column:hmac;size:64"`

	MediaURL    string `json:"mediaUrl,omitempty" gorm:"column:media_url;size:1024"`
	MediaType   string `json:"mediaType,omitempty" gorm:"column:media_type;size:64"`
	MediaPurged bool   `json:"-" gorm:"column:media_purged;not null;default:false"`

	IsRead   bool       `json:"isRead" gorm:"column:is_read;not null;default:false"`
	ReadAt   *time.Time `json:"readAt,omitempty" gorm:"column:read_at"`
	IsEdited bool       `json:"isEdited" gorm:"column:is_edited;not null;default:false"`
	EditedAt *time.Time `json:"editedAt,omitempty" gorm:"column:edited_at"`

	DeletedForSender   bool `json:"-" gorm:"column:deleted_for_sender;not null;default:false"`
	DeletedForReceiver bool `json:"-" gorm:"column:deleted_for_receiver;not null;default:false"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Message) TableName() string {
	return "messages"
}

func (m Message) IsEncrypted() bool {
	return m.EncryptedContent != ""
}

func (m Message) HasMedia() bool {
	return m.MediaURL != ""
}

func (m Message) DeletedForBoth() bool {
	return m.DeletedForSender && m.DeletedForReceiver
}

// VisibleTo reports whether userID can still see the message.
func (m Message) VisibleTo(userID uint) bool {
	switch userID {
	case m.SenderID:
		return !m.DeletedForSender
	case m.ReceiverID:
		return !m.DeletedForReceiver
	}
	return false
}

// PrivateMessageCreate model for creating a private message
// @Description model for creating a private message
type PrivateMessageCreate struct {
	ReceiverID uint   `json:"receiverId" binding:"required"`
	Content    string `json:"content"`
	MediaURL   string `json:"mediaUrl"`
	MediaType  string `json:"mediaType"`
	ReplyToID  *uint  `json:"replyToId"`
}

// PrivateMessageUpdate model for editing a private message
// @Description model for editing a private message
type PrivateMessageUpdate struct {
	Content string `json:"content" binding:"required"`
}

// MarkReadRequest model for acknowledging messages
// @Description ids of the messages to mark as read
type MarkReadRequest struct {
	MessageIDs []uint `json:"messageIds" binding:"required"`
}

// MessageResponse is a message as shown to one of its participants,
// with the body already decrypted.
type MessageResponse struct {
	ID             uint       `json:"id"`
	ConversationID uint       `json:"conversationId"`
	SenderID       uint       `json:"senderId"`
	ReceiverID     uint       `json:"receiverId"`
	ReplyToID      *uint      `json:"replyToId,omitempty"`
	Content        string     `json:"content"`
	MediaURL       string     `json:"mediaUrl,omitempty"`
	MediaType      string     `json:"mediaType,omitempty"`
	IsEncrypted    bool       `json:"isEncrypted"`
	IsRead         bool       `json:"isRead"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	IsEdited       bool       `json:"isEdited"`
	EditedAt       *time.Time `json:"editedAt,omitempty"`
	IsCurrentUser  bool       `json:"isCurrentUser"`
	SentAt         time.Time  `json:"sentAt"`
	DeliveredAt    time.Time  `json:"deliveredAt"`
}

// ToResponse builds the view of m for viewerID using an already decrypted body.
func (m Message) ToResponse(viewerID uint, content string) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		ReplyToID:      m.ReplyToID,
		Content:        content,
		MediaURL:       m.MediaURL,
		MediaType:      m.MediaType,
		IsEncrypted:    m.IsEncrypted(),
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		IsEdited:       m.IsEdited,
		EditedAt:       m.EditedAt,
		IsCurrentUser:  m.SenderID == viewerID,
		SentAt:         m.CreatedAt,
		DeliveredAt:    m.CreatedAt,
	}
}
